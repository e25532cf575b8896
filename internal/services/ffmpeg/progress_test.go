package ffmpeg_test

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"ffstats/internal/services"
	"ffstats/internal/services/ffmpeg"
)

func TestDecoderReferenceEpoch(t *testing.T) {
	input := "frame=10\nfps=24.0\nbitrate=1000kbits/s\nout_time=00:00:01.000000\nprogress=continue\n"
	dec := ffmpeg.NewDecoder(strings.NewReader(input))

	got, err := dec.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	want := ffmpeg.Progress{Frame: 10, FPS: 24.0, Bitrate: 1_000_000, OutTime: time.Second}
	if got != want {
		t.Fatalf("record = %+v, want %+v", got, want)
	}
	if _, err := dec.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF after the only epoch, got %v", err)
	}
}

func TestDecoderFullEpoch(t *testing.T) {
	input := strings.Join([]string{
		"frame=1440",
		"fps=47.93",
		"stream_0_0_q=28.0",
		"bitrate=2511.5kbits/s",
		"total_size=18874416",
		"out_time_us=60125000",
		"out_time_ms=60125000",
		"out_time=00:01:00.125000",
		"dup_frames=2",
		"drop_frames=1",
		"speed=1.99x",
		"progress=end",
		"",
	}, "\n")
	got, err := ffmpeg.NewDecoder(strings.NewReader(input)).Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	want := ffmpeg.Progress{
		Frame:      1440,
		FPS:        47.93,
		Bitrate:    2_511_500,
		TotalSize:  18874416,
		OutTimeUS:  60125000,
		OutTimeMS:  60125000,
		OutTime:    time.Minute + 125*time.Millisecond,
		DupFrames:  2,
		DropFrames: 1,
		Speed:      1.99,
	}
	if got != want {
		t.Fatalf("record = %+v, want %+v", got, want)
	}
}

func TestDecoderSkipsLinesWithoutDelimiter(t *testing.T) {
	input := "frame=5\n\nnot a pair\nfps=30\nprogress=continue\n"
	got, err := ffmpeg.NewDecoder(strings.NewReader(input)).Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if got.Frame != 5 || got.FPS != 30 {
		t.Fatalf("blank line corrupted the epoch: %+v", got)
	}
}

func TestDecoderIgnoresUnknownKeysAndTrims(t *testing.T) {
	input := "  frame = 7 \nstream_1_0_q=-1.0\nfoo=bar=baz\n speed = 0.5x \nprogress=continue\n"
	got, err := ffmpeg.NewDecoder(strings.NewReader(input)).Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if got.Frame != 7 || got.Speed != 0.5 {
		t.Fatalf("unexpected record %+v", got)
	}
}

func TestDecoderFieldsDoNotCarryOver(t *testing.T) {
	input := "frame=1\nfps=10\nprogress=continue\nframe=2\nprogress=continue\n"
	dec := ffmpeg.NewDecoder(strings.NewReader(input))
	first, err := dec.Next()
	if err != nil {
		t.Fatalf("first epoch: %v", err)
	}
	second, err := dec.Next()
	if err != nil {
		t.Fatalf("second epoch: %v", err)
	}
	if first.FPS != 10 {
		t.Fatalf("first fps = %v", first.FPS)
	}
	if second.Frame != 2 || second.FPS != 0 {
		t.Fatalf("second epoch should start from zero, got %+v", second)
	}
}

func TestDecoderDropsTrailingPartialEpoch(t *testing.T) {
	dec := ffmpeg.NewDecoder(strings.NewReader("frame=1\nprogress=continue\nframe=2\nfps=3\n"))
	if _, err := dec.Next(); err != nil {
		t.Fatalf("first epoch: %v", err)
	}
	if _, err := dec.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF for unterminated epoch, got %v", err)
	}
}

func TestDecoderNotAvailableValues(t *testing.T) {
	input := "frame=0\nbitrate=N/A\ntotal_size=N/A\nout_time_us=N/A\nout_time_ms=N/A\nout_time=N/A\nspeed=N/A\nprogress=continue\n"
	got, err := ffmpeg.NewDecoder(strings.NewReader(input)).Next()
	if err != nil {
		t.Fatalf("N/A should not be a protocol error: %v", err)
	}
	if got != (ffmpeg.Progress{}) {
		t.Fatalf("expected zero record, got %+v", got)
	}
}

func TestDecoderMalformedValuesFail(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"fps", "fps=not_a_number"},
		{"frame negative", "frame=-1"},
		{"frame float", "frame=1.5"},
		{"bitrate", "bitrate=fast kbits/s"},
		{"bitrate negative", "bitrate=-5kbits/s"},
		{"speed", "speed=slowx"},
		{"out_time missing minutes", "out_time=12"},
		{"out_time bad seconds", "out_time=00:00:xx.000000"},
		{"out_time bad fraction", "out_time=00:00:01.abc"},
		{"total_size", "total_size=12MB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "frame=1\n" + tt.line + "\nprogress=continue\nframe=2\nprogress=continue\n"
			dec := ffmpeg.NewDecoder(strings.NewReader(input))
			_, err := dec.Next()
			if !errors.Is(err, services.ErrProtocol) {
				t.Fatalf("expected ErrProtocol, got %v", err)
			}
			if _, again := dec.Next(); !errors.Is(again, services.ErrProtocol) {
				t.Fatalf("decoder should stay failed, got %v", again)
			}
		})
	}
}

func TestDecoderOutTime(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"00:00:00.000000", 0},
		{"01:02:03.000004", time.Hour + 2*time.Minute + 3*time.Second + 4*time.Microsecond},
		{"00:00:01.5", 1500 * time.Millisecond},
		{"00:00:02", 2 * time.Second},
		{"27:00:00.000000", 27 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ffmpeg.NewDecoder(strings.NewReader("out_time=" + tt.value + "\nprogress=continue\n")).Next()
			if err != nil {
				t.Fatalf("Next returned error: %v", err)
			}
			if got.OutTime != tt.want {
				t.Fatalf("OutTime = %v, want %v", got.OutTime, tt.want)
			}
		})
	}
}

func TestDecoderBitrateWithoutSuffix(t *testing.T) {
	got, err := ffmpeg.NewDecoder(strings.NewReader("bitrate=12.5\nprogress=continue\n")).Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if got.Bitrate != 12_500 {
		t.Fatalf("Bitrate = %d, want 12500", got.Bitrate)
	}
}

func TestDecoderEmptyInput(t *testing.T) {
	if _, err := ffmpeg.NewDecoder(strings.NewReader("")).Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestDecoderOversizedLineIsProtocolError(t *testing.T) {
	input := "frame=1\nfps=" + strings.Repeat("9", 2<<20) + "\nprogress=continue\n"
	dec := ffmpeg.NewDecoder(strings.NewReader(input))

	_, err := dec.Next()
	if !errors.Is(err, services.ErrProtocol) {
		t.Fatalf("expected ErrProtocol, got %v", err)
	}
	if !errors.Is(err, bufio.ErrTooLong) {
		t.Fatalf("expected bufio.ErrTooLong in chain, got %v", err)
	}
	if _, again := dec.Next(); !errors.Is(again, services.ErrProtocol) {
		t.Fatalf("error should be sticky, got %v", again)
	}
}
