package ffprobe_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"ffstats/internal/media/ffprobe"
	"ffstats/internal/services"
	"ffstats/internal/testsupport"
)

func TestImportConvertsFormat(t *testing.T) {
	result := ffprobe.Result{
		Streams: []ffprobe.Stream{{CodecType: "video"}, {CodecType: "audio"}, {CodecType: "AUDIO"}},
		Format: ffprobe.FormatReport{
			Filename:       "/media/in.mkv",
			NBStreams:      3,
			NBPrograms:     0,
			FormatName:     "matroska,webm",
			FormatLongName: "Matroska / WebM",
			StartTime:      "-0.007000",
			Duration:       "5400.123456",
			Size:           "4294967296",
			BitRate:        "6361913",
			ProbeScore:     100,
			Tags:           map[string]string{"title": "Feature", "encoder": "libebml v1.4.2"},
		},
	}

	got, err := result.Import()
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	want := ffprobe.Format{
		Filename:       "/media/in.mkv",
		NBStreams:      3,
		FormatName:     "matroska,webm",
		FormatLongName: "Matroska / WebM",
		StartTime:      -7 * time.Millisecond,
		Duration:       5400*time.Second + 123456*time.Microsecond,
		Size:           4294967296,
		BitRate:        6361913,
		ProbeScore:     100,
		Tags:           map[string]string{"title": "Feature", "encoder": "libebml v1.4.2"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Import = %+v, want %+v", got, want)
	}
	if result.VideoStreamCount() != 1 || result.AudioStreamCount() != 2 {
		t.Fatalf("unexpected stream counts %d/%d", result.VideoStreamCount(), result.AudioStreamCount())
	}

	result.Format.Tags["title"] = "changed"
	if got.Tags["title"] != "Feature" {
		t.Fatal("Import should copy the tag map")
	}
}

func TestImportAbsentFieldsAreZero(t *testing.T) {
	got, err := ffprobe.Result{Format: ffprobe.FormatReport{Filename: "pipe:", Duration: "N/A"}}.Import()
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if got.Duration != 0 || got.BitRate != 0 || got.Size != 0 {
		t.Fatalf("expected zero values, got %+v", got)
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Fatalf("tags should default to an empty map, got %#v", got.Tags)
	}
}

func TestImportRejectsMalformedNumbers(t *testing.T) {
	tests := []struct {
		name   string
		report ffprobe.FormatReport
	}{
		{"duration", ffprobe.FormatReport{Duration: "long"}},
		{"start_time", ffprobe.FormatReport{StartTime: "0:00"}},
		{"size", ffprobe.FormatReport{Size: "-1"}},
		{"bit_rate", ffprobe.FormatReport{BitRate: "1.5e6"}},
		{"probe_score", ffprobe.FormatReport{ProbeScore: 300}},
		{"nb_streams", ffprobe.FormatReport{NBStreams: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ffprobe.Result{Format: tt.report}.Import()
			if !errors.Is(err, services.ErrProbe) {
				t.Fatalf("expected ErrProbe, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.name) {
				t.Fatalf("error should name the field: %v", err)
			}
		})
	}
}

func TestProbeRunsBinary(t *testing.T) {
	dir := t.TempDir()
	binary := testsupport.WriteFFprobeStub(t, dir, testsupport.ProbeReport("/media/in.mkv", "120.500000", "800000"), "")

	format, err := ffprobe.Probe(context.Background(), binary, "/media/in.mkv")
	if err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if format.Duration != 120*time.Second+500*time.Millisecond {
		t.Fatalf("Duration = %v", format.Duration)
	}
	if format.BitRate != 800000 || format.ProbeScore != 100 || format.NBStreams != 1 {
		t.Fatalf("unexpected format %+v", format)
	}
	if format.Tags["encoder"] != "libebml v1.4.2" {
		t.Fatalf("unexpected tags %v", format.Tags)
	}
}

func TestInspectFailureCarriesStderr(t *testing.T) {
	binary := testsupport.WriteFFprobeStub(t, t.TempDir(), "", "missing.mkv: No such file or directory")

	_, err := ffprobe.Inspect(context.Background(), binary, "missing.mkv")
	if !errors.Is(err, services.ErrProbe) {
		t.Fatalf("expected ErrProbe, got %v", err)
	}
	if !strings.Contains(err.Error(), "No such file or directory") {
		t.Fatalf("error should carry stderr: %v", err)
	}
}

func TestInspectRejectsInvalidJSON(t *testing.T) {
	binary := testsupport.WriteFFprobeStub(t, t.TempDir(), "{not json", "")
	if _, err := ffprobe.Inspect(context.Background(), binary, "in.mkv"); !errors.Is(err, services.ErrProbe) {
		t.Fatalf("expected ErrProbe, got %v", err)
	}
}

func TestInspectEmptyPath(t *testing.T) {
	if _, err := ffprobe.Inspect(context.Background(), "ffprobe", "  "); !errors.Is(err, services.ErrProbe) {
		t.Fatalf("expected ErrProbe, got %v", err)
	}
}
