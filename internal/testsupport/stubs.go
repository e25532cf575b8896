package testsupport

import (
	"fmt"
	"strings"
	"testing"
)

// FFmpegStub describes the behaviour of a fake ffmpeg executable.
type FFmpegStub struct {
	// Progress is written to stdout verbatim.
	Progress string
	// Stderr is written to stderr after the progress output.
	Stderr string
	// ExitCode is the process exit status.
	ExitCode int
	// Hang replaces the shell with a long sleep after writing output, so the
	// process only ends when it is signalled.
	Hang bool
	// ArgsFile, when set, receives one argument per line.
	ArgsFile string
}

// WriteFFmpegStub materialises stub as an executable script under dir.
func WriteFFmpegStub(t testing.TB, dir string, stub FFmpegStub) string {
	t.Helper()

	var body strings.Builder
	if stub.ArgsFile != "" {
		fmt.Fprintf(&body, "printf '%%s\\n' \"$@\" > %s\n", shellQuote(stub.ArgsFile))
	}
	if stub.Progress != "" {
		fmt.Fprintf(&body, "printf '%%s' %s\n", shellQuote(stub.Progress))
	}
	if stub.Stderr != "" {
		fmt.Fprintf(&body, "printf '%%s\\n' %s >&2\n", shellQuote(stub.Stderr))
	}
	if stub.Hang {
		body.WriteString("exec sleep 30\n")
	}
	fmt.Fprintf(&body, "exit %d\n", stub.ExitCode)
	return WriteScript(t, dir, "ffmpeg", body.String())
}

// WriteFFprobeStub writes a fake ffprobe that prints report on stdout, or
// stderr with exit status 1 when report is empty.
func WriteFFprobeStub(t testing.TB, dir, report, stderr string) string {
	t.Helper()

	if report == "" {
		return WriteScript(t, dir, "ffprobe", fmt.Sprintf("printf '%%s\\n' %s >&2\nexit 1\n", shellQuote(stderr)))
	}
	return WriteScript(t, dir, "ffprobe", fmt.Sprintf("printf '%%s' %s\n", shellQuote(report)))
}

// ProbeReport renders a minimal ffprobe JSON document.
func ProbeReport(filename string, durationSeconds string, bitRate string) string {
	return fmt.Sprintf(`{"streams":[{"index":0,"codec_type":"video","codec_name":"h264"}],`+
		`"format":{"filename":%q,"nb_streams":1,"nb_programs":0,"format_name":"matroska,webm",`+
		`"format_long_name":"Matroska / WebM","start_time":"0.000000","duration":%q,"size":"1048576",`+
		`"bit_rate":%q,"probe_score":100,"tags":{"encoder":"libebml v1.4.2"}}}`, filename, durationSeconds, bitRate)
}

// ProgressEpoch renders one -progress epoch.
func ProgressEpoch(frame int, fps float64, kbits float64, outTime string, speed float64, state string) string {
	return fmt.Sprintf("frame=%d\nfps=%.2f\nstream_0_0_q=28.0\nbitrate=%.1fkbits/s\ntotal_size=%d\nout_time_us=0\nout_time_ms=0\nout_time=%s\ndup_frames=0\ndrop_frames=0\nspeed=%.2fx\nprogress=%s\n",
		frame, fps, kbits, frame*1000, outTime, speed, state)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
