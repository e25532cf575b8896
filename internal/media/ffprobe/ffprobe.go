package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"ffstats/internal/services"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream     `json:"streams"`
	Format  FormatReport `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

// FormatReport is the "format" object exactly as ffprobe prints it. Numeric
// values arrive as strings.
type FormatReport struct {
	Filename       string            `json:"filename"`
	NBStreams      int               `json:"nb_streams"`
	NBPrograms     int               `json:"nb_programs"`
	FormatName     string            `json:"format_name"`
	FormatLongName string            `json:"format_long_name"`
	StartTime      string            `json:"start_time"`
	Duration       string            `json:"duration"`
	Size           string            `json:"size"`
	BitRate        string            `json:"bit_rate"`
	ProbeScore     int               `json:"probe_score"`
	Tags           map[string]string `json:"tags"`
}

// Format is the typed import metadata of an input file. It is captured once
// before encoding starts and not modified afterwards.
type Format struct {
	Filename       string
	NBStreams      uint32
	NBPrograms     uint32
	FormatName     string
	FormatLongName string // empty when ffprobe does not report one
	StartTime      time.Duration
	Duration       time.Duration
	Size           uint64
	BitRate        uint64 // bits per second
	ProbeScore     uint8
	Tags           map[string]string
}

// Inspect executes ffprobe against the provided path and decodes the JSON
// response. A non-zero exit returns an error wrapping services.ErrProbe that
// carries ffprobe's stderr.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" {
		return Result{}, services.Wrap(services.ErrProbe, "ffprobe", "inspect", "empty path", nil)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, //nolint:gosec
		"-hide_banner",
		"-print_format", "json=compact=1",
		"-show_streams",
		"-show_format",
		"-i", path,
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Result{}, services.Wrap(services.ErrLaunch, "ffprobe", "start", binary, err)
		}
		return Result{}, services.Wrap(services.ErrProbe, "ffprobe", "inspect", strings.TrimSpace(stderr.String()), err)
	}

	var result Result
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return Result{}, services.Wrap(services.ErrProbe, "ffprobe", "parse", "decode json", err)
	}
	return result, nil
}

// Probe runs Inspect and converts the format report to import metadata.
func Probe(ctx context.Context, binary string, path string) (Format, error) {
	result, err := Inspect(ctx, binary, path)
	if err != nil {
		return Format{}, err
	}
	return result.Import()
}

// Import converts the raw format report into typed metadata. Absent numeric
// fields become zero; malformed ones are an error wrapping services.ErrProbe.
func (r Result) Import() (Format, error) {
	raw := r.Format
	f := Format{
		Filename:       raw.Filename,
		FormatName:     raw.FormatName,
		FormatLongName: raw.FormatLongName,
		Tags:           make(map[string]string, len(raw.Tags)),
	}
	for k, v := range raw.Tags {
		f.Tags[k] = v
	}

	var err error
	if f.NBStreams, err = toUint32("nb_streams", raw.NBStreams); err != nil {
		return Format{}, err
	}
	if f.NBPrograms, err = toUint32("nb_programs", raw.NBPrograms); err != nil {
		return Format{}, err
	}
	if raw.ProbeScore < 0 || raw.ProbeScore > math.MaxUint8 {
		return Format{}, invalidField("probe_score", strconv.Itoa(raw.ProbeScore), errors.New("out of range"))
	}
	f.ProbeScore = uint8(raw.ProbeScore)

	if f.StartTime, err = parseSeconds("start_time", raw.StartTime); err != nil {
		return Format{}, err
	}
	if f.Duration, err = parseSeconds("duration", raw.Duration); err != nil {
		return Format{}, err
	}
	if f.Size, err = parseCount("size", raw.Size); err != nil {
		return Format{}, err
	}
	if f.BitRate, err = parseCount("bit_rate", raw.BitRate); err != nil {
		return Format{}, err
	}
	return f, nil
}

// VideoStreamCount returns the number of video streams discovered.
func (r Result) VideoStreamCount() int {
	return r.countStreams("video")
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	return r.countStreams("audio")
}

func (r Result) countStreams(kind string) int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, kind) {
			count++
		}
	}
	return count
}

func absent(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || value == "N/A"
}

func parseSeconds(field, value string) (time.Duration, error) {
	if absent(value) {
		return 0, nil
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, invalidField(field, value, err)
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || math.Abs(seconds) > math.MaxInt64/float64(time.Second) {
		return 0, invalidField(field, value, errors.New("out of range"))
	}
	return time.Duration(math.Round(seconds * float64(time.Second))), nil
}

func parseCount(field, value string) (uint64, error) {
	if absent(value) {
		return 0, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, invalidField(field, value, err)
	}
	return n, nil
}

func toUint32(field string, value int) (uint32, error) {
	if value < 0 || value > math.MaxUint32 {
		return 0, invalidField(field, strconv.Itoa(value), errors.New("out of range"))
	}
	return uint32(value), nil
}

func invalidField(field, value string, err error) error {
	return services.Wrap(services.ErrProbe, "ffprobe", "import", fmt.Sprintf("%s=%q", field, value), err)
}
