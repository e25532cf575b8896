package ffmpeg

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"ffstats/internal/services"
)

// Progress is one epoch of ffmpeg's -progress output. Fields that were not
// reported in the epoch keep their zero value.
type Progress struct {
	Frame      uint64
	FPS        float64
	Bitrate    uint64 // bits per second
	TotalSize  uint64 // bytes
	OutTimeUS  uint64
	OutTimeMS  uint64
	OutTime    time.Duration
	DupFrames  uint64
	DropFrames uint64
	Speed      float64
}

// notAvailable is what ffmpeg prints for values it cannot compute yet
// (bitrate and speed before the first packet is muxed, for example).
const notAvailable = "N/A"

const maxLineBytes = 1 << 20

// Decoder splits a -progress key=value stream into Progress records. It is a
// pull iterator: each Next call blocks until one epoch is complete.
type Decoder struct {
	scanner *bufio.Scanner
	line    int
	err     error
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
	return &Decoder{scanner: scanner}
}

// Next returns the next complete epoch. At the end of input it returns io.EOF;
// a partially accumulated epoch without its progress= terminator is dropped.
// A malformed value on a recognized key returns an error wrapping
// services.ErrProtocol. Once Next has returned an error every later call
// returns the same error.
func (d *Decoder) Next() (Progress, error) {
	if d.err != nil {
		return Progress{}, d.err
	}

	var record Progress
	for d.scanner.Scan() {
		d.line++
		key, value, ok := strings.Cut(d.scanner.Text(), "=")
		if !ok {
			continue
		}
		done, err := record.set(strings.TrimSpace(key), strings.TrimSpace(value))
		if err != nil {
			d.err = services.Wrap(services.ErrProtocol, "ffmpeg", "parse", fmt.Sprintf("line %d", d.line), err)
			return Progress{}, d.err
		}
		if done {
			return record, nil
		}
	}

	if err := d.scanner.Err(); err != nil {
		d.err = services.Wrap(services.ErrProtocol, "ffmpeg", "read", fmt.Sprintf("after line %d", d.line), err)
		return Progress{}, d.err
	}
	d.err = io.EOF
	return Progress{}, io.EOF
}

// set applies one key=value pair and reports whether it closed the epoch.
func (p *Progress) set(key, value string) (bool, error) {
	var err error
	switch key {
	case "progress":
		return true, nil
	case "frame":
		p.Frame, err = parseUint(key, value)
	case "fps":
		p.FPS, err = parseFloat(key, value)
	case "bitrate":
		p.Bitrate, err = parseBitrate(value)
	case "total_size":
		p.TotalSize, err = parseUint(key, value)
	case "out_time_us":
		p.OutTimeUS, err = parseUint(key, value)
	case "out_time_ms":
		p.OutTimeMS, err = parseUint(key, value)
	case "out_time":
		p.OutTime, err = parseOutTime(value)
	case "dup_frames":
		p.DupFrames, err = parseUint(key, value)
	case "drop_frames":
		p.DropFrames, err = parseUint(key, value)
	case "speed":
		p.Speed, err = parseFloat(key, strings.TrimSpace(strings.TrimSuffix(value, "x")))
	}
	return false, err
}

func parseUint(key, value string) (uint64, error) {
	if value == notAvailable {
		return 0, nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q: %w", key, value, err)
	}
	return n, nil
}

func parseFloat(key, value string) (float64, error) {
	if value == notAvailable {
		return 0, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q: %w", key, value, err)
	}
	return f, nil
}

func parseBitrate(value string) (uint64, error) {
	raw := strings.TrimSpace(strings.TrimSuffix(value, "kbits/s"))
	kbits, err := parseFloat("bitrate", raw)
	if err != nil {
		return 0, err
	}
	if kbits < 0 || math.IsNaN(kbits) || math.IsInf(kbits, 0) {
		return 0, fmt.Errorf("bitrate=%q: out of range", value)
	}
	return uint64(kbits * 1000), nil
}

// parseOutTime decodes HH:MM:SS.ffffff. The fraction is read as microseconds.
func parseOutTime(value string) (time.Duration, error) {
	if value == notAvailable {
		return 0, nil
	}
	hours, rest, ok := strings.Cut(value, ":")
	if !ok {
		return 0, fmt.Errorf("out_time=%q: hours missing", value)
	}
	minutes, rest, ok := strings.Cut(rest, ":")
	if !ok {
		return 0, fmt.Errorf("out_time=%q: minutes missing", value)
	}
	seconds, fraction, _ := strings.Cut(rest, ".")

	var parts [3]uint64
	for i, field := range []string{hours, minutes, seconds} {
		n, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("out_time=%q: %w", value, err)
		}
		parts[i] = n
	}

	var micros uint64
	if fraction != "" {
		if len(fraction) > 6 {
			fraction = fraction[:6]
		}
		n, err := strconv.ParseUint(fraction, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("out_time=%q: %w", value, err)
		}
		for i := len(fraction); i < 6; i++ {
			n *= 10
		}
		micros = n
	}

	total := parts[0]*3600 + parts[1]*60 + parts[2]
	if total > uint64(math.MaxInt64/int64(time.Second)) {
		return 0, fmt.Errorf("out_time=%q: %w", value, errors.New("out of range"))
	}
	return time.Duration(total)*time.Second + time.Duration(micros)*time.Microsecond, nil
}
