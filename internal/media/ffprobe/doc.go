// Package ffprobe runs ffprobe and turns its JSON report into import metadata.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and the raw format report
//   - Format: typed container metadata (durations, sizes, bit rate, tags)
//
// Inspect executes ffprobe; Result.Import converts the string-encoded numbers
// in the format report. Probe does both.
package ffprobe
