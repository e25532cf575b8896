// Package services defines shared utilities consumed by the monitor pipeline
// and the external tool integrations below it.
//
// Key responsibilities:
//   - Context helpers that stamp session IDs, stage names, and the input path
//     for logging.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures with errors.Is (launch, exit, protocol, probe, snapshot).
//   - Outcome mapping used when a run is written to history.
//
// The ffmpeg subpackage owns the transcoder child process and its progress
// stream.
package services
