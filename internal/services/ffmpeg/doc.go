// Package ffmpeg runs ffmpeg with -progress pipe:1 and turns its key=value
// progress protocol into Progress records.
//
// Decoder is the protocol parser on its own and works on any io.Reader
// (captured logs, tests). Stream owns the child process: it reads progress
// from stdout, keeps a bounded tail of stderr for diagnostics, and guarantees
// the process is terminated and reaped on every exit path.
package ffmpeg
