// Package monitor drives one observed encode from probe to snapshot.
//
// Monitor.Run probes the input, launches ffmpeg with progress reporting,
// records every epoch into a stats.Session, feeds the rolling fps/speed/bitrate
// views, and hands each update to an Observer as a Tick. Runs are tagged with
// a session id and, when a runlog.Store is attached, recorded in the run
// history. Failures still return the history collected so far.
package monitor
