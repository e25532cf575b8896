// Package logs reads the ffstats JSON log file for the logs command.
//
// Tail returns the last N lines or everything after a byte offset, and can
// wait for new lines in follow mode. Lines can be narrowed to one monitoring
// session by its session_id field. Memory stays bounded by the requested line
// count regardless of file size.
package logs
