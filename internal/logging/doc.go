// Package logging assembles the structured slog loggers used by ffstats.
//
// Console output (pretty or JSON) goes to stderr and a JSON copy of every
// record is appended to <log_dir>/ffstats.log. Context helpers tag lines with
// the session id, stage and input path stamped by the services package, and
// ProgressSampler keeps per-epoch progress from flooding the log.
package logging
