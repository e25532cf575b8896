// Package runlog records every monitored encode in a small SQLite database.
//
// A run is inserted by Begin when monitoring starts and completed by Finish
// with its outcome, epoch count, error text and snapshot path. List returns
// the newest runs first for the history command. The database runs in WAL
// mode and write statements retry briefly on SQLITE_BUSY so two monitors can
// share it.
package runlog
