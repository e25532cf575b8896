// Package stats holds the complete record of one encode and persists it.
//
// A Session pairs the input's import metadata with every progress record the
// encoder emitted. Encode and Decode speak the versioned snapshot format (a
// gob stream inside gzip); Save and Load place it next to the input as
// "<input>.stats" under a file lock. Series rebuilds the replay graphs and
// summary numbers from a loaded session.
package stats
