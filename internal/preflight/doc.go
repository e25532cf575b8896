// Package preflight provides readiness checks for the filesystem paths
// ffstats writes to.
//
// The doctor command runs RunAll alongside the binary checks so a broken
// log or state directory is reported before a long encode starts.
package preflight
