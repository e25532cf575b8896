// Package main hosts the ffstats CLI entrypoint and command graph.
//
// The Cobra command tree wraps the internal packages: run monitors a live
// ffmpeg encode, show replays a saved snapshot, history lists past runs, and
// config, doctor and man cover setup. Configuration and logging are resolved
// once per invocation through commandContext.
package main
