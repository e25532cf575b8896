// Package config loads, normalizes, and validates ffstats configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the FFSTATS_FFMPEG and
// FFSTATS_FFPROBE environment fallbacks. Load reports parse failures as
// services.ErrConfiguration and rejected values as services.ErrValidation.
package config
