package config

import (
	"fmt"
	"math"
	"strings"

	"ffstats/internal/services"
)

var ffmpegLogLevels = map[string]struct{}{
	"quiet": {}, "panic": {}, "fatal": {}, "error": {}, "warning": {},
	"info": {}, "verbose": {}, "debug": {}, "trace": {},
}

var logLevels = map[string]struct{}{
	"debug": {}, "info": {}, "warn": {}, "error": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateDisplay(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateHistory()
}

func (c *Config) validateFFmpeg() error {
	if strings.TrimSpace(c.FFmpeg.Binary) == "" {
		return invalid("ffmpeg.binary must be set")
	}
	if strings.TrimSpace(c.FFmpeg.FFprobeBinary) == "" {
		return invalid("ffmpeg.ffprobe_binary must be set")
	}
	if math.IsNaN(c.FFmpeg.StatsPeriod) || c.FFmpeg.StatsPeriod <= 0 {
		return invalid("ffmpeg.stats_period must be positive (seconds)")
	}
	if _, ok := ffmpegLogLevels[c.FFmpeg.LogLevel]; !ok {
		return invalid("ffmpeg.loglevel %q is not a valid ffmpeg log level", c.FFmpeg.LogLevel)
	}
	if c.FFmpeg.KillGraceSeconds < 0 {
		return invalid("ffmpeg.kill_grace_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateDisplay() error {
	return ensurePositiveMap(map[string]int{
		"display.sparkline_capacity": c.Display.SparklineCapacity,
		"display.chart_capacity":     c.Display.ChartCapacity,
	})
}

func (c *Config) validateLogging() error {
	if _, ok := logLevels[c.Logging.Level]; !ok {
		return invalid("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return invalid("history.path must be set when history.enabled is true")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return invalid("%s must be positive", key)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", services.ErrValidation, fmt.Sprintf(format, args...))
}
