package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFFmpeg()
	c.normalizeDisplay()
	c.normalizeLogging()
	return c.normalizeHistory()
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir()
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFFmpeg() {
	c.FFmpeg.Binary = strings.TrimSpace(c.FFmpeg.Binary)
	if value, ok := os.LookupEnv("FFSTATS_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		if c.FFmpeg.Binary == "" || c.FFmpeg.Binary == defaultFFmpegBinary {
			c.FFmpeg.Binary = strings.TrimSpace(value)
		}
	}
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = defaultFFmpegBinary
	}
	c.FFmpeg.FFprobeBinary = strings.TrimSpace(c.FFmpeg.FFprobeBinary)
	if value, ok := os.LookupEnv("FFSTATS_FFPROBE"); ok && strings.TrimSpace(value) != "" {
		if c.FFmpeg.FFprobeBinary == "" || c.FFmpeg.FFprobeBinary == defaultFFprobeBinary {
			c.FFmpeg.FFprobeBinary = strings.TrimSpace(value)
		}
	}
	if c.FFmpeg.FFprobeBinary == "" {
		c.FFmpeg.FFprobeBinary = defaultFFprobeBinary
	}
	c.FFmpeg.LogLevel = strings.ToLower(strings.TrimSpace(c.FFmpeg.LogLevel))
	if c.FFmpeg.LogLevel == "" {
		c.FFmpeg.LogLevel = defaultFFmpegLogLevel
	}
	if c.FFmpeg.StatsPeriod == 0 {
		c.FFmpeg.StatsPeriod = defaultStatsPeriod
	}
}

func (c *Config) normalizeDisplay() {
	if c.Display.SparklineCapacity == 0 {
		c.Display.SparklineCapacity = defaultSparklineCapacity
	}
	if c.Display.ChartCapacity == 0 {
		c.Display.ChartCapacity = defaultChartCapacity
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeHistory() error {
	path := strings.TrimSpace(c.History.Path)
	if path == "" || path == filepath.Join(defaultStateDir(), historyFileName) {
		c.History.Path = filepath.Join(c.Paths.StateDir, historyFileName)
	}
	var err error
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}
