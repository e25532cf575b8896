package config

import "path/filepath"

const (
	defaultConfigPath        = "~/.config/ffstats/config.toml"
	projectConfigName        = "ffstats.toml"
	defaultLogDir            = "~/.local/share/ffstats/logs"
	defaultFFmpegBinary      = "ffmpeg"
	defaultFFprobeBinary     = "ffprobe"
	defaultStatsPeriod       = 0.5
	defaultFFmpegLogLevel    = "warning"
	defaultKillGraceSeconds  = 3
	defaultSparklineCapacity = 500
	defaultChartCapacity     = 1000
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	historyFileName          = "history.db"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir(),
		},
		FFmpeg: FFmpeg{
			Binary:           defaultFFmpegBinary,
			FFprobeBinary:    defaultFFprobeBinary,
			StatsPeriod:      defaultStatsPeriod,
			LogLevel:         defaultFFmpegLogLevel,
			KillGraceSeconds: defaultKillGraceSeconds,
		},
		Display: Display{
			SparklineCapacity: defaultSparklineCapacity,
			ChartCapacity:     defaultChartCapacity,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
			Path:    filepath.Join(defaultStateDir(), historyFileName),
		},
	}
}
