package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ffstats/internal/config"
	"ffstats/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	input      string
}

// setupCLITestEnv writes a config pointing at stub ffmpeg/ffprobe binaries.
func setupCLITestEnv(t *testing.T, stub testsupport.FFmpegStub) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	binDir := filepath.Join(base, "bin")
	input := filepath.Join(base, "media", "in.mkv")
	testsupport.WriteFile(t, input, 2048)

	probe := testsupport.WriteFFprobeStub(t, binDir, testsupport.ProbeReport(input, "10.000000", "3000000"), "")
	ffmpegPath := testsupport.WriteFFmpegStub(t, binDir, stub)
	cfg := testsupport.NewConfig(t, testsupport.WithFFmpeg(ffmpegPath), testsupport.WithFFprobe(probe))
	cfg.Logging.Level = "error"

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base, input: input}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
log_dir = %q
state_dir = %q

[ffmpeg]
binary = %q
ffprobe_binary = %q
stats_period = %g
kill_grace_seconds = %d

[logging]
format = "json"
level = %q

[history]
enabled = %t
path = %q
`,
		cfg.Paths.LogDir,
		cfg.Paths.StateDir,
		cfg.FFmpeg.Binary,
		cfg.FFmpeg.FFprobeBinary,
		cfg.FFmpeg.StatsPeriod,
		cfg.FFmpeg.KillGraceSeconds,
		cfg.Logging.Level,
		cfg.History.Enabled,
		cfg.History.Path,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
