package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"ffstats/internal/config"
	"ffstats/internal/logging"
	"ffstats/internal/media/ffprobe"
	"ffstats/internal/rolling"
	"ffstats/internal/runlog"
	"ffstats/internal/services"
	"ffstats/internal/services/ffmpeg"
	"ffstats/internal/stats"
)

// DefaultWindow is the number of sparkline samples carried in each Tick.
const DefaultWindow = 60

const (
	progressLogBucket = 10
	// Without a probed duration, log one progress line per this many epochs.
	progressLogEvery = 50
)

// Monitor runs encodes using the binaries and display settings from config.
type Monitor struct {
	cfg      *config.Config
	logger   *slog.Logger
	observer Observer
	history  *runlog.Store
	now      func() time.Time
	window   int
}

// Option customizes a Monitor.
type Option func(*Monitor)

// WithObserver registers the consumer of live ticks.
func WithObserver(o Observer) Option {
	return func(m *Monitor) { m.observer = o }
}

// WithHistory records each run in store.
func WithHistory(store *runlog.Store) Option {
	return func(m *Monitor) { m.history = store }
}

// WithClock overrides the wall clock used for elapsed times.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		if now != nil {
			m.now = now
		}
	}
}

// WithWindow sets how many sparkline samples each Tick carries.
func WithWindow(width int) Option {
	return func(m *Monitor) {
		if width > 0 {
			m.window = width
		}
	}
}

// New constructs a Monitor.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Monitor {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	m := &Monitor{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "monitor"),
		now:    time.Now,
		window: DefaultWindow,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run probes req.Input, runs ffmpeg and collects its progress until the
// process exits or ctx is cancelled. The returned Result carries the partial
// session on every error path.
func (m *Monitor) Run(ctx context.Context, req Request) (Result, error) {
	result := Result{SessionID: uuid.NewString()}
	input := strings.TrimSpace(req.Input)
	if input == "" {
		result.Outcome = services.OutcomeFailed
		return result, fmt.Errorf("%w: input path is required", services.ErrValidation)
	}

	ctx = services.WithSessionID(ctx, result.SessionID)
	ctx = services.WithInput(ctx, input)
	logger := logging.WithContext(ctx, m.logger)

	run := m.beginRun(ctx, logger, result.SessionID, input)

	err := m.execute(ctx, logger, req, input, &result)
	result.Outcome = services.OutcomeOf(err)
	m.finishRun(ctx, logger, run, &result, err)

	switch result.Outcome {
	case services.OutcomeCompleted:
		logger.Info("monitoring finished",
			logging.String(logging.FieldEventType, "session_complete"),
			logging.Int("epochs", result.Session.Len()),
			logging.Duration("elapsed", result.Session.Last().Elapsed),
			logging.String("snapshot", result.SnapshotPath),
		)
	case services.OutcomeCancelled:
		logger.Info("monitoring cancelled",
			logging.String(logging.FieldEventType, "session_cancelled"),
			logging.Int("epochs", result.Session.Len()),
		)
	default:
		logging.ErrorWithContext(logger, "monitoring failed", "session_failed",
			logging.Int("epochs", result.Session.Len()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hintFor(err)),
		)
	}
	return result, err
}

func (m *Monitor) execute(ctx context.Context, logger *slog.Logger, req Request, input string, result *Result) error {
	probeCtx := services.WithStage(ctx, "probe")
	format, err := ffprobe.Probe(probeCtx, m.cfg.FFprobeBinary(), input)
	if err != nil {
		if ctx.Err() != nil {
			return services.Wrap(services.ErrCancelled, "ffprobe", "inspect", "cancelled", ctx.Err())
		}
		return err
	}
	result.Session.Import = format
	logging.WithContext(probeCtx, logger).Debug("input probed",
		logging.String("format", format.FormatName),
		logging.Duration("duration", format.Duration),
		logging.Uint64("bit_rate", format.BitRate),
	)

	encodeCtx := services.WithStage(ctx, "encode")
	encodeLogger := logging.WithContext(encodeCtx, logger)
	stream, err := ffmpeg.Start(encodeCtx, ffmpeg.Options{
		Binary:      m.cfg.FFmpegBinary(),
		Args:        req.Args,
		Overwrite:   req.Overwrite,
		StatsPeriod: m.cfg.StatsPeriod(),
		LogLevel:    m.cfg.FFmpeg.LogLevel,
		KillGrace:   m.cfg.KillGrace(),
		Logger:      encodeLogger,
	})
	if err != nil {
		return err
	}
	encodeLogger.Info("encode started",
		logging.String(logging.FieldEventType, "encode_start"),
		logging.Int("pid", stream.Pid()),
	)

	views := newViews(m.cfg, float64(format.BitRate))
	sampler := logging.NewProgressSampler(progressLogBucket, progressLogEvery)
	start := m.now()
	var streamErr error
	for progress, err := range stream.Records() {
		if err != nil {
			streamErr = err
			break
		}
		elapsed := m.now().Sub(start)
		result.Session.Append(elapsed, progress)
		views.update(progress)

		tick := views.tick(m.window, result.Session.Len(), elapsed, progress, format.Duration)
		if m.observer != nil {
			m.observer.Observe(tick)
		}
		percent := -1.0
		if format.Duration > 0 {
			percent = tick.Percent()
		}
		if sampler.ShouldLog(percent, result.Session.Len()) {
			encodeLogger.Info("encode progress",
				logging.String(logging.FieldEventType, "encode_progress"),
				logging.Float64("percent", tick.Percent()),
				logging.Uint64("frame", progress.Frame),
				logging.Float64("fps", progress.FPS),
				logging.Float64("speed", progress.Speed),
				logging.Kbits("bitrate_kbits", progress.Bitrate),
			)
		}
	}
	if streamErr != nil {
		return streamErr
	}

	if req.Save {
		path, err := stats.Save(result.Session, input)
		if err != nil {
			return err
		}
		result.SnapshotPath = path
	}
	return nil
}

func (m *Monitor) beginRun(ctx context.Context, logger *slog.Logger, id, input string) bool {
	if m.history == nil {
		return false
	}
	if _, err := m.history.Begin(ctx, runlog.Run{ID: id, Input: input, StartedAt: m.now()}); err != nil {
		logging.WarnWithContext(logger, "run history unavailable", "history_begin_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run will not appear in ffstats history"),
		)
		return false
	}
	return true
}

func (m *Monitor) finishRun(ctx context.Context, logger *slog.Logger, begun bool, result *Result, runErr error) {
	if !begun {
		return
	}
	errText := ""
	if runErr != nil {
		errText = runErr.Error()
	}
	// Record the outcome even when ctx was cancelled.
	finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := m.history.Finish(finishCtx, result.SessionID, result.Outcome, result.Session.Len(), errText, result.SnapshotPath); err != nil {
		logging.WarnWithContext(logger, "failed to record run outcome", "history_finish_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run history shows this run as still running"),
		)
	}
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, services.ErrLaunch):
		return "check ffmpeg.binary / ffmpeg.ffprobe_binary or run ffstats doctor"
	case errors.Is(err, services.ErrProbe):
		return "verify the input path is readable media"
	case errors.Is(err, services.ErrProcessExit):
		return "inspect the ffmpeg stderr included in the error"
	case errors.Is(err, services.ErrProtocol):
		return "ffmpeg progress output was malformed; check the ffmpeg version"
	case errors.Is(err, services.ErrSnapshot):
		return "check that the input directory is writable"
	default:
		return "check logs for details"
	}
}

// completion returns out / total clamped to [0, 1].
func completion(out, total time.Duration) float64 {
	if total <= 0 || out <= 0 {
		return 0
	}
	return math.Min(float64(out)/float64(total), 1)
}

type views struct {
	fps     *rolling.Sparkline
	speed   *rolling.Sparkline
	bitrate *rolling.Chart
}

func newViews(cfg *config.Config, baseline float64) *views {
	return &views{
		fps:     rolling.NewSparkline(cfg.Display.SparklineCapacity, rolling.FPSLabel),
		speed:   rolling.NewSparkline(cfg.Display.SparklineCapacity, rolling.SpeedLabel),
		bitrate: rolling.NewChart(cfg.Display.ChartCapacity, baseline, rolling.BitrateLabel, rolling.KbitsAxis),
	}
}

func (v *views) update(p ffmpeg.Progress) {
	v.fps.Update(p.FPS)
	v.speed.Update(p.Speed)
	v.bitrate.Update(float64(p.Bitrate))
}

func (v *views) tick(window, epoch int, elapsed time.Duration, p ffmpeg.Progress, duration time.Duration) Tick {
	yMin, yMax := v.bitrate.YBounds()
	return Tick{
		Epoch:    epoch,
		Elapsed:  elapsed,
		Progress: p,
		Duration: duration,
		Ratio:    completion(p.OutTime, duration),
		FPS:      sparkView(v.fps, window),
		Speed:    sparkView(v.speed, window),
		Bitrate: ChartView{
			Points:   v.bitrate.Points(),
			Baseline: v.bitrate.Baseline(),
			YMin:     yMin,
			YMax:     yMax,
			XLabels:  v.bitrate.XLabels(),
			YLabels:  v.bitrate.YLabels(),
			Label:    v.bitrate.Label(),
		},
	}
}

func sparkView(s *rolling.Sparkline, window int) SparkView {
	return SparkView{
		Current: s.Current(),
		Max:     s.Max(),
		Window:  s.Window(window),
		Label:   s.Label(),
	}
}
