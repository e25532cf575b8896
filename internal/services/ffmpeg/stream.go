package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"ffstats/internal/logging"
	"ffstats/internal/services"
)

const (
	defaultBinary      = "ffmpeg"
	defaultStatsPeriod = 500 * time.Millisecond
	defaultLogLevel    = "warning"
	defaultKillGrace   = 3 * time.Second
)

// Options configures a monitored ffmpeg invocation.
type Options struct {
	Binary string
	// Args are passed through after the progress flags (inputs, filters, outputs).
	Args []string
	// Overwrite selects -y; otherwise -n is passed so existing outputs are kept.
	Overwrite   bool
	StatsPeriod time.Duration
	LogLevel    string
	// KillGrace is how long an abandoned process gets between SIGTERM and SIGKILL.
	KillGrace   time.Duration
	StderrLimit int
	Logger      *slog.Logger
}

// BuildArgs returns the full ffmpeg argument list for opts.
func BuildArgs(opts Options) []string {
	period := opts.StatsPeriod
	if period <= 0 {
		period = defaultStatsPeriod
	}
	level := strings.TrimSpace(opts.LogLevel)
	if level == "" {
		level = defaultLogLevel
	}
	overwrite := "-n"
	if opts.Overwrite {
		overwrite = "-y"
	}

	args := []string{
		"-progress", "pipe:1",
		"-nostats",
		"-nostdin",
		"-hide_banner",
		"-stats_period", strconv.FormatFloat(period.Seconds(), 'f', -1, 64),
		"-loglevel", level,
		overwrite,
	}
	return append(args, opts.Args...)
}

// Stream owns a running ffmpeg process and decodes its progress output.
// A Stream is not safe for concurrent use; cancel the context passed to
// Start to interrupt a blocked Next from another goroutine.
type Stream struct {
	cmd     *exec.Cmd
	ctx     context.Context
	cancel  context.CancelFunc
	decoder *Decoder
	stderr  *tailBuffer
	logger  *slog.Logger
	err     error
	waited  bool
	closed  bool
}

// Start launches ffmpeg with the progress flags from BuildArgs. Standard input
// is closed, standard output carries the progress protocol, and standard
// error is kept in a bounded buffer for failure diagnostics.
func Start(ctx context.Context, opts Options) (*Stream, error) {
	binary := strings.TrimSpace(opts.Binary)
	if binary == "" {
		binary = defaultBinary
	}
	grace := opts.KillGrace
	if grace <= 0 {
		grace = defaultKillGrace
	}
	logger := logging.NewComponentLogger(opts.Logger, "ffmpeg")

	runCtx, cancel := context.WithCancel(ctx)
	args := BuildArgs(opts)
	cmd := exec.CommandContext(runCtx, binary, args...) //nolint:gosec
	stderr := newTailBuffer(opts.StderrLimit)
	cmd.Stdin = nil
	cmd.Stderr = stderr
	cmd.Cancel = func() error { return terminate(cmd.Process) }
	cmd.WaitDelay = grace

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, services.Wrap(services.ErrLaunch, "ffmpeg", "stdout pipe", "", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, services.Wrap(services.ErrLaunch, "ffmpeg", "start", binary, err)
	}

	logger.Debug("ffmpeg started",
		logging.Int("pid", cmd.Process.Pid),
		logging.String("binary", binary),
		logging.String("args", strings.Join(args, " ")),
	)

	return &Stream{
		cmd:     cmd,
		ctx:     runCtx,
		cancel:  cancel,
		decoder: NewDecoder(stdout),
		stderr:  stderr,
		logger:  logger,
	}, nil
}

// Next returns the next progress record. A clean exit of ffmpeg ends the
// stream with io.EOF; a non-zero exit returns an error wrapping
// services.ErrProcessExit that includes the captured stderr. Protocol errors
// terminate the process before they are returned. After the first error every
// call returns it again.
func (s *Stream) Next() (Progress, error) {
	if s.err != nil {
		return Progress{}, s.err
	}

	record, err := s.decoder.Next()
	if err == nil {
		return record, nil
	}

	if errors.Is(err, io.EOF) {
		err = s.wait()
	} else {
		ctxErr := s.ctx.Err()
		s.terminate()
		if ctxErr != nil {
			err = services.Wrap(services.ErrCancelled, "ffmpeg", "read", "", ctxErr)
		}
	}
	s.err = err
	return Progress{}, err
}

// Records adapts the stream to a range-over-func iterator. The stream is
// closed when iteration ends for any reason, including an early break.
// A clean end of stream is not yielded as an error.
func (s *Stream) Records() iter.Seq2[Progress, error] {
	return func(yield func(Progress, error) bool) {
		defer s.Close()
		for {
			record, err := s.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(record, err) || err != nil {
				return
			}
		}
	}
}

// Close terminates ffmpeg if it is still running and reaps it. It is safe to
// call more than once and after the stream has ended.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if !s.waited {
		s.terminate()
	}
	s.cancel()
	if s.err == nil {
		s.err = errStreamClosed
	}
	return nil
}

// Pid returns the operating system process id of ffmpeg.
func (s *Stream) Pid() int {
	if s.cmd.Process == nil {
		return 0
	}
	return s.cmd.Process.Pid
}

// ProcessState is available once the process has been reaped.
func (s *Stream) ProcessState() *os.ProcessState {
	return s.cmd.ProcessState
}

// Stderr returns the retained tail of ffmpeg's diagnostic output.
func (s *Stream) Stderr() string {
	return s.stderr.String()
}

var errStreamClosed = fmt.Errorf("%w: ffmpeg: stream closed", services.ErrCancelled)

// terminate signals the process through context cancellation (SIGTERM, then
// SIGKILL after WaitDelay) and reaps it.
func (s *Stream) terminate() {
	if s.waited {
		return
	}
	s.logger.Debug("terminating ffmpeg", logging.Int("pid", s.Pid()))
	s.cancel()
	s.waited = true
	if err := s.cmd.Wait(); err != nil {
		s.logger.Debug("ffmpeg reaped after termination", logging.Error(err))
	}
}

func (s *Stream) wait() error {
	s.waited = true
	err := s.cmd.Wait()
	if err == nil {
		s.logger.Debug("ffmpeg exited", logging.Int("pid", s.Pid()))
		return io.EOF
	}
	if ctxErr := s.ctx.Err(); ctxErr != nil {
		return services.Wrap(services.ErrCancelled, "ffmpeg", "wait", "", ctxErr)
	}

	detail := err.Error()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		detail = fmt.Sprintf("exit status %d", exitErr.ExitCode())
	}
	if stderr := s.stderr.String(); stderr != "" {
		if s.stderr.Truncated() {
			stderr = "..." + stderr
		}
		detail += ": " + stderr
	}
	logging.WarnWithContext(s.logger, "ffmpeg failed", "ffmpeg_exit",
		logging.String("detail", detail),
		logging.String(logging.FieldErrorHint, "re-run the ffmpeg arguments directly to inspect the failure"),
		logging.String(logging.FieldImpact, "run aborted"),
	)
	return services.Wrap(services.ErrProcessExit, "ffmpeg", "wait", detail, err)
}
