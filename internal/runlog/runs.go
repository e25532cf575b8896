package runlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ffstats/internal/services"
)

// ErrNotFound is returned when no run matches the requested id.
var ErrNotFound = errors.New("run not found")

// timeLayout has a fixed-width fraction so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DefaultListLimit bounds List when a non-positive limit is given.
const DefaultListLimit = 20

// Run is one monitored encode.
type Run struct {
	ID           string
	Input        string
	StartedAt    time.Time
	FinishedAt   time.Time // zero while running
	Epochs       int
	Outcome      services.Outcome // empty while running
	Error        string
	SnapshotPath string
}

// Running reports whether Finish has not been recorded yet.
func (r Run) Running() bool { return r.Outcome == "" }

// Duration is the wall time between start and finish, or zero while running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Begin inserts run. A missing ID is generated and a zero StartedAt becomes
// the current time.
func (s *Store) Begin(ctx context.Context, run Run) (Run, error) {
	if strings.TrimSpace(run.Input) == "" {
		return Run{}, errors.New("runlog: input path is required")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.StartedAt = run.StartedAt.UTC()

	if _, err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, input_path, started_at) VALUES (?, ?, ?)`,
		run.ID, run.Input, run.StartedAt.Format(timeLayout),
	); err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// Finish records the end of a run.
func (s *Store) Finish(ctx context.Context, id string, outcome services.Outcome, epochs int, errText, snapshotPath string) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET finished_at = ?, outcome = ?, epochs = ?, error_text = ?, snapshot_path = ? WHERE id = ?`,
		time.Now().UTC().Format(timeLayout),
		string(outcome),
		epochs,
		nullableString(errText),
		nullableString(snapshotPath),
		id,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Get returns a single run.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), selectRuns+` WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

// List returns up to limit runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), selectRuns+` ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

const selectRuns = `SELECT id, input_path, started_at, finished_at, epochs, outcome, error_text, snapshot_path FROM runs`

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run        Run
		startedRaw string
		finished   sql.NullString
		outcome    sql.NullString
		errText    sql.NullString
		snapshot   sql.NullString
	)
	if err := scanner.Scan(&run.ID, &run.Input, &startedRaw, &finished, &run.Epochs, &outcome, &errText, &snapshot); err != nil {
		return Run{}, err
	}
	started, err := parseTimeString(startedRaw)
	if err != nil {
		return Run{}, fmt.Errorf("parse started_at for run %s: %w", run.ID, err)
	}
	run.StartedAt = started
	if finished.Valid {
		if t, err := parseTimeString(finished.String); err == nil {
			run.FinishedAt = t
		}
	}
	run.Outcome = services.Outcome(outcome.String)
	run.Error = errText.String
	run.SnapshotPath = snapshot.String
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
