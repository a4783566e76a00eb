package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cleanfolder/internal/category"
)

// Status summarizes how a run ended.
type Status string

const (
	StatusCompleted      Status = "completed"
	StatusCompletedWarns Status = "completed_with_warnings"
	StatusFailed         Status = "failed"
)

// Run is one journaled organizer run.
type Run struct {
	ID                string
	Root              string
	Status            Status
	StartedAt         time.Time
	FinishedAt        time.Time
	Files             map[category.Category]int
	ArchivesExtracted int
	ArchivesFailed    int
	MoveFailures      int
	DirsRemoved       int
	BytesMoved        int64
	BytesExtracted    int64
	ErrorMessage      string
}

// Duration is the wall time of the run.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

const runColumns = "id, root, status, started_at, finished_at, images, documents, audio, video, others, folders, archives_extracted, archives_failed, move_failures, dirs_removed, bytes_moved, bytes_extracted, error_message"

// Record inserts run. Recording the same id twice is an error.
func (s *Store) Record(ctx context.Context, run Run) error {
	if run.ID == "" {
		return errors.New("record run: missing id")
	}
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			run.Root,
			string(run.Status),
			formatTime(run.StartedAt),
			formatTime(run.FinishedAt),
			run.Files[category.Images],
			run.Files[category.Documents],
			run.Files[category.Audio],
			run.Files[category.Video],
			run.Files[category.Others],
			run.Files[category.Folders],
			run.ArchivesExtracted,
			run.ArchivesFailed,
			run.MoveFailures,
			run.DirsRemoved,
			run.BytesMoved,
			run.BytesExtracted,
			nullableString(run.ErrorMessage),
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		return nil
	})
}

// List returns the most recent runs first. A non-positive limit returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
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
	return runs, rows.Err()
}

// Get loads a single run by id. The boolean is false when no such run exists.
func (s *Store) Get(ctx context.Context, id string) (Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, err
	}
	return run, true, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		status      string
		startedRaw  string
		finishedRaw string
		counts      [6]int
		errMessage  sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.Root,
		&status,
		&startedRaw,
		&finishedRaw,
		&counts[0],
		&counts[1],
		&counts[2],
		&counts[3],
		&counts[4],
		&counts[5],
		&run.ArchivesExtracted,
		&run.ArchivesFailed,
		&run.MoveFailures,
		&run.DirsRemoved,
		&run.BytesMoved,
		&run.BytesExtracted,
		&errMessage,
	); err != nil {
		return Run{}, err
	}
	run.Status = Status(status)
	run.ErrorMessage = errMessage.String
	run.Files = map[category.Category]int{
		category.Images:    counts[0],
		category.Documents: counts[1],
		category.Audio:     counts[2],
		category.Video:     counts[3],
		category.Others:    counts[4],
		category.Folders:   counts[5],
	}
	if t, err := time.Parse(time.RFC3339Nano, startedRaw); err == nil {
		run.StartedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, finishedRaw); err == nil {
		run.FinishedAt = t
	}
	return run, nil
}

// timeLayout has fixed-width fractions so stored values sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
