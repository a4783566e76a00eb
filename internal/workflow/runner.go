package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"cleanfolder/internal/category"
	"cleanfolder/internal/cleanup"
	"cleanfolder/internal/config"
	"cleanfolder/internal/faults"
	"cleanfolder/internal/history"
	"cleanfolder/internal/logging"
	"cleanfolder/internal/manifest"
	"cleanfolder/internal/organizer"
	"cleanfolder/internal/preflight"
	"cleanfolder/internal/runlock"
	"cleanfolder/internal/sorter"
)

// plainOrder is the relocation order for non-archive categories.
var plainOrder = []category.Category{
	category.Images,
	category.Documents,
	category.Audio,
	category.Video,
	category.Others,
}

// Runner executes organizer runs with a fixed configuration.
type Runner struct {
	cfg      *config.Config
	registry *category.Registry
	base     *slog.Logger
	logger   *slog.Logger
	now      func() time.Time
}

// NewRunner builds a runner. A nil cfg uses defaults.
func NewRunner(cfg *config.Config, logger *slog.Logger) (*Runner, error) {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	registry, err := category.NewRegistry()
	if err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "init", "build category registry", "", err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		cfg:      cfg,
		registry: registry,
		base:     logger,
		logger:   logging.NewComponentLogger(logger, "workflow"),
		now:      time.Now,
	}, nil
}

// Run organizes root. The summary is returned even when err is non-nil so
// callers can report partial progress.
func (r *Runner) Run(ctx context.Context, root string) (Summary, error) {
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Summary{RunID: runID, Root: root}, faults.Wrap(faults.ErrValidation, "preflight", "resolve root", root, err)
	}
	summary := newSummary(runID, absRoot, r.now())
	finish := func(err error) (Summary, error) {
		summary.FinishedAt = r.now()
		return *summary, err
	}

	if err := r.preflight(ctx, absRoot); err != nil {
		return finish(err)
	}

	lock, err := runlock.Acquire(r.cfg.Lock.Dir, absRoot)
	if err != nil {
		return finish(err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logging.WithContext(ctx, r.logger).Warn("failed to release run lock",
				logging.String("lock", lock.Path()),
				logging.Error(err),
			)
		}
	}()

	logger := logging.WithContext(ctx, r.logger)
	logger.Info("organizing directory", logging.String("root", absRoot))

	walkCtx := logging.WithStage(ctx, "walk")
	walk, err := sorter.New(r.registry, sorter.DefaultSkip(), logging.WithContext(walkCtx, r.base)).Walk(walkCtx, absRoot)
	if err != nil {
		return finish(err)
	}
	summary.Folders = walk.Count(category.Folders)
	summary.RegisteredExtensions = walk.RegisteredExtensions()
	summary.UnknownExtensions = walk.UnknownExtensions()

	org := organizer.NewOrganizer(r.cfg, absRoot, r.base)
	if err := r.relocate(logging.WithStage(ctx, "relocate"), org, walk, summary); err != nil {
		return finish(err)
	}

	r.cleanup(logging.WithStage(ctx, "cleanup"), absRoot, summary)

	m, err := manifest.Build(absRoot, walk)
	if err != nil {
		return finish(err)
	}
	if summary.ManifestPath, err = manifest.Write(absRoot, m); err != nil {
		return finish(err)
	}

	var runErr error
	if summary.MoveFailures > 0 {
		runErr = faults.Wrap(faults.ErrFilesystem, "relocate", "move files",
			fmt.Sprintf("%d file(s) could not be moved", summary.MoveFailures), errors.Join(failureErrors(summary.Failures)...))
	}
	summary.FinishedAt = r.now()
	r.record(ctx, summary, runErr)

	logger.Info("organizing complete",
		logging.Int("files_moved", summary.TotalMoved()),
		logging.Int("archives_extracted", summary.ArchivesExtracted),
		logging.Int("archives_failed", summary.ArchivesFailed),
		logging.Int("move_failures", summary.MoveFailures),
		logging.Int("dirs_removed", summary.DirsRemoved),
		logging.String("bytes_moved", humanize.Bytes(uint64(summary.BytesMoved))),
		logging.String("bytes_extracted", humanize.Bytes(uint64(summary.BytesExtracted))),
		logging.Duration("duration", summary.Duration()),
	)
	return *summary, runErr
}

func (r *Runner) preflight(ctx context.Context, root string) error {
	if err := r.cfg.EnsureDirectories(); err != nil {
		return faults.Wrap(faults.ErrConfiguration, "preflight", "ensure directories", "", err)
	}
	logger := logging.WithContext(logging.WithStage(ctx, "preflight"), r.logger)
	results := preflight.RunAll(r.cfg, root)
	for _, result := range results {
		logger.Debug("preflight check",
			logging.String("check", result.Name),
			logging.Bool("passed", result.Passed),
			logging.String("detail", result.Detail),
		)
	}
	failed, ok := preflight.FirstFailure(results)
	if !ok {
		return nil
	}
	marker := faults.ErrConfiguration
	if failed.Name == preflight.RootCheckName {
		marker = faults.ErrValidation
	}
	return faults.Wrap(marker, "preflight", failed.Name, failed.Detail, nil)
}

func (r *Runner) relocate(ctx context.Context, org *organizer.Organizer, walk *sorter.Result, summary *Summary) error {
	logger := logging.WithContext(ctx, r.logger)

	for _, c := range plainOrder {
		for _, path := range walk.Paths(c) {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, moved, err := org.HandleFile(ctx, path, c)
			if err != nil {
				summary.MoveFailures++
				summary.Failures = append(summary.Failures, Failure{Path: path, Category: c, Err: err})
				logging.ErrorWithContext(logger, "failed to move file", "file_move_failed",
					logging.String("path", path),
					logging.String(logging.FieldCategory, c.String()),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check permissions on the source and category folder"),
				)
				continue
			}
			summary.Files[c]++
			summary.BytesMoved += moved
		}
	}

	archives := walk.Paths(category.Archives)
	if len(archives) == 0 {
		return nil
	}
	stale := cleanup.CleanStale(ctx, filepath.Join(walk.Root, category.Archives.String()), 0, logger)
	summary.StaleStagingRemoved = len(stale.Removed)

	for _, path := range archives {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, stats, err := org.HandleArchive(ctx, path)
		if err != nil {
			if faults.IsFatal(err) {
				return err
			}
			summary.ArchivesFailed++
			summary.Failures = append(summary.Failures, Failure{Path: path, Category: category.Archives, Err: err})
			logging.WarnWithContext(logger, "archive skipped", "archive_extract_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "verify the archive opens with another tool"),
				logging.String(logging.FieldImpact, "archive left in place unextracted"),
			)
			continue
		}
		summary.ArchivesExtracted++
		summary.BytesExtracted += stats.Bytes
	}
	return nil
}

func (r *Runner) cleanup(ctx context.Context, root string, summary *Summary) {
	logger := logging.WithContext(ctx, r.logger)
	result := cleanup.RemoveEmpty(ctx, root, logger)
	summary.DirsRemoved = len(result.Removed)
	summary.CleanupErrors = len(result.Errors)
	for _, failure := range result.Errors {
		logging.WarnWithContext(logger, "failed to remove directory", "cleanup_failed",
			logging.String("path", failure.Path),
			logging.Error(failure.Error),
			logging.String(logging.FieldErrorHint, "check directory permissions"),
			logging.String(logging.FieldImpact, "empty directory left in place"),
		)
	}
}

func (r *Runner) record(ctx context.Context, summary *Summary, runErr error) {
	if !r.cfg.History.Enabled {
		return
	}
	logger := logging.WithContext(ctx, r.logger)
	store, err := history.Open(ctx, r.cfg.History.Path)
	if err != nil {
		logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
			logging.String("path", r.cfg.History.Path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check history.path or disable history"),
			logging.String(logging.FieldImpact, "run not recorded"),
		)
		return
	}
	defer store.Close()

	if err := store.Record(ctx, historyRun(summary, runErr)); err != nil {
		logging.WarnWithContext(logger, "failed to record run", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run not recorded"),
		)
	}
}

func historyRun(summary *Summary, runErr error) history.Run {
	status := history.StatusCompleted
	switch {
	case runErr != nil:
		status = history.StatusFailed
	case summary.HasWarnings():
		status = history.StatusCompletedWarns
	}
	files := make(map[category.Category]int, len(summary.Files)+1)
	for c, n := range summary.Files {
		files[c] = n
	}
	files[category.Folders] = summary.Folders
	run := history.Run{
		ID:                summary.RunID,
		Root:              summary.Root,
		Status:            status,
		StartedAt:         summary.StartedAt,
		FinishedAt:        summary.FinishedAt,
		Files:             files,
		ArchivesExtracted: summary.ArchivesExtracted,
		ArchivesFailed:    summary.ArchivesFailed,
		MoveFailures:      summary.MoveFailures,
		DirsRemoved:       summary.DirsRemoved,
		BytesMoved:        summary.BytesMoved,
		BytesExtracted:    summary.BytesExtracted,
	}
	if runErr != nil {
		run.ErrorMessage = runErr.Error()
	}
	return run
}

func failureErrors(failures []Failure) []error {
	errs := make([]error, 0, len(failures))
	for _, f := range failures {
		if f.Category != category.Archives {
			errs = append(errs, f.Err)
		}
	}
	return errs
}
