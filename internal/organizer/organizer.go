package organizer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cleanfolder/internal/archive"
	"cleanfolder/internal/category"
	"cleanfolder/internal/cleanup"
	"cleanfolder/internal/config"
	"cleanfolder/internal/faults"
	"cleanfolder/internal/fileutil"
	"cleanfolder/internal/logging"
	"cleanfolder/internal/textutil"
)

// Organizer moves files under a single root into category folders.
type Organizer struct {
	root        string
	logger      *slog.Logger
	legacyStrip bool
}

// NewOrganizer constructs a relocator for root. A nil cfg uses defaults.
func NewOrganizer(cfg *config.Config, root string, logger *slog.Logger) *Organizer {
	legacy := false
	if cfg != nil {
		legacy = cfg.Archives.LegacySuffixStrip
	}
	return &Organizer{
		root:        root,
		logger:      logging.NewComponentLogger(logger, "organizer"),
		legacyStrip: legacy,
	}
}

// HandleFile moves path into <root>/<cat>/ under its normalized name and
// returns the final destination with the number of bytes moved.
func (o *Organizer) HandleFile(ctx context.Context, path string, cat category.Category) (string, int64, error) {
	logger := logging.WithContext(ctx, o.logger)
	targetDir := filepath.Join(o.root, cat.String())
	if err := fileutil.EnsureDir(targetDir); err != nil {
		return "", 0, faults.Wrap(faults.ErrFilesystem, "organize", "create category folder", targetDir, err)
	}

	name := textutil.Normalize(filepath.Base(path))
	dest, err := fileutil.UniquePath(targetDir, name)
	if err != nil {
		return "", 0, faults.Wrap(faults.ErrFilesystem, "organize", "resolve destination", path, err)
	}
	if filepath.Base(dest) != name {
		attrs := append(logging.DecisionAttrs("name_collision", "suffixed", "destination already exists"),
			logging.String("wanted", name),
			logging.String("final", filepath.Base(dest)),
		)
		logger.Info("destination taken, renaming", logging.Args(attrs...)...)
	}

	moved, err := fileutil.Move(path, dest)
	if err != nil {
		return "", 0, faults.Wrap(faults.ErrFilesystem, "organize", "move file", path, err)
	}
	logger.Debug("moved file",
		logging.String("source", path),
		logging.String("destination", dest),
		logging.String(logging.FieldCategory, cat.String()),
		logging.Int64("bytes", moved),
	)
	return dest, moved, nil
}

// HandleArchive extracts path into <root>/archives/<name>/ and removes the
// source on success. On failure the source archive stays where it was and no
// folder is left behind; the returned error carries faults.ErrArchive.
func (o *Organizer) HandleArchive(ctx context.Context, path string) (string, archive.Stats, error) {
	logger := logging.WithContext(ctx, o.logger)
	archivesDir := filepath.Join(o.root, category.Archives.String())
	if err := fileutil.EnsureDir(archivesDir); err != nil {
		return "", archive.Stats{}, faults.Wrap(faults.ErrArchive, "organize", "create archives folder", archivesDir, err)
	}
	if _, err := os.Lstat(path); err != nil {
		return "", archive.Stats{}, faults.Wrap(faults.ErrArchive, "organize", "stat archive", path, err)
	}

	staging, content, err := cleanup.CreateStaging(archivesDir)
	if err != nil {
		return "", archive.Stats{}, faults.Wrap(faults.ErrArchive, "organize", "create staging folder", archivesDir, err)
	}
	rollback := func() {
		if err := os.RemoveAll(staging); err != nil {
			logging.WarnWithContext(logger, "failed to remove extraction staging folder", "archive_rollback_failed",
				logging.String("path", staging),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "remove the hidden .extract folder manually"),
				logging.String(logging.FieldImpact, "partial extraction left under archives"),
			)
		}
	}

	stats, err := archive.Extract(ctx, path, content)
	if err != nil {
		rollback()
		return "", stats, faults.Wrap(faults.ErrArchive, "organize", "extract archive", path, err)
	}
	if err := os.Chmod(content, 0o755); err != nil {
		rollback()
		return "", stats, faults.Wrap(faults.ErrArchive, "organize", "set folder permissions", content, err)
	}

	folder := ArchiveFolderName(filepath.Base(path), o.legacyStrip)
	dest, err := fileutil.UniquePath(archivesDir, folder)
	if err != nil {
		rollback()
		return "", stats, faults.Wrap(faults.ErrArchive, "organize", "resolve extraction folder", path, err)
	}
	if err := os.Rename(content, dest); err != nil {
		rollback()
		return "", stats, faults.Wrap(faults.ErrArchive, "organize", "publish extraction folder", dest, err)
	}
	// only the marker is left; a failure here is swept by the next CleanStale
	if err := os.RemoveAll(staging); err != nil {
		logger.Debug("staging folder not removed", logging.String("path", staging), logging.Error(err))
	}
	if err := os.Remove(path); err != nil {
		if rmErr := os.RemoveAll(dest); rmErr != nil {
			err = fmt.Errorf("%w (cleanup of %s also failed: %v)", err, dest, rmErr)
		}
		return "", stats, faults.Wrap(faults.ErrArchive, "organize", "remove source archive", path, err)
	}

	logger.Info("extracted archive",
		logging.String("source", path),
		logging.String("destination", dest),
		logging.String("format", string(stats.Format)),
		logging.Int("files", stats.Files),
		logging.Int("skipped_entries", stats.Skipped),
		logging.Int64("bytes", stats.Bytes),
	)
	return dest, stats, nil
}
