package cleanup

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"cleanfolder/internal/logging"
)

// Result contains the outcome of a cleanup pass.
type Result struct {
	Removed []string
	Errors  []Error
}

// Error pairs a directory path with its cleanup error.
type Error struct {
	Path  string
	Error error
}

// RemoveEmpty removes every empty directory below root, deepest first. root
// itself is kept. Symlinks are not followed. Directories that still hold
// entries are skipped silently; other removal failures land in Result.Errors.
func RemoveEmpty(ctx context.Context, root string, logger *slog.Logger) Result {
	result := Result{}
	root = strings.TrimSpace(root)
	if root == "" {
		return result
	}
	removeEmptyBelow(ctx, root, &result, logger)
	return result
}

func removeEmptyBelow(ctx context.Context, dir string, result *Result, logger *slog.Logger) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, Error{Path: dir, Error: err})
		}
		return
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		if !entry.IsDir() {
			continue
		}
		child := filepath.Join(dir, entry.Name())
		removeEmptyBelow(ctx, child, result, logger)
		if err := os.Remove(child); err != nil {
			if isNotEmpty(err) {
				continue
			}
			result.Errors = append(result.Errors, Error{Path: child, Error: err})
			continue
		}
		result.Removed = append(result.Removed, child)
		if logger != nil {
			logger.Debug("removed empty directory",
				logging.String("path", child),
				logging.String(logging.FieldEventType, "empty_dir_removed"),
			)
		}
	}
}

func isNotEmpty(err error) bool {
	return errors.Is(err, unix.ENOTEMPTY) || errors.Is(err, unix.EEXIST)
}
