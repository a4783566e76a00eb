package cleanup

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cleanfolder/internal/logging"
)

const (
	// StagingPrefix marks extraction scratch folders.
	StagingPrefix = ".extract-"
	// StagingContent is the subfolder of a staging dir that receives archive entries.
	StagingContent = "content"
	// StagingMarker is written into every staging dir clean-folder creates.
	// CleanStale never touches a folder without it.
	StagingMarker = ".clean-folder-staging"
)

var stagingMarkerBody = []byte("clean-folder extraction staging\n")

// CreateStaging makes a new marked staging dir under dir and returns it with
// its content subfolder.
func CreateStaging(dir string) (staging, content string, err error) {
	staging, err = os.MkdirTemp(dir, StagingPrefix+"*")
	if err != nil {
		return "", "", err
	}
	if err := os.WriteFile(filepath.Join(staging, StagingMarker), stagingMarkerBody, 0o644); err != nil {
		_ = os.RemoveAll(staging)
		return "", "", fmt.Errorf("mark staging folder: %w", err)
	}
	content = filepath.Join(staging, StagingContent)
	if err := os.Mkdir(content, 0o700); err != nil {
		_ = os.RemoveAll(staging)
		return "", "", err
	}
	return staging, content, nil
}

// IsStaging reports whether path is a staging dir created by CreateStaging.
func IsStaging(path string) bool {
	if !strings.HasPrefix(filepath.Base(path), StagingPrefix) {
		return false
	}
	info, err := os.Lstat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	marker := filepath.Join(path, StagingMarker)
	if mi, err := os.Lstat(marker); err != nil || !mi.Mode().IsRegular() {
		return false
	}
	body, err := os.ReadFile(marker)
	return err == nil && bytes.Equal(body, stagingMarkerBody)
}

// CleanStale removes staging dirs under dir older than maxAge. A zero maxAge
// removes all of them. Folders that merely share the prefix are left alone.
func CleanStale(ctx context.Context, dir string, maxAge time.Duration, logger *slog.Logger) Result {
	result := Result{}

	dir = strings.TrimSpace(dir)
	if dir == "" {
		return result
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, Error{Path: dir, Error: err})
		}
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		dirPath := filepath.Join(dir, entry.Name())
		if !entry.IsDir() || !IsStaging(dirPath) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, Error{Path: dirPath, Error: err})
			continue
		}
		if maxAge > 0 && !info.ModTime().Before(cutoff) {
			continue
		}

		if err := os.RemoveAll(dirPath); err != nil {
			result.Errors = append(result.Errors, Error{Path: dirPath, Error: err})
			logging.WarnWithContext(logger, "failed to remove stale staging directory", "staging_cleanup_failed",
				logging.String("path", dirPath),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions on the archives folder"),
				logging.String(logging.FieldImpact, "hidden partial extraction left in place"),
			)
			continue
		}
		result.Removed = append(result.Removed, dirPath)
		if logger != nil {
			logger.Info("removed stale staging directory",
				logging.String("path", dirPath),
				logging.Duration("age", time.Since(info.ModTime())),
				logging.String(logging.FieldEventType, "staging_cleanup"),
			)
		}
	}
	return result
}
