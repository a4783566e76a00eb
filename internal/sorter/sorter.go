package sorter

import (
	"context"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"cleanfolder/internal/category"
	"cleanfolder/internal/faults"
	"cleanfolder/internal/logging"
)

// ManifestName is the report file written at the root of every organized tree.
const ManifestName = "FilesList.txt"

// SkipFunc reports whether an entry should be ignored by the walk. rel is the
// entry path relative to the walk root, using forward slashes.
type SkipFunc func(rel string, entry fs.DirEntry) bool

// SkipReserved skips directories named after a category at any depth.
func SkipReserved(_ string, entry fs.DirEntry) bool {
	return entry.IsDir() && category.IsReserved(entry.Name())
}

// SkipRootManifest skips the manifest left by a previous run.
func SkipRootManifest(rel string, entry fs.DirEntry) bool {
	return !entry.IsDir() && rel == ManifestName
}

// AnySkip combines predicates; an entry is skipped when any of them matches.
func AnySkip(fns ...SkipFunc) SkipFunc {
	return func(rel string, entry fs.DirEntry) bool {
		for _, fn := range fns {
			if fn != nil && fn(rel, entry) {
				return true
			}
		}
		return false
	}
}

// DefaultSkip is the predicate used for organizer runs.
func DefaultSkip() SkipFunc {
	return AnySkip(SkipReserved, SkipRootManifest)
}

// Result holds the outcome of one walk.
type Result struct {
	Root       string
	Files      map[category.Category][]string
	Registered map[string]struct{}
	Unknown    map[string]struct{}
}

func newResult(root string) *Result {
	return &Result{
		Root:       root,
		Files:      make(map[category.Category][]string, len(category.All)),
		Registered: make(map[string]struct{}),
		Unknown:    make(map[string]struct{}),
	}
}

// Paths returns the discovered paths for c in discovery order.
func (r *Result) Paths(c category.Category) []string {
	if r == nil {
		return nil
	}
	return r.Files[c]
}

// Count returns the number of entries discovered for c.
func (r *Result) Count(c category.Category) int {
	return len(r.Paths(c))
}

// TotalFiles counts every file found, excluding folders.
func (r *Result) TotalFiles() int {
	total := 0
	for _, c := range category.FileCategories {
		total += r.Count(c)
	}
	return total
}

// RegisteredExtensions returns the sorted set of known extensions seen.
func (r *Result) RegisteredExtensions() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.Registered))
}

// UnknownExtensions returns the sorted set of unrecognized extensions seen.
func (r *Result) UnknownExtensions() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.Unknown))
}

// Walker performs read-only category discovery over a tree.
type Walker struct {
	registry *category.Registry
	skip     SkipFunc
	logger   *slog.Logger
}

// New constructs a Walker. A nil skip uses DefaultSkip.
func New(registry *category.Registry, skip SkipFunc, logger *slog.Logger) *Walker {
	if registry == nil {
		registry = category.MustRegistry()
	}
	if skip == nil {
		skip = DefaultSkip()
	}
	return &Walker{
		registry: registry,
		skip:     skip,
		logger:   logging.NewComponentLogger(logger, "sorter"),
	}
}

// Walk scans root recursively. Directory entries are visited in the order
// returned by os.ReadDir. An unreadable directory aborts the walk.
func (w *Walker) Walk(ctx context.Context, root string) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, faults.Wrap(faults.ErrValidation, "walk", "resolve root", root, err)
	}
	result := newResult(absRoot)
	if err := w.walkDir(ctx, result, absRoot, ""); err != nil {
		return nil, err
	}
	w.logger.Debug("walk complete",
		logging.String("root", absRoot),
		logging.Int("files", result.TotalFiles()),
		logging.Int("folders", result.Count(category.Folders)),
		logging.Int("unknown_extensions", len(result.Unknown)),
	)
	return result, nil
}

func (w *Walker) walkDir(ctx context.Context, result *Result, dir, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return faults.Wrap(faults.ErrFilesystem, "walk", "read directory", dir, err)
	}
	for _, entry := range entries {
		entryRel := entry.Name()
		if rel != "" {
			entryRel = rel + "/" + entry.Name()
		}
		if w.skip(entryRel, entry) {
			w.logger.Debug("skipping entry", logging.String("path", entryRel))
			continue
		}
		fullPath := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			result.Files[category.Folders] = append(result.Files[category.Folders], fullPath)
			if err := w.walkDir(ctx, result, fullPath, entryRel); err != nil {
				return err
			}
			continue
		}
		w.record(result, fullPath, entry.Name())
	}
	return nil
}

func (w *Walker) record(result *Result, fullPath, name string) {
	cat, ext, known := w.registry.Classify(name)
	result.Files[cat] = append(result.Files[cat], fullPath)
	switch {
	case ext == "":
	case known:
		result.Registered[ext] = struct{}{}
	default:
		result.Unknown[ext] = struct{}{}
	}
}
