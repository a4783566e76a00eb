package workflow

import (
	"time"

	"cleanfolder/internal/category"
)

// Failure records one file that could not be relocated.
type Failure struct {
	Path     string
	Category category.Category
	Err      error
}

// Summary describes the outcome of a run.
type Summary struct {
	RunID      string
	Root       string
	StartedAt  time.Time
	FinishedAt time.Time

	// Files counts relocated files per category. Archives are counted under
	// ArchivesExtracted instead.
	Files                map[category.Category]int
	Folders              int
	ArchivesExtracted    int
	ArchivesFailed       int
	MoveFailures         int
	DirsRemoved          int
	CleanupErrors        int
	StaleStagingRemoved  int
	BytesMoved           int64
	BytesExtracted       int64
	RegisteredExtensions []string
	UnknownExtensions    []string
	ManifestPath         string
	Failures             []Failure
}

func newSummary(runID, root string, started time.Time) *Summary {
	return &Summary{
		RunID:     runID,
		Root:      root,
		StartedAt: started,
		Files:     make(map[category.Category]int, len(category.FileCategories)),
	}
}

// Duration is the wall time of the run.
func (s Summary) Duration() time.Duration {
	if s.FinishedAt.Before(s.StartedAt) {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// TotalMoved counts relocated plain files.
func (s Summary) TotalMoved() int {
	total := 0
	for _, n := range s.Files {
		total += n
	}
	return total
}

// HasWarnings reports recoverable problems: failed archives or cleanup errors.
func (s Summary) HasWarnings() bool {
	return s.ArchivesFailed > 0 || s.CleanupErrors > 0
}
