package workflow

import (
	"context"
	"os"
	"path/filepath"

	"cleanfolder/internal/category"
	"cleanfolder/internal/faults"
	"cleanfolder/internal/logging"
	"cleanfolder/internal/organizer"
	"cleanfolder/internal/preflight"
	"cleanfolder/internal/sorter"
	"cleanfolder/internal/textutil"
)

// PlannedMove is one relocation a run would perform.
type PlannedMove struct {
	Source      string
	Destination string
	Category    category.Category
	// Collision is set when the destination is already taken on disk or by
	// an earlier planned move; the real run would add a numeric suffix.
	Collision bool
}

// Plan is the dry-run view of a tree.
type Plan struct {
	Root                 string
	Moves                []PlannedMove
	Folders              []string
	RegisteredExtensions []string
	UnknownExtensions    []string
}

// Count returns the number of planned moves for c.
func (p Plan) Count(c category.Category) int {
	n := 0
	for _, m := range p.Moves {
		if m.Category == c {
			n++
		}
	}
	return n
}

// Plan walks root and reports the moves a run would make. Nothing is
// created, moved or locked.
func (r *Runner) Plan(ctx context.Context, root string) (Plan, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Plan{}, faults.Wrap(faults.ErrValidation, "plan", "resolve root", root, err)
	}
	if check := preflight.CheckDirectoryAccess(preflight.RootCheckName, absRoot); !check.Passed {
		return Plan{}, faults.Wrap(faults.ErrValidation, "plan", "check root", check.Detail, nil)
	}

	ctx = logging.WithStage(ctx, "plan")
	logger := logging.WithContext(ctx, r.logger)

	walk, err := sorter.New(r.registry, sorter.DefaultSkip(), logging.WithContext(ctx, r.base)).Walk(ctx, absRoot)
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{
		Root:                 absRoot,
		Folders:              walk.Paths(category.Folders),
		RegisteredExtensions: walk.RegisteredExtensions(),
		UnknownExtensions:    walk.UnknownExtensions(),
	}
	taken := make(map[string]bool)
	for _, c := range category.FileCategories {
		for _, src := range walk.Paths(c) {
			dest := r.plannedDestination(absRoot, src, c)
			plan.Moves = append(plan.Moves, PlannedMove{
				Source:      src,
				Destination: dest,
				Category:    c,
				Collision:   taken[dest] || exists(dest),
			})
			taken[dest] = true
		}
	}
	logger.Info("plan ready",
		logging.Int("moves", len(plan.Moves)),
		logging.Int("folders", len(plan.Folders)),
	)
	return plan, nil
}

func (r *Runner) plannedDestination(root, src string, c category.Category) string {
	base := filepath.Base(src)
	if c == category.Archives {
		return filepath.Join(root, c.String(), organizer.ArchiveFolderName(base, r.cfg.Archives.LegacySuffixStrip))
	}
	return filepath.Join(root, c.String(), textutil.Normalize(base))
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
