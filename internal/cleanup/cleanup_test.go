package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"cleanfolder/internal/logging"
)

func mkdirs(t *testing.T, root string, rels ...string) {
	t.Helper()
	for _, rel := range rels {
		if err := os.MkdirAll(filepath.Join(root, rel), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", rel, err)
		}
	}
}

func TestRemoveEmptyBottomUp(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "empty_dir", "a/b/c", "keep/inner", "images")
	if err := os.WriteFile(filepath.Join(root, "keep", "inner", "file.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := RemoveEmpty(context.Background(), root, logging.NewNop())
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", result.Errors)
	}

	want := []string{
		filepath.Join(root, "a"),
		filepath.Join(root, "a", "b"),
		filepath.Join(root, "a", "b", "c"),
		filepath.Join(root, "empty_dir"),
		filepath.Join(root, "images"),
	}
	got := slices.Clone(result.Removed)
	slices.Sort(got)
	if !slices.Equal(got, want) {
		t.Fatalf("removed = %v, want %v", got, want)
	}
	if _, err := os.Stat(filepath.Join(root, "keep", "inner", "file.txt")); err != nil {
		t.Fatalf("non-empty tree touched: %v", err)
	}
	if _, err := os.Stat(root); err != nil {
		t.Fatalf("root removed: %v", err)
	}
}

func TestRemoveEmptyDoesNotFollowSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	mkdirs(t, outside, "empty")
	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Fatal(err)
	}

	RemoveEmpty(context.Background(), root, nil)
	if _, err := os.Stat(filepath.Join(outside, "empty")); err != nil {
		t.Fatalf("cleanup followed symlink: %v", err)
	}
}

func TestRemoveEmptyInvalidRoot(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := RemoveEmpty(context.Background(), dir, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q", dir)
		}
	}
}
