package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cleanfolder/internal/faults"
)

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func writeTestConfig(t *testing.T, historyEnabled bool) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", "")

	dir := t.TempDir()
	body := fmt.Sprintf(`[logging]
level = "error"

[history]
enabled = %t
path = %q

[lock]
dir = %q
`, historyEnabled, filepath.Join(dir, "history.db"), filepath.Join(dir, "locks"))

	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func seedRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := [][2]string{
		{"photo.JPG", "jpg"},
		{"docs/Звіт.pdf", "pdf"},
		{"music/song.mp3", "mp3"},
		{"misc/notes", "notes"},
		{"misc/deep/a.xyz", "xyz"},
	}
	for _, f := range files {
		rel, content := f[0], f[1]
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

func TestOrganizeSortsRoot(t *testing.T) {
	cfgPath := writeTestConfig(t, false)
	root := seedRoot(t)

	stdout, _, err := runCLI(t, []string{root}, cfgPath)
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	requireContains(t, stdout, "== Summary ==")
	requireContains(t, stdout, "FilesList.txt")
	requireContains(t, stdout, "XYZ")

	for _, rel := range []string{
		"images/photo.JPG",
		"documents/Zvit.pdf",
		"audio/song.mp3",
		"others/notes",
		"others/a.xyz",
		"FilesList.txt",
	} {
		if _, err := os.Stat(filepath.Join(root, rel)); err != nil {
			t.Fatalf("expected %s: %v", rel, err)
		}
	}
	for _, rel := range []string{"docs", "music", "misc"} {
		if _, err := os.Stat(filepath.Join(root, rel)); !os.IsNotExist(err) {
			t.Fatalf("expected %s to be removed, err=%v", rel, err)
		}
	}
}

func TestDryRunLeavesTreeUntouched(t *testing.T) {
	cfgPath := writeTestConfig(t, false)
	root := seedRoot(t)

	stdout, _, err := runCLI(t, []string{"--dry-run", root}, cfgPath)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	requireContains(t, stdout, "== Plan ==")
	requireContains(t, stdout, filepath.Join("documents", "Zvit.pdf"))
	requireContains(t, stdout, "nothing changed")

	if _, err := os.Stat(filepath.Join(root, "docs", "Звіт.pdf")); err != nil {
		t.Fatalf("source should remain: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "FilesList.txt")); !os.IsNotExist(err) {
		t.Fatalf("dry run must not write a manifest, err=%v", err)
	}
}

func TestRootArgumentRequired(t *testing.T) {
	cfgPath := writeTestConfig(t, false)

	if _, _, err := runCLI(t, nil, cfgPath); err == nil {
		t.Fatal("expected error without a root argument")
	}
	if _, _, err := runCLI(t, []string{"a", "b"}, cfgPath); err == nil {
		t.Fatal("expected error with two root arguments")
	}
}

func TestInvalidRootFails(t *testing.T) {
	cfgPath := writeTestConfig(t, false)
	missing := filepath.Join(t.TempDir(), "missing")

	stdout, _, err := runCLI(t, []string{missing}, cfgPath)
	if !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if strings.Contains(stdout, "Summary") {
		t.Fatalf("no summary expected for an invalid root, got %q", stdout)
	}
}

func TestInvalidConfigFileFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, err := runCLI(t, []string{t.TempDir()}, path)
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestInvalidLogLevelOverride(t *testing.T) {
	cfgPath := writeTestConfig(t, false)
	_, _, err := runCLI(t, []string{"--log-level", "loud", t.TempDir()}, cfgPath)
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	stdout, _, err := runCLI(t, []string{"config", "init", "-p", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, stdout, target)

	if _, _, err := runCLI(t, []string{"config", "init", "-p", target}, ""); err == nil {
		t.Fatal("expected init to refuse an existing file")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "-p", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	stdout, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, stdout, "Config path: "+target)
	requireContains(t, stdout, "Configuration valid")
}

func TestConfigValidateRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\ncolour = \"red\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "validate"}, path); err == nil {
		t.Fatal("expected validation failure for unknown key")
	}
}

func TestHistoryDisabled(t *testing.T) {
	cfgPath := writeTestConfig(t, false)
	_, _, err := runCLI(t, []string{"history"}, cfgPath)
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestHistoryListsRuns(t *testing.T) {
	cfgPath := writeTestConfig(t, true)

	stdout, _, err := runCLI(t, []string{"history"}, cfgPath)
	if err != nil {
		t.Fatalf("history before runs: %v", err)
	}
	requireContains(t, stdout, "No runs recorded")

	root := seedRoot(t)
	if _, _, err := runCLI(t, []string{root}, cfgPath); err != nil {
		t.Fatalf("organize: %v", err)
	}

	stdout, _, err = runCLI(t, []string{"history", "--limit", "5"}, cfgPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, stdout, root)
	requireContains(t, stdout, "completed")
}

func TestRenderTablePads(t *testing.T) {
	out := renderTable([]column{{title: "Item"}, {title: "Count", right: true}}, [][]string{{"images"}}, false)
	requireContains(t, out, "ITEM")
	requireContains(t, out, "images")
}

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Manifest", statusOK, "/tmp/FilesList.txt", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Manifest:", "[OK] /tmp/FilesList.txt")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Result", statusWarn, "completed with warnings", true)
	if !strings.HasPrefix(got, ansiYellow) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected yellow wrapped line, got %q", got)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}
