package archive_test

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"

	"cleanfolder/internal/archive"
)

type entry struct {
	name    string
	body    string
	symlink string
}

func writeZip(t *testing.T, path string, entries []entry) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			t.Fatalf("zip create %s: %v", e.name, err)
		}
		if _, err := w.Write([]byte(e.body)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func tarBytes(t *testing.T, entries []entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0o644, Size: int64(len(e.body)), Typeflag: tar.TypeReg}
		if e.symlink != "" {
			hdr = &tar.Header{Name: e.name, Linkname: e.symlink, Mode: 0o777, Typeflag: tar.TypeSymlink}
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("tar header: %v", err)
		}
		if e.symlink == "" {
			if _, err := tw.Write([]byte(e.body)); err != nil {
				t.Fatalf("tar write: %v", err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}
	return buf.Bytes()
}

func gzipBytes(t *testing.T, name string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	gw.Name = name
	if _, err := gw.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestDetectFormat(t *testing.T) {
	cases := map[string]archive.Format{
		"data.zip":      archive.FormatZip,
		"DATA.ZIP":      archive.FormatZip,
		"backup.tar":    archive.FormatTar,
		"backup.tar.gz": archive.FormatTarGz,
		"dump.sql.gz":   archive.FormatGzip,
	}
	for name, want := range cases {
		got, err := archive.DetectFormat(name)
		if err != nil || got != want {
			t.Errorf("DetectFormat(%q) = %q, %v; want %q", name, got, err, want)
		}
	}
	for _, name := range []string{"photo.jpg", "backup.tgz"} {
		if _, err := archive.DetectFormat(name); !errors.Is(err, archive.ErrUnsupportedFormat) {
			t.Fatalf("DetectFormat(%q): expected ErrUnsupportedFormat, got %v", name, err)
		}
	}
}

func TestExtractZip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "data.zip")
	writeZip(t, src, []entry{
		{name: "readme.txt", body: "hello"},
		{name: "sub/"},
		{name: "sub/inner.csv", body: "a,b"},
	})
	dest := filepath.Join(dir, "out")
	if err := os.Mkdir(dest, 0o755); err != nil {
		t.Fatal(err)
	}

	stats, err := archive.Extract(context.Background(), src, dest)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if stats.Files != 2 || stats.Bytes != 8 || stats.Format != archive.FormatZip {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if got := readFile(t, filepath.Join(dest, "readme.txt")); got != "hello" {
		t.Fatalf("readme = %q", got)
	}
	if got := readFile(t, filepath.Join(dest, "sub", "inner.csv")); got != "a,b" {
		t.Fatalf("inner = %q", got)
	}
}

func TestExtractZipRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "evil.zip")
	writeZip(t, src, []entry{{name: "../escaped.txt", body: "x"}})
	dest := filepath.Join(dir, "out")
	if err := os.Mkdir(dest, 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := archive.Extract(context.Background(), src, dest); err == nil {
		t.Fatal("expected traversal error")
	}
	if _, err := os.Stat(filepath.Join(dir, "escaped.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("entry escaped destination: %v", err)
	}
}

func TestExtractCorruptZip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "data2.zip")
	if err := os.WriteFile(src, []byte("this is not a zip archive"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := archive.Extract(context.Background(), src, t.TempDir()); err == nil {
		t.Fatal("expected error for corrupt zip")
	}
}

func TestExtractTarGz(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "backup.tar.gz")
	payload := tarBytes(t, []entry{
		{name: "docs/a.txt", body: "alpha"},
		{name: "link", symlink: "/etc/passwd"},
	})
	if err := os.WriteFile(src, gzipBytes(t, "", payload), 0o644); err != nil {
		t.Fatal(err)
	}
	dest := t.TempDir()

	stats, err := archive.Extract(context.Background(), src, dest)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if stats.Files != 1 || stats.Skipped != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if got := readFile(t, filepath.Join(dest, "docs", "a.txt")); got != "alpha" {
		t.Fatalf("a.txt = %q", got)
	}
	if _, err := os.Lstat(filepath.Join(dest, "link")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("symlink entry should be skipped, got %v", err)
	}
}

func TestExtractTarRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "evil.tar")
	if err := os.WriteFile(src, tarBytes(t, []entry{{name: "../../x.txt", body: "x"}}), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := archive.Extract(context.Background(), src, t.TempDir()); err == nil {
		t.Fatal("expected traversal error")
	}
}

func TestExtractSingleGzip(t *testing.T) {
	dir := t.TempDir()

	named := filepath.Join(dir, "dump.gz")
	if err := os.WriteFile(named, gzipBytes(t, "dump.sql", []byte("select 1;")), 0o644); err != nil {
		t.Fatal(err)
	}
	dest := t.TempDir()
	if _, err := archive.Extract(context.Background(), named, dest); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := readFile(t, filepath.Join(dest, "dump.sql")); got != "select 1;" {
		t.Fatalf("dump.sql = %q", got)
	}

	unnamed := filepath.Join(dir, "notes.txt.gz")
	if err := os.WriteFile(unnamed, gzipBytes(t, "", []byte("n")), 0o644); err != nil {
		t.Fatal(err)
	}
	dest = t.TempDir()
	if _, err := archive.Extract(context.Background(), unnamed, dest); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := readFile(t, filepath.Join(dest, "notes.txt")); got != "n" {
		t.Fatalf("notes.txt = %q", got)
	}
}

func TestExtractTruncatedGzip(t *testing.T) {
	dir := t.TempDir()
	data := gzipBytes(t, "big.bin", bytes.Repeat([]byte("z"), 4096))
	src := filepath.Join(dir, "big.gz")
	if err := os.WriteFile(src, data[:len(data)-6], 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := archive.Extract(context.Background(), src, t.TempDir()); err == nil {
		t.Fatal("expected error for truncated gzip")
	}
}
