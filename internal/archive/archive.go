package archive

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"

	"cleanfolder/internal/fileutil"
)

// ErrUnsupportedFormat is returned for names without a recognized archive suffix.
var ErrUnsupportedFormat = errors.New("unsupported archive format")

// Format identifies an archive container.
type Format string

const (
	FormatZip   Format = "zip"
	FormatTar   Format = "tar"
	FormatTarGz Format = "tar.gz"
	FormatGzip  Format = "gz"
)

// Stats summarizes one extraction.
type Stats struct {
	Format  Format
	Files   int
	Dirs    int
	Skipped int
	Bytes   int64
}

// DetectFormat picks the container format from the archive file name.
func DetectFormat(name string) (Format, error) {
	lower := strings.ToLower(filepath.Base(name))
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return FormatZip, nil
	case strings.HasSuffix(lower, ".tar.gz"):
		return FormatTarGz, nil
	case strings.HasSuffix(lower, ".tar"):
		return FormatTar, nil
	case strings.HasSuffix(lower, ".gz"):
		return FormatGzip, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(name))
	}
}

// Extract unpacks src into the existing directory dest.
func Extract(ctx context.Context, src, dest string) (Stats, error) {
	format, err := DetectFormat(src)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Format: format}
	switch format {
	case FormatZip:
		err = extractZip(ctx, src, dest, &stats)
	case FormatTar:
		err = withFile(src, func(r io.Reader) error {
			return extractTar(ctx, r, dest, &stats)
		})
	case FormatTarGz:
		err = withGzip(src, func(gz *gzip.Reader) error {
			return extractTar(ctx, gz, dest, &stats)
		})
	case FormatGzip:
		err = withGzip(src, func(gz *gzip.Reader) error {
			return extractGzip(src, gz, dest, &stats)
		})
	}
	if err != nil {
		return stats, fmt.Errorf("extract %s: %w", filepath.Base(src), err)
	}
	return stats, nil
}

func withFile(src string, fn func(io.Reader) error) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(f)
}

func withGzip(src string, fn func(*gzip.Reader) error) error {
	return withFile(src, func(r io.Reader) error {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return err
		}
		defer gz.Close()
		if err := fn(gz); err != nil {
			return err
		}
		// Reading to EOF verifies the trailing checksum.
		_, err = io.Copy(io.Discard, gz)
		return err
	})
}

func extractZip(ctx context.Context, src, dest string, stats *Stats) error {
	reader, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer reader.Close()

	for _, f := range reader.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, err := fileutil.SafeJoin(dest, f.Name)
		if err != nil {
			return err
		}
		mode := f.Mode()
		switch {
		case mode.IsDir():
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			stats.Dirs++
		case mode.IsRegular():
			rc, err := f.Open()
			if err != nil {
				return fmt.Errorf("open entry %s: %w", f.Name, err)
			}
			n, err := writeEntry(target, rc, mode.Perm())
			rc.Close()
			if err != nil {
				return fmt.Errorf("write entry %s: %w", f.Name, err)
			}
			stats.Files++
			stats.Bytes += n
		default:
			stats.Skipped++
		}
	}
	return nil
}

func extractTar(ctx context.Context, r io.Reader, dest string, stats *Stats) error {
	tr := tar.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		target, err := fileutil.SafeJoin(dest, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			stats.Dirs++
		case tar.TypeReg:
			n, err := writeEntry(target, tr, fs.FileMode(hdr.Mode).Perm())
			if err != nil {
				return fmt.Errorf("write entry %s: %w", hdr.Name, err)
			}
			stats.Files++
			stats.Bytes += n
		default:
			stats.Skipped++
		}
	}
}

func extractGzip(src string, gz *gzip.Reader, dest string, stats *Stats) error {
	name := filepath.Base(filepath.FromSlash(gz.Name))
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		name = gzipStem(filepath.Base(src))
	}
	target, err := fileutil.SafeJoin(dest, name)
	if err != nil {
		return err
	}
	n, err := writeEntry(target, gz, 0o644)
	if err != nil {
		return err
	}
	stats.Files++
	stats.Bytes += n
	return nil
}

func gzipStem(base string) string {
	stem := base
	if strings.HasSuffix(strings.ToLower(stem), ".gz") {
		stem = stem[:len(stem)-len(".gz")]
	}
	if stem == "" {
		return "data"
	}
	return stem
}

func writeEntry(target string, r io.Reader, perm fs.FileMode) (int64, error) {
	if perm == 0 {
		perm = 0o644
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm|0o200)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, r)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return n, err
}
