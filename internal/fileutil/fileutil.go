package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// maxCollisionAttempts bounds UniquePath's suffix search.
const maxCollisionAttempts = 10000

// CopyFileVerified streams src to a new file at dst with SHA256 + size
// integrity verification. dst must not exist. Removes dst on mismatch.
func CopyFileVerified(src, dst string) (int64, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, srcInfo.Mode().Perm())
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		_ = os.Remove(dst)
		return 0, err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return 0, err
	}

	if written != srcSize {
		_ = os.Remove(dst)
		return 0, fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}

	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return 0, fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}

	return written, nil
}

// Move relocates src to dst and reports the number of bytes moved. An existing
// dst is never replaced. When src and dst live on different filesystems the
// file is copied with verification and the source removed afterwards.
func Move(src, dst string) (int64, error) {
	info, err := os.Lstat(src)
	if err != nil {
		return 0, err
	}
	if _, err := os.Lstat(dst); err == nil {
		return 0, &fs.PathError{Op: "move", Path: dst, Err: fs.ErrExist}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return 0, err
	}

	var size int64
	if info.Mode().IsRegular() {
		size = info.Size()
	}

	err = os.Rename(src, dst)
	if err == nil {
		return size, nil
	}
	if !errors.Is(err, unix.EXDEV) {
		return 0, err
	}
	return moveAcrossDevices(src, dst, info)
}

func moveAcrossDevices(src, dst string, info fs.FileInfo) (int64, error) {
	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		target, err := os.Readlink(src)
		if err != nil {
			return 0, err
		}
		if err := os.Symlink(target, dst); err != nil {
			return 0, err
		}
		if err := os.Remove(src); err != nil {
			_ = os.Remove(dst)
			return 0, err
		}
		return 0, nil
	case info.Mode().IsRegular():
		written, err := CopyFileVerified(src, dst)
		if err != nil {
			return 0, err
		}
		if err := os.Remove(src); err != nil {
			_ = os.Remove(dst)
			return 0, fmt.Errorf("remove source after copy: %w", err)
		}
		return written, nil
	default:
		return 0, fmt.Errorf("move %s: unsupported file type %s across filesystems", src, info.Mode().Type())
	}
}

// UniquePath returns dir/name, or dir/stem_N.ext with the smallest N >= 1 that
// does not exist yet. The counter goes before the first dot of name (ignoring
// a leading dot), so "a.tar.gz" becomes "a_1.tar.gz".
func UniquePath(dir, name string) (string, error) {
	candidate := filepath.Join(dir, name)
	exists, err := pathExists(candidate)
	if err != nil || !exists {
		return candidate, err
	}

	stem, ext := splitFirstDot(name)
	for i := 1; i <= maxCollisionAttempts; i++ {
		candidate = filepath.Join(dir, stem+"_"+strconv.Itoa(i)+ext)
		exists, err := pathExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free name for %q in %s after %d attempts", name, dir, maxCollisionAttempts)
}

func splitFirstDot(name string) (string, string) {
	offset := 0
	if strings.HasPrefix(name, ".") {
		offset = 1
	}
	idx := strings.IndexByte(name[offset:], '.')
	if idx < 0 {
		return name, ""
	}
	idx += offset
	return name[:idx], name[idx:]
}

func pathExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// SafeJoin joins root and parts and makes sure the result stays inside root.
func SafeJoin(root string, parts ...string) (string, error) {
	p := filepath.Join(append([]string{root}, parts...)...)
	cleanRoot := filepath.Clean(root)
	cleanP := filepath.Clean(p)

	rel, err := filepath.Rel(cleanRoot, cleanP)
	if err != nil {
		return "", err
	}
	relSl := filepath.ToSlash(rel)
	if relSl == ".." || strings.HasPrefix(relSl, "../") {
		return "", fmt.Errorf("path escapes root: %s", p)
	}
	return cleanP, nil
}

// EnsureDir creates path as a directory. It fails when something other than a
// directory already occupies path; symlinks are not followed.
func EnsureDir(path string) error {
	info, err := os.Lstat(path)
	switch {
	case err == nil:
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("%s exists and is not a directory", path)
	case errors.Is(err, fs.ErrNotExist):
		return os.MkdirAll(path, 0o755)
	default:
		return err
	}
}
