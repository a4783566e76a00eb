// Package runlock keeps two clean-folder runs from reorganizing the same
// directory at once.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"cleanfolder/internal/faults"
	"cleanfolder/internal/textutil"
)

// Lock is an advisory lock held for one root directory.
type Lock struct {
	path string
	lock *flock.Flock
}

// PathFor returns the lock file used for root inside lockDir. The name mixes
// a readable token of the root's base name with a hash of its absolute path.
func PathFor(lockDir, root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(abs))
	token := textutil.SanitizeToken(textutil.Normalize(filepath.Base(abs)))
	return filepath.Join(lockDir, token+"-"+hex.EncodeToString(sum[:])[:12]+".lock"), nil
}

// Acquire takes the lock for root without blocking. It fails with
// faults.ErrLocked when another process holds it.
func Acquire(lockDir, root string) (*Lock, error) {
	path, err := PathFor(lockDir, root)
	if err != nil {
		return nil, faults.Wrap(faults.ErrValidation, "lock", "resolve root", root, err)
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, faults.Wrap(faults.ErrFilesystem, "lock", "acquire lock", path, err)
	}
	if !ok {
		return nil, faults.Wrap(faults.ErrLocked, "lock", "acquire lock", fmt.Sprintf("another run is organizing %s", root), nil)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks. The lock file is left in place for reuse.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
