package stats

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Suffix is appended to the input path to name its snapshot.
const Suffix = ".stats"

// Path returns the snapshot path for input.
func Path(input string) string { return input + Suffix }

func lockPath(input string) string { return Path(input) + ".lock" }

// Save writes session to Path(input). The snapshot is written to a temporary
// file in the same directory and renamed into place under an exclusive lock.
func Save(session Session, input string) (string, error) {
	target := Path(input)
	lock := flock.New(lockPath(input))
	if err := lock.Lock(); err != nil {
		return "", snapshotErr("save", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".*.tmp")
	if err != nil {
		return "", snapshotErr("save", "create temp file", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	w := bufio.NewWriter(tmp)
	if err := Encode(w, session); err != nil {
		cleanup()
		return "", err
	}
	if err := w.Flush(); err != nil {
		cleanup()
		return "", snapshotErr("save", "write temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return "", snapshotErr("save", "sync temp file", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", snapshotErr("save", "close temp file", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return "", snapshotErr("save", fmt.Sprintf("rename to %s", target), err)
	}
	return target, nil
}

// Load reads the snapshot stored next to input. A shared lock is taken only
// when a writer has created the lock file; Load never creates files, so it
// works in read-only directories. Save renames complete files into place, so
// an unlocked read never sees a partial snapshot.
func Load(input string) (Session, error) {
	target := Path(input)
	if _, err := os.Stat(lockPath(input)); err == nil {
		lock := flock.New(lockPath(input))
		if err := lock.RLock(); err != nil {
			return Session{}, snapshotErr("load", "acquire lock", err)
		}
		defer func() { _ = lock.Unlock() }()
	}

	f, err := os.Open(target)
	if err != nil {
		return Session{}, snapshotErr("load", "open snapshot", err)
	}
	defer f.Close()
	return Decode(f)
}
