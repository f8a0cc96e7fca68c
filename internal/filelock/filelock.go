// Package filelock provides advisory file locks so the CLI and a running
// TUI never interleave writes to the same data directory.
package filelock

import "os"

const lockFileMode = 0o600

// Lock acquires an exclusive advisory lock on the file at path, creating it
// if needed. It blocks until the lock is available. The returned function
// releases the lock.
func Lock(path string) (unlock func() error, err error) {
	return acquire(path, true)
}

// RLock acquires a shared advisory lock. Any number of readers may hold it
// at once; writers wait for all of them.
func RLock(path string) (unlock func() error, err error) {
	return acquire(path, false)
}

// With runs fn while holding the exclusive lock at path.
func With(path string, fn func() error) error {
	unlock, err := Lock(path)
	if err != nil {
		return err
	}
	fnErr := fn()
	if unlockErr := unlock(); fnErr == nil {
		return unlockErr
	}
	return fnErr
}

func acquire(path string, exclusive bool) (func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock path from trusted data dir
	if err != nil {
		return nil, err
	}

	if err := lockFile(f, exclusive); err != nil {
		_ = f.Close()
		return nil, err
	}

	return func() error {
		unlockErr := unlockFile(f)
		closeErr := f.Close()
		if unlockErr != nil {
			return unlockErr
		}
		return closeErr
	}, nil
}
