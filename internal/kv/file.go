package kv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/twiced-technology-gmbh/notnow/internal/filelock"
)

const (
	// DataDirName is the subdirectory of the store directory holding one
	// file per key.
	DataDirName = "data"

	lockFileName = ".lock"
	dirMode      = 0o750
	fileMode     = 0o600
)

// File stores each key in its own file under <dir>/data. Writes go to a
// temporary file that is renamed into place while holding an exclusive
// advisory lock; reads hold a shared lock.
type File struct {
	dir string
}

// NewFile returns a file-backed store rooted at dir, creating the data
// directory if needed.
func NewFile(dir string) (*File, error) {
	dataDir := filepath.Join(dir, DataDirName)
	if err := os.MkdirAll(dataDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &File{dir: dataDir}, nil
}

// Dir returns the directory holding the key files.
func (f *File) Dir() string { return f.dir }

// Path returns the file path for key.
func (f *File) Path(key string) string { return filepath.Join(f.dir, key) }

func (f *File) lockPath() string { return filepath.Join(f.dir, lockFileName) }

// Read implements Store.
func (f *File) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	unlock, err := filelock.RLock(f.lockPath())
	if err != nil {
		return nil, false, fmt.Errorf("acquiring read lock: %w", err)
	}
	defer unlock() //nolint:errcheck // best-effort unlock after read

	data, err := os.ReadFile(f.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, true, nil
}

// Write implements Store.
func (f *File) Write(ctx context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return filelock.With(f.lockPath(), func() error {
		return writeAtomic(f.dir, key, value)
	})
}

// Close implements Store.
func (f *File) Close() error { return nil }

// writeAtomic writes value to dir/key via a temp file and rename so readers
// never observe a partially written list.
func writeAtomic(dir, key string, value []byte) error {
	tmp, err := os.CreateTemp(dir, "."+key+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting mode on %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", key, err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, key)); err != nil {
		return fmt.Errorf("replacing %s: %w", key, err)
	}
	return nil
}
