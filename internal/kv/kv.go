// Package kv implements the key-value persistence service the task store
// reads at startup and writes after every mutation.
package kv

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Store is a key-value persistence service.
type Store interface {
	// Read returns the value stored under key. ok is false when the key has
	// never been written.
	Read(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Write replaces the value stored under key.
	Write(ctx context.Context, key string, value []byte) error
	// Close releases the backend's resources.
	Close() error
}

// Backend names a Store implementation.
type Backend string

// Supported backends.
const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// ErrInvalidKey is returned for keys that cannot be stored safely.
var ErrInvalidKey = errors.New("invalid key")

// ErrUnknownBackend is returned by Open for unsupported backend names.
var ErrUnknownBackend = errors.New("unknown backend")

var keyRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// ValidateKey checks that key is usable as a file name and a table key.
func ValidateKey(key string) error {
	if !keyRe.MatchString(key) || strings.Contains(key, "..") {
		return fmt.Errorf("%w %q", ErrInvalidKey, key)
	}
	return nil
}

// Backends lists the persistent backend names accepted in configuration.
func Backends() []string {
	return []string{string(BackendFile), string(BackendSQLite)}
}

// Open opens the named backend rooted at dir.
func Open(backend Backend, dir string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFile(dir)
	case BackendSQLite:
		return NewSQLite(SQLitePath(dir))
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w %q (supported: %s)", ErrUnknownBackend, backend, strings.Join(Backends(), ", "))
	}
}
