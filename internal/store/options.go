package store

import (
	"github.com/twiced-technology-gmbh/notnow/internal/codec"
	"github.com/twiced-technology-gmbh/notnow/internal/stamp"
)

// Default persistence keys, shared with data written by earlier versions.
const (
	DefaultPendingKey   = "todolist"
	DefaultCompletedKey = "completedTodos"
)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to stamp completed tasks.
func WithClock(clock stamp.Clock) Option {
	return func(s *Store) { s.clock = clock }
}

// WithStampLayout sets the time layout of completion stamps.
func WithStampLayout(layout string) Option {
	return func(s *Store) { s.layout = layout }
}

// WithFormat sets the serialization format of both lists.
func WithFormat(f codec.Format) Option {
	return func(s *Store) { s.format = f }
}

// WithKeys overrides the persistence keys of the pending and completed lists.
func WithKeys(pending, completed string) Option {
	return func(s *Store) {
		if pending != "" {
			s.pendingKey = pending
		}
		if completed != "" {
			s.completedKey = completed
		}
	}
}

// WithErrorHandler registers fn to receive persistence failures. Mutations
// never fail because of them; fn decides whether to warn, retry, or abort.
func WithErrorHandler(fn func(key string, err error)) Option {
	return func(s *Store) { s.onErr = fn }
}

// WithObserver registers fn to receive an Event after every applied mutation.
func WithObserver(fn func(Event)) Option {
	return func(s *Store) { s.observe = fn }
}
