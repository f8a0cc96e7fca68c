// Package store owns the pending and completed task lists and mirrors them
// to a key-value persistence service after every mutation.
//
// A Store is not safe for concurrent use. It is driven by one event loop
// (a CLI command or the TUI), and each operation runs to completion before
// the next one starts.
//
// Index arguments are positions in the current lists. Passing an index
// outside the list is a programming error and panics like a slice index;
// callers resolve user input with task.Ref before calling in.
package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/twiced-technology-gmbh/notnow/internal/codec"
	"github.com/twiced-technology-gmbh/notnow/internal/kv"
	"github.com/twiced-technology-gmbh/notnow/internal/stamp"
	"github.com/twiced-technology-gmbh/notnow/internal/task"
)

// Field names an editable task field.
type Field string

// Editable fields.
const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
)

// Store is the task list store.
type Store struct {
	kv           kv.Store
	format       codec.Format
	pendingKey   string
	completedKey string
	clock        stamp.Clock
	layout       string
	onErr        func(key string, err error)
	observe      func(Event)

	pending   []task.Task
	completed []task.CompletedTask
	edit      *editSession
	err       error

	// unsaved lists were given ids on load and are not yet written back.
	unsaved []list
}

type editSession struct {
	index   int
	working task.Task
}

// list selects one of the two persisted lists.
type list int

const (
	pendingList list = iota
	completedList
)

// Open creates a store backed by backend and loads both lists from it.
// A missing or unparseable list starts empty; load failures are passed to
// the error handler and recorded in Err.
func Open(backend kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:           backend,
		format:       codec.JSON,
		pendingKey:   DefaultPendingKey,
		completedKey: DefaultCompletedKey,
		clock:        stamp.System,
		layout:       stamp.DefaultLayout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

// Reload re-reads both lists from the persistence service, discarding the
// in-memory state. An edit in progress survives if its task still exists.
func (s *Store) Reload() {
	s.load()
	if s.edit != nil && s.IndexOf(s.edit.working.ID) < 0 {
		s.edit = nil
	}
}

func (s *Store) load() {
	ctx := context.Background()

	var pendingIDs, completedIDs bool
	s.pending, pendingIDs = readList[task.Task](ctx, s, s.pendingKey)
	s.completed, completedIDs = readList[task.CompletedTask](ctx, s, s.completedKey)

	// Records written before ids existed get one now. The lists are written
	// back by SaveUnsaved or with the next mutation, not during load.
	s.unsaved = nil
	if !pendingIDs {
		for i := range s.pending {
			if s.pending[i].ID == "" {
				s.pending[i].ID = task.NewID()
			}
		}
		s.unsaved = append(s.unsaved, pendingList)
	}
	if !completedIDs {
		for i := range s.completed {
			if s.completed[i].ID == "" {
				s.completed[i].ID = task.NewID()
			}
		}
		s.unsaved = append(s.unsaved, completedList)
	}
}

// HasUnsaved reports whether load assigned ids that are not persisted yet.
func (s *Store) HasUnsaved() bool { return len(s.unsaved) > 0 }

// SaveUnsaved writes the lists that were given ids on load.
func (s *Store) SaveUnsaved() {
	s.persist()
}

// readList loads one list. The boolean reports whether every record
// already carries an id.
func readList[T task.Task | task.CompletedTask](ctx context.Context, s *Store, key string) ([]T, bool) {
	data, ok, err := s.kv.Read(ctx, key)
	if err != nil {
		s.fail(key, fmt.Errorf("reading %s: %w", key, err))
		return []T{}, true
	}
	if !ok {
		return []T{}, true
	}

	records, err := codec.Decode[T](s.format, data)
	if err != nil {
		s.fail(key, fmt.Errorf("parsing %s: %w", key, err))
		return []T{}, true
	}

	for _, r := range records {
		if recordID(r) == "" {
			return records, false
		}
	}
	return records, true
}

func recordID[T task.Task | task.CompletedTask](r T) string {
	switch v := any(r).(type) {
	case task.Task:
		return v.ID
	case task.CompletedTask:
		return v.ID
	}
	return ""
}

// persist is the single write path: it serializes each named list, plus any
// list still unsaved since load, and writes it to the persistence service.
// Failures never undo the in-memory mutation; they are reported to the
// error handler.
func (s *Store) persist(lists ...list) {
	ctx := context.Background()
	for _, l := range s.unsaved {
		if !slices.Contains(lists, l) {
			lists = append(lists, l)
		}
	}
	s.unsaved = nil

	for _, l := range lists {
		var (
			key  string
			data []byte
			err  error
		)
		switch l {
		case pendingList:
			key = s.pendingKey
			data, err = codec.Encode(s.format, s.pending)
		case completedList:
			key = s.completedKey
			data, err = codec.Encode(s.format, s.completed)
		}
		if err == nil {
			err = s.kv.Write(ctx, key, data)
		}
		if err != nil {
			s.fail(key, fmt.Errorf("writing %s: %w", key, err))
		}
	}
}

func (s *Store) fail(key string, err error) {
	s.err = err
	if s.onErr != nil {
		s.onErr(key, err)
	}
}

func (s *Store) emit(action Action, id, title string) {
	if s.observe != nil {
		s.observe(Event{Action: action, TaskID: id, Title: title})
	}
}

// Err returns the most recent persistence failure, or nil.
func (s *Store) Err() error { return s.err }

// Pending returns a copy of the pending list in display order.
func (s *Store) Pending() []task.Task {
	return append([]task.Task{}, s.pending...)
}

// Completed returns a copy of the completed list in display order.
func (s *Store) Completed() []task.CompletedTask {
	return append([]task.CompletedTask{}, s.completed...)
}

// PendingIDs returns the ids of the pending list in display order.
func (s *Store) PendingIDs() []string {
	ids := make([]string, len(s.pending))
	for i, t := range s.pending {
		ids[i] = t.ID
	}
	return ids
}

// CompletedIDs returns the ids of the completed list in display order.
func (s *Store) CompletedIDs() []string {
	ids := make([]string, len(s.completed))
	for i, t := range s.completed {
		ids[i] = t.ID
	}
	return ids
}

// IndexOf returns the position of the pending task with id, or -1.
func (s *Store) IndexOf(id string) int {
	for i, t := range s.pending {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// CompletedIndexOf returns the position of the completed task with id, or -1.
func (s *Store) CompletedIndexOf(id string) int {
	for i, t := range s.completed {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Add appends a new task when both title and description are non-blank.
// The returned Validation reports each missing field independently; when it
// is not OK nothing changes.
func (s *Store) Add(title, description string) (task.Task, task.Validation) {
	v := task.Validate(title, description)
	if !v.OK() {
		return task.Task{}, v
	}

	t := task.New(title, description)
	s.pending = append(s.pending, t)
	s.persist(pendingList)
	s.emit(ActionAdd, t.ID, t.Title)
	return t, v
}

// Delete removes the pending task at i, keeping the order of the rest.
func (s *Store) Delete(i int) task.Task {
	t := s.removePending(i)
	s.persist(pendingList)
	s.emit(ActionDelete, t.ID, t.Title)
	return t
}

// Complete stamps the pending task at i with the current local time and
// moves it to the end of the completed list.
func (s *Store) Complete(i int) task.CompletedTask {
	done := s.pending[i].Complete(stamp.Now(s.clock, s.layout))
	s.completed = append(s.completed, done)
	s.persist(completedList)

	s.removePending(i)
	s.persist(pendingList)
	s.emit(ActionComplete, done.ID, done.Title)
	return done
}

// DeleteCompleted removes the completed task at i.
func (s *Store) DeleteCompleted(i int) task.CompletedTask {
	c := s.completed[i]
	s.completed = append(s.completed[:i:i], s.completed[i+1:]...)
	s.persist(completedList)
	s.emit(ActionDeleteCompleted, c.ID, c.Title)
	return c
}

// Undo moves the completed task at i back to the end of the pending list,
// dropping its completion stamp.
func (s *Store) Undo(i int) task.Task {
	t := s.completed[i].Reopen()
	s.pending = append(s.pending, t)
	s.completed = append(s.completed[:i:i], s.completed[i+1:]...)
	s.persist(pendingList, completedList)
	s.emit(ActionUndo, t.ID, t.Title)
	return t
}

// BeginEdit starts editing the pending task at i with a working copy.
// Nothing is persisted until CommitEdit.
func (s *Store) BeginEdit(i int) {
	s.edit = &editSession{index: i, working: s.pending[i]}
}

// Editing returns the index and working copy of the edit in progress.
func (s *Store) Editing() (int, task.Task, bool) {
	if s.edit == nil {
		return 0, task.Task{}, false
	}
	return s.edit.index, s.edit.working, true
}

// UpdateEditField changes one field of the working copy. It is a no-op when
// no edit is in progress.
func (s *Store) UpdateEditField(field Field, value string) {
	if s.edit == nil {
		return
	}
	switch field {
	case FieldTitle:
		s.edit.working.Title = value
	case FieldDescription:
		s.edit.working.Description = value
	}
}

// CommitEdit writes the working copy back over the task being edited and
// ends the edit. Fields are not re-validated. The task is located by id so
// that edits stay attached to their task if the list shifted meanwhile; the
// recorded index is used when the id is gone.
func (s *Store) CommitEdit() (task.Task, bool) {
	if s.edit == nil {
		return task.Task{}, false
	}
	e := s.edit
	s.edit = nil

	i := s.IndexOf(e.working.ID)
	if i < 0 {
		i = e.index
	}
	if i < 0 || i >= len(s.pending) {
		return task.Task{}, false
	}

	s.pending[i] = e.working
	s.persist(pendingList)
	s.emit(ActionEdit, e.working.ID, e.working.Title)
	return e.working, true
}

// CancelEdit ends the edit in progress without writing anything.
func (s *Store) CancelEdit() {
	s.edit = nil
}

func (s *Store) removePending(i int) task.Task {
	t := s.pending[i]
	s.pending = append(s.pending[:i:i], s.pending[i+1:]...)
	return t
}
