package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/twiced-technology-gmbh/notnow/internal/activity"
	"github.com/twiced-technology-gmbh/notnow/internal/clierr"
	"github.com/twiced-technology-gmbh/notnow/internal/config"
	"github.com/twiced-technology-gmbh/notnow/internal/filelock"
	"github.com/twiced-technology-gmbh/notnow/internal/kv"
	"github.com/twiced-technology-gmbh/notnow/internal/output"
	"github.com/twiced-technology-gmbh/notnow/internal/store"
	"github.com/twiced-technology-gmbh/notnow/internal/task"
)

// lockFileName serializes whole commands against each other. The backend
// takes its own lock around each write.
const lockFileName = ".lock"

// openBackend opens the configured persistence backend.
var openBackend = func(cfg *config.Config) (kv.Store, error) {
	return kv.Open(kv.Backend(cfg.Backend), cfg.Dir())
}

// session is a store opened for the duration of one command.
type session struct {
	cfg     *config.Config
	backend kv.Store
	store   *store.Store
	unlock  func() error

	phase    sessionPhase
	writeErr error
}

// sessionMode selects how a session is opened.
type sessionMode int

const (
	// readOnly sessions take no command lock.
	readOnly sessionMode = iota
	// mutating sessions hold the command lock until Close so that the
	// read-modify-write of one command is not interleaved with another.
	mutating
	// interactive sessions are long-lived and report errors in the UI.
	interactive
)

// sessionPhase tells persistence failures during open apart from failures
// of the command itself.
type sessionPhase int

const (
	phaseLoad sessionPhase = iota
	phaseMigrate
	phaseRun
)

func openSession(mode sessionMode) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg}
	if mode == mutating {
		if s.unlock, err = lockCommand(cfg); err != nil {
			return nil, err
		}
	}

	backend, err := openBackend(cfg)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("opening %s backend: %w", cfg.Backend, err)
	}
	s.backend = backend

	opts := []store.Option{
		store.WithFormat(cfg.CodecFormat()),
		store.WithKeys(cfg.Keys.Pending, cfg.Keys.Completed),
		store.WithStampLayout(cfg.Layout()),
		store.WithObserver(func(e store.Event) {
			activity.Record(cfg.Dir(), string(e.Action), e.TaskID, e.Title)
		}),
	}
	if mode != interactive {
		opts = append(opts, store.WithErrorHandler(s.handlePersistError))
	}
	s.store = store.Open(backend, opts...)

	if s.store.HasUnsaved() {
		s.phase = phaseMigrate
		if err := s.saveAssignedIDs(); err != nil {
			s.Close()
			return nil, err
		}
	}
	s.phase = phaseRun
	return s, nil
}

func lockCommand(cfg *config.Config) (func() error, error) {
	unlock, err := filelock.Lock(filepath.Join(cfg.Dir(), lockFileName))
	if err != nil {
		return nil, fmt.Errorf("acquiring lock: %w", err)
	}
	return unlock, nil
}

// saveAssignedIDs writes back ids given to records from older versions.
// The write always happens under the command lock; sessions that do not
// hold it take it briefly and re-read the lists first.
func (s *session) saveAssignedIDs() error {
	if s.unlock == nil {
		unlock, err := lockCommand(s.cfg)
		if err != nil {
			return err
		}
		defer func() { _ = unlock() }()
		s.store.Reload()
	}
	s.store.SaveUnsaved()
	return nil
}

// handlePersistError warns about failures while opening and remembers
// write failures of the command so it can report them.
func (s *session) handlePersistError(_ string, err error) {
	switch s.phase {
	case phaseLoad:
		fmt.Fprintf(os.Stderr, "Warning: %v (starting with an empty list)\n", err)
	case phaseMigrate:
		fmt.Fprintf(os.Stderr, "Warning: %v (task ids could not be saved and may change)\n", err)
	default:
		if s.writeErr == nil {
			s.writeErr = err
		}
	}
}

// persisted returns PERSIST_FAILED when a write since Open failed. The
// in-memory change was applied but is lost when the process exits.
func (s *session) persisted() error {
	if s.writeErr == nil {
		return nil
	}
	return clierr.Newf(clierr.PersistFailed, "change could not be saved: %v", s.writeErr).
		WithDetails(map[string]any{"dir": s.cfg.Dir(), "backend": s.cfg.Backend})
}

// Close releases the backend and the command lock.
func (s *session) Close() {
	if s.backend != nil {
		_ = s.backend.Close()
	}
	if s.unlock != nil {
		_ = s.unlock()
	}
}

// resolvePending resolves a task reference against the pending list.
func (s *session) resolvePending(input string) (int, error) {
	return resolveRef(input, s.store.PendingIDs(), "pending")
}

// resolveCompleted resolves a task reference against the completed list.
func (s *session) resolveCompleted(input string) (int, error) {
	return resolveRef(input, s.store.CompletedIDs(), "completed")
}

func resolveRef(input string, ids []string, list string) (int, error) {
	ref, err := task.ParseRef(input)
	if err != nil {
		return 0, err
	}
	return ref.Resolve(ids, list)
}

// refTarget is a resolved reference captured by id, so that earlier
// operations in a batch do not shift later ones.
type refTarget struct {
	ref string
	id  string
	err error
}

func (s *session) resolveAll(refs []string, completed bool) []refTarget {
	ids := s.store.PendingIDs()
	resolve := s.resolvePending
	if completed {
		ids = s.store.CompletedIDs()
		resolve = s.resolveCompleted
	}

	targets := make([]refTarget, len(refs))
	for i, ref := range refs {
		idx, err := resolve(ref)
		if err != nil {
			targets[i] = refTarget{ref: ref, err: err}
			continue
		}
		targets[i] = refTarget{ref: ref, id: ids[idx]}
	}
	return targets
}

// runBatch executes fn for each target and reports every outcome. Returns a
// SilentError with exit code 1 if any operation failed (after outputting
// results).
func runBatch(targets []refTarget, verb string, fn func(id string) error) error {
	results := make([]output.BatchResult, 0, len(targets))
	for _, t := range targets {
		err := t.err
		if err == nil {
			err = fn(t.id)
		}
		results = append(results, output.NewBatchResult(t.ref, t.id, err))
	}
	report := output.NewBatchReport(results)

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, report); err != nil {
			return err
		}
	} else {
		for _, r := range report.Results {
			if !r.OK {
				fmt.Fprintf(os.Stderr, "Error: task %s: %s\n", r.Ref, r.Error)
			}
		}
		output.Messagef(os.Stdout, "%s %d/%d tasks", verb, report.Succeeded, len(results))
	}

	if report.Failed > 0 {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}

// taskGone reports a task that disappeared between resolving and acting.
func taskGone(id, list string) error {
	return task.NotFound(id, list)
}
