// Package session owns the current ledger state. It is the only writer: each
// mutation is computed by the engine, persisted through a store and only then
// made visible to readers.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"voterroll/pkg/engine"
	"voterroll/pkg/logger"
	"voterroll/pkg/parser"
	"voterroll/pkg/schema"
	"voterroll/pkg/store"
)

// errUnchanged lets an operation skip persisting when it produced no change.
var errUnchanged = errors.New("state unchanged")

// Session serializes writers and hands readers immutable states.
type Session struct {
	mu      sync.RWMutex
	store   store.Store
	state   engine.State
	version uint64

	log     *slog.Logger
	metrics *Metrics
	mapOpts []schema.MapOption
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. Nil keeps the discard logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics enables metrics collection.
func WithMetrics(m *Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithMapOptions passes column mapping options to every upload.
func WithMapOptions(opts ...schema.MapOption) Option {
	return func(s *Session) {
		s.mapOpts = append(s.mapOpts, opts...)
	}
}

// New loads the stored snapshot and returns a session positioned on it.
func New(ctx context.Context, st store.Store, opts ...Option) (*Session, error) {
	s := &Session{store: st, log: logger.Discard()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory state with the stored one. Use it after a
// version conflict caused by another process.
func (s *Session) Reload(ctx context.Context) error {
	snap, version, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	state, err := engine.Decode(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state, s.version = state, version
	s.mu.Unlock()

	s.observeSize(state)
	s.log.Info("snapshot loaded", "version", version, "voters", state.Hierarchy.VoterCount(),
		"pending", len(state.Pending), "confirmed", len(state.Confirmed))
	return nil
}

// State returns the current state. Callers must not modify it.
func (s *Session) State() engine.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Version returns the version of the current state.
func (s *Session) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// LoadRegistry parses a registry spreadsheet and replaces the hierarchy.
func (s *Session) LoadRegistry(ctx context.Context, r io.Reader, name string) (engine.LoadResult, error) {
	sheet, err := parser.Parse(ctx, r, name)
	if err != nil {
		return engine.LoadResult{}, err
	}

	var res engine.LoadResult
	err = s.commit(ctx, "load_registry", func(st engine.State) (engine.State, error) {
		next, out, err := engine.LoadRegistry(st, sheet, s.mapOpts...)
		res = out
		return next, err
	})
	if err != nil {
		return engine.LoadResult{}, err
	}

	s.warn("load_registry", name, res.Warnings)
	if s.metrics != nil {
		s.metrics.VotersLoaded.Add(float64(res.Voters))
	}
	return res, nil
}

// ImportCancellations parses a cancellation spreadsheet and appends its rows
// to the pending list.
func (s *Session) ImportCancellations(ctx context.Context, r io.Reader, name string) (engine.IngestResult, error) {
	sheet, err := parser.Parse(ctx, r, name)
	if err != nil {
		return engine.IngestResult{}, err
	}

	var res engine.IngestResult
	err = s.commit(ctx, "import_cancellations", func(st engine.State) (engine.State, error) {
		next, out, err := engine.IngestCancellations(st, sheet, s.mapOpts...)
		res = out
		return next, err
	})
	if err != nil {
		return engine.IngestResult{}, err
	}

	s.warn("import_cancellations", name, res.Warnings)
	if s.metrics != nil {
		s.metrics.CancellationsIngested.Add(float64(res.Added))
	}
	return res, nil
}

// ConfirmAll applies every pending cancellation.
func (s *Session) ConfirmAll(ctx context.Context) (engine.ConfirmResult, error) {
	var res engine.ConfirmResult
	err := s.commit(ctx, "confirm_all", func(st engine.State) (engine.State, error) {
		next, out, err := engine.ConfirmAll(st)
		res = out
		if err == nil && out.Moved == 0 {
			return next, errUnchanged
		}
		return next, err
	})
	if err != nil {
		return engine.ConfirmResult{}, err
	}

	s.warn("confirm_all", "", res.Warnings)
	if s.metrics != nil {
		s.metrics.CancellationsConfirmed.Add(float64(res.Moved))
		s.metrics.VotersRemoved.Add(float64(res.Removed))
	}
	return res, nil
}

// Restore undoes the cancellation of one ledger entry.
func (s *Session) Restore(ctx context.Context, entry schema.Voter) (engine.RestoreResult, error) {
	var res engine.RestoreResult
	err := s.commit(ctx, "restore", func(st engine.State) (engine.State, error) {
		next, out, err := engine.Restore(st, entry)
		res = out
		return next, err
	})
	if err != nil {
		return engine.RestoreResult{}, err
	}

	if s.metrics != nil && res.Restored {
		s.metrics.VotersRestored.Inc()
	}
	return res, nil
}

// RestoreAll undoes every confirmed cancellation and clears the pending list.
func (s *Session) RestoreAll(ctx context.Context) (engine.RestoreAllResult, error) {
	var res engine.RestoreAllResult
	err := s.commit(ctx, "restore_all", func(st engine.State) (engine.State, error) {
		next, out, err := engine.RestoreAll(st)
		res = out
		return next, err
	})
	if err != nil {
		return engine.RestoreAllResult{}, err
	}

	if len(res.Unplaced) > 0 {
		s.log.Warn("entries left in confirmed list", "operation", "restore_all", "unplaced", len(res.Unplaced))
	}
	if s.metrics != nil {
		s.metrics.VotersRestored.Add(float64(res.Restored))
	}
	return res, nil
}

// Clear drops the hierarchy and both lists.
func (s *Session) Clear(ctx context.Context) error {
	return s.commit(ctx, "clear", func(engine.State) (engine.State, error) {
		return engine.Clear(), nil
	})
}

// commit runs fn on the current state, persists the result as the next
// version and swaps it in. On any error the current state is kept.
func (s *Session) commit(ctx context.Context, op string, fn func(engine.State) (engine.State, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	next, err := fn(s.state)
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		s.count(op, "rejected")
		return err
	}

	snap, err := engine.Encode(next)
	if err != nil {
		s.count(op, "failed")
		return err
	}

	version := s.version + 1
	if err := s.store.Save(ctx, snap, version); err != nil {
		s.count(op, "failed")
		s.log.Error("failed to persist snapshot", "operation", op, "version", version, "error", err)
		return fmt.Errorf("failed to persist %s: %w", op, err)
	}

	s.state, s.version = next, version
	s.count(op, "committed")
	s.observeSize(next)
	s.log.Info("committed", "operation", op, "commit_id", uuid.NewString(), "version", version,
		"voters", next.Hierarchy.VoterCount(), "pending", len(next.Pending), "confirmed", len(next.Confirmed))
	return nil
}

func (s *Session) warn(op, file string, warnings []schema.Warning) {
	for _, w := range warnings {
		s.log.Warn(w.Message, "operation", op, "file", file, "kind", w.Kind, "row", w.Row, "field", w.Field, "value", w.Value)
	}
}

func (s *Session) count(op, outcome string) {
	if s.metrics != nil {
		s.metrics.Commits.WithLabelValues(op, outcome).Inc()
	}
}

func (s *Session) observeSize(st engine.State) {
	if s.metrics != nil {
		s.metrics.HierarchyVoters.Set(float64(st.Hierarchy.VoterCount()))
	}
}
