package tracking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/maxrep/maxrep-cli/internal/session"
)

var ErrNotFound = fmt.Errorf("log entry %w", session.ErrNotFound)

const (
	KindMeal    = "meal"
	KindWorkout = "workout"
)

const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionRemove = "remove"
	ActionUndo   = "undo"
)

type Entry interface {
	LogID() int64
	LogDate() string
}

// Backend is the remote side of a store, normally the tracking API.
type Backend[E Entry] interface {
	Create(ctx context.Context, entry E) (E, error)
	Update(ctx context.Context, id int64, entry E) (E, error)
	Delete(ctx context.Context, id int64) error
}

type Option[E Entry] func(*Store[E])

func WithUndoSlot[E Entry](slot UndoSlot[E]) Option[E] {
	return func(s *Store[E]) { s.slot = slot }
}

// WithValidator rejects entries before they reach the backend.
func WithValidator[E Entry](fn func(E) error) Option[E] {
	return func(s *Store[E]) { s.validate = fn }
}

// Store keeps the local copy of one kind of log and a single-entry undo
// buffer. Every successful mutation publishes on the bus.
type Store[E Entry] struct {
	kind     string
	backend  Backend[E]
	bus      *Bus
	slot     UndoSlot[E]
	validate func(E) error

	mu      sync.Mutex
	entries []E
}

func NewStore[E Entry](kind string, backend Backend[E], bus *Bus, opts ...Option[E]) *Store[E] {
	s := &Store[E]{kind: kind, backend: backend, bus: bus}
	for _, opt := range opts {
		opt(s)
	}
	if s.slot == nil {
		s.slot = NewMemorySlot[E]()
	}
	return s
}

func (s *Store[E]) Add(ctx context.Context, entry E) (E, error) {
	created, err := s.create(ctx, entry)
	if err != nil {
		return created, err
	}
	s.publish(ActionAdd, created)
	return created, nil
}

func (s *Store[E]) create(ctx context.Context, entry E) (E, error) {
	var zero E
	if s.validate != nil {
		if err := s.validate(entry); err != nil {
			return zero, fmt.Errorf("add %s log: %w", s.kind, err)
		}
	}
	created, err := s.backend.Create(ctx, entry)
	if err != nil {
		return zero, fmt.Errorf("add %s log: %w", s.kind, err)
	}
	s.mu.Lock()
	s.entries = append(s.entries, created)
	s.mu.Unlock()
	return created, nil
}

// Update replaces the entry with the given id in place.
func (s *Store[E]) Update(ctx context.Context, id int64, entry E) (E, error) {
	var zero E
	if s.indexOf(id) < 0 {
		return zero, fmt.Errorf("update %s log %d: %w", s.kind, id, ErrNotFound)
	}
	if s.validate != nil {
		if err := s.validate(entry); err != nil {
			return zero, fmt.Errorf("update %s log %d: %w", s.kind, id, err)
		}
	}
	updated, err := s.backend.Update(ctx, id, entry)
	if err != nil {
		return zero, fmt.Errorf("update %s log %d: %w", s.kind, id, notFound(err))
	}

	s.mu.Lock()
	if i := s.indexOfLocked(id); i >= 0 {
		s.entries[i] = updated
	}
	s.mu.Unlock()
	s.publish(ActionUpdate, updated)
	return updated, nil
}

// Remove deletes the entry and keeps it as the only undo candidate.
func (s *Store[E]) Remove(ctx context.Context, id int64) (E, error) {
	var zero E
	s.mu.Lock()
	i := s.indexOfLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return zero, fmt.Errorf("remove %s log %d: %w", s.kind, id, ErrNotFound)
	}
	removed := s.entries[i]
	s.mu.Unlock()

	if err := s.backend.Delete(ctx, id); err != nil {
		return zero, fmt.Errorf("remove %s log %d: %w", s.kind, id, notFound(err))
	}

	s.mu.Lock()
	if i := s.indexOfLocked(id); i >= 0 {
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
	}
	s.mu.Unlock()

	if err := s.slot.Save(removed); err != nil {
		return removed, fmt.Errorf("remember removed %s log %d: %w", s.kind, id, err)
	}
	s.publish(ActionRemove, removed)
	return removed, nil
}

// UndoLastRemove re-creates the last removed entry. It reports false when
// there is nothing to undo. The recreated entry gets a new id.
func (s *Store[E]) UndoLastRemove(ctx context.Context) (E, bool, error) {
	var zero E
	removed, ok, err := s.slot.Load()
	if err != nil {
		return zero, false, fmt.Errorf("load %s undo slot: %w", s.kind, err)
	}
	if !ok {
		return zero, false, nil
	}
	created, err := s.create(ctx, removed)
	if err != nil {
		return zero, false, fmt.Errorf("undo %s remove: %w", s.kind, err)
	}
	if err := s.slot.Clear(); err != nil {
		return created, true, fmt.Errorf("clear %s undo slot: %w", s.kind, err)
	}
	s.publish(ActionUndo, created)
	return created, true, nil
}

// Replace loads server state without publishing an event.
func (s *Store[E]) Replace(entries []E) {
	next := make([]E, len(entries))
	copy(next, entries)
	s.mu.Lock()
	s.entries = next
	s.mu.Unlock()
}

// All returns the entries sorted by date, then id.
func (s *Store[E]) All() []E {
	s.mu.Lock()
	out := make([]E, len(s.entries))
	copy(out, s.entries)
	s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LogDate() != out[j].LogDate() {
			return out[i].LogDate() < out[j].LogDate()
		}
		return out[i].LogID() < out[j].LogID()
	})
	return out
}

func (s *Store[E]) OnDate(date string) []E {
	var out []E
	for _, e := range s.All() {
		if e.LogDate() == date {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store[E]) Get(id int64) (E, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOfLocked(id); i >= 0 {
		return s.entries[i], true
	}
	var zero E
	return zero, false
}

func (s *Store[E]) indexOf(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOfLocked(id)
}

func (s *Store[E]) indexOfLocked(id int64) int {
	for i, e := range s.entries {
		if e.LogID() == id {
			return i
		}
	}
	return -1
}

func (s *Store[E]) publish(action string, entry E) {
	s.bus.Publish(Event{Name: EventTrackingUpdated, Kind: s.kind, Action: action, ID: entry.LogID(), Date: entry.LogDate()})
}

func notFound(err error) error {
	if errors.Is(err, session.ErrNotFound) && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
