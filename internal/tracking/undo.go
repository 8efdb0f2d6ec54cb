package tracking

import (
	"encoding/json"
	"fmt"
	"sync"
)

// UndoSlot holds the most recently removed entry.
type UndoSlot[E any] interface {
	Save(entry E) error
	Load() (E, bool, error)
	Clear() error
}

type memorySlot[E any] struct {
	mu    sync.Mutex
	entry E
	full  bool
}

func NewMemorySlot[E any]() UndoSlot[E] {
	return &memorySlot[E]{}
}

func (m *memorySlot[E]) Save(entry E) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry, m.full = entry, true
	return nil
}

func (m *memorySlot[E]) Load() (E, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entry, m.full, nil
}

func (m *memorySlot[E]) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero E
	m.entry, m.full = zero, false
	return nil
}

// SlotStorage is keyed byte storage for undo slots, such as db.UndoSlots.
type SlotStorage interface {
	Save(kind string, payload []byte) error
	Load(kind string) ([]byte, bool, error)
	Clear(kind string) error
}

type jsonSlot[E any] struct {
	storage SlotStorage
	kind    string
}

// NewJSONSlot stores the removed entry as JSON under kind.
func NewJSONSlot[E any](storage SlotStorage, kind string) UndoSlot[E] {
	return jsonSlot[E]{storage: storage, kind: kind}
}

func (j jsonSlot[E]) Save(entry E) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal %s undo entry: %w", j.kind, err)
	}
	return j.storage.Save(j.kind, payload)
}

func (j jsonSlot[E]) Load() (E, bool, error) {
	var entry E
	payload, ok, err := j.storage.Load(j.kind)
	if err != nil || !ok {
		return entry, false, err
	}
	if err := json.Unmarshal(payload, &entry); err != nil {
		return entry, false, fmt.Errorf("decode %s undo entry: %w", j.kind, err)
	}
	return entry, true, nil
}

func (j jsonSlot[E]) Clear() error {
	return j.storage.Clear(j.kind)
}
