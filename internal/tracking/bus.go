package tracking

import "sync"

const EventTrackingUpdated = "tracking-updated"

type Event struct {
	Name   string
	Kind   string
	Action string
	ID     int64
	Date   string
}

// Bus delivers tracking events to subscribers synchronously, in subscription
// order.
type Bus struct {
	mu    sync.RWMutex
	next  int
	order []int
	subs  map[int]func(Event)
}

func NewBus() *Bus {
	return &Bus{subs: map[int]func(Event){}}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.order = append(b.order, id)
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
		for i, v := range b.order {
			if v == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
}

func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	if e.Name == "" {
		e.Name = EventTrackingUpdated
	}
	b.mu.RLock()
	handlers := make([]func(Event), 0, len(b.order))
	for _, id := range b.order {
		handlers = append(handlers, b.subs[id])
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(e)
	}
}
