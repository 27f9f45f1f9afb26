package events

import (
	"sync"
	"time"
)

// DomainEvent is anything the service announces after a state change or a notable read.
type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// Batch collects events raised while handling one command or query. Handlers
// append to it and the caller drains it into the outbox once the work succeeded.
type Batch struct {
	mu     sync.Mutex
	events []DomainEvent
}

func (b *Batch) Add(evs ...DomainEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ev := range evs {
		if ev != nil {
			b.events = append(b.events, ev)
		}
	}
}

func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// Drain returns the collected events and empties the batch.
func (b *Batch) Drain() []DomainEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.events
	b.events = nil
	return out
}

// Names lists event names in collection order.
func Names(evs []DomainEvent) []string {
	out := make([]string, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.EventName())
	}
	return out
}
