package notify

import (
	"context"
	"sync"
)

// Bus fans events out to in-process subscribers synchronously. Subscribers
// must not block; anything slow belongs behind its own channel worker.
type Bus struct {
	mu   sync.RWMutex
	subs []func(Event)
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler invoked for every emitted event.
func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

func (b *Bus) Emit(_ context.Context, event Event) error {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(event)
	}
	return nil
}

// Multi fans a single emit out to several notifiers. Every notifier gets the
// event even when an earlier one fails, so one dead sink cannot starve the
// rest; the first error is reported.
type Multi []Notifier

func (m Multi) Emit(ctx context.Context, event Event) error {
	var first error
	for _, n := range m {
		if err := n.Emit(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
