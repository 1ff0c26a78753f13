// Package events carries staff and assignment-ledger notifications from the
// services to in-process subscribers such as the activity log.
package events

import (
	"context"
	"errors"
	"sync"
)

// EventHandler reacts to a committed staff or ledger write.
type EventHandler func(context.Context, Event) error

// Dispatcher fans committed writes out to subscribers. Services publish only
// after the staff lock is released, so handlers never run inside a ledger
// transaction.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

type inMemoryDispatcher struct {
	mu       sync.RWMutex
	handlers map[EventType][]EventHandler
}

// NewInMemoryDispatcher returns a dispatcher that calls handlers on the
// publishing goroutine.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{handlers: make(map[EventType][]EventHandler)}
}

// Publish calls every handler registered for event.Type in subscription order.
// A failing handler does not stop the rest; the errors come back joined and
// never undo the write that produced the event.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	subscribed := append([]EventHandler(nil), d.handlers[event.Type]...)
	d.mu.RUnlock()

	var errs []error
	for _, handle := range subscribed {
		if err := handle(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}
