package notifier

import (
	"sync"

	"github.com/google/uuid"
)

// Invalidation signal names recognized by read-model consumers. Signals carry
// no payload beyond an optional entity id; delivery is at-most-once and a
// missed signal is always recoverable by a full refetch.
const (
	SignalActiveCycle     = "active-cycle"
	SignalCurrentTaskIDs  = "current-task-ids"
	SignalFocusedTaskIDs  = "focused-task-ids"
	SignalBacklogTaskIDs  = "backlog-task-ids"
	SignalCategoryIDs     = "category-ids"
	SignalTemplateTaskIDs = "template-task-ids"
	SignalStatistics      = "statistics"
)

func SignalTask(id uuid.UUID) string {
	return "task:" + id.String()
}

func SignalTemplateTask(id uuid.UUID) string {
	return "template-task:" + id.String()
}

// Event is one published invalidation signal.
type Event struct {
	Signal string     `json:"signal"`
	ID     *uuid.UUID `json:"id,omitempty"`
}

// Notifier fans invalidation signals out to subscribers. Publish is
// fire-and-forget: no subscriber, slow subscriber, and dropped events are all
// acceptable outcomes.
type Notifier interface {
	Publish(signal string, id *uuid.UUID)
	Subscribe(signal string) Subscription
	SubscribeAll() Subscription
}

// Subscription is an active listener on one signal name, or on all signals.
type Subscription struct {
	Events <-chan Event
	cancel func()
}

func (s Subscription) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

const subscriberBuffer = 64

type subscriber struct {
	ch chan Event
}

// deliver drops the event when the subscriber's buffer is full rather than
// blocking the publisher.
func (s *subscriber) deliver(e Event) {
	select {
	case s.ch <- e:
	default:
	}
}

// Bus is an in-process Notifier.
type Bus struct {
	mu       sync.RWMutex
	bySignal map[string]map[*subscriber]struct{}
	all      map[*subscriber]struct{}
}

func NewBus() *Bus {
	return &Bus{
		bySignal: map[string]map[*subscriber]struct{}{},
		all:      map[*subscriber]struct{}{},
	}
}

func (b *Bus) Publish(signal string, id *uuid.UUID) {
	e := Event{Signal: signal, ID: id}
	b.mu.RLock()
	subs := make([]*subscriber, 0, len(b.bySignal[signal])+len(b.all))
	for s := range b.bySignal[signal] {
		subs = append(subs, s)
	}
	for s := range b.all {
		subs = append(subs, s)
	}
	b.mu.RUnlock()
	for _, s := range subs {
		s.deliver(e)
	}
}

func (b *Bus) Subscribe(signal string) Subscription {
	sub := &subscriber{ch: make(chan Event, subscriberBuffer)}
	b.mu.Lock()
	if b.bySignal[signal] == nil {
		b.bySignal[signal] = map[*subscriber]struct{}{}
	}
	b.bySignal[signal][sub] = struct{}{}
	b.mu.Unlock()
	return Subscription{
		Events: sub.ch,
		cancel: func() {
			b.mu.Lock()
			delete(b.bySignal[signal], sub)
			b.mu.Unlock()
		},
	}
}

// SubscribeAll receives every published signal regardless of name. Used by
// the WebSocket hub.
func (b *Bus) SubscribeAll() Subscription {
	sub := &subscriber{ch: make(chan Event, subscriberBuffer)}
	b.mu.Lock()
	b.all[sub] = struct{}{}
	b.mu.Unlock()
	return Subscription{
		Events: sub.ch,
		cancel: func() {
			b.mu.Lock()
			delete(b.all, sub)
			b.mu.Unlock()
		},
	}
}
