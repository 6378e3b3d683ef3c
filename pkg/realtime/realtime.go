package realtime

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/confeitech/bakekit/pkg/plan"
)

// Change notifies subscribers that a tenant's records of one resource type
// changed and the aggregate should be re-fetched. It carries no payload on
// purpose: consumers reload the whole list and the last full reload wins.
type Change struct {
	TenantID uuid.UUID
	Resource plan.Resource
}

// ChangeFunc handles a change notification. It runs on the subscriber's
// delivery goroutine and should only schedule a re-fetch, not block.
type ChangeFunc func(Change)

// Unsubscribe detaches a subscriber. Idempotent; after it returns no
// further callbacks are delivered, so late results can be safely discarded.
type Unsubscribe func()

type subscriber struct {
	ch     chan Change
	done   chan struct{}
	fn     ChangeFunc
	closed bool
	mu     sync.Mutex
}

func (s *subscriber) send(c Change) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- c:
		return true
	default:
		// Slow consumer: dropping is fine, the next reload supersedes.
		return false
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		close(s.done)
		s.closed = true
	}
}

type channelKey struct {
	tenantID uuid.UUID
	resource plan.Resource
}

// Hub fans change notifications out to per-tenant, per-resource
// subscribers. All methods are safe for concurrent use. Delivery is
// at-most-once: messages are dropped for slow consumers rather than
// blocking the publisher.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[channelKey]map[*subscriber]struct{}
	bufferSize  int
	closed      bool
}

// NewHub creates a Hub. bufferSize is the per-subscriber channel buffer;
// a minimum of 1 is enforced so sends stay non-blocking.
func NewHub(bufferSize int) *Hub {
	return &Hub{
		subscribers: make(map[channelKey]map[*subscriber]struct{}),
		bufferSize:  max(bufferSize, 1),
	}
}

// Subscribe registers fn for changes to one tenant's resource type and
// starts a delivery goroutine for it. The subscription ends when the
// returned Unsubscribe is called, the context is cancelled, or the hub is
// closed, whichever comes first.
func (h *Hub) Subscribe(ctx context.Context, tenantID uuid.UUID, res plan.Resource, fn ChangeFunc) Unsubscribe {
	sub := &subscriber{
		ch:   make(chan Change, h.bufferSize),
		done: make(chan struct{}),
		fn:   fn,
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		sub.close()
		return func() {}
	}

	key := channelKey{tenantID: tenantID, resource: res}
	if h.subscribers[key] == nil {
		h.subscribers[key] = make(map[*subscriber]struct{})
	}
	h.subscribers[key][sub] = struct{}{}
	h.mu.Unlock()

	go func() {
		for c := range sub.ch {
			fn(c)
		}
	}()

	unsubscribe := func() { h.unsubscribe(key, sub) }

	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				unsubscribe()
			case <-sub.done:
			}
		}()
	}

	return unsubscribe
}

// Publish notifies every subscriber of the change's tenant/resource pair.
// Never blocks; slow subscribers miss the notification.
func (h *Hub) Publish(ctx context.Context, c Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	key := channelKey{tenantID: c.TenantID, resource: c.Resource}
	for sub := range h.subscribers[key] {
		sub.send(c)
	}
}

// Close shuts the hub down and detaches all subscribers. Safe to call more
// than once.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true

	for _, subs := range h.subscribers {
		for sub := range subs {
			sub.close()
		}
	}
	clear(h.subscribers)
	h.mu.Unlock()
}

func (h *Hub) unsubscribe(key channelKey, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.subscribers[key]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subscribers, key)
		}
	}
	sub.close()
}
