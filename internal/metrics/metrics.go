package metrics

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Counter names shared by the webhook and checkout handlers.
const (
	WebhooksReceived        = "webhooks_received"
	WebhooksProcessed       = "webhooks_processed"
	WebhooksNoop            = "webhooks_noop"
	WebhooksDuplicate       = "webhooks_duplicate"
	WebhooksRejectedAuth    = "webhooks_rejected_auth"
	WebhooksRejectedPayload = "webhooks_rejected_payload"
	WebhooksOrderNotFound   = "webhooks_order_not_found"
	WebhooksFailed          = "webhooks_failed"
	InvoicesCreated         = "invoices_created"
	InvoicesFailed          = "invoices_failed"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Registry hands out named counters. The zero value is not usable; use NewRegistry.
type Registry struct {
	mu       sync.RWMutex
	counters map[string]*Counter
}

func NewRegistry(names ...string) *Registry {
	r := &Registry{counters: make(map[string]*Counter, len(names))}
	for _, n := range names {
		r.counters[n] = &Counter{}
	}
	return r
}

// Counter returns the counter registered under name, creating it on first use.
// A nil Registry returns a detached counter.
func (r *Registry) Counter(name string) *Counter {
	if r == nil {
		return &Counter{}
	}

	r.mu.RLock()
	c, ok := r.counters[name]
	r.mu.RUnlock()
	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok = r.counters[name]; !ok {
		c = &Counter{}
		r.counters[name] = c
	}
	return c
}

func (r *Registry) Inc(name string) {
	r.Counter(name).Inc()
}

func (r *Registry) Snapshot() map[string]uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]uint64, len(r.counters))
	for name, c := range r.counters {
		out[name] = c.Load()
	}
	return out
}

// Handler serves the current counter values as a JSON object.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(r.Snapshot())
	})
}

// Default returns a registry with every service counter pre-registered so
// the metrics endpoint reports zeros before the first event.
func Default() *Registry {
	return NewRegistry(
		WebhooksReceived,
		WebhooksProcessed,
		WebhooksNoop,
		WebhooksDuplicate,
		WebhooksRejectedAuth,
		WebhooksRejectedPayload,
		WebhooksOrderNotFound,
		WebhooksFailed,
		InvoicesCreated,
		InvoicesFailed,
	)
}
