package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	var c Counter
	c.Inc()
	c.Add(4)
	assert.Equal(t, uint64(5), c.Load())
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	time.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, timer.Duration(), 5*time.Millisecond)
}

func TestRegistry_ConcurrentCounter(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Inc("hits")
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(50), r.Counter("hits").Load())
	assert.Same(t, r.Counter("hits"), r.Counter("hits"))
}

func TestRegistry_NilIsSafe(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() { r.Inc("anything") })
}

func TestRegistry_Handler(t *testing.T) {
	r := Default()
	r.Inc(WebhooksReceived)
	r.Inc(WebhooksReceived)
	r.Inc(InvoicesCreated)

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var got map[string]uint64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, uint64(2), got[WebhooksReceived])
	assert.Equal(t, uint64(1), got[InvoicesCreated])
	assert.Contains(t, got, WebhooksFailed)
	assert.Len(t, got, len(r.Snapshot()))
}
