package beacon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu      sync.Mutex
	batches []Batch
	status  int
}

func (c *collector) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/log", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var b Batch
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&b))

		c.mu.Lock()
		c.batches = append(c.batches, b)
		status := c.status
		c.mu.Unlock()

		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
	}
}

func (c *collector) snapshot() []Batch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Batch(nil), c.batches...)
}

func newBuffer(t *testing.T, c *collector, interval time.Duration) *Buffer {
	t.Helper()
	srv := httptest.NewServer(c.handler(t))
	t.Cleanup(srv.Close)

	return New(Options{
		ServerURL:     srv.URL + "/",
		SimID:         "task-board",
		FlushInterval: interval,
		Log:           zerolog.Nop(),
	})
}

func TestBuffer_BatchesWithinInterval(t *testing.T) {
	c := &collector{}
	b := newBuffer(t, c, 50*time.Millisecond)

	b.Emit("task:added", map[string]string{"taskId": "t100"})
	b.Emit("task:moved", map[string]string{"taskId": "t1"})
	assert.Equal(t, 2, b.Len())

	require.Eventually(t, func() bool { return len(c.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)

	batch := c.snapshot()[0]
	require.Len(t, batch.Entries, 2)
	assert.Equal(t, "task:added", batch.Entries[0].Type)
	assert.Equal(t, "task:moved", batch.Entries[1].Type)
	for _, e := range batch.Entries {
		assert.Equal(t, "task-board", e.SimID)
		assert.Equal(t, DirEvent, e.Dir)
		_, err := time.Parse(time.RFC3339Nano, e.TS)
		assert.NoError(t, err)
	}
	assert.Zero(t, b.Len())
}

func TestBuffer_NilPayloadBecomesObject(t *testing.T) {
	c := &collector{}
	b := newBuffer(t, c, time.Hour)

	b.Emit("ping", nil)
	require.NoError(t, b.Flush(context.Background()))

	batches := c.snapshot()
	require.Len(t, batches, 1)
	assert.Equal(t, map[string]any{}, batches[0].Entries[0].Payload)
}

func TestBuffer_FlushEmptyDoesNotPost(t *testing.T) {
	c := &collector{}
	b := newBuffer(t, c, time.Hour)

	require.NoError(t, b.Flush(context.Background()))
	assert.Empty(t, c.snapshot())
}

func TestBuffer_FlushErrorDropsEntries(t *testing.T) {
	c := &collector{status: http.StatusInternalServerError}
	b := newBuffer(t, c, time.Hour)

	b.Emit("task:added", nil)
	err := b.Flush(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
	assert.Zero(t, b.Len())
}

func TestBuffer_CloseFlushesAndRejects(t *testing.T) {
	c := &collector{}
	b := newBuffer(t, c, time.Hour)

	b.Emit("task:added", nil)
	require.NoError(t, b.Close(context.Background()))
	require.Len(t, c.snapshot(), 1)

	b.Emit("task:moved", nil)
	assert.Zero(t, b.Len())
}

func TestBuffer_ServerDown(t *testing.T) {
	b := New(Options{ServerURL: "http://127.0.0.1:1", Log: zerolog.Nop()})
	b.Emit("task:added", nil)
	assert.Error(t, b.Flush(context.Background()))
}
