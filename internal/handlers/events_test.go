package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midwife-booking-server/internal/events"
	"midwife-booking-server/internal/logging"
	"midwife-booking-server/internal/models"
)

// streamRecorder is a ResponseWriter that can be read while a handler is still writing.
type streamRecorder struct {
	mu     sync.Mutex
	header http.Header
	buf    bytes.Buffer
	code   int
}

func newStreamRecorder() *streamRecorder {
	return &streamRecorder{header: make(http.Header)}
}

func (r *streamRecorder) Header() http.Header { return r.header }

func (r *streamRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

func (r *streamRecorder) WriteHeader(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.code = code
}

func (r *streamRecorder) Flush() {}

func (r *streamRecorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

func TestStreamDeliversEventsUntilDisconnect(t *testing.T) {
	gin.SetMode(gin.TestMode)
	bus := events.NewLocalBus(logging.Discard(), nil)
	router := gin.New()
	router.GET("/events", NewEventHandler(bus, logging.Discard()).Stream)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events?topic="+models.CollectionAppointments, nil).WithContext(ctx)
	rec := newStreamRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		router.ServeHTTP(rec, req)
	}()

	require.Eventually(t, func() bool { return bus.Subscribers(models.CollectionAppointments) == 1 },
		time.Second, 5*time.Millisecond)

	bus.Publish(context.Background(), models.CollectionAppointments, []string{"a"})
	bus.Publish(context.Background(), models.CollectionSymptoms, []string{"ignored"})

	require.Eventually(t, func() bool { return strings.Contains(rec.String(), "event:change") },
		time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream did not stop after disconnect")
	}

	assert.Zero(t, bus.Subscribers(models.CollectionAppointments))
	body := rec.String()
	assert.Contains(t, body, `"topic":"appointments"`)
	assert.NotContains(t, body, "ignored")
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
}
