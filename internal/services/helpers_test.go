package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"midwife-booking-server/internal/events"
	"midwife-booking-server/internal/ids"
	"midwife-booking-server/internal/logging"
	"midwife-booking-server/internal/metrics"
	"midwife-booking-server/internal/storage"
)

// Wednesday
var testNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

type harness struct {
	deps    Deps
	backend *switchableBackend
	bus     *events.LocalBus
}

// switchableBackend is a memory backend whose writes can be made to fail,
// either for every key or only for the keys in failKeys.
type switchableBackend struct {
	*storage.MemoryBackend
	failWrites bool
	failKeys   map[string]bool
}

func (b *switchableBackend) Set(ctx context.Context, key string, value []byte) error {
	if b.failWrites || b.failKeys[key] {
		return errors.New("quota exceeded")
	}
	return b.MemoryBackend.Set(ctx, key, value)
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	m := metrics.NewStoreMetrics(prometheus.NewRegistry())
	bus := events.NewLocalBus(logging.Discard(), m)
	backend := &switchableBackend{MemoryBackend: storage.NewMemoryBackend()}
	store := storage.NewStore(backend, bus, logging.Discard(), m)
	return &harness{
		deps: Deps{
			Store:  store,
			IDs:    ids.Sequence("id"),
			Logger: logging.Discard(),
			Now:    func() time.Time { return testNow },
		},
		backend: backend,
		bus:     bus,
	}
}

// count records how many notifications each topic received.
func (h *harness) count(topics ...string) map[string]int {
	got := make(map[string]int)
	for _, topic := range topics {
		topic := topic
		h.bus.Subscribe(topic, func(ctx context.Context, evt events.Event) { got[topic]++ })
	}
	return got
}
