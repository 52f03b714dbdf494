package events

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midwife-booking-server/internal/logging"
	"midwife-booking-server/internal/metrics"
)

func newTestBus() *LocalBus {
	return NewLocalBus(logging.Discard(), metrics.NewStoreMetrics(prometheus.NewRegistry()))
}

func TestPublishFansOutInOrder(t *testing.T) {
	bus := newTestBus()
	var got []string
	bus.Subscribe("appointments", func(ctx context.Context, evt Event) { got = append(got, "first") })
	bus.Subscribe("appointments", func(ctx context.Context, evt Event) { got = append(got, "second") })
	bus.Subscribe("symptoms", func(ctx context.Context, evt Event) { got = append(got, "other") })

	ok := bus.Publish(context.Background(), "appointments", []string{"a"})

	assert.True(t, ok)
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestPublishCarriesPayload(t *testing.T) {
	bus := newTestBus()
	var evt Event
	bus.Subscribe("profile", func(ctx context.Context, e Event) { evt = e })

	bus.Publish(context.Background(), "profile", map[string]string{"name": "Ola"})

	assert.Equal(t, "profile", evt.Topic)
	assert.Equal(t, map[string]string{"name": "Ola"}, evt.Payload)
	assert.False(t, evt.PublishedAt.IsZero())
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := newTestBus()
	calls := 0
	unsubscribe := bus.Subscribe("messages", func(ctx context.Context, evt Event) { calls++ })

	bus.Publish(context.Background(), "messages", nil)
	unsubscribe()
	unsubscribe()
	bus.Publish(context.Background(), "messages", nil)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.Subscribers("messages"))
}

func TestUnsubscribeDuringFanOutKeepsSnapshot(t *testing.T) {
	bus := newTestBus()
	calls := 0
	var unsubscribeSecond func()
	bus.Subscribe("messages", func(ctx context.Context, evt Event) {
		calls++
		unsubscribeSecond()
	})
	unsubscribeSecond = bus.Subscribe("messages", func(ctx context.Context, evt Event) { calls++ })

	bus.Publish(context.Background(), "messages", nil)
	assert.Equal(t, 2, calls)

	bus.Publish(context.Background(), "messages", nil)
	assert.Equal(t, 3, calls)
}

func TestReentrantPublishIsSuppressed(t *testing.T) {
	bus := newTestBus()
	depth := 0
	var nested bool
	bus.Subscribe("symptoms", func(ctx context.Context, evt Event) {
		depth++
		nested = bus.Publish(ctx, "symptoms", nil)
	})

	require.True(t, bus.Publish(context.Background(), "symptoms", nil))
	assert.Equal(t, 1, depth)
	assert.False(t, nested)
}

func TestCrossTopicPublishFromHandlerIsDelivered(t *testing.T) {
	bus := newTestBus()
	var convCalls, msgCalls int
	bus.Subscribe("messages", func(ctx context.Context, evt Event) {
		msgCalls++
		bus.Publish(ctx, "conversations", nil)
	})
	bus.Subscribe("conversations", func(ctx context.Context, evt Event) {
		convCalls++
		// loops back to the origin topic and must be dropped
		bus.Publish(ctx, "messages", nil)
	})

	bus.Publish(context.Background(), "messages", nil)

	assert.Equal(t, 1, msgCalls)
	assert.Equal(t, 1, convCalls)
}

func TestHandlerPanicDoesNotBreakFanOut(t *testing.T) {
	bus := newTestBus()
	reached := false
	bus.Subscribe("profile", func(ctx context.Context, evt Event) { panic("boom") })
	bus.Subscribe("profile", func(ctx context.Context, evt Event) { reached = true })

	assert.NotPanics(t, func() { bus.Publish(context.Background(), "profile", nil) })
	assert.True(t, reached)
}

func TestConcurrentSubscribeAndPublish(t *testing.T) {
	bus := newTestBus()
	var mu sync.Mutex
	total := 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsubscribe := bus.Subscribe("appointments", func(ctx context.Context, evt Event) {
				mu.Lock()
				total++
				mu.Unlock()
			})
			bus.Publish(context.Background(), "appointments", nil)
			unsubscribe()
		}()
	}
	wg.Wait()

	assert.Positive(t, total)
	assert.Equal(t, 0, bus.Subscribers("appointments"))
}
