package events

import (
	"context"
	"slices"
	"sync"
	"time"

	"midwife-booking-server/internal/logging"
	"midwife-booking-server/internal/metrics"
)

// Event is a "collection changed" notification.
type Event struct {
	Topic       string    `json:"topic"`
	Payload     any       `json:"payload"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Handler receives events synchronously on the publishing goroutine.
type Handler func(ctx context.Context, evt Event)

// Bus is an in-process, topic keyed publish/subscribe channel.
type Bus interface {
	Subscribe(topic string, handler Handler) (unsubscribe func())
	Publish(ctx context.Context, topic string, payload any) bool
}

type subscriber struct {
	id      uint64
	handler Handler
}

// LocalBus fans events out to handlers registered in this process.
//
// A handler that publishes on the topic it is currently being notified about
// would recurse without bound, so such publishes are dropped. The chain of
// topics being dispatched travels in the context handed to each handler.
type LocalBus struct {
	mu      sync.RWMutex
	subs    map[string][]subscriber
	nextID  uint64
	logger  *logging.Logger
	metrics *metrics.StoreMetrics
	now     func() time.Time
}

// NewLocalBus creates an empty bus. metrics may be nil.
func NewLocalBus(logger *logging.Logger, m *metrics.StoreMetrics) *LocalBus {
	if logger == nil {
		logger = logging.Default()
	}
	return &LocalBus{
		subs:    make(map[string][]subscriber),
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// Subscribe registers handler for topic. The returned func removes it and is
// safe to call more than once.
func (b *LocalBus) Subscribe(topic string, handler Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscriber{id: id, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(topic, id) })
	}
}

func (b *LocalBus) remove(topic string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[topic]
	for i, s := range list {
		if s.id == id {
			// copy so snapshots held by in-flight publishes stay intact
			next := make([]subscriber, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			if len(next) == 0 {
				delete(b.subs, topic)
			} else {
				b.subs[topic] = next
			}
			return
		}
	}
}

// Publish invokes every handler registered for topic in subscription order.
// It returns false when the publish was suppressed as re-entrant.
func (b *LocalBus) Publish(ctx context.Context, topic string, payload any) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	chain := dispatchChain(ctx)
	if slices.Contains(chain, topic) {
		b.logger.Warn("suppressed re-entrant notification", "topic", topic, "chain", chain)
		b.metrics.ObserveSuppressed(topic)
		return false
	}

	b.mu.RLock()
	snapshot := b.subs[topic]
	b.mu.RUnlock()

	b.metrics.ObservePublish(topic)
	if len(snapshot) == 0 {
		return true
	}

	evt := Event{Topic: topic, Payload: payload, PublishedAt: b.now()}
	hctx := withDispatch(ctx, chain, topic)
	for _, s := range snapshot {
		b.invoke(hctx, s, evt)
	}
	return true
}

// Subscribers reports how many handlers are registered for topic.
func (b *LocalBus) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

func (b *LocalBus) invoke(ctx context.Context, s subscriber, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", "topic", evt.Topic, "subscriber", s.id, "panic", r)
		}
	}()
	s.handler(ctx, evt)
}

type dispatchKey struct{}

func dispatchChain(ctx context.Context) []string {
	chain, _ := ctx.Value(dispatchKey{}).([]string)
	return chain
}

func withDispatch(ctx context.Context, chain []string, topic string) context.Context {
	next := make([]string, len(chain)+1)
	copy(next, chain)
	next[len(chain)] = topic
	return context.WithValue(ctx, dispatchKey{}, next)
}
