package storage

import (
	"context"
	"errors"

	json "github.com/goccy/go-json"

	"midwife-booking-server/internal/apperrors"
	"midwife-booking-server/internal/events"
	"midwife-booking-server/internal/logging"
	"midwife-booking-server/internal/metrics"
)

// Store serializes collections to a Backend and announces every change on
// the bus, using the collection key as the topic.
type Store struct {
	backend Backend
	bus     events.Bus
	logger  *logging.Logger
	metrics *metrics.StoreMetrics
}

// NewStore builds a store. bus and m may be nil.
func NewStore(backend Backend, bus events.Bus, logger *logging.Logger, m *metrics.StoreMetrics) *Store {
	if backend == nil {
		panic("storage: backend required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{backend: backend, bus: bus, logger: logger.With("component", "store"), metrics: m}
}

// Bus returns the notifier the store publishes on.
func (s *Store) Bus() events.Bus {
	return s.bus
}

// Read decodes the value stored under key. It never fails: an absent key
// reports false, and an unreadable or corrupt value is logged and reported
// as absent.
func Read[T any](ctx context.Context, s *Store, key string) (T, bool) {
	var zero T
	raw, err := s.backend.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		s.metrics.ObserveRead(key, "miss")
		return zero, false
	}
	if err != nil {
		s.logger.Warn("collection read failed, using defaults", "collection", key, "error", err)
		s.metrics.ObserveRead(key, "error")
		return zero, false
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.logger.Warn("collection value corrupt, using defaults", "collection", key, "error", err)
		s.metrics.ObserveRead(key, "corrupt")
		return zero, false
	}
	s.metrics.ObserveRead(key, "hit")
	return v, true
}

// Write overwrites the value under key and publishes it on the key's topic.
// A failed write is logged and returned as a storage AppError; nothing is published.
func (s *Store) Write(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("collection encode failed", "collection", key, "error", err)
		s.metrics.ObserveWrite(key, false)
		return apperrors.NotSaved(err, key)
	}
	if err := s.backend.Set(ctx, key, raw); err != nil {
		s.logger.Error("collection write failed", "collection", key, "error", err)
		s.metrics.ObserveWrite(key, false)
		return apperrors.NotSaved(err, key)
	}
	s.metrics.ObserveWrite(key, true)
	s.publish(ctx, key, value)
	return nil
}

// Delete removes key and publishes a nil payload.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, key); err != nil {
		s.logger.Error("collection delete failed", "collection", key, "error", err)
		s.metrics.ObserveWrite(key, false)
		return apperrors.NotSaved(err, key)
	}
	s.metrics.ObserveWrite(key, true)
	s.publish(ctx, key, nil)
	return nil
}

func (s *Store) publish(ctx context.Context, key string, payload any) {
	if s.bus == nil {
		return
	}
	if q, ok := ctx.Value(deferredKey{}).(*deferredQueue); ok {
		q.events = append(q.events, pending{key: key, payload: payload})
		return
	}
	s.bus.Publish(ctx, key, payload)
}

type deferredKey struct{}

type pending struct {
	key     string
	payload any
}

type deferredQueue struct {
	events []pending
}

// Defer returns a context under which change notifications are queued
// instead of delivered, and a flush func that delivers them in write order.
// Services hold their collection lock while writing and flush after
// releasing it, so subscribers may read back without deadlocking. Nested
// calls share the outermost queue and get a no-op flush.
func (s *Store) Defer(ctx context.Context) (context.Context, func()) {
	if _, ok := ctx.Value(deferredKey{}).(*deferredQueue); ok {
		return ctx, func() {}
	}
	q := &deferredQueue{}
	return context.WithValue(ctx, deferredKey{}, q), func() {
		events := q.events
		q.events = nil
		for _, e := range events {
			s.publish(ctx, e.key, e.payload)
		}
	}
}

// ReplaceCollection overwrites the whole list stored under key.
func ReplaceCollection[T any](ctx context.Context, s *Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	return s.Write(ctx, key, items)
}

// UpsertByKey merges items into the list stored under key. An item whose
// keyFn matches an existing element replaces it in place; the rest are
// appended in input order. Elements not mentioned are kept untouched.
func UpsertByKey[T any](ctx context.Context, s *Store, key string, items []T, keyFn func(T) string) ([]T, error) {
	existing, _ := Read[[]T](ctx, s, key)
	merged := MergeByKey(existing, items, keyFn)
	if err := s.Write(ctx, key, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// MergeByKey is the pure merge step of UpsertByKey.
func MergeByKey[T any](existing, items []T, keyFn func(T) string) []T {
	merged := make([]T, len(existing), len(existing)+len(items))
	copy(merged, existing)

	index := make(map[string]int, len(merged))
	for i, item := range merged {
		index[keyFn(item)] = i
	}
	for _, item := range items {
		k := keyFn(item)
		if i, ok := index[k]; ok {
			merged[i] = item
			continue
		}
		index[k] = len(merged)
		merged = append(merged, item)
	}
	return merged
}
