package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midwife-booking-server/internal/apperrors"
	"midwife-booking-server/internal/events"
	"midwife-booking-server/internal/logging"
	"midwife-booking-server/internal/metrics"
)

type record struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

func recordKey(r record) string { return r.ID }

type failingBackend struct {
	*MemoryBackend
	setErr error
	getErr error
}

func (f *failingBackend) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryBackend.Set(ctx, key, value)
}

func (f *failingBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.MemoryBackend.Get(ctx, key)
}

func newTestStore(t *testing.T, backend Backend) (*Store, *events.LocalBus) {
	t.Helper()
	m := metrics.NewStoreMetrics(prometheus.NewRegistry())
	bus := events.NewLocalBus(logging.Discard(), m)
	return NewStore(backend, bus, logging.Discard(), m), bus
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	store, _ := newTestStore(t, NewMemoryBackend())
	ctx := context.Background()
	want := []record{{ID: "a", Value: 1}, {ID: "b", Value: 2}}

	require.NoError(t, ReplaceCollection(ctx, store, "things", want))

	got, ok := Read[[]record](ctx, store, "things")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestReadMissingKey(t *testing.T) {
	store, _ := newTestStore(t, NewMemoryBackend())
	got, ok := Read[[]record](context.Background(), store, "nothing")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestReadCorruptValueDegradesToAbsent(t *testing.T) {
	backend := NewMemoryBackend()
	require.NoError(t, backend.Set(context.Background(), "things", []byte("{not json")))
	store, _ := newTestStore(t, backend)

	var got []record
	var ok bool
	assert.NotPanics(t, func() { got, ok = Read[[]record](context.Background(), store, "things") })
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestReadBackendErrorDegradesToAbsent(t *testing.T) {
	backend := &failingBackend{MemoryBackend: NewMemoryBackend(), getErr: errors.New("connection reset")}
	store, _ := newTestStore(t, backend)

	_, ok := Read[[]record](context.Background(), store, "things")
	assert.False(t, ok)
}

func TestWritePublishesOnCollectionTopic(t *testing.T) {
	store, bus := newTestStore(t, NewMemoryBackend())
	var payload any
	bus.Subscribe("things", func(ctx context.Context, evt events.Event) { payload = evt.Payload })

	items := []record{{ID: "a", Value: 1}}
	require.NoError(t, ReplaceCollection(context.Background(), store, "things", items))

	assert.Equal(t, items, payload)
}

func TestWriteFailureIsReportedAndNotPublished(t *testing.T) {
	backend := &failingBackend{MemoryBackend: NewMemoryBackend(), setErr: errors.New("quota exceeded")}
	store, bus := newTestStore(t, backend)
	published := false
	bus.Subscribe("things", func(ctx context.Context, evt events.Event) { published = true })

	err := store.Write(context.Background(), "things", []record{{ID: "a"}})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeStorage))
	assert.False(t, published)
}

func TestReplaceCollectionNilWritesEmptyList(t *testing.T) {
	store, _ := newTestStore(t, NewMemoryBackend())
	require.NoError(t, ReplaceCollection[record](context.Background(), store, "things", nil))

	got, ok := Read[[]record](context.Background(), store, "things")
	require.True(t, ok)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestUpsertByKeyKeepsUnrelatedItems(t *testing.T) {
	store, _ := newTestStore(t, NewMemoryBackend())
	ctx := context.Background()
	require.NoError(t, ReplaceCollection(ctx, store, "things", []record{{ID: "a", Value: 1}, {ID: "b", Value: 2}}))

	merged, err := UpsertByKey(ctx, store, "things", []record{{ID: "b", Value: 20}, {ID: "c", Value: 3}}, recordKey)
	require.NoError(t, err)

	want := []record{{ID: "a", Value: 1}, {ID: "b", Value: 20}, {ID: "c", Value: 3}}
	assert.Equal(t, want, merged)

	stored, _ := Read[[]record](ctx, store, "things")
	assert.Equal(t, want, stored)
}

func TestMergeByKeyLastDuplicateWins(t *testing.T) {
	merged := MergeByKey(nil, []record{{ID: "x", Value: 1}, {ID: "x", Value: 2}}, recordKey)
	assert.Equal(t, []record{{ID: "x", Value: 2}}, merged)
}

func TestDeletePublishesNil(t *testing.T) {
	store, bus := newTestStore(t, NewMemoryBackend())
	ctx := context.Background()
	require.NoError(t, store.Write(ctx, "things", []record{{ID: "a"}}))

	var evt events.Event
	bus.Subscribe("things", func(ctx context.Context, e events.Event) { evt = e })
	require.NoError(t, store.Delete(ctx, "things"))

	assert.Equal(t, "things", evt.Topic)
	assert.Nil(t, evt.Payload)
	_, ok := Read[[]record](ctx, store, "things")
	assert.False(t, ok)
}

func TestDeferQueuesNotificationsUntilFlush(t *testing.T) {
	store, bus := newTestStore(t, NewMemoryBackend())
	var topics []string
	bus.Subscribe("a", func(ctx context.Context, evt events.Event) { topics = append(topics, "a") })
	bus.Subscribe("b", func(ctx context.Context, evt events.Event) { topics = append(topics, "b") })

	ctx, flush := store.Defer(context.Background())
	inner, innerFlush := store.Defer(ctx)
	require.NoError(t, store.Write(inner, "a", 1))
	innerFlush()
	require.NoError(t, store.Write(ctx, "b", 2))
	assert.Empty(t, topics)

	flush()
	assert.Equal(t, []string{"a", "b"}, topics)

	flush()
	assert.Equal(t, []string{"a", "b"}, topics)
}
