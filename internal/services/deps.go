package services

import (
	"context"
	"sync"
	"time"

	"midwife-booking-server/internal/ids"
	"midwife-booking-server/internal/logging"
	"midwife-booking-server/internal/storage"
)

// Deps are the collaborators every data service is constructed with.
type Deps struct {
	Store  *storage.Store
	IDs    ids.Generator
	Logger *logging.Logger
	Now    func() time.Time
}

func (d Deps) normalize(component string) Deps {
	if d.Store == nil {
		panic("services: store required")
	}
	if d.IDs == nil {
		d.IDs = ids.UUIDGenerator{}
	}
	if d.Logger == nil {
		d.Logger = logging.Default()
	}
	d.Logger = d.Logger.With("component", component)
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// begin takes mu and defers change notifications raised while it is held.
// The returned func releases mu, then delivers the notifications.
func (d Deps) begin(ctx context.Context, mu *sync.Mutex) (context.Context, func()) {
	ctx, flush := d.Store.Defer(ctx)
	mu.Lock()
	return ctx, func() {
		mu.Unlock()
		flush()
	}
}
