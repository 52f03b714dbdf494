package services

import (
	"context"
	"fmt"
	"sync"

	"midwife-booking-server/internal/models"
	"midwife-booking-server/internal/storage"
)

// ProfileService owns the single demo user profile.
type ProfileService struct {
	d  Deps
	mu sync.Mutex
}

func NewProfileService(d Deps) *ProfileService {
	return &ProfileService{d: d.normalize("profile")}
}

// Get returns the stored profile, creating the demo profile on first access.
func (s *ProfileService) Get(ctx context.Context) models.UserProfile {
	ctx, done := s.d.begin(ctx, &s.mu)
	defer done()
	return s.load(ctx)
}

func (s *ProfileService) load(ctx context.Context) models.UserProfile {
	if p, ok := storage.Read[models.UserProfile](ctx, s.d.Store, models.CollectionProfile); ok {
		return p
	}
	p := seedProfile(s.d.Now())
	if err := s.d.Store.Write(ctx, models.CollectionProfile, p); err != nil {
		s.d.Logger.Warn("seed profile not persisted", "error", err)
	}
	return p
}

// Save overwrites the stored profile with p. Callers merge partial edits
// before saving; only the id and timestamps are carried over.
func (s *ProfileService) Save(ctx context.Context, p models.UserProfile) (models.UserProfile, error) {
	ctx, done := s.d.begin(ctx, &s.mu)
	defer done()

	current := s.load(ctx)
	if p.ID == "" {
		p.ID = current.ID
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = current.CreatedAt
	}
	p.UpdatedAt = s.d.Now()

	if err := s.d.Store.Write(ctx, models.CollectionProfile, p); err != nil {
		return p, fmt.Errorf("services: save profile: %w", err)
	}
	return p, nil
}

// Reset drops the stored profile so the next Get recreates the demo one.
func (s *ProfileService) Reset(ctx context.Context) error {
	ctx, done := s.d.begin(ctx, &s.mu)
	defer done()
	if err := s.d.Store.Delete(ctx, models.CollectionProfile); err != nil {
		return fmt.Errorf("services: reset profile: %w", err)
	}
	return nil
}
