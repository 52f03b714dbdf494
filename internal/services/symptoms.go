package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"midwife-booking-server/internal/apperrors"
	"midwife-booking-server/internal/models"
	"midwife-booking-server/internal/storage"
)

// SymptomService manages the symptom diary, one entry per calendar day.
type SymptomService struct {
	d  Deps
	mu sync.Mutex
}

func NewSymptomService(d Deps) *SymptomService {
	return &SymptomService{d: d.normalize("symptoms")}
}

func (s *SymptomService) load(ctx context.Context) []models.SymptomEntry {
	if list, ok := storage.Read[[]models.SymptomEntry](ctx, s.d.Store, models.CollectionSymptoms); ok {
		return list
	}
	list := seedSymptoms(s.d.Now())
	if err := storage.ReplaceCollection(ctx, s.d.Store, models.CollectionSymptoms, list); err != nil {
		s.d.Logger.Warn("seed symptoms not persisted", "error", err)
	}
	return list
}

// GetAll returns the diary, newest day first.
func (s *SymptomService) GetAll(ctx context.Context) []models.SymptomEntry {
	ctx, done := s.d.begin(ctx, &s.mu)
	defer done()

	list := s.load(ctx)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date > list[j].Date })
	return list
}

// GetByDate returns the entry of one day.
func (s *SymptomService) GetByDate(ctx context.Context, date string) (models.SymptomEntry, bool) {
	for _, e := range s.GetAll(ctx) {
		if e.Date == date {
			return e, true
		}
	}
	return models.SymptomEntry{}, false
}

// GetRange returns the entries between from and to inclusive, oldest first.
func (s *SymptomService) GetRange(ctx context.Context, from, to string) ([]models.SymptomEntry, error) {
	start, err := models.ParseDate(from)
	if err != nil {
		return nil, apperrors.Validation("invalid_date", err.Error())
	}
	end, err := models.ParseDate(to)
	if err != nil {
		return nil, apperrors.Validation("invalid_date", err.Error())
	}
	if start.After(end) {
		return nil, apperrors.Validation("invalid_range", "start date is after end date")
	}

	out := make([]models.SymptomEntry, 0)
	for _, e := range s.GetAll(ctx) {
		if e.Date >= from && e.Date <= to {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// Save stores entry, replacing any earlier entry for the same day.
func (s *SymptomService) Save(ctx context.Context, entry models.SymptomEntry) (models.SymptomEntry, error) {
	if _, err := models.ParseDate(entry.Date); err != nil {
		return entry, apperrors.Validation("invalid_date", err.Error())
	}
	if entry.ID == "" {
		entry.ID = s.d.IDs.NewID()
	}
	entry.CreatedAt = s.d.Now()

	ctx, done := s.d.begin(ctx, &s.mu)
	defer done()

	current := s.load(ctx)
	list := make([]models.SymptomEntry, 0, len(current)+1)
	for _, e := range current {
		if e.Date != entry.Date {
			list = append(list, e)
		}
	}
	list = append(list, entry)
	if err := storage.ReplaceCollection(ctx, s.d.Store, models.CollectionSymptoms, list); err != nil {
		return entry, fmt.Errorf("services: save symptoms for %s: %w", entry.Date, err)
	}
	return entry, nil
}

// Delete removes the entry of one day. Unknown days report false.
func (s *SymptomService) Delete(ctx context.Context, date string) (bool, error) {
	ctx, done := s.d.begin(ctx, &s.mu)
	defer done()

	current := s.load(ctx)
	list := make([]models.SymptomEntry, 0, len(current))
	for _, e := range current {
		if e.Date != date {
			list = append(list, e)
		}
	}
	if len(list) == len(current) {
		return false, nil
	}
	if err := storage.ReplaceCollection(ctx, s.d.Store, models.CollectionSymptoms, list); err != nil {
		return true, fmt.Errorf("services: delete symptoms for %s: %w", date, err)
	}
	return true, nil
}
