package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"midwife-booking-server/internal/apperrors"
	"midwife-booking-server/internal/events"
	"midwife-booking-server/internal/models"
	"midwife-booking-server/internal/storage"
)

// AvailabilityService keeps the bookable slots of each midwife. Slots are
// keyed by (date, time) within a midwife; writes merge by that key.
type AvailabilityService struct {
	d  Deps
	mu sync.Mutex
}

func NewAvailabilityService(d Deps) *AvailabilityService {
	return &AvailabilityService{d: d.normalize("availability")}
}

func slotKey(s models.AvailabilitySlot) string { return s.ID }

func (s *AvailabilityService) load(ctx context.Context, midwifeID string) []models.AvailabilitySlot {
	key := models.AvailabilityCollection(midwifeID)
	if list, ok := storage.Read[[]models.AvailabilitySlot](ctx, s.d.Store, key); ok {
		return list
	}
	list := seedAvailability(s.d.Now(), midwifeID)
	if len(list) > 0 {
		if err := storage.ReplaceCollection(ctx, s.d.Store, key, list); err != nil {
			s.d.Logger.Warn("seed availability not persisted", "midwife_id", midwifeID, "error", err)
		}
	}
	return list
}

// Subscribe registers handler for changes to one midwife's slots.
func (s *AvailabilityService) Subscribe(midwifeID string, handler events.Handler) func() {
	bus := s.d.Store.Bus()
	if bus == nil {
		return func() {}
	}
	return bus.Subscribe(models.AvailabilityCollection(midwifeID), handler)
}

// GetAvailability returns every slot of a midwife in stored order.
func (s *AvailabilityService) GetAvailability(ctx context.Context, midwifeID string) []models.AvailabilitySlot {
	ctx, done := s.d.begin(ctx, &s.mu)
	defer done()
	return s.load(ctx, midwifeID)
}

// GetAvailableSlots returns the open slots of one day sorted by time.
// Full slots are still listed: bookings are counted, not capped.
func (s *AvailabilityService) GetAvailableSlots(ctx context.Context, midwifeID, date string) []models.AvailabilitySlot {
	out := make([]models.AvailabilitySlot, 0)
	for _, slot := range s.GetAvailability(ctx, midwifeID) {
		if slot.Date == date && slot.IsAvailable {
			out = append(out, slot)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// SetAvailability upserts slots by (date, time). Slots not mentioned keep
// their current values. Every slot is validated before anything is written.
func (s *AvailabilityService) SetAvailability(ctx context.Context, midwifeID string, slots []models.AvailabilitySlot) ([]models.AvailabilitySlot, error) {
	if strings.TrimSpace(midwifeID) == "" {
		return nil, apperrors.Validation("missing_midwife", "midwife is required")
	}
	normalized := make([]models.AvailabilitySlot, 0, len(slots))
	for _, slot := range slots {
		if _, err := models.ParseDate(slot.Date); err != nil {
			return nil, apperrors.Validation("invalid_date", err.Error())
		}
		if err := models.ParseClock(slot.Time); err != nil {
			return nil, apperrors.Validation("invalid_time", err.Error())
		}
		if slot.MaxBookings < 0 || slot.CurrentBookings < 0 {
			return nil, apperrors.Validation("invalid_bookings", "booking counts must not be negative")
		}
		slot.ID = models.SlotID(slot.Date, slot.Time)
		slot.MidwifeID = midwifeID
		normalized = append(normalized, slot)
	}

	ctx, done := s.d.begin(ctx, &s.mu)
	defer done()
	return s.upsert(ctx, midwifeID, normalized)
}

func (s *AvailabilityService) upsert(ctx context.Context, midwifeID string, slots []models.AvailabilitySlot) ([]models.AvailabilitySlot, error) {
	// seed first so the merge starts from the demo slots
	s.load(ctx, midwifeID)
	merged, err := storage.UpsertByKey(ctx, s.d.Store, models.AvailabilityCollection(midwifeID), slots, slotKey)
	if err != nil {
		return nil, fmt.Errorf("services: set availability for %s: %w", midwifeID, err)
	}
	return merged, nil
}

// UpdateAvailabilitySlot applies patch to one slot. Unknown slots report false.
func (s *AvailabilityService) UpdateAvailabilitySlot(ctx context.Context, midwifeID, slotID string, patch models.SlotPatch) (models.AvailabilitySlot, bool, error) {
	ctx, done := s.d.begin(ctx, &s.mu)
	defer done()

	list := s.load(ctx, midwifeID)
	for i := range list {
		if list[i].ID != slotID {
			continue
		}
		patch.Apply(&list[i])
		if err := storage.ReplaceCollection(ctx, s.d.Store, models.AvailabilityCollection(midwifeID), list); err != nil {
			return list[i], true, fmt.Errorf("services: update slot %s: %w", slotID, err)
		}
		return list[i], true, nil
	}
	return models.AvailabilitySlot{}, false, nil
}

// DeleteAvailabilitySlot removes one slot. Unknown slots report false.
func (s *AvailabilityService) DeleteAvailabilitySlot(ctx context.Context, midwifeID, slotID string) (bool, error) {
	ctx, done := s.d.begin(ctx, &s.mu)
	defer done()

	current := s.load(ctx, midwifeID)
	list := make([]models.AvailabilitySlot, 0, len(current))
	for _, slot := range current {
		if slot.ID != slotID {
			list = append(list, slot)
		}
	}
	if len(list) == len(current) {
		return false, nil
	}
	if err := storage.ReplaceCollection(ctx, s.d.Store, models.AvailabilityCollection(midwifeID), list); err != nil {
		return true, fmt.Errorf("services: delete slot %s: %w", slotID, err)
	}
	return true, nil
}

// SetMultiDayAvailability expands a date range, a weekday filter and a list
// of times into concrete slots and upserts them. The range includes both
// ends. Any invalid input rejects the whole request before a write happens.
func (s *AvailabilityService) SetMultiDayAvailability(ctx context.Context, midwifeID string, req models.MultiDayRequest) ([]models.AvailabilitySlot, error) {
	slots, err := ExpandMultiDay(midwifeID, req)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return slots, nil
	}

	ctx, done := s.d.begin(ctx, &s.mu)
	defer done()
	if _, err := s.upsert(ctx, midwifeID, slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// maxMultiDaySpan bounds a multi-day request, both ends included.
const maxMultiDaySpan = 366

// ExpandMultiDay builds the slots a multi-day request describes.
func ExpandMultiDay(midwifeID string, req models.MultiDayRequest) ([]models.AvailabilitySlot, error) {
	if strings.TrimSpace(midwifeID) == "" {
		return nil, apperrors.Validation("missing_midwife", "midwife is required")
	}
	start, err := models.ParseDate(req.StartDate)
	if err != nil {
		return nil, apperrors.Validation("invalid_start_date", err.Error())
	}
	end, err := models.ParseDate(req.EndDate)
	if err != nil {
		return nil, apperrors.Validation("invalid_end_date", err.Error())
	}
	if start.After(end) {
		return nil, apperrors.Validation("invalid_range", "start date is after end date")
	}
	if end.Sub(start) >= maxMultiDaySpan*24*time.Hour {
		return nil, apperrors.Validation("invalid_range", fmt.Sprintf("range spans more than %d days", maxMultiDaySpan))
	}
	if len(req.Weekdays) == 0 {
		return nil, apperrors.Validation("empty_weekdays", "select at least one weekday")
	}
	if len(req.TimeSlots) == 0 {
		return nil, apperrors.Validation("empty_time_slots", "select at least one time")
	}
	if req.MaxBookings < 0 {
		return nil, apperrors.Validation("invalid_bookings", "max bookings must not be negative")
	}

	var selected [7]bool
	for _, wd := range req.Weekdays {
		if wd < 0 || wd > 6 {
			return nil, apperrors.Validation("invalid_weekday", fmt.Sprintf("weekday %d outside 0..6", wd))
		}
		selected[wd] = true
	}
	for _, clock := range req.TimeSlots {
		if err := models.ParseClock(clock); err != nil {
			return nil, apperrors.Validation("invalid_time", err.Error())
		}
	}

	slots := make([]models.AvailabilitySlot, 0)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !selected[models.MondayIndex(d.Weekday())] {
			continue
		}
		date := models.FormatDate(d)
		for _, clock := range req.TimeSlots {
			slots = append(slots, models.AvailabilitySlot{
				ID:          models.SlotID(date, clock),
				MidwifeID:   midwifeID,
				Date:        date,
				Time:        clock,
				IsAvailable: req.IsAvailable,
				MaxBookings: req.MaxBookings,
			})
		}
	}
	return slots, nil
}

// RecordBooking counts one booking against the slot at (date, time), if the
// midwife published one. The count never blocks a booking.
func (s *AvailabilityService) RecordBooking(ctx context.Context, midwifeID, date, clock string) (models.AvailabilitySlot, bool, error) {
	ctx, done := s.d.begin(ctx, &s.mu)
	defer done()

	id := models.SlotID(date, clock)
	list := s.load(ctx, midwifeID)
	for i := range list {
		if list[i].ID != id {
			continue
		}
		list[i].CurrentBookings++
		if list[i].CurrentBookings > list[i].MaxBookings {
			s.d.Logger.Warn("slot overbooked", "midwife_id", midwifeID, "slot_id", id,
				"current", list[i].CurrentBookings, "max", list[i].MaxBookings)
		}
		if err := storage.ReplaceCollection(ctx, s.d.Store, models.AvailabilityCollection(midwifeID), list); err != nil {
			return list[i], true, fmt.Errorf("services: record booking on %s: %w", id, err)
		}
		return list[i], true, nil
	}
	return models.AvailabilitySlot{}, false, nil
}
