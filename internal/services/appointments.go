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

// AppointmentService manages the appointment collection.
type AppointmentService struct {
	d  Deps
	mu sync.Mutex
}

func NewAppointmentService(d Deps) *AppointmentService {
	return &AppointmentService{d: d.normalize("appointments")}
}

func (s *AppointmentService) load(ctx context.Context) []models.Appointment {
	if list, ok := storage.Read[[]models.Appointment](ctx, s.d.Store, models.CollectionAppointments); ok {
		return list
	}
	list := seedAppointments(s.d.Now())
	if err := storage.ReplaceCollection(ctx, s.d.Store, models.CollectionAppointments, list); err != nil {
		s.d.Logger.Warn("seed appointments not persisted", "error", err)
	}
	return list
}

// GetAll returns every appointment in creation order.
func (s *AppointmentService) GetAll(ctx context.Context) []models.Appointment {
	ctx, done := s.d.begin(ctx, &s.mu)
	defer done()
	return s.load(ctx)
}

// Get looks an appointment up by id.
func (s *AppointmentService) Get(ctx context.Context, id string) (models.Appointment, bool) {
	for _, a := range s.GetAll(ctx) {
		if a.ID == id {
			return a, true
		}
	}
	return models.Appointment{}, false
}

// Add validates and appends a new appointment. Missing id, status and
// creation time are filled in.
func (s *AppointmentService) Add(ctx context.Context, a models.Appointment) (models.Appointment, error) {
	if err := validateAppointment(a); err != nil {
		return a, err
	}
	if a.ID == "" {
		a.ID = s.d.IDs.NewID()
	}
	if a.Status == "" {
		a.Status = models.StatusScheduled
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.d.Now()
	}

	ctx, done := s.d.begin(ctx, &s.mu)
	defer done()
	list := append(s.load(ctx), a)
	if err := storage.ReplaceCollection(ctx, s.d.Store, models.CollectionAppointments, list); err != nil {
		return a, fmt.Errorf("services: add appointment: %w", err)
	}
	return a, nil
}

// Update applies patch to the appointment with id. An unknown id is a no-op
// and reports false.
func (s *AppointmentService) Update(ctx context.Context, id string, patch models.AppointmentPatch) (models.Appointment, bool, error) {
	ctx, done := s.d.begin(ctx, &s.mu)
	defer done()

	list := s.load(ctx)
	for i := range list {
		if list[i].ID != id {
			continue
		}
		updated := list[i]
		patch.Apply(&updated)
		if err := validateAppointment(updated); err != nil {
			return list[i], true, err
		}
		list[i] = updated
		if err := storage.ReplaceCollection(ctx, s.d.Store, models.CollectionAppointments, list); err != nil {
			return updated, true, fmt.Errorf("services: update appointment %s: %w", id, err)
		}
		return updated, true, nil
	}
	return models.Appointment{}, false, nil
}

// Cancel marks an appointment cancelled.
func (s *AppointmentService) Cancel(ctx context.Context, id string) (models.Appointment, bool, error) {
	status := models.StatusCancelled
	return s.Update(ctx, id, models.AppointmentPatch{Status: &status})
}

// Complete marks an appointment completed.
func (s *AppointmentService) Complete(ctx context.Context, id string) (models.Appointment, bool, error) {
	status := models.StatusCompleted
	return s.Update(ctx, id, models.AppointmentPatch{Status: &status})
}

// GetUpcoming returns scheduled appointments dated today or later, earliest first.
func (s *AppointmentService) GetUpcoming(ctx context.Context) []models.Appointment {
	today := models.FormatDate(s.d.Now())
	upcoming := make([]models.Appointment, 0)
	for _, a := range s.GetAll(ctx) {
		if isUpcoming(a, today) {
			upcoming = append(upcoming, a)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		if upcoming[i].Date != upcoming[j].Date {
			return upcoming[i].Date < upcoming[j].Date
		}
		return upcoming[i].Time < upcoming[j].Time
	})
	return upcoming
}

// GetPast returns every appointment that is not upcoming, latest first.
func (s *AppointmentService) GetPast(ctx context.Context) []models.Appointment {
	today := models.FormatDate(s.d.Now())
	past := make([]models.Appointment, 0)
	for _, a := range s.GetAll(ctx) {
		if !isUpcoming(a, today) {
			past = append(past, a)
		}
	}
	sort.SliceStable(past, func(i, j int) bool {
		if past[i].Date != past[j].Date {
			return past[i].Date > past[j].Date
		}
		return past[i].Time > past[j].Time
	})
	return past
}

// GetByMidwife returns the appointments with one midwife in creation order.
func (s *AppointmentService) GetByMidwife(ctx context.Context, midwifeID string) []models.Appointment {
	out := make([]models.Appointment, 0)
	for _, a := range s.GetAll(ctx) {
		if a.MidwifeID == midwifeID {
			out = append(out, a)
		}
	}
	return out
}

// Dates are zero padded YYYY-MM-DD, so string order is calendar order.
func isUpcoming(a models.Appointment, today string) bool {
	return a.Status == models.StatusScheduled && a.Date >= today
}

func validateAppointment(a models.Appointment) error {
	if a.MidwifeID == "" {
		return apperrors.Validation("missing_midwife", "midwife is required")
	}
	if _, err := models.ParseDate(a.Date); err != nil {
		return apperrors.Validation("invalid_date", err.Error())
	}
	if err := models.ParseClock(a.Time); err != nil {
		return apperrors.Validation("invalid_time", err.Error())
	}
	switch a.Status {
	case "", models.StatusScheduled, models.StatusCompleted, models.StatusCancelled:
	default:
		return apperrors.Validation("invalid_status", fmt.Sprintf("unknown status %q", a.Status))
	}
	return nil
}
