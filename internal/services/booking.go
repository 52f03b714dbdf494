package services

import (
	"context"
	"fmt"
	"strings"

	"midwife-booking-server/internal/logging"
	"midwife-booking-server/internal/models"
	"midwife-booking-server/internal/notify"
)

// BookingService runs the "confirm booking" flow of the calendar.
type BookingService struct {
	appointments  *AppointmentService
	availability  *AvailabilityService
	conversations *ConversationService
	profile       *ProfileService
	mailer        notify.EmailSender
	logger        *logging.Logger
	meetingURL    string
}

// NewBookingService wires the flow. mailer may be nil to skip confirmations.
func NewBookingService(
	appointments *AppointmentService,
	availability *AvailabilityService,
	conversations *ConversationService,
	profile *ProfileService,
	mailer notify.EmailSender,
	logger *logging.Logger,
	appURL string,
) *BookingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingService{
		appointments:  appointments,
		availability:  availability,
		conversations: conversations,
		profile:       profile,
		mailer:        mailer,
		logger:        logger.With("component", "booking"),
		meetingURL:    strings.TrimRight(appURL, "/") + "/meet/",
	}
}

// Book stores a scheduled appointment for req and counts it against the
// matching slot. The slot's capacity is not enforced. Follow-up steps
// (slot count, conversation, email) are logged on failure and never undo
// the stored appointment.
func (b *BookingService) Book(ctx context.Context, req models.BookingRequest) (models.Appointment, error) {
	appt := models.Appointment{
		ID:            b.appointments.d.IDs.NewID(),
		MidwifeID:     req.MidwifeID,
		MidwifeName:   req.MidwifeName,
		MidwifeAvatar: req.MidwifeAvatar,
		Date:          req.Date,
		Time:          req.Time,
		Type:          req.Type,
		Location:      req.Location,
		IsOnline:      req.IsOnline,
		Status:        models.StatusScheduled,
		Notes:         req.Notes,
	}
	if appt.IsOnline {
		appt.MeetingLink = b.meetingURL + appt.ID
		if appt.Location == "" {
			appt.Location = "Online"
		}
	}

	appt, err := b.appointments.Add(ctx, appt)
	if err != nil {
		return appt, fmt.Errorf("services: book appointment: %w", err)
	}

	if _, found, err := b.availability.RecordBooking(ctx, req.MidwifeID, req.Date, req.Time); err != nil {
		b.logger.Warn("slot booking count not saved", "appointment_id", appt.ID, "error", err)
	} else if !found {
		b.logger.Debug("no availability slot for booking", "appointment_id", appt.ID, "date", req.Date, "time", req.Time)
	}

	if _, _, err := b.conversations.GetOrCreateConversation(ctx, req.MidwifeID, req.MidwifeName, req.MidwifeAvatar); err != nil {
		b.logger.Warn("conversation for booking not created", "appointment_id", appt.ID, "error", err)
	}

	b.sendConfirmation(ctx, appt)
	return appt, nil
}

func (b *BookingService) sendConfirmation(ctx context.Context, appt models.Appointment) {
	if b.mailer == nil {
		return
	}
	p := b.profile.Get(ctx)
	if p.Preferences != nil && !p.Preferences.EmailNotifications {
		return
	}

	body := fmt.Sprintf("Your appointment with %s is confirmed for %s at %s (%s).",
		appt.MidwifeName, appt.Date, appt.Time, appt.Location)
	if appt.MeetingLink != "" {
		body += "\nJoin online: " + appt.MeetingLink
	}
	err := b.mailer.Send(ctx, notify.EmailMessage{
		To:      p.Email,
		ToName:  p.FullName(),
		Subject: "Appointment confirmed: " + appt.Type,
		Body:    body,
	})
	if err != nil {
		b.logger.Warn("booking confirmation not sent", "appointment_id", appt.ID, "error", err)
	}
}
