package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midwife-booking-server/internal/logging"
	"midwife-booking-server/internal/models"
	"midwife-booking-server/internal/notify"
)

type captureSender struct {
	sent []notify.EmailMessage
	err  error
}

func (c *captureSender) Send(ctx context.Context, msg notify.EmailMessage) error {
	c.sent = append(c.sent, msg)
	return c.err
}

type bookingFixture struct {
	booking       *BookingService
	appointments  *AppointmentService
	availability  *AvailabilityService
	conversations *ConversationService
	mailer        *captureSender
}

func newBookingFixture(t *testing.T) *bookingFixture {
	h := newHarness(t)
	f := &bookingFixture{
		appointments:  NewAppointmentService(h.deps),
		availability:  NewAvailabilityService(h.deps),
		conversations: NewConversationService(h.deps),
		mailer:        &captureSender{},
	}
	f.booking = NewBookingService(f.appointments, f.availability, f.conversations, NewProfileService(h.deps),
		f.mailer, logging.Discard(), "http://localhost:3001/")
	return f
}

func TestBookCreatesAppointmentAndCountsSlot(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	appt, err := f.booking.Book(ctx, models.BookingRequest{
		MidwifeID: "midwife-3", MidwifeName: "Katarzyna Wiśniewska",
		Date: "2024-01-11", Time: "10:00", Type: "Prenatal check-up", IsOnline: true,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusScheduled, appt.Status)
	assert.Equal(t, "Online", appt.Location)
	assert.Equal(t, "http://localhost:3001/meet/"+appt.ID, appt.MeetingLink)

	stored, ok := f.appointments.Get(ctx, appt.ID)
	require.True(t, ok)
	assert.Equal(t, appt.MeetingLink, stored.MeetingLink)

	slots := byID(f.availability.GetAvailability(ctx, "midwife-3"))
	assert.Equal(t, 1, slots["2024-01-11-10:00"].CurrentBookings)

	_, created, err := f.conversations.GetOrCreateConversation(ctx, "midwife-3", "", "")
	require.NoError(t, err)
	assert.False(t, created)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "joanna.zielinska@example.com", f.mailer.sent[0].To)
	assert.True(t, strings.Contains(f.mailer.sent[0].Body, appt.MeetingLink))
}

func TestBookWithoutSlotStillSucceeds(t *testing.T) {
	f := newBookingFixture(t)
	_, err := f.booking.Book(context.Background(), models.BookingRequest{
		MidwifeID: testMidwife, MidwifeName: "Test", Date: "2024-01-11", Time: "07:30", Type: "Visit",
	})
	require.NoError(t, err)
}

func TestBookEmailFailureIsNotFatal(t *testing.T) {
	f := newBookingFixture(t)
	f.mailer.err = errors.New("smtp down")

	_, err := f.booking.Book(context.Background(), models.BookingRequest{
		MidwifeID: "midwife-1", MidwifeName: "Anna Kowalska", Date: "2024-01-11", Time: "09:00", Type: "Visit",
	})
	assert.NoError(t, err)
}

func TestBookRejectsInvalidDate(t *testing.T) {
	f := newBookingFixture(t)
	_, err := f.booking.Book(context.Background(), models.BookingRequest{
		MidwifeID: "midwife-1", MidwifeName: "Anna Kowalska", Date: "tomorrow", Time: "09:00", Type: "Visit",
	})
	assert.Error(t, err)
	assert.Empty(t, f.mailer.sent)
}
