package handlers

import (
	"github.com/gin-gonic/gin"

	"midwife-booking-server/internal/logging"
	"midwife-booking-server/internal/models"
	"midwife-booking-server/internal/services"
	"midwife-booking-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Appointments *services.AppointmentService
	Booking      *services.BookingService
	Logger       *logging.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(appointments *services.AppointmentService, booking *services.BookingService, logger *logging.Logger) *AppointmentHandler {
	return &AppointmentHandler{Appointments: appointments, Booking: booking, Logger: logger}
}

// CreateAppointmentRequest represents the request body for creating an appointment.
type CreateAppointmentRequest struct {
	MidwifeID     string                   `json:"midwifeId" binding:"required"`
	MidwifeName   string                   `json:"midwifeName" binding:"required"`
	MidwifeAvatar string                   `json:"midwifeAvatar"`
	Date          string                   `json:"date" binding:"required"`
	Time          string                   `json:"time" binding:"required"`
	Type          string                   `json:"type" binding:"required"`
	Location      string                   `json:"location"`
	IsOnline      bool                     `json:"isOnline"`
	Status        models.AppointmentStatus `json:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
	MeetingLink   string                   `json:"meetingLink"`
	Notes         string                   `json:"notes"`
}

// CreateAppointment stores an appointment as given, without touching availability.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Appointments.Add(c.Request.Context(), models.Appointment{
		MidwifeID:     req.MidwifeID,
		MidwifeName:   req.MidwifeName,
		MidwifeAvatar: req.MidwifeAvatar,
		Date:          req.Date,
		Time:          req.Time,
		Type:          req.Type,
		Location:      req.Location,
		IsOnline:      req.IsOnline,
		Status:        req.Status,
		MeetingLink:   req.MeetingLink,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, h.Logger, "create appointment", err)
		return
	}
	utils.Created(c, "Appointment created successfully", appointment)
}

// BookAppointment runs the booking flow: appointment, slot count,
// conversation and confirmation email.
func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	var req models.BookingRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Booking.Book(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.Logger, "book appointment", err)
		return
	}
	h.Logger.Info("appointment booked", "appointment_id", appointment.ID, "midwife_id", appointment.MidwifeID)
	utils.Created(c, "Appointment booked successfully", appointment)
}

// GetAppointments lists all appointments, or one midwife's with ?midwifeId=.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	if midwifeID := c.Query("midwifeId"); midwifeID != "" {
		utils.Success(c, "Appointments retrieved successfully", h.Appointments.GetByMidwife(c.Request.Context(), midwifeID))
		return
	}
	utils.Success(c, "Appointments retrieved successfully", h.Appointments.GetAll(c.Request.Context()))
}

// GetUpcomingAppointments lists scheduled appointments from today on.
func (h *AppointmentHandler) GetUpcomingAppointments(c *gin.Context) {
	utils.Success(c, "Upcoming appointments retrieved successfully", h.Appointments.GetUpcoming(c.Request.Context()))
}

// GetPastAppointments lists appointments that are over or no longer scheduled.
func (h *AppointmentHandler) GetPastAppointments(c *gin.Context) {
	utils.Success(c, "Past appointments retrieved successfully", h.Appointments.GetPast(c.Request.Context()))
}

// GetAppointmentByID handles fetching a specific appointment.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointment, ok := h.Appointments.Get(c.Request.Context(), c.Param("id"))
	if !ok {
		utils.NotFound(c, "Appointment not found")
		return
	}
	utils.Success(c, "Appointment retrieved successfully", appointment)
}

// UpdateAppointment applies a partial update.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	var patch models.AppointmentPatch
	if !utils.BindAndValidate(c, &patch) {
		return
	}
	h.respondUpdate(c, "update appointment", "Appointment updated successfully", func() (models.Appointment, bool, error) {
		return h.Appointments.Update(c.Request.Context(), c.Param("id"), patch)
	})
}

// CancelAppointment marks an appointment cancelled.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	h.respondUpdate(c, "cancel appointment", "Appointment cancelled successfully", func() (models.Appointment, bool, error) {
		return h.Appointments.Cancel(c.Request.Context(), c.Param("id"))
	})
}

// CompleteAppointment marks an appointment completed.
func (h *AppointmentHandler) CompleteAppointment(c *gin.Context) {
	h.respondUpdate(c, "complete appointment", "Appointment completed successfully", func() (models.Appointment, bool, error) {
		return h.Appointments.Complete(c.Request.Context(), c.Param("id"))
	})
}

func (h *AppointmentHandler) respondUpdate(c *gin.Context, op, message string, update func() (models.Appointment, bool, error)) {
	appointment, found, err := update()
	if !found {
		utils.NotFound(c, "Appointment not found")
		return
	}
	if err != nil {
		respondError(c, h.Logger, op, err)
		return
	}
	utils.Success(c, message, appointment)
}
