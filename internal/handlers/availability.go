package handlers

import (
	"github.com/gin-gonic/gin"

	"midwife-booking-server/internal/logging"
	"midwife-booking-server/internal/models"
	"midwife-booking-server/internal/services"
	"midwife-booking-server/internal/utils"
)

// AvailabilityHandler handles the midwife directory and midwife availability.
type AvailabilityHandler struct {
	Availability *services.AvailabilityService
	Appointments *services.AppointmentService
	Logger       *logging.Logger
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(availability *services.AvailabilityService, appointments *services.AppointmentService, logger *logging.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Availability: availability, Appointments: appointments, Logger: logger}
}

// GetMidwives lists the demo midwives.
func (h *AvailabilityHandler) GetMidwives(c *gin.Context) {
	utils.Success(c, "Midwives retrieved successfully", services.DemoMidwives)
}

// GetMidwifeAppointments lists the appointments booked with one midwife.
func (h *AvailabilityHandler) GetMidwifeAppointments(c *gin.Context) {
	utils.Success(c, "Appointments retrieved successfully", h.Appointments.GetByMidwife(c.Request.Context(), c.Param("id")))
}

// GetAvailability lists every slot of a midwife, or the open slots of one ?date=.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	midwifeID := c.Param("id")
	if date := c.Query("date"); date != "" {
		if _, err := models.ParseDate(date); err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		utils.Success(c, "Available slots retrieved successfully", h.Availability.GetAvailableSlots(c.Request.Context(), midwifeID, date))
		return
	}
	utils.Success(c, "Availability retrieved successfully", h.Availability.GetAvailability(c.Request.Context(), midwifeID))
}

// SetAvailability upserts the posted slots by date and time.
func (h *AvailabilityHandler) SetAvailability(c *gin.Context) {
	var slots []models.AvailabilitySlot
	if !utils.BindAndValidate(c, &slots) {
		return
	}

	merged, err := h.Availability.SetAvailability(c.Request.Context(), c.Param("id"), slots)
	if err != nil {
		respondError(c, h.Logger, "set availability", err)
		return
	}
	utils.Success(c, "Availability updated successfully", merged)
}

// SetMultiDayAvailability expands a date range into slots and upserts them.
func (h *AvailabilityHandler) SetMultiDayAvailability(c *gin.Context) {
	var req models.MultiDayRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	slots, err := h.Availability.SetMultiDayAvailability(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.Logger, "set multi-day availability", err)
		return
	}
	h.Logger.Info("multi-day availability set", "midwife_id", c.Param("id"), "slots", len(slots))
	utils.Success(c, "Availability updated successfully", slots)
}

// UpdateSlot applies a partial update to one slot.
func (h *AvailabilityHandler) UpdateSlot(c *gin.Context) {
	var patch models.SlotPatch
	if !utils.BindAndValidate(c, &patch) {
		return
	}

	slot, found, err := h.Availability.UpdateAvailabilitySlot(c.Request.Context(), c.Param("id"), c.Param("slotId"), patch)
	if !found {
		utils.NotFound(c, "Slot not found")
		return
	}
	if err != nil {
		respondError(c, h.Logger, "update slot", err)
		return
	}
	utils.Success(c, "Slot updated successfully", slot)
}

// DeleteSlot removes one slot.
func (h *AvailabilityHandler) DeleteSlot(c *gin.Context) {
	found, err := h.Availability.DeleteAvailabilitySlot(c.Request.Context(), c.Param("id"), c.Param("slotId"))
	if !found {
		utils.NotFound(c, "Slot not found")
		return
	}
	if err != nil {
		respondError(c, h.Logger, "delete slot", err)
		return
	}
	utils.Success(c, "Slot deleted successfully", nil)
}
