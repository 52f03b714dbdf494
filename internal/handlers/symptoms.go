package handlers

import (
	"github.com/gin-gonic/gin"

	"midwife-booking-server/internal/logging"
	"midwife-booking-server/internal/models"
	"midwife-booking-server/internal/services"
	"midwife-booking-server/internal/utils"
)

// SymptomHandler handles the symptom diary.
type SymptomHandler struct {
	Symptoms *services.SymptomService
	Logger   *logging.Logger
}

// NewSymptomHandler creates a new SymptomHandler.
func NewSymptomHandler(symptoms *services.SymptomService, logger *logging.Logger) *SymptomHandler {
	return &SymptomHandler{Symptoms: symptoms, Logger: logger}
}

// GetSymptoms lists the diary newest first, or a ?from=&to= range oldest first.
func (h *SymptomHandler) GetSymptoms(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" && to == "" {
		utils.Success(c, "Symptoms retrieved successfully", h.Symptoms.GetAll(c.Request.Context()))
		return
	}
	if from == "" || to == "" {
		utils.BadRequest(c, "Both from and to are required for a range")
		return
	}

	entries, err := h.Symptoms.GetRange(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, h.Logger, "get symptom range", err)
		return
	}
	utils.Success(c, "Symptoms retrieved successfully", entries)
}

// SaveSymptoms stores the entry for a day, replacing an earlier one.
func (h *SymptomHandler) SaveSymptoms(c *gin.Context) {
	var req models.SymptomEntry
	if !utils.BindAndValidate(c, &req) {
		return
	}

	entry, err := h.Symptoms.Save(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.Logger, "save symptoms", err)
		return
	}
	utils.Success(c, "Symptoms saved successfully", entry)
}

// GetSymptomsByDate returns the entry of one day.
func (h *SymptomHandler) GetSymptomsByDate(c *gin.Context) {
	entry, ok := h.Symptoms.GetByDate(c.Request.Context(), c.Param("date"))
	if !ok {
		utils.NotFound(c, "No symptoms recorded for this date")
		return
	}
	utils.Success(c, "Symptoms retrieved successfully", entry)
}

// DeleteSymptoms removes the entry of one day.
func (h *SymptomHandler) DeleteSymptoms(c *gin.Context) {
	found, err := h.Symptoms.Delete(c.Request.Context(), c.Param("date"))
	if !found {
		utils.NotFound(c, "No symptoms recorded for this date")
		return
	}
	if err != nil {
		respondError(c, h.Logger, "delete symptoms", err)
		return
	}
	utils.Success(c, "Symptoms deleted successfully", nil)
}
