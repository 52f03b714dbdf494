package handlers

import (
	"github.com/gin-gonic/gin"

	"midwife-booking-server/internal/logging"
	"midwife-booking-server/internal/models"
	"midwife-booking-server/internal/services"
	"midwife-booking-server/internal/utils"
)

// ProfileHandler handles the demo user's profile.
type ProfileHandler struct {
	Profile *services.ProfileService
	Logger  *logging.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profile *services.ProfileService, logger *logging.Logger) *ProfileHandler {
	return &ProfileHandler{Profile: profile, Logger: logger}
}

// GetProfile returns the stored profile, seeding it on first use.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	utils.Success(c, "Profile retrieved successfully", h.Profile.Get(c.Request.Context()))
}

// UpdateProfile replaces the stored profile with the request body.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req models.UserProfile
	if !utils.BindAndValidate(c, &req) {
		return
	}

	profile, err := h.Profile.Save(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.Logger, "update profile", err)
		return
	}
	utils.Success(c, "Profile updated successfully", profile)
}

// ResetProfile drops the stored profile. The next read seeds it again.
func (h *ProfileHandler) ResetProfile(c *gin.Context) {
	if err := h.Profile.Reset(c.Request.Context()); err != nil {
		respondError(c, h.Logger, "reset profile", err)
		return
	}
	utils.Success(c, "Profile reset successfully", nil)
}
