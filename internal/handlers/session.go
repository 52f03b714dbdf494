package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"midwife-booking-server/internal/config"
	"midwife-booking-server/internal/logging"
	"midwife-booking-server/internal/models"
	"midwife-booking-server/internal/services"
	"midwife-booking-server/internal/utils"
)

// SessionHandler issues demo session tokens. There are no credentials: the
// token carries the id and role of the stored profile.
type SessionHandler struct {
	Profile *services.ProfileService
	Cfg     *config.Config
	Logger  *logging.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(profile *services.ProfileService, cfg *config.Config, logger *logging.Logger) *SessionHandler {
	return &SessionHandler{Profile: profile, Cfg: cfg, Logger: logger}
}

// SessionResponse represents the response body for a new session.
type SessionResponse struct {
	AccessToken string             `json:"accessToken"`
	ExpiresAt   time.Time          `json:"expiresAt"`
	User        models.UserProfile `json:"user"`
}

// CreateSession handles issuing a token for the demo user.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	profile := h.Profile.Get(c.Request.Context())

	token, expiresAt, err := utils.GenerateSessionToken(profile, h.Cfg)
	if err != nil {
		h.Logger.Error("session token not issued", "error", err)
		utils.InternalServerError(c, "Failed to issue session token")
		return
	}

	h.Logger.Info("session issued", "user_id", profile.ID, "role", profile.Role)
	utils.Created(c, "Session created", SessionResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        profile,
	})
}
