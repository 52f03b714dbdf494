package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"midwife-booking-server/internal/apperrors"
	"midwife-booking-server/internal/logging"
	"midwife-booking-server/internal/utils"
)

// respondError logs err at a level matching its type and sends the mapped response.
func respondError(c *gin.Context, logger *logging.Logger, op string, err error) {
	fields := []any{"op", op, "path", c.FullPath()}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		fields = append(fields, appErr.LogFields()...)
	} else {
		fields = append(fields, "error", err)
	}

	switch apperrors.TypeOf(err) {
	case apperrors.TypeValidation, apperrors.TypeNotFound, apperrors.TypePermission:
		logger.Debug("request rejected", fields...)
	default:
		logger.Error("request failed", fields...)
	}
	utils.FromError(c, err)
}
