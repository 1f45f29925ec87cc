// controllers/respond.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"laundrypro-backend/services"
	"laundrypro-backend/store"
	"laundrypro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrIndexOutOfRange),
		errors.Is(err, services.ErrUnknownField),
		errors.Is(err, services.ErrNoActivePanel):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrAddedServiceNotFound),
		errors.Is(err, store.ErrServiceNotFound),
		errors.Is(err, store.ErrSubserviceNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAlreadySubmitted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with the notifications raised before it. Server
// errors are logged and reported with fallback instead of the error text.
func respondError(c *gin.Context, log *zap.Logger, err error, notes []services.Notification, fallback string) {
	if notes == nil {
		notes = []services.Notification{}
	}
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error(fallback, zap.String("path", c.FullPath()), zap.Error(err))
		msg = fallback
	}
	utils.RespondWithErrorAndNotes(c, status, msg, notes)
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return 0, false
	}
	return v, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

func noNotifications() []services.Notification {
	return []services.Notification{}
}
