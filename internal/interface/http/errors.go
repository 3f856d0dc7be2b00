package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/fitlife-api/internal/application"
	"github.com/oksasatya/fitlife-api/pkg/helpers"
	"github.com/oksasatya/fitlife-api/pkg/response"
)

const internalErrorMessage = "Something went wrong!"

// ErrorMapper translates service errors into HTTP responses.
type ErrorMapper struct {
	// LegacyForbidden answers ownership violations with 401 like the first web client expects.
	LegacyForbidden bool
	Logger          *logrus.Logger
}

func NewErrorMapper(legacyForbidden bool, logger *logrus.Logger) *ErrorMapper {
	return &ErrorMapper{LegacyForbidden: legacyForbidden, Logger: logger}
}

// Respond writes the error envelope for err. Unknown errors are logged and
// answered with a generic 500.
func (m *ErrorMapper) Respond(c *gin.Context, err error) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusBadRequest, "Validation failed", verr.Fields)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "Invalid email or password", nil)
	case errors.Is(err, application.ErrUnauthorized):
		response.Error[any](c, http.StatusUnauthorized, "Not authorized, token failed", nil)
	case errors.Is(err, application.ErrForbidden):
		status := http.StatusForbidden
		if m.LegacyForbidden {
			status = http.StatusUnauthorized
		}
		response.Error[any](c, status, "Not authorized", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "User not found", nil)
	case errors.Is(err, application.ErrWorkoutNotFound):
		response.Error[any](c, http.StatusNotFound, "Workout not found", nil)
	case errors.Is(err, application.ErrUserExists):
		response.Error[any](c, http.StatusBadRequest, "User already exists", nil)
	case errors.Is(err, application.ErrWorkoutConflict):
		response.Error[any](c, http.StatusConflict, "Workout was modified by another request", nil)
	case errors.Is(err, application.ErrPredictionUnavailable):
		response.Error[any](c, http.StatusBadGateway, "Prediction service unavailable", nil)
	case errors.Is(err, application.ErrStorageNotConfigured):
		response.Error[any](c, http.StatusServiceUnavailable, "Avatar storage is not configured", nil)
	default:
		helpers.LogError(m.Logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		})
		response.Error[any](c, http.StatusInternalServerError, internalErrorMessage, nil)
	}
}

// RespondValidation is a shortcut for validation failures with a custom message.
func (m *ErrorMapper) RespondValidation(c *gin.Context, message string, fields map[string]string) {
	response.Error[any](c, http.StatusBadRequest, message, fields)
}
