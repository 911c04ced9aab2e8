package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jeffreyeugu-sketch/expedientes/internal/service"
)

// respondError maps the service's typed errors onto HTTP responses. Anything
// not matched is logged and surfaced as a generic failure.
func respondError(c echo.Context, logger *zap.Logger, err error) error {
	var (
		validationErr *service.ValidationError
		pastTimeErr   *service.PastTimeError
		conflictErr   *service.ConflictError
		stateErr      *service.StateError
		notFoundErr   *service.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":   "validation_error",
			"fields":  validationErr.Fields,
			"message": validationErr.Error(),
		})
	case errors.As(err, &pastTimeErr):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":   "past_time",
			"message": pastTimeErr.Error(),
		})
	case errors.As(err, &conflictErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "schedule_conflict",
			"doctor":  conflictErr.DoctorName,
			"message": conflictErr.Error(),
		})
	case errors.As(err, &stateErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "invalid_state",
			"status":  string(stateErr.Status),
			"message": stateErr.Error(),
		})
	case errors.As(err, &notFoundErr):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error":   "not_found",
			"message": notFoundErr.Error(),
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error":   "unauthorized",
			"message": "invalid credentials",
		})
	}

	logger.Error("Unhandled error",
		zap.Error(err),
		zap.String("path", c.Request().URL.Path),
	)
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"error":   "internal",
		"message": "an unexpected error occurred",
	})
}
