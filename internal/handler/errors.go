package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/challasumanth64/assist-respond-ai/internal/repository"
	"github.com/challasumanth64/assist-respond-ai/internal/service"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrEmailNotFound),
		errors.Is(err, repository.ErrResponseNotFound),
		errors.Is(err, repository.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrAlreadySent):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": message} with the status mapped from err.
func respondError(c echo.Context, err error) error {
	return c.JSON(statusFor(err), map[string]string{
		"error": err.Error(),
	})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{
		"error": message,
	})
}
