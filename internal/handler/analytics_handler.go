package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/challasumanth64/assist-respond-ai/internal/logger"
	"github.com/challasumanth64/assist-respond-ai/internal/middleware"
	"github.com/challasumanth64/assist-respond-ai/internal/service"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	logger           *logger.Logger
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService, logger *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

func (h *AnalyticsHandler) GetAnalytics(c echo.Context) error {
	rows, err := h.analyticsService.GetAnalytics(c.Request().Context(), middleware.OwnerID(c))
	if err != nil {
		h.logger.Error("Failed to get analytics:", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, rows)
}

func (h *AnalyticsHandler) GetToday(c echo.Context) error {
	row, err := h.analyticsService.GetToday(c.Request().Context(), middleware.OwnerID(c))
	if err != nil {
		h.logger.Error("Failed to get today's analytics:", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, row)
}
