package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/challasumanth64/assist-respond-ai/internal/logger"
	"github.com/challasumanth64/assist-respond-ai/internal/middleware"
	"github.com/challasumanth64/assist-respond-ai/internal/service"
)

type EmailHandler struct {
	emailService service.EmailService
	logger       *logger.Logger
}

func NewEmailHandler(emailService service.EmailService, logger *logger.Logger) *EmailHandler {
	return &EmailHandler{
		emailService: emailService,
		logger:       logger,
	}
}

// ProcessEmail runs one submitted email through the pipeline
func (h *EmailHandler) ProcessEmail(c echo.Context) error {
	var req service.ProcessEmailInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := h.emailService.ProcessEmail(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Failed to process email:", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// SyncEmails fetches unread mail for the owner and processes it
func (h *EmailHandler) SyncEmails(c echo.Context) error {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := h.emailService.SyncEmails(c.Request().Context(), req.UserID)
	if err != nil {
		h.logger.Error("Failed to sync emails:", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *EmailHandler) GetEmailsByUser(c echo.Context) error {
	emails, err := h.emailService.GetEmailsByUser(c.Request().Context(), middleware.OwnerID(c))
	if err != nil {
		h.logger.Error("Failed to get emails:", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, emails)
}
