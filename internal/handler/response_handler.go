package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/challasumanth64/assist-respond-ai/internal/logger"
	"github.com/challasumanth64/assist-respond-ai/internal/middleware"
	"github.com/challasumanth64/assist-respond-ai/internal/service"
)

type ResponseHandler struct {
	responseService service.ResponseService
	logger          *logger.Logger
}

func NewResponseHandler(responseService service.ResponseService, logger *logger.Logger) *ResponseHandler {
	return &ResponseHandler{
		responseService: responseService,
		logger:          logger,
	}
}

// SendResponse delivers a drafted reply to the customer
func (h *ResponseHandler) SendResponse(c echo.Context) error {
	var req service.SendResponseInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := h.responseService.SendResponse(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Failed to send response:", req.ResponseID, err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *ResponseHandler) GetResponses(c echo.Context) error {
	responses, err := h.responseService.GetResponsesByUser(c.Request().Context(), middleware.OwnerID(c))
	if err != nil {
		h.logger.Error("Failed to get responses:", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, responses)
}

// UpdateDraft replaces the edited text of an unsent reply
func (h *ResponseHandler) UpdateDraft(c echo.Context) error {
	var req struct {
		EditedResponse string `json:"edited_response"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.responseService.UpdateDraft(c.Request().Context(), middleware.OwnerID(c), c.Param("id"), req.EditedResponse)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}
