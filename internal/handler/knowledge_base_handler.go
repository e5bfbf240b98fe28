package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/challasumanth64/assist-respond-ai/internal/logger"
	"github.com/challasumanth64/assist-respond-ai/internal/middleware"
	"github.com/challasumanth64/assist-respond-ai/internal/service"
)

type KnowledgeBaseHandler struct {
	kbService service.KnowledgeBaseService
	logger    *logger.Logger
}

func NewKnowledgeBaseHandler(kbService service.KnowledgeBaseService, logger *logger.Logger) *KnowledgeBaseHandler {
	return &KnowledgeBaseHandler{
		kbService: kbService,
		logger:    logger,
	}
}

type entryRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Keywords []string `json:"keywords"`
}

// CreateEntry creates a new knowledge base entry
func (h *KnowledgeBaseHandler) CreateEntry(c echo.Context) error {
	var req entryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Title == "" {
		return badRequest(c, "Title is required")
	}

	entry, err := h.kbService.CreateEntry(c.Request().Context(), middleware.OwnerID(c), req.Title, req.Content, req.Keywords)
	if err != nil {
		h.logger.Error("Failed to create knowledge base entry:", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, entry)
}

func (h *KnowledgeBaseHandler) GetEntry(c echo.Context) error {
	entry, err := h.kbService.GetEntry(c.Request().Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, entry)
}

func (h *KnowledgeBaseHandler) GetEntries(c echo.Context) error {
	entries, err := h.kbService.GetEntries(c.Request().Context(), middleware.OwnerID(c))
	if err != nil {
		h.logger.Error("Failed to get knowledge base entries:", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, entries)
}

func (h *KnowledgeBaseHandler) UpdateEntry(c echo.Context) error {
	var req entryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	entry, err := h.kbService.UpdateEntry(c.Request().Context(), middleware.OwnerID(c), c.Param("id"), req.Title, req.Content, req.Keywords)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, entry)
}

func (h *KnowledgeBaseHandler) DeleteEntry(c echo.Context) error {
	if err := h.kbService.DeleteEntry(c.Request().Context(), middleware.OwnerID(c), c.Param("id")); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Entry deleted successfully",
	})
}
