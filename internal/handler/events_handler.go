package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/challasumanth64/assist-respond-ai/internal/logger"
	"github.com/challasumanth64/assist-respond-ai/internal/middleware"
	"github.com/challasumanth64/assist-respond-ai/internal/sse"
)

type EventsHandler struct {
	sseManager *sse.SSEManager
	logger     *logger.Logger
}

func NewEventsHandler(sseManager *sse.SSEManager, logger *logger.Logger) *EventsHandler {
	return &EventsHandler{
		sseManager: sseManager,
		logger:     logger,
	}
}

// Stream provides Server-Sent Events for real-time dashboard updates
func (h *EventsHandler) Stream(c echo.Context) error {
	userID := middleware.OwnerID(c)

	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	clientChannel := h.sseManager.AddClient(userID)
	defer h.sseManager.RemoveClient(userID, clientChannel)

	initJSON, _ := json.Marshal(sse.Event{
		Type: "connection",
		Data: map[string]string{
			"message": "Connected to email updates",
			"userId":  userID,
		},
		Time: time.Now().Unix(),
	})
	fmt.Fprintf(c.Response(), "data: %s\n\n", initJSON)
	c.Response().Flush()

	for {
		select {
		case eventData, ok := <-clientChannel:
			if !ok {
				return nil
			}
			fmt.Fprintf(c.Response(), "data: %s\n\n", eventData)
			c.Response().Flush()
		case <-c.Request().Context().Done():
			return nil
		}
	}
}
