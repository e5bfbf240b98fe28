package sse

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/challasumanth64/assist-respond-ai/internal/logger"
)

const clientBuffer = 16

// Event is the JSON payload written to a stream as one SSE data line.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
	Time int64       `json:"time"`
}

// SSEManager manages Server-Sent Event connections
type SSEManager struct {
	clients    map[string]map[chan []byte]bool // userID -> connection channels
	clientsMux sync.RWMutex
	closed     bool
	logger     *logger.Logger
}

// NewSSEManager creates a new SSE manager
func NewSSEManager(logger *logger.Logger) *SSEManager {
	return &SSEManager{
		clients: make(map[string]map[chan []byte]bool),
		logger:  logger,
	}
}

// AddClient registers a stream for userID. The channel is closed by
// RemoveClient or Close.
func (s *SSEManager) AddClient(userID string) chan []byte {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()

	channel := make(chan []byte, clientBuffer)
	if s.closed {
		close(channel)
		return channel
	}
	if s.clients[userID] == nil {
		s.clients[userID] = make(map[chan []byte]bool)
	}
	s.clients[userID][channel] = true

	s.logger.Info("Added SSE client for user:", userID, "total clients:", len(s.clients[userID]))
	return channel
}

func (s *SSEManager) RemoveClient(userID string, channel chan []byte) {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()

	userClients, exists := s.clients[userID]
	if !exists || !userClients[channel] {
		return
	}
	delete(userClients, channel)
	close(channel)

	s.logger.Info("Removed SSE client for user:", userID, "remaining clients:", len(userClients))
	if len(userClients) == 0 {
		delete(s.clients, userID)
	}
}

// BroadcastToUser sends an event to every stream of userID. A stream whose
// buffer is full misses the event; the broadcaster never blocks.
func (s *SSEManager) BroadcastToUser(userID string, eventType string, data interface{}) {
	jsonData, err := json.Marshal(Event{Type: eventType, Data: data, Time: time.Now().Unix()})
	if err != nil {
		s.logger.Error("Failed to marshal broadcast event:", err)
		return
	}

	s.clientsMux.RLock()
	defer s.clientsMux.RUnlock()

	for channel := range s.clients[userID] {
		select {
		case channel <- jsonData:
		default:
			s.logger.Warn("Dropping", eventType, "event for slow client of user:", userID)
		}
	}
}

// Close disconnects every client. Later AddClient calls get a closed channel.
func (s *SSEManager) Close() {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()

	s.closed = true
	for userID, userClients := range s.clients {
		for channel := range userClients {
			close(channel)
		}
		delete(s.clients, userID)
	}
}

// GetUserConnectionCount returns the number of active connections for a user
func (s *SSEManager) GetUserConnectionCount(userID string) int {
	s.clientsMux.RLock()
	defer s.clientsMux.RUnlock()
	return len(s.clients[userID])
}

// HasUserConnection checks if a user has active SSE connections
func (s *SSEManager) HasUserConnection(userID string) bool {
	return s.GetUserConnectionCount(userID) > 0
}
