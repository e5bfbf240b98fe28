package mailer

import (
	"context"
	"sync"

	"github.com/challasumanth64/assist-respond-ai/internal/service"
)

// MockMailer records sent messages; set Err to make Send fail.
type MockMailer struct {
	mu   sync.Mutex
	Err  error
	Sent []service.OutboundMessage
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(ctx context.Context, msg service.OutboundMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

func (m *MockMailer) SentMessages() []service.OutboundMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]service.OutboundMessage, len(m.Sent))
	copy(out, m.Sent)
	return out
}
