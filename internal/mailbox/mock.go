package mailbox

import (
	"context"
	"fmt"
	"sync"

	"github.com/challasumanth64/assist-respond-ai/internal/model"
	"github.com/challasumanth64/assist-respond-ai/internal/service"
)

// MockMailbox is an in-memory mailbox for tests. Messages are listed in
// insertion order; MarkRead removes a message from the unread set.
type MockMailbox struct {
	mu       sync.Mutex
	messages []*model.InboundMessage
	unread   map[string]bool

	OpenErr   error
	FetchErr  map[string]error
	MarkErr   map[string]error
	MarkedIDs []string
	Closed    int
}

func NewMockMailbox(messages ...*model.InboundMessage) *MockMailbox {
	m := &MockMailbox{
		unread:   make(map[string]bool),
		FetchErr: make(map[string]error),
		MarkErr:  make(map[string]error),
	}
	for _, msg := range messages {
		m.Add(msg)
	}
	return m
}

func (m *MockMailbox) Add(msg *model.InboundMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	m.unread[msg.ID] = true
}

func (m *MockMailbox) Open(ctx context.Context) (service.MailboxSession, error) {
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	return &mockSession{box: m}, nil
}

type mockSession struct {
	box *MockMailbox
}

func (s *mockSession) ListUnread(ctx context.Context, limit int) ([]string, error) {
	s.box.mu.Lock()
	defer s.box.mu.Unlock()
	var ids []string
	for _, msg := range s.box.messages {
		if s.box.unread[msg.ID] {
			ids = append(ids, msg.ID)
		}
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[len(ids)-limit:]
	}
	return ids, nil
}

func (s *mockSession) Fetch(ctx context.Context, id string) (*model.InboundMessage, error) {
	s.box.mu.Lock()
	defer s.box.mu.Unlock()
	if err := s.box.FetchErr[id]; err != nil {
		return nil, err
	}
	for _, msg := range s.box.messages {
		if msg.ID == id {
			cp := *msg
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("message %s not found", id)
}

func (s *mockSession) MarkRead(ctx context.Context, id string) error {
	s.box.mu.Lock()
	defer s.box.mu.Unlock()
	if err := s.box.MarkErr[id]; err != nil {
		return err
	}
	s.box.unread[id] = false
	s.box.MarkedIDs = append(s.box.MarkedIDs, id)
	return nil
}

func (s *mockSession) Close() error {
	s.box.mu.Lock()
	defer s.box.mu.Unlock()
	s.box.Closed++
	return nil
}
