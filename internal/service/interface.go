package service

import (
	"context"
	"errors"
	"time"

	"github.com/challasumanth64/assist-respond-ai/internal/model"
)

// ErrInvalidInput marks caller mistakes that map to HTTP 400.
var ErrInvalidInput = errors.New("invalid input")

const (
	EventEmailProcessed = "email_processed"
	EventResponseSent   = "response_sent"
	EventSyncSummary    = "sync_summary"
)

type ProcessEmailInput struct {
	SenderEmail string    `json:"sender_email"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	UserID      string    `json:"user_id"`
	ReceivedAt  time.Time `json:"received_at"`
	MessageID   string    `json:"message_id"`
}

type ProcessResult struct {
	Processed bool            `json:"processed"`
	Reason    string          `json:"reason,omitempty"`
	Degraded  bool            `json:"degraded,omitempty"`
	Email     *model.Email    `json:"email,omitempty"`
	Response  *model.Response `json:"response,omitempty"`
}

type SyncResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	EmailCount int    `json:"emailCount"`
}

type SendResponseInput struct {
	ResponseID     string `json:"response_id"`
	FinalResponse  string `json:"final_response"`
	RecipientEmail string `json:"recipient_email"`
}

type SendResult struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Response *model.Response `json:"response"`
}

type EmailService interface {
	ProcessEmail(ctx context.Context, input ProcessEmailInput) (*ProcessResult, error)
	SyncEmails(ctx context.Context, userID string) (*SyncResult, error)
	GetEmailsByUser(ctx context.Context, userID string) ([]*model.Email, error)
	Classify(ctx context.Context, subject, body string) model.ClassificationOutcome
	GenerateResponse(ctx context.Context, subject, body string, sentiment model.Sentiment, info model.ExtractedInfo) string
}

type ResponseService interface {
	SendResponse(ctx context.Context, input SendResponseInput) (*SendResult, error)
	GetResponsesByUser(ctx context.Context, userID string) ([]*model.Response, error)
	UpdateDraft(ctx context.Context, userID, responseID, text string) (*model.Response, error)
}

type AnalyticsService interface {
	RecordNewEmail(ctx context.Context, userID string, sentiment model.Sentiment, priority model.Priority) error
	RecordResolved(ctx context.Context, userID string) error
	GetAnalytics(ctx context.Context, userID string) ([]*model.Analytics, error)
	GetToday(ctx context.Context, userID string) (*model.Analytics, error)
}

type KnowledgeBaseService interface {
	CreateEntry(ctx context.Context, userID, title, content string, keywords []string) (*model.KnowledgeBaseEntry, error)
	GetEntry(ctx context.Context, userID, entryID string) (*model.KnowledgeBaseEntry, error)
	GetEntries(ctx context.Context, userID string) ([]*model.KnowledgeBaseEntry, error)
	UpdateEntry(ctx context.Context, userID, entryID, title, content string, keywords []string) (*model.KnowledgeBaseEntry, error)
	DeleteEntry(ctx context.Context, userID, entryID string) error
}

// AIClient interface for the language-model completion endpoint
type AIClient interface {
	ClassifyEmail(ctx context.Context, subject, body string) (*model.Classification, error)
	GenerateResponse(ctx context.Context, subject, body string, sentiment model.Sentiment, info model.ExtractedInfo) (string, error)
}

// Mailbox opens one read session per ingestion run.
type Mailbox interface {
	Open(ctx context.Context) (MailboxSession, error)
}

type MailboxSession interface {
	// ListUnread returns at most limit ids of unread messages, most recent last.
	ListUnread(ctx context.Context, limit int) ([]string, error)
	Fetch(ctx context.Context, id string) (*model.InboundMessage, error)
	MarkRead(ctx context.Context, id string) error
	Close() error
}

type OutboundMessage struct {
	To      string
	Subject string
	Body    string
	// InReplyTo threads the reply under the customer's message when set.
	InReplyTo string
}

// Mailer interface for outbound reply delivery
type Mailer interface {
	Send(ctx context.Context, msg OutboundMessage) error
}

// EventPublisher pushes per-owner events to connected dashboards.
type EventPublisher interface {
	BroadcastToUser(userID string, eventType string, data interface{})
}

type noopPublisher struct{}

func (noopPublisher) BroadcastToUser(string, string, interface{}) {}
