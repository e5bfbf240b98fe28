package repository

import (
	"context"
	"errors"

	"github.com/challasumanth64/assist-respond-ai/internal/model"
)

var (
	ErrEmailNotFound    = errors.New("email not found")
	ErrResponseNotFound = errors.New("response not found")
	ErrAnalyticsMissing = errors.New("analytics not found")
	ErrEntryNotFound    = errors.New("knowledge base entry not found")
	ErrAlreadySent      = errors.New("response already sent")
)

// EmailRepository defines the interface for email data operations
type EmailRepository interface {
	Create(ctx context.Context, email *model.Email) error
	FindByID(ctx context.Context, id string) (*model.Email, error)
	// FindByUserID orders urgent emails first, then newest first.
	FindByUserID(ctx context.Context, userID string) ([]*model.Email, error)
	ExistsBySenderSubject(ctx context.Context, userID, senderEmail, subject string) (bool, error)
	MarkProcessed(ctx context.Context, id string) error
}

// ResponseRepository defines the interface for drafted reply operations
type ResponseRepository interface {
	Create(ctx context.Context, response *model.Response) error
	FindByID(ctx context.Context, id string) (*model.Response, error)
	FindByUserID(ctx context.Context, userID string) ([]*model.Response, error)
	// UpdateDraft replaces the edited text of an unsent response.
	UpdateDraft(ctx context.Context, id, editedText string) (*model.Response, error)
	// MarkSent flips sent from false to true; ErrAlreadySent if it was already true.
	MarkSent(ctx context.Context, id, finalText string) (*model.Response, error)
}

// AnalyticsRepository applies counter deltas atomically per (user, date).
type AnalyticsRepository interface {
	ApplyDelta(ctx context.Context, userID, date string, delta model.AnalyticsDelta) error
	FindByUserAndDate(ctx context.Context, userID, date string) (*model.Analytics, error)
	FindByUserID(ctx context.Context, userID string) ([]*model.Analytics, error)
}

// KnowledgeBaseRepository defines the interface for knowledge base entries
type KnowledgeBaseRepository interface {
	Create(ctx context.Context, entry *model.KnowledgeBaseEntry) error
	FindByID(ctx context.Context, id string) (*model.KnowledgeBaseEntry, error)
	FindByUserID(ctx context.Context, userID string) ([]*model.KnowledgeBaseEntry, error)
	Update(ctx context.Context, entry *model.KnowledgeBaseEntry) error
	Delete(ctx context.Context, id string) error
}
