package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/challasumanth64/assist-respond-ai/internal/logger"
	"github.com/challasumanth64/assist-respond-ai/internal/metrics"
	"github.com/challasumanth64/assist-respond-ai/internal/model"
	"github.com/challasumanth64/assist-respond-ai/internal/repository"
)

type responseService struct {
	responseRepo repository.ResponseRepository
	emailRepo    repository.EmailRepository
	analytics    AnalyticsService
	mailer       Mailer
	events       EventPublisher
	logger       *logger.Logger
}

func NewResponseService(
	responseRepo repository.ResponseRepository,
	emailRepo repository.EmailRepository,
	analytics AnalyticsService,
	mailer Mailer,
	events EventPublisher,
	logger *logger.Logger,
) ResponseService {
	if events == nil {
		events = noopPublisher{}
	}
	return &responseService{
		responseRepo: responseRepo,
		emailRepo:    emailRepo,
		analytics:    analytics,
		mailer:       mailer,
		events:       events,
		logger:       logger,
	}
}

// ReplySubject prefixes the original subject for the outgoing reply.
func ReplySubject(subject string) string {
	return "Re: " + subject
}

// SendResponse delivers the reply first and only then records it as sent, so
// a transport failure leaves the draft untouched and retryable.
func (s *responseService) SendResponse(ctx context.Context, input SendResponseInput) (*SendResult, error) {
	if input.ResponseID == "" {
		return nil, fmt.Errorf("%w: response_id is required", ErrInvalidInput)
	}

	resp, err := s.responseRepo.FindByID(ctx, input.ResponseID)
	if err != nil {
		return nil, err
	}
	if resp.Sent {
		return nil, repository.ErrAlreadySent
	}

	email, err := s.emailRepo.FindByID(ctx, resp.EmailID)
	if err != nil {
		return nil, err
	}

	finalText := input.FinalResponse
	if strings.TrimSpace(finalText) == "" {
		finalText = resp.FinalText()
	}
	if strings.TrimSpace(finalText) == "" {
		return nil, fmt.Errorf("%w: final_response is empty", ErrInvalidInput)
	}

	recipient := input.RecipientEmail
	if recipient == "" {
		recipient = email.SenderEmail
	}

	err = s.mailer.Send(ctx, OutboundMessage{
		To:        recipient,
		Subject:   ReplySubject(email.Subject),
		Body:      finalText,
		InReplyTo: email.MessageID,
	})
	if err != nil {
		metrics.RecordResponseSent("failed")
		s.logger.Error("Failed to send response:", resp.ID, err)
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	sent, err := s.responseRepo.MarkSent(ctx, resp.ID, finalText)
	if err != nil {
		// a concurrent send won the transition; counters were already moved by it
		if errors.Is(err, repository.ErrAlreadySent) {
			metrics.RecordResponseSent("duplicate")
		}
		return nil, err
	}
	if err := s.emailRepo.MarkProcessed(ctx, email.ID); err != nil {
		return nil, fmt.Errorf("failed to mark email processed: %w", err)
	}
	if err := s.analytics.RecordResolved(ctx, email.UserID); err != nil {
		return nil, fmt.Errorf("failed to update analytics: %w", err)
	}

	metrics.RecordResponseSent("sent")
	s.logger.Info("Response sent:", sent.ID, "to:", recipient)
	s.events.BroadcastToUser(sent.UserID, EventResponseSent, sent)

	return &SendResult{
		Success:  true,
		Message:  "Response sent successfully",
		Response: sent,
	}, nil
}

func (s *responseService) GetResponsesByUser(ctx context.Context, userID string) ([]*model.Response, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	return s.responseRepo.FindByUserID(ctx, userID)
}

func (s *responseService) UpdateDraft(ctx context.Context, userID, responseID, text string) (*model.Response, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	resp, err := s.responseRepo.FindByID(ctx, responseID)
	if err != nil {
		return nil, err
	}
	// other owners' rows are reported as missing
	if resp.UserID != userID {
		return nil, repository.ErrResponseNotFound
	}
	return s.responseRepo.UpdateDraft(ctx, responseID, text)
}
