package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/challasumanth64/assist-respond-ai/internal/logger"
	"github.com/challasumanth64/assist-respond-ai/internal/metrics"
	"github.com/challasumanth64/assist-respond-ai/internal/model"
	"github.com/challasumanth64/assist-respond-ai/internal/repository"
)

// FallbackReply is stored as the draft whenever generation fails.
const FallbackReply = "Thank you for contacting us. We have received your message and will get back to you shortly."

// supportKeywords gate the pipeline; nothing else is classified or stored.
var supportKeywords = []string{"support", "query", "request", "help"}

type emailService struct {
	emailRepo    repository.EmailRepository
	responseRepo repository.ResponseRepository
	analytics    AnalyticsService
	aiClient     AIClient
	mailbox      Mailbox
	events       EventPublisher
	maxFetch     int
	logger       *logger.Logger
}

func NewEmailService(
	emailRepo repository.EmailRepository,
	responseRepo repository.ResponseRepository,
	analytics AnalyticsService,
	aiClient AIClient,
	mailbox Mailbox,
	events EventPublisher,
	maxFetch int,
	logger *logger.Logger,
) EmailService {
	if events == nil {
		events = noopPublisher{}
	}
	if maxFetch <= 0 {
		maxFetch = 10
	}
	return &emailService{
		emailRepo:    emailRepo,
		responseRepo: responseRepo,
		analytics:    analytics,
		aiClient:     aiClient,
		mailbox:      mailbox,
		events:       events,
		maxFetch:     maxFetch,
		logger:       logger,
	}
}

// IsSupportRequest reports whether subject or body mentions a support keyword,
// ignoring case.
func IsSupportRequest(subject, body string) bool {
	// Caser holds state, so one per call.
	fold := cases.Fold()
	text := fold.String(subject) + "\n" + fold.String(body)
	for _, kw := range supportKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func (s *emailService) ProcessEmail(ctx context.Context, input ProcessEmailInput) (*ProcessResult, error) {
	if input.UserID == "" || input.SenderEmail == "" {
		return nil, fmt.Errorf("%w: user_id and sender_email are required", ErrInvalidInput)
	}

	if !IsSupportRequest(input.Subject, input.Body) {
		metrics.RecordEmailProcessed("skipped")
		s.logger.Debugf("skipping email from %s: no support keywords", input.SenderEmail)
		return &ProcessResult{Processed: false, Reason: "No support keywords found"}, nil
	}

	outcome := s.Classify(ctx, input.Subject, input.Body)

	email := model.NewEmail(input.UserID, input.SenderEmail, input.Subject, input.Body, input.ReceivedAt)
	email.MessageID = strings.Trim(strings.TrimSpace(input.MessageID), "<>")
	email.ApplyClassification(outcome.Classification)
	if err := s.emailRepo.Create(ctx, email); err != nil {
		metrics.RecordEmailProcessed("failed")
		return nil, fmt.Errorf("failed to store email: %w", err)
	}

	draft := s.GenerateResponse(ctx, email.Subject, email.Body, email.SentimentOrNeutral(), email.ExtractedInfo)

	response := model.NewResponse(email.ID, email.UserID, draft)
	if err := s.responseRepo.Create(ctx, response); err != nil {
		metrics.RecordEmailProcessed("failed")
		return nil, fmt.Errorf("failed to store response: %w", err)
	}

	if err := s.analytics.RecordNewEmail(ctx, email.UserID, email.SentimentOrNeutral(), email.Priority); err != nil {
		metrics.RecordEmailProcessed("failed")
		return nil, fmt.Errorf("failed to update analytics: %w", err)
	}

	metrics.RecordEmailProcessed("processed")
	s.logger.Infof("processed email %s from %s (priority=%s, degraded=%t)", email.ID, email.SenderEmail, email.Priority, outcome.Degraded)

	result := &ProcessResult{
		Processed: true,
		Degraded:  outcome.Degraded,
		Email:     email,
		Response:  response,
	}
	s.events.BroadcastToUser(email.UserID, EventEmailProcessed, result)
	return result, nil
}

// Classify never fails; transport or parse errors produce a degraded outcome.
func (s *emailService) Classify(ctx context.Context, subject, body string) model.ClassificationOutcome {
	start := time.Now()
	c, err := s.aiClient.ClassifyEmail(ctx, subject, body)
	metrics.RecordAICall("classify", err, time.Since(start))

	var outcome model.ClassificationOutcome
	switch {
	case err != nil:
		s.logger.Warnf("classification failed, using defaults: %v", err)
		outcome = model.Degraded(err.Error())
	case c == nil:
		outcome = model.Degraded("empty classification")
	default:
		outcome = model.Succeeded(*c)
	}
	metrics.RecordClassification(outcome.Degraded)
	return outcome
}

// GenerateResponse never fails; any error yields FallbackReply.
func (s *emailService) GenerateResponse(ctx context.Context, subject, body string, sentiment model.Sentiment, info model.ExtractedInfo) string {
	start := time.Now()
	text, err := s.aiClient.GenerateResponse(ctx, subject, body, sentiment, info)
	metrics.RecordAICall("generate", err, time.Since(start))

	if err != nil {
		s.logger.Warnf("response generation failed, using fallback: %v", err)
		return FallbackReply
	}
	if strings.TrimSpace(text) == "" {
		return FallbackReply
	}
	return text
}

func (s *emailService) GetEmailsByUser(ctx context.Context, userID string) ([]*model.Email, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	return s.emailRepo.FindByUserID(ctx, userID)
}
