package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/challasumanth64/assist-respond-ai/internal/metrics"
	"github.com/challasumanth64/assist-respond-ai/internal/model"
)

const defaultSubject = "No Subject"

// SyncEmails pulls unread mail for the owner and runs each new message through
// ProcessEmail. A failure on one message never aborts the batch.
func (s *emailService) SyncEmails(ctx context.Context, userID string) (*SyncResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	queued, err := s.collectNew(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, msg := range queued {
		_, err := s.ProcessEmail(ctx, ProcessEmailInput{
			SenderEmail: msg.SenderEmail,
			Subject:     msg.Subject,
			Body:        msg.Body,
			UserID:      userID,
			ReceivedAt:  msg.ReceivedAt,
			MessageID:   msg.MessageID,
		})
		if err != nil {
			s.logger.Error("Failed to process fetched email:", msg.ID, err)
		}
	}

	// every new message forwarded counts, whether or not it produced a draft
	count := len(queued)

	result := &SyncResult{
		Success:    true,
		Message:    fmt.Sprintf("Fetched and processed %d new emails", count),
		EmailCount: count,
	}
	s.logger.Info("Mailbox sync finished for user:", userID, "new emails:", count)
	s.events.BroadcastToUser(userID, EventSyncSummary, result)
	return result, nil
}

// collectNew reads the mailbox in one session and returns the messages that
// are not yet stored. Every listed message is marked read, duplicates included.
func (s *emailService) collectNew(ctx context.Context, userID string) ([]*model.InboundMessage, error) {
	session, err := s.mailbox.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open mailbox: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			s.logger.Warn("Failed to close mailbox session:", err)
		}
	}()

	ids, err := session.ListUnread(ctx, s.maxFetch)
	if err != nil {
		return nil, fmt.Errorf("failed to list unread emails: %w", err)
	}

	seen := make(map[string]bool, len(ids))
	var queued []*model.InboundMessage
	for _, id := range ids {
		msg, err := session.Fetch(ctx, id)
		if err != nil {
			metrics.RecordIngested("error")
			s.logger.Error("Failed to fetch email:", id, err)
			continue
		}
		if strings.TrimSpace(msg.Subject) == "" {
			msg.Subject = defaultSubject
		}

		key := msg.SenderEmail + "\x00" + msg.Subject
		exists, err := s.emailRepo.ExistsBySenderSubject(ctx, userID, msg.SenderEmail, msg.Subject)
		switch {
		case err != nil:
			// left unread so the next run retries it
			metrics.RecordIngested("error")
			s.logger.Error("Failed to check for duplicate email:", id, err)
			continue
		case exists || seen[key]:
			metrics.RecordIngested("duplicate")
			s.logger.Debugf("skipping duplicate email %q from %s", msg.Subject, msg.SenderEmail)
		default:
			metrics.RecordIngested("new")
			seen[key] = true
			queued = append(queued, msg)
		}

		if err := session.MarkRead(ctx, id); err != nil {
			s.logger.Warn("Failed to mark email as read:", id, err)
		}
	}
	return queued, nil
}
