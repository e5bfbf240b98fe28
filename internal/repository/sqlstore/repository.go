package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/challasumanth64/assist-respond-ai/internal/model"
	"github.com/challasumanth64/assist-respond-ai/internal/repository"
)

type emailRow struct {
	ID              string         `db:"id"`
	UserID          string         `db:"user_id"`
	SenderEmail     string         `db:"sender_email"`
	Subject         string         `db:"subject"`
	Body            string         `db:"body"`
	ReceivedAt      time.Time      `db:"received_at"`
	Sentiment       sql.NullString `db:"sentiment"`
	Priority        string         `db:"priority"`
	Category        string         `db:"category"`
	UrgencyKeywords string         `db:"urgency_keywords"`
	ExtractedInfo   string         `db:"extracted_info"`
	MessageID       string         `db:"message_id"`
	Processed       bool           `db:"processed"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (r emailRow) toModel() (*model.Email, error) {
	email := &model.Email{
		ID:          r.ID,
		UserID:      r.UserID,
		SenderEmail: r.SenderEmail,
		Subject:     r.Subject,
		Body:        r.Body,
		ReceivedAt:  r.ReceivedAt,
		Priority:    model.NormalizePriority(r.Priority),
		Category:    r.Category,
		MessageID:   r.MessageID,
		Processed:   r.Processed,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Sentiment.Valid {
		s := model.NormalizeSentiment(r.Sentiment.String)
		email.Sentiment = &s
	}
	if err := json.Unmarshal([]byte(r.UrgencyKeywords), &email.UrgencyKeywords); err != nil {
		return nil, fmt.Errorf("decoding urgency_keywords for email %s: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.ExtractedInfo), &email.ExtractedInfo); err != nil {
		return nil, fmt.Errorf("decoding extracted_info for email %s: %w", r.ID, err)
	}
	if email.UrgencyKeywords == nil {
		email.UrgencyKeywords = []string{}
	}
	if email.ExtractedInfo == nil {
		email.ExtractedInfo = model.ExtractedInfo{}
	}
	return email, nil
}

const emailColumns = `id, user_id, sender_email, subject, body, received_at, sentiment, priority,
	category, urgency_keywords, extracted_info, message_id, processed, created_at, updated_at`

// EmailRepository is the SQL implementation of repository.EmailRepository.
type EmailRepository struct {
	db *sqlx.DB
}

func NewEmailRepository(db *sqlx.DB) *EmailRepository {
	return &EmailRepository{db: db}
}

func (r *EmailRepository) Create(ctx context.Context, email *model.Email) error {
	keywords, err := json.Marshal(nonNilStrings(email.UrgencyKeywords))
	if err != nil {
		return fmt.Errorf("encoding urgency keywords: %w", err)
	}
	info := email.ExtractedInfo
	if info == nil {
		info = model.ExtractedInfo{}
	}
	extracted, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encoding extracted info: %w", err)
	}

	var sentiment sql.NullString
	if email.Sentiment != nil {
		sentiment = sql.NullString{String: string(*email.Sentiment), Valid: true}
	}

	query := r.db.Rebind(`
		INSERT INTO emails (` + emailColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = r.db.ExecContext(ctx, query,
		email.ID, email.UserID, email.SenderEmail, email.Subject, email.Body,
		email.ReceivedAt.UTC(), sentiment, string(email.Priority), email.Category,
		string(keywords), string(extracted), email.MessageID, email.Processed,
		email.CreatedAt.UTC(), email.UpdatedAt.UTC())
	return err
}

func (r *EmailRepository) FindByID(ctx context.Context, id string) (*model.Email, error) {
	var row emailRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+emailColumns+` FROM emails WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrEmailNotFound
		}
		return nil, err
	}
	return row.toModel()
}

func (r *EmailRepository) FindByUserID(ctx context.Context, userID string) ([]*model.Email, error) {
	var rows []emailRow
	query := r.db.Rebind(`SELECT ` + emailColumns + ` FROM emails WHERE user_id = ?
		ORDER BY CASE WHEN priority = 'urgent' THEN 0 ELSE 1 END, received_at DESC`)
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}

	emails := make([]*model.Email, 0, len(rows))
	for _, row := range rows {
		email, err := row.toModel()
		if err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, nil
}

func (r *EmailRepository) ExistsBySenderSubject(ctx context.Context, userID, senderEmail, subject string) (bool, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM emails WHERE user_id = ? AND sender_email = ? AND subject = ?`)
	if err := r.db.GetContext(ctx, &count, query, userID, senderEmail, subject); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *EmailRepository) MarkProcessed(ctx context.Context, id string) error {
	query := r.db.Rebind(`UPDATE emails SET processed = ?, updated_at = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, true, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrEmailNotFound
	}
	return nil
}

const responseColumns = `id, email_id, user_id, generated_response, edited_response, sent, sent_at, created_at, updated_at`

// ResponseRepository is the SQL implementation of repository.ResponseRepository.
type ResponseRepository struct {
	db *sqlx.DB
}

func NewResponseRepository(db *sqlx.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

func (r *ResponseRepository) Create(ctx context.Context, response *model.Response) error {
	query := r.db.Rebind(`
		INSERT INTO responses (` + responseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		response.ID, response.EmailID, response.UserID, response.GeneratedResponse,
		response.EditedResponse, response.Sent, response.SentAt,
		response.CreatedAt.UTC(), response.UpdatedAt.UTC())
	return err
}

func (r *ResponseRepository) FindByID(ctx context.Context, id string) (*model.Response, error) {
	response := &model.Response{}
	err := r.db.GetContext(ctx, response, r.db.Rebind(`SELECT `+responseColumns+` FROM responses WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrResponseNotFound
		}
		return nil, err
	}
	return response, nil
}

func (r *ResponseRepository) FindByUserID(ctx context.Context, userID string) ([]*model.Response, error) {
	responses := []*model.Response{}
	query := r.db.Rebind(`SELECT ` + responseColumns + ` FROM responses WHERE user_id = ? ORDER BY created_at DESC`)
	if err := r.db.SelectContext(ctx, &responses, query, userID); err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *ResponseRepository) UpdateDraft(ctx context.Context, id, editedText string) (*model.Response, error) {
	query := r.db.Rebind(`UPDATE responses SET edited_response = ?, updated_at = ? WHERE id = ? AND sent = ?`)
	res, err := r.db.ExecContext(ctx, query, editedText, time.Now().UTC(), id, false)
	if err != nil {
		return nil, err
	}
	if err := r.checkTransition(ctx, res, id); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// MarkSent only succeeds while sent is false, so two concurrent deliveries
// cannot both resolve the same response.
func (r *ResponseRepository) MarkSent(ctx context.Context, id, finalText string) (*model.Response, error) {
	now := time.Now().UTC()
	query := r.db.Rebind(`UPDATE responses SET edited_response = ?, sent = ?, sent_at = ?, updated_at = ? WHERE id = ? AND sent = ?`)
	res, err := r.db.ExecContext(ctx, query, finalText, true, now, now, id, false)
	if err != nil {
		return nil, err
	}
	if err := r.checkTransition(ctx, res, id); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *ResponseRepository) checkTransition(ctx context.Context, res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return repository.ErrAlreadySent
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
