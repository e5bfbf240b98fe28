package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/challasumanth64/assist-respond-ai/internal/model"
	"github.com/challasumanth64/assist-respond-ai/internal/repository"
)

const analyticsColumns = `id, user_id, date, total_emails, urgent_emails, resolved_emails, pending_emails,
	positive_sentiment, negative_sentiment, neutral_sentiment, created_at, updated_at`

// AnalyticsRepository is the SQL implementation of repository.AnalyticsRepository.
type AnalyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// ApplyDelta upserts the day's row in one statement. Pending is clamped at
// zero on both the insert and the update path.
func (r *AnalyticsRepository) ApplyDelta(ctx context.Context, userID, date string, d model.AnalyticsDelta) error {
	now := time.Now().UTC()
	initialPending := d.Pending
	if initialPending < 0 {
		initialPending = 0
	}

	query := r.db.Rebind(`
		INSERT INTO analytics (` + analyticsColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET
			total_emails = analytics.total_emails + excluded.total_emails,
			urgent_emails = analytics.urgent_emails + excluded.urgent_emails,
			resolved_emails = analytics.resolved_emails + excluded.resolved_emails,
			pending_emails = CASE
				WHEN analytics.pending_emails + ? < 0 THEN 0
				ELSE analytics.pending_emails + ?
			END,
			positive_sentiment = analytics.positive_sentiment + excluded.positive_sentiment,
			negative_sentiment = analytics.negative_sentiment + excluded.negative_sentiment,
			neutral_sentiment = analytics.neutral_sentiment + excluded.neutral_sentiment,
			updated_at = excluded.updated_at`)

	_, err := r.db.ExecContext(ctx, query,
		uuid.New().String(), userID, date,
		d.Total, d.Urgent, d.Resolved, initialPending,
		d.Positive, d.Negative, d.Neutral,
		now, now,
		d.Pending, d.Pending)
	return err
}

func (r *AnalyticsRepository) FindByUserAndDate(ctx context.Context, userID, date string) (*model.Analytics, error) {
	row := &model.Analytics{}
	query := r.db.Rebind(`SELECT ` + analyticsColumns + ` FROM analytics WHERE user_id = ? AND date = ?`)
	if err := r.db.GetContext(ctx, row, query, userID, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrAnalyticsMissing
		}
		return nil, err
	}
	return row, nil
}

func (r *AnalyticsRepository) FindByUserID(ctx context.Context, userID string) ([]*model.Analytics, error) {
	rows := []*model.Analytics{}
	query := r.db.Rebind(`SELECT ` + analyticsColumns + ` FROM analytics WHERE user_id = ? ORDER BY date DESC`)
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}
	return rows, nil
}
