package model

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-day key of an analytics row.
const DateLayout = "2006-01-02"

type Analytics struct {
	ID                string    `json:"id" db:"id"`
	UserID            string    `json:"user_id" db:"user_id"`
	Date              string    `json:"date" db:"date"`
	TotalEmails       int       `json:"total_emails" db:"total_emails"`
	UrgentEmails      int       `json:"urgent_emails" db:"urgent_emails"`
	ResolvedEmails    int       `json:"resolved_emails" db:"resolved_emails"`
	PendingEmails     int       `json:"pending_emails" db:"pending_emails"`
	PositiveSentiment int       `json:"positive_sentiment" db:"positive_sentiment"`
	NegativeSentiment int       `json:"negative_sentiment" db:"negative_sentiment"`
	NeutralSentiment  int       `json:"neutral_sentiment" db:"neutral_sentiment"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

func NewAnalytics(userID, date string) *Analytics {
	now := time.Now().UTC()
	return &Analytics{
		ID:        uuid.New().String(),
		UserID:    userID,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Today returns the analytics date key for t in UTC.
func Today(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// AnalyticsDelta is one additive update to a day's counters. Pending may be
// negative; stores clamp the result at zero.
type AnalyticsDelta struct {
	Total    int
	Urgent   int
	Resolved int
	Pending  int
	Positive int
	Negative int
	Neutral  int
}

// NewEmailDelta counts one freshly ingested email.
func NewEmailDelta(sentiment Sentiment, priority Priority) AnalyticsDelta {
	d := AnalyticsDelta{Total: 1, Pending: 1}
	if priority == PriorityUrgent {
		d.Urgent = 1
	}
	switch sentiment {
	case SentimentPositive:
		d.Positive = 1
	case SentimentNegative:
		d.Negative = 1
	default:
		d.Neutral = 1
	}
	return d
}

// ResolvedDelta moves one email from pending to resolved.
func ResolvedDelta() AnalyticsDelta {
	return AnalyticsDelta{Resolved: 1, Pending: -1}
}

// Apply adds d to a, keeping pending non-negative.
func (a *Analytics) Apply(d AnalyticsDelta) {
	a.TotalEmails += d.Total
	a.UrgentEmails += d.Urgent
	a.ResolvedEmails += d.Resolved
	a.PendingEmails += d.Pending
	if a.PendingEmails < 0 {
		a.PendingEmails = 0
	}
	a.PositiveSentiment += d.Positive
	a.NegativeSentiment += d.Negative
	a.NeutralSentiment += d.Neutral
	a.UpdatedAt = time.Now().UTC()
}
