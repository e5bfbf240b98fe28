package model

import (
	"time"

	"github.com/google/uuid"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityNormal Priority = "normal"
)

// NormalizeSentiment maps anything outside the three known values to neutral.
func NormalizeSentiment(s string) Sentiment {
	switch Sentiment(s) {
	case SentimentPositive, SentimentNegative:
		return Sentiment(s)
	default:
		return SentimentNeutral
	}
}

// NormalizePriority maps anything other than "urgent" to normal.
func NormalizePriority(p string) Priority {
	if Priority(p) == PriorityUrgent {
		return PriorityUrgent
	}
	return PriorityNormal
}

type ExtractedInfo map[string]interface{}

type Email struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	SenderEmail     string        `json:"sender_email"`
	Subject         string        `json:"subject"`
	Body            string        `json:"body"`
	ReceivedAt      time.Time     `json:"received_at"`
	Sentiment       *Sentiment    `json:"sentiment"`
	Priority        Priority      `json:"priority"`
	Category        string        `json:"category"`
	UrgencyKeywords []string      `json:"urgency_keywords"`
	ExtractedInfo   ExtractedInfo `json:"extracted_info"`
	MessageID       string        `json:"message_id,omitempty"`
	Processed       bool          `json:"processed"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func NewEmail(userID, senderEmail, subject, body string, receivedAt time.Time) *Email {
	now := time.Now().UTC()
	if receivedAt.IsZero() {
		receivedAt = now
	}
	return &Email{
		ID:              uuid.New().String(),
		UserID:          userID,
		SenderEmail:     senderEmail,
		Subject:         subject,
		Body:            body,
		ReceivedAt:      receivedAt,
		Priority:        PriorityNormal,
		UrgencyKeywords: []string{},
		ExtractedInfo:   ExtractedInfo{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// ApplyClassification copies the classified fields onto the email.
func (e *Email) ApplyClassification(c Classification) {
	sentiment := c.Sentiment
	e.Sentiment = &sentiment
	e.Priority = c.Priority
	e.Category = c.Category
	e.UrgencyKeywords = c.UrgencyKeywords
	e.ExtractedInfo = c.ExtractedInfo
	if e.UrgencyKeywords == nil {
		e.UrgencyKeywords = []string{}
	}
	if e.ExtractedInfo == nil {
		e.ExtractedInfo = ExtractedInfo{}
	}
}

// SentimentOrNeutral treats an unset sentiment as neutral.
func (e *Email) SentimentOrNeutral() Sentiment {
	if e.Sentiment == nil {
		return SentimentNeutral
	}
	return *e.Sentiment
}

// InboundMessage is a message pulled from a mailbox before it enters the pipeline.
type InboundMessage struct {
	ID string
	// MessageID is the RFC 5322 Message-ID without angle brackets.
	MessageID   string
	SenderEmail string
	Subject     string
	Body        string
	ReceivedAt  time.Time
}
