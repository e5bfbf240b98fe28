package model

import (
	"time"

	"github.com/google/uuid"
)

type Response struct {
	ID                string     `json:"id" db:"id"`
	EmailID           string     `json:"email_id" db:"email_id"`
	UserID            string     `json:"user_id" db:"user_id"`
	GeneratedResponse string     `json:"generated_response" db:"generated_response"`
	EditedResponse    *string    `json:"edited_response" db:"edited_response"`
	Sent              bool       `json:"sent" db:"sent"`
	SentAt            *time.Time `json:"sent_at" db:"sent_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

func NewResponse(emailID, userID, generated string) *Response {
	now := time.Now().UTC()
	return &Response{
		ID:                uuid.New().String(),
		EmailID:           emailID,
		UserID:            userID,
		GeneratedResponse: generated,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// FinalText is the edited text when present, the generated draft otherwise.
func (r *Response) FinalText() string {
	if r.EditedResponse != nil && *r.EditedResponse != "" {
		return *r.EditedResponse
	}
	return r.GeneratedResponse
}
