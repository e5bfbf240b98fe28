package model

import (
	"time"

	"github.com/google/uuid"
)

type KnowledgeBaseEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Keywords  []string  `json:"keywords"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewKnowledgeBaseEntry(userID, title, content string, keywords []string) *KnowledgeBaseEntry {
	now := time.Now().UTC()
	if keywords == nil {
		keywords = []string{}
	}
	return &KnowledgeBaseEntry{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		Keywords:  keywords,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
