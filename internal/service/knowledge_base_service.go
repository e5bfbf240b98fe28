package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/challasumanth64/assist-respond-ai/internal/logger"
	"github.com/challasumanth64/assist-respond-ai/internal/model"
	"github.com/challasumanth64/assist-respond-ai/internal/repository"
)

type knowledgeBaseService struct {
	repo   repository.KnowledgeBaseRepository
	logger *logger.Logger
}

func NewKnowledgeBaseService(repo repository.KnowledgeBaseRepository, logger *logger.Logger) KnowledgeBaseService {
	return &knowledgeBaseService{repo: repo, logger: logger}
}

func (s *knowledgeBaseService) CreateEntry(ctx context.Context, userID, title, content string, keywords []string) (*model.KnowledgeBaseEntry, error) {
	if err := validateEntry(userID, title); err != nil {
		return nil, err
	}
	entry := model.NewKnowledgeBaseEntry(userID, strings.TrimSpace(title), content, cleanKeywords(keywords))
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	s.logger.Info("Created knowledge base entry:", entry.ID)
	return entry, nil
}

func (s *knowledgeBaseService) GetEntry(ctx context.Context, userID, entryID string) (*model.KnowledgeBaseEntry, error) {
	entry, err := s.repo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, repository.ErrEntryNotFound
	}
	return entry, nil
}

func (s *knowledgeBaseService) GetEntries(ctx context.Context, userID string) ([]*model.KnowledgeBaseEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	return s.repo.FindByUserID(ctx, userID)
}

func (s *knowledgeBaseService) UpdateEntry(ctx context.Context, userID, entryID, title, content string, keywords []string) (*model.KnowledgeBaseEntry, error) {
	if err := validateEntry(userID, title); err != nil {
		return nil, err
	}
	entry, err := s.GetEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	entry.Title = strings.TrimSpace(title)
	entry.Content = content
	entry.Keywords = cleanKeywords(keywords)
	entry.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *knowledgeBaseService) DeleteEntry(ctx context.Context, userID, entryID string) error {
	if _, err := s.GetEntry(ctx, userID, entryID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, entryID)
}

func validateEntry(userID, title string) error {
	if userID == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return nil
}

func cleanKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
