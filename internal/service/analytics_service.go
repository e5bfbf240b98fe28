package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/challasumanth64/assist-respond-ai/internal/model"
	"github.com/challasumanth64/assist-respond-ai/internal/repository"
)

type analyticsService struct {
	repo repository.AnalyticsRepository
	now  func() time.Time
}

func NewAnalyticsService(repo repository.AnalyticsRepository) AnalyticsService {
	return &analyticsService{repo: repo, now: time.Now}
}

func (s *analyticsService) RecordNewEmail(ctx context.Context, userID string, sentiment model.Sentiment, priority model.Priority) error {
	return s.repo.ApplyDelta(ctx, userID, model.Today(s.now()), model.NewEmailDelta(sentiment, priority))
}

func (s *analyticsService) RecordResolved(ctx context.Context, userID string) error {
	return s.repo.ApplyDelta(ctx, userID, model.Today(s.now()), model.ResolvedDelta())
}

func (s *analyticsService) GetAnalytics(ctx context.Context, userID string) ([]*model.Analytics, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	return s.repo.FindByUserID(ctx, userID)
}

// GetToday returns a zeroed row when nothing has been recorded yet today.
func (s *analyticsService) GetToday(ctx context.Context, userID string) (*model.Analytics, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	date := model.Today(s.now())
	row, err := s.repo.FindByUserAndDate(ctx, userID, date)
	if errors.Is(err, repository.ErrAnalyticsMissing) {
		return model.NewAnalytics(userID, date), nil
	}
	return row, err
}
