package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/challasumanth64/assist-respond-ai/internal/model"
	"github.com/challasumanth64/assist-respond-ai/internal/repository/memory"
	"github.com/challasumanth64/assist-respond-ai/internal/service"
)

func TestAnalyticsService(t *testing.T) {
	svc := service.NewAnalyticsService(memory.NewInMemoryAnalyticsRepository())
	ctx := context.Background()

	today, err := svc.GetToday(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", today.UserID)
	assert.Equal(t, 0, today.TotalEmails)

	require.NoError(t, svc.RecordNewEmail(ctx, "owner-1", model.SentimentPositive, model.PriorityNormal))
	require.NoError(t, svc.RecordNewEmail(ctx, "owner-1", model.SentimentNeutral, model.PriorityUrgent))
	require.NoError(t, svc.RecordResolved(ctx, "owner-1"))
	require.NoError(t, svc.RecordResolved(ctx, "owner-1"))
	require.NoError(t, svc.RecordResolved(ctx, "owner-1"))

	today, err = svc.GetToday(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 2, today.TotalEmails)
	assert.Equal(t, 1, today.UrgentEmails)
	assert.Equal(t, 3, today.ResolvedEmails)
	assert.Equal(t, 0, today.PendingEmails)
	assert.Equal(t, today.TotalEmails, today.PositiveSentiment+today.NegativeSentiment+today.NeutralSentiment)

	rows, err := svc.GetAnalytics(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = svc.GetAnalytics(ctx, "")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}
