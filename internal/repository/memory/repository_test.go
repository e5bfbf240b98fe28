package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/challasumanth64/assist-respond-ai/internal/model"
	"github.com/challasumanth64/assist-respond-ai/internal/repository"
)

func TestEmailRepositoryOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryEmailRepository()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	older := model.NewEmail("owner", "a@example.com", "old", "help", base)
	newer := model.NewEmail("owner", "b@example.com", "new", "help", base.Add(time.Hour))
	urgent := model.NewEmail("owner", "c@example.com", "urgent", "help", base.Add(-time.Hour))
	urgent.Priority = model.PriorityUrgent
	other := model.NewEmail("someone-else", "d@example.com", "x", "help", base)

	for _, e := range []*model.Email{older, newer, urgent, other} {
		require.NoError(t, repo.Create(ctx, e))
	}

	emails, err := repo.FindByUserID(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, emails, 3)
	assert.Equal(t, urgent.ID, emails[0].ID)
	assert.Equal(t, newer.ID, emails[1].ID)
	assert.Equal(t, older.ID, emails[2].ID)
}

func TestEmailRepositoryDedupAndProcessed(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryEmailRepository()
	email := model.NewEmail("owner", "a@example.com", "Need help", "body", time.Now())
	require.NoError(t, repo.Create(ctx, email))

	exists, err := repo.ExistsBySenderSubject(ctx, "owner", "a@example.com", "Need help")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsBySenderSubject(ctx, "other", "a@example.com", "Need help")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.MarkProcessed(ctx, email.ID))
	found, err := repo.FindByID(ctx, email.ID)
	require.NoError(t, err)
	assert.True(t, found.Processed)

	assert.ErrorIs(t, repo.MarkProcessed(ctx, "missing"), repository.ErrEmailNotFound)
}

func TestResponseRepositorySentIsOneWay(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryResponseRepository()
	resp := model.NewResponse("email-1", "owner", "draft")
	require.NoError(t, repo.Create(ctx, resp))

	edited, err := repo.UpdateDraft(ctx, resp.ID, "edited draft")
	require.NoError(t, err)
	assert.Equal(t, "edited draft", edited.FinalText())

	sent, err := repo.MarkSent(ctx, resp.ID, "final")
	require.NoError(t, err)
	assert.True(t, sent.Sent)
	require.NotNil(t, sent.SentAt)
	assert.Equal(t, "final", sent.FinalText())

	_, err = repo.MarkSent(ctx, resp.ID, "again")
	assert.ErrorIs(t, err, repository.ErrAlreadySent)

	_, err = repo.UpdateDraft(ctx, resp.ID, "too late")
	assert.ErrorIs(t, err, repository.ErrAlreadySent)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrResponseNotFound)
}

func TestAnalyticsRepositoryConcurrentDeltas(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryAnalyticsRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sentiment := model.SentimentNeutral
			if i%2 == 0 {
				sentiment = model.SentimentNegative
			}
			_ = repo.ApplyDelta(ctx, "owner", "2025-03-01", model.NewEmailDelta(sentiment, model.PriorityUrgent))
		}(i)
	}
	wg.Wait()

	row, err := repo.FindByUserAndDate(ctx, "owner", "2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, 50, row.TotalEmails)
	assert.Equal(t, 50, row.UrgentEmails)
	assert.Equal(t, 50, row.PendingEmails)
	assert.Equal(t, 25, row.NegativeSentiment)
	assert.Equal(t, 25, row.NeutralSentiment)
}

func TestAnalyticsRepositoryPendingNeverNegative(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryAnalyticsRepository()

	require.NoError(t, repo.ApplyDelta(ctx, "owner", "2025-03-02", model.ResolvedDelta()))
	require.NoError(t, repo.ApplyDelta(ctx, "owner", "2025-03-02", model.ResolvedDelta()))
	require.NoError(t, repo.ApplyDelta(ctx, "owner", "2025-03-01", model.NewEmailDelta(model.SentimentPositive, model.PriorityNormal)))

	row, err := repo.FindByUserAndDate(ctx, "owner", "2025-03-02")
	require.NoError(t, err)
	assert.Equal(t, 0, row.PendingEmails)
	assert.Equal(t, 2, row.ResolvedEmails)

	rows, err := repo.FindByUserID(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-03-02", rows[0].Date)

	_, err = repo.FindByUserAndDate(ctx, "owner", "1999-01-01")
	assert.ErrorIs(t, err, repository.ErrAnalyticsMissing)
}

func TestKnowledgeBaseRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryKnowledgeBaseRepository()
	entry := model.NewKnowledgeBaseEntry("owner", "Refunds", "Refunds take 5 days", []string{"refund"})
	require.NoError(t, repo.Create(ctx, entry))

	entry.Title = "Refund policy"
	require.NoError(t, repo.Update(ctx, entry))

	found, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Refund policy", found.Title)

	list, err := repo.FindByUserID(ctx, "owner")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, entry.ID))
	assert.ErrorIs(t, repo.Delete(ctx, entry.ID), repository.ErrEntryNotFound)
	_, err = repo.FindByID(ctx, entry.ID)
	assert.ErrorIs(t, err, repository.ErrEntryNotFound)
}

func TestRepositoriesReturnIsolatedCopies(t *testing.T) {
	ctx := context.Background()

	emails := NewInMemoryEmailRepository()
	email := model.NewEmail("owner", "a@example.com", "urgent", "help", time.Now())
	sentiment := model.SentimentNegative
	email.Sentiment = &sentiment
	email.UrgencyKeywords = []string{"urgent"}
	email.ExtractedInfo = model.ExtractedInfo{"order": "123"}
	require.NoError(t, emails.Create(ctx, email))

	// the caller's value must not reach the store after Create
	email.UrgencyKeywords[0] = "changed"
	email.ExtractedInfo["order"] = "changed"

	got, err := emails.FindByID(ctx, email.ID)
	require.NoError(t, err)
	got.UrgencyKeywords[0] = "mutated"
	got.ExtractedInfo["order"] = "mutated"
	*got.Sentiment = model.SentimentPositive

	again, err := emails.FindByID(ctx, email.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"urgent"}, again.UrgencyKeywords)
	assert.Equal(t, "123", again.ExtractedInfo["order"])
	require.NotNil(t, again.Sentiment)
	assert.Equal(t, model.SentimentNegative, *again.Sentiment)

	responses := NewInMemoryResponseRepository()
	resp := model.NewResponse(email.ID, "owner", "draft")
	require.NoError(t, responses.Create(ctx, resp))
	edited, err := responses.UpdateDraft(ctx, resp.ID, "edited")
	require.NoError(t, err)
	*edited.EditedResponse = "tampered"

	list, err := responses.FindByUserID(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "edited", list[0].FinalText())

	entries := NewInMemoryKnowledgeBaseRepository()
	entry := model.NewKnowledgeBaseEntry("owner", "Refunds", "Refunds take 5 days", []string{"refund"})
	require.NoError(t, entries.Create(ctx, entry))
	found, err := entries.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	found.Keywords[0] = "mutated"

	found, err = entries.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"refund"}, found.Keywords)
}
