package memory

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/challasumanth64/assist-respond-ai/internal/model"
	"github.com/challasumanth64/assist-respond-ai/internal/repository"
)

// Email repository implementation
type InMemoryEmailRepository struct {
	emails map[string]*model.Email
	mutex  sync.RWMutex
}

func NewInMemoryEmailRepository() *InMemoryEmailRepository {
	return &InMemoryEmailRepository{
		emails: make(map[string]*model.Email),
	}
}

func (r *InMemoryEmailRepository) Create(ctx context.Context, email *model.Email) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.emails[email.ID] = cloneEmail(email)
	return nil
}

func (r *InMemoryEmailRepository) FindByID(ctx context.Context, id string) (*model.Email, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	email, exists := r.emails[id]
	if !exists {
		return nil, repository.ErrEmailNotFound
	}
	return cloneEmail(email), nil
}

func (r *InMemoryEmailRepository) FindByUserID(ctx context.Context, userID string) ([]*model.Email, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := []*model.Email{}
	for _, email := range r.emails {
		if email.UserID == userID {
			result = append(result, cloneEmail(email))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Priority != result[j].Priority {
			return result[i].Priority == model.PriorityUrgent
		}
		return result[i].ReceivedAt.After(result[j].ReceivedAt)
	})
	return result, nil
}

func (r *InMemoryEmailRepository) ExistsBySenderSubject(ctx context.Context, userID, senderEmail, subject string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, email := range r.emails {
		if email.UserID == userID && email.SenderEmail == senderEmail && email.Subject == subject {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryEmailRepository) MarkProcessed(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	email, exists := r.emails[id]
	if !exists {
		return repository.ErrEmailNotFound
	}
	email.Processed = true
	email.UpdatedAt = time.Now().UTC()
	return nil
}

// Response repository implementation
type InMemoryResponseRepository struct {
	responses map[string]*model.Response
	mutex     sync.RWMutex
}

func NewInMemoryResponseRepository() *InMemoryResponseRepository {
	return &InMemoryResponseRepository{
		responses: make(map[string]*model.Response),
	}
}

func (r *InMemoryResponseRepository) Create(ctx context.Context, response *model.Response) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.responses[response.ID] = cloneResponse(response)
	return nil
}

func (r *InMemoryResponseRepository) FindByID(ctx context.Context, id string) (*model.Response, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	response, exists := r.responses[id]
	if !exists {
		return nil, repository.ErrResponseNotFound
	}
	return cloneResponse(response), nil
}

func (r *InMemoryResponseRepository) FindByUserID(ctx context.Context, userID string) ([]*model.Response, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := []*model.Response{}
	for _, response := range r.responses {
		if response.UserID == userID {
			result = append(result, cloneResponse(response))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryResponseRepository) UpdateDraft(ctx context.Context, id, editedText string) (*model.Response, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	response, exists := r.responses[id]
	if !exists {
		return nil, repository.ErrResponseNotFound
	}
	if response.Sent {
		return nil, repository.ErrAlreadySent
	}
	text := editedText
	response.EditedResponse = &text
	response.UpdatedAt = time.Now().UTC()

	return cloneResponse(response), nil
}

func (r *InMemoryResponseRepository) MarkSent(ctx context.Context, id, finalText string) (*model.Response, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	response, exists := r.responses[id]
	if !exists {
		return nil, repository.ErrResponseNotFound
	}
	if response.Sent {
		return nil, repository.ErrAlreadySent
	}
	now := time.Now().UTC()
	text := finalText
	response.EditedResponse = &text
	response.Sent = true
	response.SentAt = &now
	response.UpdatedAt = now

	return cloneResponse(response), nil
}

// Analytics repository implementation
type InMemoryAnalyticsRepository struct {
	rows  map[string]*model.Analytics // userID|date -> row
	mutex sync.RWMutex
}

func NewInMemoryAnalyticsRepository() *InMemoryAnalyticsRepository {
	return &InMemoryAnalyticsRepository{
		rows: make(map[string]*model.Analytics),
	}
}

func analyticsKey(userID, date string) string {
	return userID + "|" + date
}

func (r *InMemoryAnalyticsRepository) ApplyDelta(ctx context.Context, userID, date string, delta model.AnalyticsDelta) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := analyticsKey(userID, date)
	row, exists := r.rows[key]
	if !exists {
		row = model.NewAnalytics(userID, date)
		r.rows[key] = row
	}
	row.Apply(delta)
	return nil
}

func (r *InMemoryAnalyticsRepository) FindByUserAndDate(ctx context.Context, userID, date string) (*model.Analytics, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	row, exists := r.rows[analyticsKey(userID, date)]
	if !exists {
		return nil, repository.ErrAnalyticsMissing
	}
	copied := *row
	return &copied, nil
}

func (r *InMemoryAnalyticsRepository) FindByUserID(ctx context.Context, userID string) ([]*model.Analytics, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := []*model.Analytics{}
	for _, row := range r.rows {
		if row.UserID == userID {
			copied := *row
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date > result[j].Date
	})
	return result, nil
}

// Knowledge base repository implementation
type InMemoryKnowledgeBaseRepository struct {
	entries map[string]*model.KnowledgeBaseEntry
	mutex   sync.RWMutex
}

func NewInMemoryKnowledgeBaseRepository() *InMemoryKnowledgeBaseRepository {
	return &InMemoryKnowledgeBaseRepository{
		entries: make(map[string]*model.KnowledgeBaseEntry),
	}
}

func (r *InMemoryKnowledgeBaseRepository) Create(ctx context.Context, entry *model.KnowledgeBaseEntry) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.entries[entry.ID] = cloneEntry(entry)
	return nil
}

func (r *InMemoryKnowledgeBaseRepository) FindByID(ctx context.Context, id string) (*model.KnowledgeBaseEntry, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	entry, exists := r.entries[id]
	if !exists {
		return nil, repository.ErrEntryNotFound
	}
	return cloneEntry(entry), nil
}

func (r *InMemoryKnowledgeBaseRepository) FindByUserID(ctx context.Context, userID string) ([]*model.KnowledgeBaseEntry, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := []*model.KnowledgeBaseEntry{}
	for _, entry := range r.entries {
		if entry.UserID == userID {
			result = append(result, cloneEntry(entry))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryKnowledgeBaseRepository) Update(ctx context.Context, entry *model.KnowledgeBaseEntry) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	_, exists := r.entries[entry.ID]
	if !exists {
		return repository.ErrEntryNotFound
	}
	r.entries[entry.ID] = cloneEntry(entry)
	return nil
}

func (r *InMemoryKnowledgeBaseRepository) Delete(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.entries[id]; !exists {
		return repository.ErrEntryNotFound
	}
	delete(r.entries, id)
	return nil
}

// Rows are cloned on the way in and out so callers never share slices, maps
// or pointers with the store.
func cloneEmail(e *model.Email) *model.Email {
	c := *e
	c.UrgencyKeywords = slices.Clone(e.UrgencyKeywords)
	c.ExtractedInfo = maps.Clone(e.ExtractedInfo)
	if e.Sentiment != nil {
		sentiment := *e.Sentiment
		c.Sentiment = &sentiment
	}
	return &c
}

func cloneResponse(r *model.Response) *model.Response {
	c := *r
	if r.EditedResponse != nil {
		edited := *r.EditedResponse
		c.EditedResponse = &edited
	}
	if r.SentAt != nil {
		sentAt := *r.SentAt
		c.SentAt = &sentAt
	}
	return &c
}

func cloneEntry(e *model.KnowledgeBaseEntry) *model.KnowledgeBaseEntry {
	c := *e
	c.Keywords = slices.Clone(e.Keywords)
	return &c
}
