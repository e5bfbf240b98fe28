package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/challasumanth64/assist-respond-ai/internal/model"
	"github.com/challasumanth64/assist-respond-ai/internal/repository"
)

const keyPrefix = "analytics"

// applyDeltaScript increments every counter of one day hash in a single
// server-side step and floors pending_emails at zero.
var applyDeltaScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	redis.call('HSET', KEYS[1], 'id', ARGV[3], 'created_at', ARGV[2])
end
redis.call('HINCRBY', KEYS[1], 'total_emails', ARGV[4])
redis.call('HINCRBY', KEYS[1], 'urgent_emails', ARGV[5])
redis.call('HINCRBY', KEYS[1], 'resolved_emails', ARGV[6])
local pending = redis.call('HINCRBY', KEYS[1], 'pending_emails', ARGV[7])
if pending < 0 then
	redis.call('HSET', KEYS[1], 'pending_emails', 0)
end
redis.call('HINCRBY', KEYS[1], 'positive_sentiment', ARGV[8])
redis.call('HINCRBY', KEYS[1], 'negative_sentiment', ARGV[9])
redis.call('HINCRBY', KEYS[1], 'neutral_sentiment', ARGV[10])
redis.call('HSET', KEYS[1], 'updated_at', ARGV[2])
redis.call('ZADD', KEYS[2], ARGV[11], ARGV[1])
return pending
`)

// AnalyticsRepository keeps one hash per user and day plus a sorted set of
// the days each user has counters for.
type AnalyticsRepository struct {
	client *redis.Client
}

func NewAnalyticsRepository(client *redis.Client) *AnalyticsRepository {
	return &AnalyticsRepository{client: client}
}

// NewClient parses a redis:// URL.
func NewClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

func dayKey(userID, date string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, userID, date)
}

func datesKey(userID string) string {
	return fmt.Sprintf("%s:%s:dates", keyPrefix, userID)
}

func dateScore(date string) (int64, error) {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return 0, fmt.Errorf("invalid analytics date %q: %w", date, err)
	}
	return int64(t.Year()*10000 + int(t.Month())*100 + t.Day()), nil
}

func (r *AnalyticsRepository) ApplyDelta(ctx context.Context, userID, date string, d model.AnalyticsDelta) error {
	score, err := dateScore(date)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	return applyDeltaScript.Run(ctx, r.client,
		[]string{dayKey(userID, date), datesKey(userID)},
		date, now, uuid.New().String(),
		d.Total, d.Urgent, d.Resolved, d.Pending,
		d.Positive, d.Negative, d.Neutral,
		score,
	).Err()
}

func (r *AnalyticsRepository) FindByUserAndDate(ctx context.Context, userID, date string) (*model.Analytics, error) {
	fields, err := r.client.HGetAll(ctx, dayKey(userID, date)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, repository.ErrAnalyticsMissing
	}
	return fromHash(userID, date, fields)
}

func (r *AnalyticsRepository) FindByUserID(ctx context.Context, userID string) ([]*model.Analytics, error) {
	dates, err := r.client.ZRevRange(ctx, datesKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	rows := make([]*model.Analytics, 0, len(dates))
	for _, date := range dates {
		row, err := r.FindByUserAndDate(ctx, userID, date)
		if err != nil {
			if errors.Is(err, repository.ErrAnalyticsMissing) {
				continue
			}
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func fromHash(userID, date string, fields map[string]string) (*model.Analytics, error) {
	row := &model.Analytics{
		ID:     fields["id"],
		UserID: userID,
		Date:   date,
	}

	counters := map[string]*int{
		"total_emails":       &row.TotalEmails,
		"urgent_emails":      &row.UrgentEmails,
		"resolved_emails":    &row.ResolvedEmails,
		"pending_emails":     &row.PendingEmails,
		"positive_sentiment": &row.PositiveSentiment,
		"negative_sentiment": &row.NegativeSentiment,
		"neutral_sentiment":  &row.NeutralSentiment,
	}
	for name, dst := range counters {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		*dst = n
	}

	for name, dst := range map[string]*time.Time{"created_at": &row.CreatedAt, "updated_at": &row.UpdatedAt} {
		if raw, ok := fields[name]; ok {
			t, err := time.Parse(time.RFC3339Nano, raw)
			if err != nil {
				return nil, fmt.Errorf("decoding %s: %w", name, err)
			}
			*dst = t
		}
	}

	return row, nil
}
