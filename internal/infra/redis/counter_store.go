package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// CounterStore keeps quota counters in Redis, one key per
// (surveyID, quotaID). INCR gives the atomic upsert-increment the
// admission flow relies on; Snapshot reads are taken separately, so
// enforcement is approximate but monotone.
type CounterStore struct {
	client *redis.Client
}

func NewCounterStore(client *redis.Client) *CounterStore {
	return &CounterStore{client: client}
}

func (s *CounterStore) key(surveyID, quotaID string) string {
	return fmt.Sprintf("survey:%s:quota:%s:count", surveyID, quotaID)
}

// Snapshot reads the current counts for the given quota IDs. Missing
// keys read as zero.
func (s *CounterStore) Snapshot(ctx context.Context, surveyID string, quotaIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(quotaIDs))
	if len(quotaIDs) == 0 {
		return counts, nil
	}

	keys := make([]string, len(quotaIDs))
	for i, id := range quotaIDs {
		keys[i] = s.key(surveyID, id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read quota counters: %w", err)
	}
	for i, v := range values {
		if v == nil {
			continue
		}
		if raw, ok := v.(string); ok {
			if n, err := strconv.Atoi(raw); err == nil {
				counts[quotaIDs[i]] = n
			}
		}
	}
	return counts, nil
}

// Increment bumps one quota counter by exactly 1.
func (s *CounterStore) Increment(ctx context.Context, surveyID, quotaID string) error {
	return s.client.Incr(ctx, s.key(surveyID, quotaID)).Err()
}

// Reset removes the counters for the given quota IDs.
func (s *CounterStore) Reset(ctx context.Context, surveyID string, quotaIDs []string) error {
	if len(quotaIDs) == 0 {
		return nil
	}
	keys := make([]string, len(quotaIDs))
	for i, id := range quotaIDs {
		keys[i] = s.key(surveyID, id)
	}
	return s.client.Del(ctx, keys...).Err()
}
