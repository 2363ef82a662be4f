package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"survey-flow-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// SurveyLoader fetches survey definitions from a backing store.
type SurveyLoader interface {
	LoadSurvey(ctx context.Context, surveyID string) (domain.Survey, error)
	SetStatus(ctx context.Context, surveyID string, status domain.SurveyStatus) error
}

// SurveyCache caches whole survey documents in Redis (JSON per key)
// and falls back to a loader on cache miss. Definitions are read on
// every page transition, so the cache sits in front of Postgres.
type SurveyCache struct {
	client *redis.Client
	loader SurveyLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewSurveyCache(client *redis.Client, loader SurveyLoader, ttl time.Duration) *SurveyCache {
	return &SurveyCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *SurveyCache) key(surveyID string) string {
	return "survey:" + surveyID + ":def"
}

func (c *SurveyCache) GetSurvey(ctx context.Context, surveyID string) (domain.Survey, error) {
	key := c.key(surveyID)

	if raw, err := c.client.Get(ctx, key).Result(); err == nil {
		var survey domain.Survey
		if err := json.Unmarshal([]byte(raw), &survey); err == nil {
			return survey, nil
		}
		// Unparseable cache entry: fall through and reload.
	}

	result, err, _ := c.sf.Do(surveyID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if raw, err := c.client.Get(ctx, key).Result(); err == nil {
			var survey domain.Survey
			if err := json.Unmarshal([]byte(raw), &survey); err == nil {
				return survey, nil
			}
		}

		survey, err := c.loader.LoadSurvey(ctx, surveyID)
		if err != nil {
			return domain.Survey{}, err
		}

		if data, err := json.Marshal(survey); err == nil {
			_ = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()
		}
		return survey, nil
	})
	if err != nil {
		return domain.Survey{}, err
	}
	return result.(domain.Survey), nil
}

// SetStatus writes through to the loader and drops the cached copy so
// the next read sees the new lifecycle state.
func (c *SurveyCache) SetStatus(ctx context.Context, surveyID string, status domain.SurveyStatus) error {
	if err := c.loader.SetStatus(ctx, surveyID, status); err != nil {
		return err
	}
	if err := c.client.Del(ctx, c.key(surveyID)).Err(); err != nil {
		return fmt.Errorf("invalidate survey cache: %w", err)
	}
	return nil
}

func (c *SurveyCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
