package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// CounterStore keeps quota counters in Postgres. Increment is a single
// upsert statement, so it is atomic per (survey, quota) row.
type CounterStore struct {
	pool *pgxpool.Pool
}

func NewCounterStore(pool *pgxpool.Pool) *CounterStore {
	return &CounterStore{pool: pool}
}

func (s *CounterStore) Snapshot(ctx context.Context, surveyID string, quotaIDs []string) (map[string]int, error) {
	snapshot := make(map[string]int, len(quotaIDs))
	for _, id := range quotaIDs {
		snapshot[id] = 0
	}
	if len(quotaIDs) == 0 {
		return snapshot, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT quota_id, count FROM quota_counters
		WHERE survey_id=$1 AND quota_id = ANY($2)`, surveyID, quotaIDs)
	if err != nil {
		return nil, fmt.Errorf("snapshot counters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var quotaID string
		var count int
		if err := rows.Scan(&quotaID, &count); err != nil {
			return nil, fmt.Errorf("scan counter: %w", err)
		}
		snapshot[quotaID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counters: %w", err)
	}
	return snapshot, nil
}

func (s *CounterStore) Increment(ctx context.Context, surveyID, quotaID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO quota_counters (survey_id, quota_id, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (survey_id, quota_id)
		DO UPDATE SET count = quota_counters.count + 1`, surveyID, quotaID)
	if err != nil {
		return fmt.Errorf("increment counter: %w", err)
	}
	return nil
}

func (s *CounterStore) Reset(ctx context.Context, surveyID string, _ []string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM quota_counters WHERE survey_id=$1`, surveyID); err != nil {
		return fmt.Errorf("reset counters: %w", err)
	}
	return nil
}
