package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"survey-flow-service/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// WebhookRepository loads webhook configs from Postgres. Each row holds
// the full config as JSONB so shape changes do not need migrations.
type WebhookRepository struct {
	pool *pgxpool.Pool
}

func NewWebhookRepository(pool *pgxpool.Pool) *WebhookRepository {
	return &WebhookRepository{pool: pool}
}

func (r *WebhookRepository) ListBySurvey(ctx context.Context, surveyID string) ([]domain.WebhookConfig, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT data FROM webhooks WHERE survey_id=$1 ORDER BY id`, surveyID)
	if err != nil {
		return nil, fmt.Errorf("list webhooks: %w", err)
	}
	defer rows.Close()

	var configs []domain.WebhookConfig
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan webhook: %w", err)
		}
		var cfg domain.WebhookConfig
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal webhook: %w", err)
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate webhooks: %w", err)
	}
	return configs, nil
}
