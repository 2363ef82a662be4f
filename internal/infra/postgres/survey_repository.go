package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"survey-flow-service/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// SurveyRepository loads survey JSONB from Postgres.
type SurveyRepository struct {
	pool *pgxpool.Pool
}

func NewSurveyRepository(pool *pgxpool.Pool) *SurveyRepository {
	return &SurveyRepository{pool: pool}
}

func (r *SurveyRepository) GetSurvey(ctx context.Context, surveyID string) (domain.Survey, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT data FROM surveys WHERE id=$1`, surveyID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Survey{}, domain.ErrSurveyNotFound
	}
	if err != nil {
		return domain.Survey{}, fmt.Errorf("load survey: %w", err)
	}
	var survey domain.Survey
	if err := json.Unmarshal(raw, &survey); err != nil {
		return domain.Survey{}, fmt.Errorf("unmarshal survey: %w", err)
	}
	return survey, nil
}

// LoadSurvey satisfies the cache loader interface.
func (r *SurveyRepository) LoadSurvey(ctx context.Context, surveyID string) (domain.Survey, error) {
	return r.GetSurvey(ctx, surveyID)
}

func (r *SurveyRepository) SetStatus(ctx context.Context, surveyID string, status domain.SurveyStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE surveys SET data = jsonb_set(data, '{status}', to_jsonb($2::text)) WHERE id=$1`,
		surveyID, string(status))
	if err != nil {
		return fmt.Errorf("set survey status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSurveyNotFound
	}
	return nil
}
