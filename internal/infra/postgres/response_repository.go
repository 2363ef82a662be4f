package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"survey-flow-service/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// ResponseRepository stores submitted responses in Postgres.
type ResponseRepository struct {
	pool *pgxpool.Pool
}

func NewResponseRepository(pool *pgxpool.Pool) *ResponseRepository {
	return &ResponseRepository{pool: pool}
}

func (r *ResponseRepository) Create(ctx context.Context, response domain.Response) error {
	data, err := json.Marshal(response.Data)
	if err != nil {
		return fmt.Errorf("marshal response data: %w", err)
	}
	history, err := json.Marshal(response.PageHistory)
	if err != nil {
		return fmt.Errorf("marshal page history: %w", err)
	}
	params, err := json.Marshal(response.RespondentParams)
	if err != nil {
		return fmt.Errorf("marshal respondent params: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO responses (id, survey_id, status, respondent_uid, respondent_params, data, duration, page_history, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		response.ID, response.SurveyID, string(response.Status), response.RespondentUID,
		params, data, response.Duration, history, response.CompletedAt)
	if err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	return nil
}

func (r *ResponseRepository) List(ctx context.Context, surveyID string, offset, limit int) ([]domain.Response, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM responses WHERE survey_id=$1`, surveyID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count responses: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, status, respondent_uid, respondent_params, data, duration, page_history, completed_at
		FROM responses WHERE survey_id=$1
		ORDER BY completed_at DESC
		OFFSET $2 LIMIT $3`, surveyID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	var responses []domain.Response
	for rows.Next() {
		resp := domain.Response{SurveyID: surveyID}
		var status string
		var params, data, history []byte
		if err := rows.Scan(&resp.ID, &status, &resp.RespondentUID, &params, &data,
			&resp.Duration, &history, &resp.CompletedAt); err != nil {
			return nil, 0, fmt.Errorf("scan response: %w", err)
		}
		resp.Status = domain.ResponseStatus(status)
		if len(params) > 0 {
			if err := json.Unmarshal(params, &resp.RespondentParams); err != nil {
				return nil, 0, fmt.Errorf("unmarshal respondent params: %w", err)
			}
		}
		if err := json.Unmarshal(data, &resp.Data); err != nil {
			return nil, 0, fmt.Errorf("unmarshal response data: %w", err)
		}
		if len(history) > 0 {
			if err := json.Unmarshal(history, &resp.PageHistory); err != nil {
				return nil, 0, fmt.Errorf("unmarshal page history: %w", err)
			}
		}
		responses = append(responses, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate responses: %w", err)
	}
	return responses, total, nil
}

func (r *ResponseRepository) HasCompleted(ctx context.Context, surveyID, respondentUID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM responses
			WHERE survey_id=$1 AND respondent_uid=$2 AND status='completed'
		)`, surveyID, respondentUID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check duplicate: %w", err)
	}
	return exists, nil
}

func (r *ResponseRepository) DeleteAll(ctx context.Context, surveyID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM responses WHERE survey_id=$1`, surveyID); err != nil {
		return fmt.Errorf("delete responses: %w", err)
	}
	return nil
}
