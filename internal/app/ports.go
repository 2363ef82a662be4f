package app

import (
	"context"

	"survey-flow-service/internal/domain"
)

// SurveyRepository loads survey definitions (from cache/backing store).
type SurveyRepository interface {
	GetSurvey(ctx context.Context, surveyID string) (domain.Survey, error)
	SetStatus(ctx context.Context, surveyID string, status domain.SurveyStatus) error
}

// ResponseRepository stores completed and disqualified responses.
type ResponseRepository interface {
	Create(ctx context.Context, response domain.Response) error
	List(ctx context.Context, surveyID string, offset, limit int) ([]domain.Response, int, error)
	HasCompleted(ctx context.Context, surveyID, respondentUID string) (bool, error)
	DeleteAll(ctx context.Context, surveyID string) error
}

// WebhookRepository lists the delivery targets configured for a survey.
type WebhookRepository interface {
	ListBySurvey(ctx context.Context, surveyID string) ([]domain.WebhookConfig, error)
}

// QuotaCounterStore is the one piece of shared mutable state in the
// system. Snapshot reads are taken before the limit check; Increment
// must be atomic per (surveyID, quotaID) on the backing store. The
// snapshot and the increment are deliberately not wrapped in one
// cross-request lock, so overshoot past the limit by a small margin
// under high concurrency is accepted.
type QuotaCounterStore interface {
	Snapshot(ctx context.Context, surveyID string, quotaIDs []string) (map[string]int, error)
	Increment(ctx context.Context, surveyID, quotaID string) error
	Reset(ctx context.Context, surveyID string, quotaIDs []string) error
}

// SessionStore keeps in-flight respondent sessions.
type SessionStore interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}
