package app

import (
	"context"

	"survey-flow-service/internal/domain"
)

// SurveyService covers the operator-facing survey and response reads
// plus the lifecycle toggle. The engine never runs here.
type SurveyService struct {
	surveys   SurveyRepository
	responses ResponseRepository
	counters  QuotaCounterStore
}

func NewSurveyService(surveys SurveyRepository, responses ResponseRepository, counters QuotaCounterStore) *SurveyService {
	return &SurveyService{surveys: surveys, responses: responses, counters: counters}
}

func (s *SurveyService) GetSurvey(ctx context.Context, surveyID string) (domain.Survey, error) {
	return s.surveys.GetSurvey(ctx, surveyID)
}

// TogglePublish flips published surveys to closed and everything else
// to published, mirroring the single publish/unpublish control.
func (s *SurveyService) TogglePublish(ctx context.Context, surveyID string) (domain.SurveyStatus, error) {
	survey, err := s.surveys.GetSurvey(ctx, surveyID)
	if err != nil {
		return "", err
	}
	next := domain.StatusPublished
	if survey.Status == domain.StatusPublished {
		next = domain.StatusClosed
	}
	if err := s.surveys.SetStatus(ctx, surveyID, next); err != nil {
		return "", err
	}
	return next, nil
}

const maxListLimit = 100

// ListResponses pages through stored responses, newest first. Limit is
// clamped to 100; page numbers start at 1.
func (s *SurveyService) ListResponses(ctx context.Context, surveyID string, page, limit int) ([]domain.Response, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.responses.List(ctx, surveyID, (page-1)*limit, limit)
}

// CheckDuplicate reports whether the respondent UID already has a
// completed response for the survey.
func (s *SurveyService) CheckDuplicate(ctx context.Context, surveyID, respondentUID string) (bool, error) {
	if respondentUID == "" {
		return false, nil
	}
	return s.responses.HasCompleted(ctx, surveyID, respondentUID)
}

// ResetResponses deletes every stored response and zeroes the quota
// counters so a survey can be re-fielded.
func (s *SurveyService) ResetResponses(ctx context.Context, surveyID string) error {
	survey, err := s.surveys.GetSurvey(ctx, surveyID)
	if err != nil {
		return err
	}
	if err := s.responses.DeleteAll(ctx, surveyID); err != nil {
		return err
	}
	return s.counters.Reset(ctx, surveyID, quotaIDs(survey.Quotas))
}
