package memory

import (
	"context"
	"sync"

	"survey-flow-service/internal/domain"
)

// SurveyStore is a map-backed survey source (useful for tests/demos
// and as the loader behind the Redis cache).
type SurveyStore struct {
	mu      sync.RWMutex
	surveys map[string]domain.Survey
}

func NewSurveyStore(surveys map[string]domain.Survey) *SurveyStore {
	if surveys == nil {
		surveys = make(map[string]domain.Survey)
	}
	return &SurveyStore{surveys: surveys}
}

func (s *SurveyStore) GetSurvey(_ context.Context, surveyID string) (domain.Survey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if survey, ok := s.surveys[surveyID]; ok {
		return survey, nil
	}
	return domain.Survey{}, domain.ErrSurveyNotFound
}

// LoadSurvey satisfies the cache loader interface; same lookup as GetSurvey.
func (s *SurveyStore) LoadSurvey(ctx context.Context, surveyID string) (domain.Survey, error) {
	return s.GetSurvey(ctx, surveyID)
}

func (s *SurveyStore) SetStatus(_ context.Context, surveyID string, status domain.SurveyStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	survey, ok := s.surveys[surveyID]
	if !ok {
		return domain.ErrSurveyNotFound
	}
	survey.Status = status
	s.surveys[surveyID] = survey
	return nil
}

func (s *SurveyStore) Put(survey domain.Survey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surveys[survey.ID] = survey
}
