package memory

import (
	"context"
	"sync"

	"survey-flow-service/internal/domain"
)

// ResponseStore is an in-memory implementation of app.ResponseRepository.
type ResponseStore struct {
	mu        sync.RWMutex
	responses map[string][]domain.Response
}

func NewResponseStore() *ResponseStore {
	return &ResponseStore{
		responses: make(map[string][]domain.Response),
	}
}

func (s *ResponseStore) Create(_ context.Context, response domain.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[response.SurveyID] = append(s.responses[response.SurveyID], response)
	return nil
}

func (s *ResponseStore) List(_ context.Context, surveyID string, offset, limit int) ([]domain.Response, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.responses[surveyID]
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := make([]domain.Response, end-offset)
	copy(page, all[offset:end])
	return page, total, nil
}

func (s *ResponseStore) HasCompleted(_ context.Context, surveyID, respondentUID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.responses[surveyID] {
		if r.Status == domain.ResponseCompleted && r.RespondentUID == respondentUID {
			return true, nil
		}
	}
	return false, nil
}

func (s *ResponseStore) DeleteAll(_ context.Context, surveyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.responses, surveyID)
	return nil
}
