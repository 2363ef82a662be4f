package memory

import (
	"context"
	"sync"

	"survey-flow-service/internal/domain"
)

// WebhookStore is an in-memory implementation of app.WebhookRepository.
type WebhookStore struct {
	mu       sync.RWMutex
	webhooks map[string][]domain.WebhookConfig
}

func NewWebhookStore() *WebhookStore {
	return &WebhookStore{webhooks: make(map[string][]domain.WebhookConfig)}
}

func (s *WebhookStore) ListBySurvey(_ context.Context, surveyID string) ([]domain.WebhookConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	configs := s.webhooks[surveyID]
	out := make([]domain.WebhookConfig, len(configs))
	copy(out, configs)
	return out, nil
}

func (s *WebhookStore) Put(config domain.WebhookConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.webhooks[config.SurveyID] = append(s.webhooks[config.SurveyID], config)
}
