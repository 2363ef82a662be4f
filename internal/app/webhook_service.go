package app

import (
	"context"
	"time"

	"survey-flow-service/internal/domain"
	"survey-flow-service/internal/webhook"
)

// WebhookService sends test deliveries so survey authors can verify a
// target before going live.
type WebhookService struct {
	webhooks   WebhookRepository
	dispatcher *webhook.Dispatcher
	now        func() time.Time
}

func NewWebhookService(webhooks WebhookRepository, dispatcher *webhook.Dispatcher) *WebhookService {
	return &WebhookService{webhooks: webhooks, dispatcher: dispatcher, now: time.Now}
}

// TestSend delivers a sample payload to one configured webhook,
// ignoring its Enabled flag. Returns ErrWebhookNotFound when the
// survey has no webhook with that ID.
func (s *WebhookService) TestSend(ctx context.Context, surveyID, webhookID string) (webhook.Result, error) {
	configs, err := s.webhooks.ListBySurvey(ctx, surveyID)
	if err != nil {
		return webhook.Result{}, err
	}
	for _, cfg := range configs {
		if cfg.ID != webhookID {
			continue
		}
		payload := domain.WebhookPayload{
			Event:    domain.EventResponseCompleted,
			SurveyID: surveyID,
			Respondent: domain.WebhookRespondent{
				UID:    "test-respondent",
				Params: map[string]string{},
			},
			Data: domain.ResponseData{
				"sample_question": domain.StringValue("sample answer"),
			},
			Metadata: domain.WebhookMetadata{
				CompletedAt: s.now().UTC().Format(time.RFC3339),
				Duration:    0,
				PageHistory: []string{},
			},
		}
		return s.dispatcher.Send(ctx, cfg, payload), nil
	}
	return webhook.Result{}, domain.ErrWebhookNotFound
}
