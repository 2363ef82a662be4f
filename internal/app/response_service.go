package app

import (
	"context"
	"log"
	"time"

	"survey-flow-service/internal/domain"
	"survey-flow-service/internal/engine"
	"survey-flow-service/internal/webhook"

	"github.com/google/uuid"
)

// Rejection reasons reported to the caller.
const (
	ReasonQuotaExceeded = "quota_exceeded"
	ReasonQuotaFull     = "quota_full"
)

// Submission is one completed answer set arriving at the server.
type Submission struct {
	Data          domain.ResponseData
	RespondentUID string
	Params        map[string]string
	Duration      int
	PageHistory   []string
	CompletedAt   time.Time
}

// SubmitResult reports the admission outcome. Exactly one of Accepted,
// Disqualified or Closed is set.
type SubmitResult struct {
	Accepted     bool             `json:"success"`
	Disqualified bool             `json:"disqualified,omitempty"`
	Closed       bool             `json:"closed,omitempty"`
	Reason       string           `json:"reason,omitempty"`
	QuotaID      string           `json:"quotaId,omitempty"`
	RedirectURL  string           `json:"redirectUrl,omitempty"`
	Webhooks     []webhook.Result `json:"webhooks,omitempty"`
}

// ResponseService runs the server-side completion flow: duplicate
// check, quota admission, persistence, webhook fan-out.
type ResponseService struct {
	surveys    SurveyRepository
	responses  ResponseRepository
	webhooks   WebhookRepository
	counters   QuotaCounterStore
	dispatcher *webhook.Dispatcher
	now        func() time.Time
}

func NewResponseService(
	surveys SurveyRepository,
	responses ResponseRepository,
	webhooks WebhookRepository,
	counters QuotaCounterStore,
	dispatcher *webhook.Dispatcher,
) *ResponseService {
	return &ResponseService{
		surveys:    surveys,
		responses:  responses,
		webhooks:   webhooks,
		counters:   counters,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// Submit admits, stores and relays one completed response.
//
// Quota discipline: the counter snapshot is read once, the limits are
// checked against it, and only then are the matching counters
// incremented (exactly once each). The snapshot and the increments are
// not one atomic unit; a small bounded overshoot under concurrent
// submissions is accepted.
func (s *ResponseService) Submit(ctx context.Context, surveyID string, sub Submission) (SubmitResult, error) {
	survey, err := s.surveys.GetSurvey(ctx, surveyID)
	if err != nil {
		return SubmitResult{}, err
	}
	if survey.Status != domain.StatusPublished {
		return SubmitResult{}, domain.ErrSurveyNotPublished
	}

	if preventDuplicate(survey) && sub.RespondentUID != "" {
		exists, err := s.responses.HasCompleted(ctx, surveyID, sub.RespondentUID)
		if err != nil {
			return SubmitResult{}, err
		}
		if exists {
			return SubmitResult{}, domain.ErrDuplicateResponse
		}
	}

	completedAt := sub.CompletedAt
	if completedAt.IsZero() {
		completedAt = s.now()
	}

	if len(survey.Quotas) > 0 {
		counters, err := s.counters.Snapshot(ctx, surveyID, quotaIDs(survey.Quotas))
		if err != nil {
			return SubmitResult{}, err
		}

		if exceeded := engine.FindExceededQuotas(survey.Quotas, sub.Data, counters); len(exceeded) > 0 {
			quota := exceeded[0]
			if quota.Action == domain.QuotaDisqualify {
				// Disqualified responses are stored for audit.
				if err := s.responses.Create(ctx, s.buildResponse(surveyID, sub, domain.ResponseDisqualified, completedAt)); err != nil {
					return SubmitResult{}, err
				}
				result := SubmitResult{
					Disqualified: true,
					Reason:       ReasonQuotaExceeded,
					QuotaID:      quota.ID,
					RedirectURL:  redirectURL(survey, domain.ResponseDisqualified),
				}
				result.Webhooks = s.relay(ctx, surveyID, domain.EventResponseDisqualified, sub, completedAt)
				return result, nil
			}
			// close: reject without storing.
			return SubmitResult{
				Closed:      true,
				Reason:      ReasonQuotaFull,
				QuotaID:     quota.ID,
				RedirectURL: quotaFullURL(survey),
			}, nil
		}

		for _, quotaID := range engine.MatchingQuotaIDs(survey.Quotas, sub.Data) {
			if err := s.counters.Increment(ctx, surveyID, quotaID); err != nil {
				// Counter drift beats losing the response.
				log.Printf("quota counter increment failed for %s/%s: %v", surveyID, quotaID, err)
			}
		}
	}

	if err := s.responses.Create(ctx, s.buildResponse(surveyID, sub, domain.ResponseCompleted, completedAt)); err != nil {
		return SubmitResult{}, err
	}

	result := SubmitResult{
		Accepted:    true,
		RedirectURL: redirectURL(survey, domain.ResponseCompleted),
	}
	result.Webhooks = s.relay(ctx, surveyID, domain.EventResponseCompleted, sub, completedAt)
	return result, nil
}

// SubmitDisqualified stores a response that the branching engine
// disqualified mid-survey. Quota admission does not apply; the answer
// set never completed.
func (s *ResponseService) SubmitDisqualified(ctx context.Context, surveyID string, sub Submission) (SubmitResult, error) {
	survey, err := s.surveys.GetSurvey(ctx, surveyID)
	if err != nil {
		return SubmitResult{}, err
	}

	completedAt := sub.CompletedAt
	if completedAt.IsZero() {
		completedAt = s.now()
	}

	if err := s.responses.Create(ctx, s.buildResponse(surveyID, sub, domain.ResponseDisqualified, completedAt)); err != nil {
		return SubmitResult{}, err
	}

	result := SubmitResult{
		Disqualified: true,
		RedirectURL:  redirectURL(survey, domain.ResponseDisqualified),
	}
	result.Webhooks = s.relay(ctx, surveyID, domain.EventResponseDisqualified, sub, completedAt)
	return result, nil
}

func (s *ResponseService) relay(ctx context.Context, surveyID, event string, sub Submission, completedAt time.Time) []webhook.Result {
	configs, err := s.webhooks.ListBySurvey(ctx, surveyID)
	if err != nil {
		log.Printf("listing webhooks for %s failed: %v", surveyID, err)
		return nil
	}
	if len(configs) == 0 {
		return nil
	}
	payload := domain.WebhookPayload{
		Event:    event,
		SurveyID: surveyID,
		Respondent: domain.WebhookRespondent{
			UID:    sub.RespondentUID,
			Params: nonNilParams(sub.Params),
		},
		Data: sub.Data,
		Metadata: domain.WebhookMetadata{
			CompletedAt: completedAt.UTC().Format(time.RFC3339),
			Duration:    sub.Duration,
			PageHistory: sub.PageHistory,
		},
	}
	return s.dispatcher.DispatchAll(ctx, configs, payload)
}

func (s *ResponseService) buildResponse(surveyID string, sub Submission, status domain.ResponseStatus, completedAt time.Time) domain.Response {
	return domain.Response{
		ID:               uuid.NewString(),
		SurveyID:         surveyID,
		Status:           status,
		RespondentUID:    sub.RespondentUID,
		RespondentParams: sub.Params,
		Data:             sub.Data,
		Duration:         sub.Duration,
		PageHistory:      sub.PageHistory,
		CompletedAt:      completedAt,
	}
}

func preventDuplicate(survey domain.Survey) bool {
	r := survey.Settings.Respondent
	return r != nil && r.PreventDuplicate
}

func redirectURL(survey domain.Survey, status domain.ResponseStatus) string {
	r := survey.Settings.Redirect
	if r == nil {
		return ""
	}
	if status == domain.ResponseDisqualified {
		return r.DisqualifyURL
	}
	return r.CompletionURL
}

func quotaFullURL(survey domain.Survey) string {
	if r := survey.Settings.Redirect; r != nil {
		return r.QuotaFullURL
	}
	return ""
}

func quotaIDs(quotas []domain.Quota) []string {
	ids := make([]string, len(quotas))
	for i, q := range quotas {
		ids[i] = q.ID
	}
	return ids
}

func nonNilParams(params map[string]string) map[string]string {
	if params == nil {
		return map[string]string{}
	}
	return params
}
