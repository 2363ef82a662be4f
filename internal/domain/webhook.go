package domain

// Webhook event names. Completed responses fire response.completed;
// responses stored as disqualified fire response.disqualified.
const (
	EventResponseCompleted    = "response.completed"
	EventResponseDisqualified = "response.disqualified"
)

// WebhookConfig describes one delivery target. RetryInterval is the
// base backoff in milliseconds; attempt k waits interval * 2^(k-1).
type WebhookConfig struct {
	ID            string            `json:"id"`
	SurveyID      string            `json:"surveyId"`
	URL           string            `json:"url"`
	Method        string            `json:"method"`
	Headers       map[string]string `json:"headers,omitempty"`
	Secret        string            `json:"secret,omitempty"`
	Enabled       bool              `json:"enabled"`
	RetryCount    int               `json:"retryCount"`
	RetryInterval int               `json:"retryInterval"`
}

type WebhookRespondent struct {
	UID    string            `json:"uid,omitempty"`
	Params map[string]string `json:"params"`
}

type WebhookMetadata struct {
	CompletedAt string   `json:"completedAt"`
	Duration    int      `json:"duration"`
	PageHistory []string `json:"pageHistory"`
}

// WebhookPayload is the body delivered to every configured target for
// one response. It is serialized exactly once per response; every
// retry sends the same bytes and the same signature.
type WebhookPayload struct {
	Event      string            `json:"event"`
	SurveyID   string            `json:"surveyId"`
	Respondent WebhookRespondent `json:"respondent"`
	Data       ResponseData      `json:"data"`
	Metadata   WebhookMetadata   `json:"metadata"`
}
