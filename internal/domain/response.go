package domain

import "time"

// ResponseStatus is the stored disposition of a submitted response.
type ResponseStatus string

const (
	ResponseCompleted    ResponseStatus = "completed"
	ResponseDisqualified ResponseStatus = "disqualified"
)

// Response is one completed (or quota-disqualified) submission.
type Response struct {
	ID               string            `json:"id"`
	SurveyID         string            `json:"surveyId"`
	Status           ResponseStatus    `json:"status"`
	RespondentUID    string            `json:"respondentUid,omitempty"`
	RespondentParams map[string]string `json:"respondentParams,omitempty"`
	Data             ResponseData      `json:"data"`
	Duration         int               `json:"duration"`
	PageHistory      []string          `json:"pageHistory"`
	CompletedAt      time.Time         `json:"completedAt"`
}
