package domain

import "errors"

var (
	// ErrSurveyNotFound is returned when a survey ID resolves to nothing.
	ErrSurveyNotFound = errors.New("survey not found")
	// ErrSurveyNotPublished rejects submissions against draft/closed surveys.
	ErrSurveyNotPublished = errors.New("survey is not published")
	// ErrSessionNotFound is returned when a respondent session ID is unknown.
	ErrSessionNotFound = errors.New("respondent session not found")
	// ErrSessionFinished rejects further answers after a terminal state.
	ErrSessionFinished = errors.New("respondent session already finished")
	// ErrPageNotFound indicates a page ID is not part of the survey.
	ErrPageNotFound = errors.New("page not found")
	// ErrDuplicateResponse rejects a second completed submission for the
	// same respondent identifier when duplicate prevention is on.
	ErrDuplicateResponse = errors.New("respondent already completed this survey")
	// ErrMissingParams rejects respondents arriving without the required
	// URL parameters.
	ErrMissingParams = errors.New("required respondent parameters missing")
	// ErrWebhookNotFound is returned when a webhook ID is not configured
	// for the survey.
	ErrWebhookNotFound = errors.New("webhook not found")
)
