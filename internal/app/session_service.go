package app

import (
	"context"

	"survey-flow-service/internal/domain"
)

// SessionService opens and advances respondent sessions. The transport
// layer stays a thin message loop around it.
type SessionService struct {
	surveys   SurveyRepository
	responses ResponseRepository
	store     SessionStore
	runner    *ComputedRunner
}

func NewSessionService(surveys SurveyRepository, responses ResponseRepository, store SessionStore, runner *ComputedRunner) *SessionService {
	return &SessionService{surveys: surveys, responses: responses, store: store, runner: runner}
}

// Start validates access and opens a session for the respondent.
// Params are the URL query parameters the respondent arrived with;
// the identifier parameter (when configured) becomes the respondent
// UID used for duplicate prevention.
func (s *SessionService) Start(ctx context.Context, surveyID string, params map[string]string) (*Session, error) {
	survey, err := s.surveys.GetSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey.Status != domain.StatusPublished {
		return nil, domain.ErrSurveyNotPublished
	}

	uid := ""
	if r := survey.Settings.Respondent; r != nil {
		for _, name := range r.RequiredParams {
			if params[name] == "" {
				return nil, domain.ErrMissingParams
			}
		}
		if r.IdentifierParam != "" {
			uid = params[r.IdentifierParam]
		}
		if r.PreventDuplicate && uid != "" {
			exists, err := s.responses.HasCompleted(ctx, surveyID, uid)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, domain.ErrDuplicateResponse
			}
		}
	}

	session := NewSession(survey, uid, params)
	s.store.Put(session)
	return session, nil
}

// Advance submits one page of answers for the session.
func (s *SessionService) Advance(ctx context.Context, sessionID string, pageAnswers domain.ResponseData) (StepResult, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return StepResult{}, domain.ErrSessionNotFound
	}
	return session.SubmitAnswers(ctx, pageAnswers, s.runner)
}

// Get looks up an open session.
func (s *SessionService) Get(sessionID string) (*Session, bool) {
	return s.store.Get(sessionID)
}

// Close drops a finished or abandoned session.
func (s *SessionService) Close(sessionID string) {
	s.store.Delete(sessionID)
}
