package app

import (
	"context"
	"sync"
	"time"

	"survey-flow-service/internal/domain"
	"survey-flow-service/internal/engine"

	"github.com/google/uuid"
)

// SessionStatus tracks a respondent session through the page state
// machine: one state per page plus the two terminal pseudo-states.
type SessionStatus string

const (
	SessionInProgress   SessionStatus = "in_progress"
	SessionCompleted    SessionStatus = "completed"
	SessionDisqualified SessionStatus = "disqualified"
)

// RenderedPage is what the transport sends to the respondent: page
// metadata plus the visible, carry-forward-resolved questions.
type RenderedPage struct {
	PageID      string            `json:"pageId"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Questions   []domain.Question `json:"questions"`
	PageNumber  int               `json:"pageNumber"`
	PageCount   int               `json:"pageCount"`
}

// StepResult is the outcome of submitting one page of answers.
type StepResult struct {
	Errors []engine.ValidationError
	Status SessionStatus
	Page   *RenderedPage
}

// Session holds one respondent's in-flight answer set and navigation
// state. The engine itself is stateless; the session owns the answers,
// the current page index and the visited-page history used later for
// duration/audit metadata.
type Session struct {
	ID            string
	SurveyID      string
	RespondentUID string
	Params        map[string]string

	survey    domain.Survey
	now       func() time.Time
	startedAt time.Time

	mu        sync.Mutex
	answers   domain.ResponseData
	pageIndex int
	history   []string
	status    SessionStatus
}

func NewSession(survey domain.Survey, respondentUID string, params map[string]string) *Session {
	return newSessionWithClock(survey, respondentUID, params, time.Now)
}

// newSessionWithClock allows deterministic timestamps in tests.
func newSessionWithClock(survey domain.Survey, respondentUID string, params map[string]string, now func() time.Time) *Session {
	s := &Session{
		ID:            uuid.NewString(),
		SurveyID:      survey.ID,
		RespondentUID: respondentUID,
		Params:        params,
		survey:        survey,
		now:           now,
		startedAt:     now(),
		answers:       domain.ResponseData{},
		status:        SessionInProgress,
	}
	if len(survey.Structure.Pages) > 0 {
		s.history = append(s.history, survey.Structure.Pages[0].ID)
	} else {
		s.status = SessionCompleted
	}
	return s
}

// NewSessionWithClock is exported for tests that need fixed time.
func NewSessionWithClock(survey domain.Survey, respondentUID string, params map[string]string, now func() time.Time) *Session {
	return newSessionWithClock(survey, respondentUID, params, now)
}

func (s *Session) Status() SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// CurrentPage renders the current page: carry-forward is resolved
// first, then display conditions filter the result.
func (s *Session) CurrentPage() (RenderedPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != SessionInProgress {
		return RenderedPage{}, domain.ErrSessionFinished
	}
	return s.renderLocked(), nil
}

func (s *Session) renderLocked() RenderedPage {
	page := s.survey.Structure.Pages[s.pageIndex]
	all := s.survey.AllQuestions()

	resolved := make([]domain.Question, len(page.Questions))
	for i, q := range page.Questions {
		resolved[i] = engine.ResolveCarryForward(q, all, s.answers)
	}

	return RenderedPage{
		PageID:      page.ID,
		Title:       page.Title,
		Description: page.Description,
		Questions:   engine.VisibleQuestions(resolved, s.answers),
		PageNumber:  s.pageIndex + 1,
		PageCount:   len(s.survey.Structure.Pages),
	}
}

// SubmitAnswers validates one page of answers and advances the state
// machine. Validation errors leave the session untouched. On success
// the answers are merged, computed variables for the page run (their
// results become condition inputs immediately), and the branching
// rules pick the next state.
func (s *Session) SubmitAnswers(ctx context.Context, pageAnswers domain.ResponseData, runner *ComputedRunner) (StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != SessionInProgress {
		return StepResult{}, domain.ErrSessionFinished
	}

	page := s.survey.Structure.Pages[s.pageIndex]
	all := s.survey.AllQuestions()

	resolved := make([]domain.Question, len(page.Questions))
	for i, q := range page.Questions {
		resolved[i] = engine.ResolveCarryForward(q, all, s.answers)
	}
	visible := engine.VisibleQuestions(resolved, s.answers)

	// Validate against the merged view so answers submitted with this
	// page are seen, without committing them on failure.
	merged := s.answers.Clone()
	merged.Merge(pageAnswers)
	if errs := engine.ValidatePage(visible, merged); len(errs) > 0 {
		return StepResult{Errors: errs, Status: s.status}, nil
	}

	s.answers = merged

	if runner != nil {
		s.answers.Merge(runner.OnPageLeave(ctx, s.survey, page.ID, s.answers))
	}

	action := engine.NextPage(page, s.survey.Structure.Pages, s.answers)
	switch action.Type {
	case domain.ActionDisqualify:
		s.status = SessionDisqualified
	case domain.ActionSkipToEnd:
		s.status = SessionCompleted
	case domain.ActionGoToPage:
		idx := s.survey.PageIndex(action.PageID)
		if idx < 0 {
			// Dangling page target: fall through to sequential advance.
			idx = s.pageIndex + 1
		}
		if idx >= len(s.survey.Structure.Pages) {
			s.status = SessionCompleted
		} else {
			s.pageIndex = idx
			s.history = append(s.history, s.survey.Structure.Pages[idx].ID)
		}
	default: // advance
		if s.pageIndex+1 >= len(s.survey.Structure.Pages) {
			s.status = SessionCompleted
		} else {
			s.pageIndex++
			s.history = append(s.history, s.survey.Structure.Pages[s.pageIndex].ID)
		}
	}

	result := StepResult{Status: s.status}
	if s.status == SessionInProgress {
		page := s.renderLocked()
		result.Page = &page
	}
	return result, nil
}

// Answers returns a snapshot of the accumulated answer set.
func (s *Session) Answers() domain.ResponseData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Clone()
}

// PageHistory returns the visited page IDs in order.
func (s *Session) PageHistory() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

// Duration reports elapsed seconds since the session started.
func (s *Session) Duration() int {
	return int(s.now().Sub(s.startedAt) / time.Second)
}

// StartedAt returns when the respondent opened the survey.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}
