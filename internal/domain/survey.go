package domain

import "time"

// QuestionType enumerates the supported question widgets.
type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	MatrixSingle   QuestionType = "matrix_single"
	MatrixMultiple QuestionType = "matrix_multiple"
	RatingScale    QuestionType = "rating_scale"
	OpenText       QuestionType = "open_text"
	Ranking        QuestionType = "ranking"
	NumberInput    QuestionType = "number_input"
)

// IsChoice reports whether the type carries a flat choice list.
func (t QuestionType) IsChoice() bool {
	return t == SingleChoice || t == MultipleChoice
}

// IsMatrix reports whether the type carries matrix rows/columns.
func (t QuestionType) IsMatrix() bool {
	return t == MatrixSingle || t == MatrixMultiple
}

// Choice is a selectable option. Value is what gets submitted.
type Choice struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Value       string `json:"value"`
	IsExclusive bool   `json:"isExclusive,omitempty"`
}

type MatrixRow struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type MatrixColumn struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Value       string `json:"value"`
	IsExclusive bool   `json:"isExclusive,omitempty"`
}

// ValidationRule holds the optional per-question constraints. Pointers
// distinguish "not set" from zero.
type ValidationRule struct {
	MinSelect      *int     `json:"minSelect,omitempty"`
	MaxSelect      *int     `json:"maxSelect,omitempty"`
	MinLength      *int     `json:"minLength,omitempty"`
	MaxLength      *int     `json:"maxLength,omitempty"`
	MinValue       *float64 `json:"minValue,omitempty"`
	MaxValue       *float64 `json:"maxValue,omitempty"`
	Pattern        string   `json:"pattern,omitempty"`
	PatternMessage string   `json:"patternMessage,omitempty"`
}

// CarryForwardMode selects which source choices survive the filter.
type CarryForwardMode string

const (
	CarrySelected    CarryForwardMode = "selected"
	CarryNotSelected CarryForwardMode = "not_selected"
)

// CarryForward derives this question's option set from a prior answer.
type CarryForward struct {
	QuestionID string           `json:"questionId"`
	Mode       CarryForwardMode `json:"mode"`
}

// DisplayBehavior controls whether a matching condition shows or hides.
type DisplayBehavior string

const (
	BehaviorShow DisplayBehavior = "show"
	BehaviorHide DisplayBehavior = "hide"
)

type DisplayCondition struct {
	ConditionGroup ConditionGroup  `json:"conditionGroup"`
	Behavior       DisplayBehavior `json:"behavior"`
}

type Question struct {
	ID               string            `json:"id"`
	Type             QuestionType      `json:"type"`
	Text             string            `json:"text"`
	Description      string            `json:"description,omitempty"`
	Required         bool              `json:"required"`
	Choices          []Choice          `json:"choices,omitempty"`
	MatrixRows       []MatrixRow       `json:"matrixRows,omitempty"`
	MatrixColumns    []MatrixColumn    `json:"matrixColumns,omitempty"`
	RatingMin        *int              `json:"ratingMin,omitempty"`
	RatingMax        *int              `json:"ratingMax,omitempty"`
	RatingMinLabel   string            `json:"ratingMinLabel,omitempty"`
	RatingMaxLabel   string            `json:"ratingMaxLabel,omitempty"`
	Validation       *ValidationRule   `json:"validation,omitempty"`
	DisplayCondition *DisplayCondition `json:"displayCondition,omitempty"`
	RandomizeChoices bool              `json:"randomizeChoices,omitempty"`
	CarryForward     *CarryForward     `json:"carryForward,omitempty"`
}

type Page struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	Questions      []Question      `json:"questions"`
	BranchingRules []BranchingRule `json:"branchingRules,omitempty"`
}

type SurveyStructure struct {
	Pages []Page `json:"pages"`
}

type SurveyStatus string

const (
	StatusDraft     SurveyStatus = "draft"
	StatusPublished SurveyStatus = "published"
	StatusClosed    SurveyStatus = "closed"
)

// RedirectSettings holds the post-submission redirect targets.
type RedirectSettings struct {
	CompletionURL string `json:"completionUrl,omitempty"`
	DisqualifyURL string `json:"disqualifyUrl,omitempty"`
	QuotaFullURL  string `json:"quotaFullUrl,omitempty"`
	PassParams    bool   `json:"passParams,omitempty"`
}

// RespondentSettings controls respondent identification and duplicate
// prevention based on URL parameters.
type RespondentSettings struct {
	RequiredParams   []string `json:"requiredParams,omitempty"`
	IdentifierParam  string   `json:"identifierParam,omitempty"`
	PreventDuplicate bool     `json:"preventDuplicate,omitempty"`
}

type SurveySettings struct {
	ShowProgressBar   bool                `json:"showProgressBar,omitempty"`
	AllowBack         bool                `json:"allowBack,omitempty"`
	RandomizePages    bool                `json:"randomizePages,omitempty"`
	CompletionMessage string              `json:"completionMessage,omitempty"`
	DisqualifyMessage string              `json:"disqualifyMessage,omitempty"`
	Redirect          *RedirectSettings   `json:"redirect,omitempty"`
	Respondent        *RespondentSettings `json:"respondent,omitempty"`
}

// Survey is the root aggregate: pages, quotas, computed variables and
// settings, stored as one JSON document.
type Survey struct {
	ID                string             `json:"id"`
	Title             string             `json:"title"`
	Description       string             `json:"description,omitempty"`
	Status            SurveyStatus       `json:"status"`
	Settings          SurveySettings     `json:"settings"`
	Structure         SurveyStructure    `json:"structure"`
	Quotas            []Quota            `json:"quotas,omitempty"`
	ComputedVariables []ComputedVariable `json:"computedVariables,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// AllQuestions flattens every page's questions in document order.
// Carry-forward sources may live on earlier pages, so resolvers need
// the whole list, not just the current page.
func (s *Survey) AllQuestions() []Question {
	var out []Question
	for _, p := range s.Structure.Pages {
		out = append(out, p.Questions...)
	}
	return out
}

// PageIndex returns the index of a page by ID, or -1.
func (s *Survey) PageIndex(pageID string) int {
	for i, p := range s.Structure.Pages {
		if p.ID == pageID {
			return i
		}
	}
	return -1
}
