package engine

import (
	"fmt"
	"regexp"

	"survey-flow-service/internal/domain"
)

// ValidationError points one message at one question.
type ValidationError struct {
	QuestionID string `json:"questionId"`
	Message    string `json:"message"`
}

const requiredMessage = "This question is required."

// ValidateQuestion checks one (carry-forward-resolved) question against
// its raw answer and returns at most one error message; empty string
// means valid. The required check runs first; an absent answer on an
// optional question short-circuits to valid.
func ValidateQuestion(q domain.Question, answer domain.AnswerValue) string {
	if q.Required && answer.IsEmpty() {
		return requiredMessage
	}
	if answer.IsEmpty() {
		return ""
	}

	v := q.Validation

	switch q.Type {
	case domain.MultipleChoice:
		selected := len(answer.Strings())
		if v != nil && v.MinSelect != nil && selected < *v.MinSelect {
			return fmt.Sprintf("Select at least %d options.", *v.MinSelect)
		}
		if v != nil && v.MaxSelect != nil && selected > *v.MaxSelect {
			return fmt.Sprintf("Select at most %d options.", *v.MaxSelect)
		}

	case domain.OpenText:
		text := answer.Text()
		if v != nil && v.MinLength != nil && len([]rune(text)) < *v.MinLength {
			return fmt.Sprintf("Enter at least %d characters.", *v.MinLength)
		}
		if v != nil && v.MaxLength != nil && len([]rune(text)) > *v.MaxLength {
			return fmt.Sprintf("Enter at most %d characters.", *v.MaxLength)
		}
		if v != nil && v.Pattern != "" {
			re, err := regexp.Compile(v.Pattern)
			// An invalid pattern is a configuration problem, not the
			// respondent's; skip the check rather than block them.
			if err == nil && !re.MatchString(text) {
				if v.PatternMessage != "" {
					return v.PatternMessage
				}
				return "The input format is invalid."
			}
		}

	case domain.NumberInput:
		num, ok := answer.Number()
		if !ok {
			return "Enter a numeric value."
		}
		if v != nil && v.MinValue != nil && num < *v.MinValue {
			return fmt.Sprintf("Enter a value of at least %v.", *v.MinValue)
		}
		if v != nil && v.MaxValue != nil && num > *v.MaxValue {
			return fmt.Sprintf("Enter a value of at most %v.", *v.MaxValue)
		}

	case domain.RatingScale:
		num, ok := answer.Number()
		if !ok {
			return "Enter a numeric value."
		}
		if q.RatingMin != nil && num < float64(*q.RatingMin) {
			return fmt.Sprintf("Enter a value of at least %d.", *q.RatingMin)
		}
		if q.RatingMax != nil && num > float64(*q.RatingMax) {
			return fmt.Sprintf("Enter a value of at most %d.", *q.RatingMax)
		}

	case domain.MatrixSingle, domain.MatrixMultiple:
		if q.Required {
			for _, row := range q.MatrixRows {
				if answer.Rows[row.ID] == "" {
					return fmt.Sprintf("Answer the %q row.", row.Text)
				}
			}
		}

	case domain.Ranking:
		if q.Required {
			if len(answer.Strings()) != len(q.Choices) {
				return "Rank every item."
			}
		}
	}

	return ""
}

// ValidatePage validates every visible question on a page and collects
// errors in page order. The answer set is never mutated.
func ValidatePage(questions []domain.Question, answers domain.ResponseData) []ValidationError {
	var errs []ValidationError
	for _, q := range questions {
		if msg := ValidateQuestion(q, answers.Get(q.ID)); msg != "" {
			errs = append(errs, ValidationError{QuestionID: q.ID, Message: msg})
		}
	}
	return errs
}
