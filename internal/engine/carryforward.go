package engine

import (
	"strings"

	"survey-flow-service/internal/domain"
)

// ResolveCarryForward returns a copy of the question with its option
// set derived from the source question's answer. Choice-type targets
// get filtered choices; matrix-type targets get the filtered choices
// converted to rows (row ID = choice value, so answer keys line up),
// keeping the columns authored on the target. A missing source is a
// passthrough. The input question is never mutated.
func ResolveCarryForward(q domain.Question, all []domain.Question, answers domain.ResponseData) domain.Question {
	cf := q.CarryForward
	if cf == nil {
		return q
	}

	var source *domain.Question
	for i := range all {
		if all[i].ID == cf.QuestionID {
			source = &all[i]
			break
		}
	}
	if source == nil {
		return q
	}

	selected := selectedValues(*source, answers)
	keep := cf.Mode == domain.CarrySelected

	filtered := make([]domain.Choice, 0, len(source.Choices))
	for _, c := range source.Choices {
		if containsString(selected, c.Value) == keep {
			filtered = append(filtered, c)
		}
	}

	if q.Type.IsMatrix() {
		rows := make([]domain.MatrixRow, len(filtered))
		for i, c := range filtered {
			rows[i] = domain.MatrixRow{ID: c.Value, Text: c.Text}
		}
		q.MatrixRows = rows
		return q
	}

	if q.Type.IsChoice() {
		q.Choices = filtered
		return q
	}

	return q
}

// selectedValues normalizes the source answer into a value list. Array
// answers are used as-is; string answers from choice-type sources are
// comma-split to cover legacy multi-select serialization.
func selectedValues(source domain.Question, answers domain.ResponseData) []string {
	answer := answers.Get(source.ID)
	switch answer.Kind {
	case domain.AnswerStrings:
		return answer.List
	case domain.AnswerString:
		if answer.Str == "" {
			return nil
		}
		if source.Type.IsChoice() {
			parts := strings.Split(answer.Str, ",")
			out := parts[:0]
			for _, p := range parts {
				if p != "" {
					out = append(out, p)
				}
			}
			return out
		}
		return []string{answer.Str}
	case domain.AnswerNumber:
		return []string{answer.Text()}
	}
	return nil
}
