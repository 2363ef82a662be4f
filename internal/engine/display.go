package engine

import "survey-flow-service/internal/domain"

// VisibleQuestions filters a page's questions by their display
// conditions, preserving order. Questions without a condition are
// always kept.
func VisibleQuestions(questions []domain.Question, answers domain.ResponseData) []domain.Question {
	out := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if shouldShow(q.DisplayCondition, answers) {
			out = append(out, q)
		}
	}
	return out
}

func shouldShow(dc *domain.DisplayCondition, answers domain.ResponseData) bool {
	if dc == nil {
		return true
	}
	matched := EvaluateConditionGroup(dc.ConditionGroup, answers)
	if dc.Behavior == domain.BehaviorHide {
		return !matched
	}
	return matched
}
