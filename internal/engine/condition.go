// Package engine holds the response-evaluation rules: condition and
// group evaluation, carry-forward resolution, display filtering, page
// branching, answer validation and quota matching. Everything here is
// a pure function over domain types; survey definitions are
// user-authored and may be transiently inconsistent, so every dangling
// reference or unknown operator fails closed (false) instead of
// erroring.
package engine

import (
	"strings"

	"survey-flow-service/internal/domain"
)

// EvaluateCondition tests a single condition against the answer set.
//
// equals/not_equals treat an array-valued answer as a membership test
// of the stringified target, so one condition definition works for
// both single- and multi-select sources. Numeric operators coerce both
// sides; anything that does not parse makes the comparison false.
func EvaluateCondition(c domain.Condition, answers domain.ResponseData) bool {
	answer := answers.Get(c.QuestionID)

	switch c.Operator {
	case domain.OpIsAnswered:
		return !answer.IsEmpty()
	case domain.OpIsNotAnswered:
		return answer.IsEmpty()
	case domain.OpEquals:
		if list := answer.Strings(); list != nil {
			return containsString(list, c.Value.Text())
		}
		return answer.Kind != domain.AnswerNone && answer.Text() == c.Value.Text()
	case domain.OpNotEquals:
		if list := answer.Strings(); list != nil {
			return !containsString(list, c.Value.Text())
		}
		return answer.Text() != c.Value.Text()
	case domain.OpContains:
		return evaluateContains(answer, c.Value)
	case domain.OpNotContains:
		return !evaluateContains(answer, c.Value)
	case domain.OpGreaterThan, domain.OpLessThan, domain.OpGreaterEqual, domain.OpLessEqual:
		return evaluateNumeric(c.Operator, answer, c.Value)
	}
	// Unknown operator: fail closed.
	return false
}

func evaluateContains(answer, target domain.AnswerValue) bool {
	if list := answer.Strings(); list != nil {
		if targets := target.Strings(); targets != nil {
			for _, t := range targets {
				if containsString(list, t) {
					return true
				}
			}
			return false
		}
		return containsString(list, target.Text())
	}
	return strings.Contains(answer.Text(), target.Text())
}

func evaluateNumeric(op domain.ConditionOperator, answer, target domain.AnswerValue) bool {
	a, ok := answer.Number()
	if !ok {
		return false
	}
	b, ok := target.Number()
	if !ok {
		return false
	}
	switch op {
	case domain.OpGreaterThan:
		return a > b
	case domain.OpLessThan:
		return a < b
	case domain.OpGreaterEqual:
		return a >= b
	case domain.OpLessEqual:
		return a <= b
	}
	return false
}

func containsString(list []string, target string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}

// EvaluateConditionGroup recursively evaluates a group, merging all
// condition and subgroup results with the group's connector. A group
// with nothing in it is true regardless of connector; empty groups are
// used as catch-all rules.
func EvaluateConditionGroup(g domain.ConditionGroup, answers domain.ResponseData) bool {
	if len(g.Conditions) == 0 && len(g.Groups) == 0 {
		return true
	}

	if g.Connector == domain.ConnectorOr {
		for _, c := range g.Conditions {
			if EvaluateCondition(c, answers) {
				return true
			}
		}
		for _, sub := range g.Groups {
			if EvaluateConditionGroup(sub, answers) {
				return true
			}
		}
		return false
	}

	// "and" (and any unrecognized connector, which authors never produce).
	for _, c := range g.Conditions {
		if !EvaluateCondition(c, answers) {
			return false
		}
	}
	for _, sub := range g.Groups {
		if !EvaluateConditionGroup(sub, answers) {
			return false
		}
	}
	return true
}
