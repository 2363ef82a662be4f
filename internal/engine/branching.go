package engine

import (
	"sort"

	"survey-flow-service/internal/domain"
)

// NextPage evaluates a page's branching rules against the answer set
// and returns the navigation action. Rules run in ascending priority
// order and the first match wins. With no match the result is
// ActionNext when a later page exists, otherwise ActionSkipToEnd.
//
// The function is stateless and safe to call repeatedly with the same
// inputs; callers own visited-page history.
func NextPage(current domain.Page, pages []domain.Page, answers domain.ResponseData) domain.BranchingAction {
	if len(current.BranchingRules) > 0 {
		rules := make([]domain.BranchingRule, len(current.BranchingRules))
		copy(rules, current.BranchingRules)
		sort.SliceStable(rules, func(i, j int) bool { return rules[i].Priority < rules[j].Priority })

		for _, rule := range rules {
			if EvaluateConditionGroup(rule.ConditionGroup, answers) {
				return rule.Action
			}
		}
	}

	for i, p := range pages {
		if p.ID == current.ID {
			if i < len(pages)-1 {
				return domain.BranchingAction{Type: domain.ActionNext}
			}
			break
		}
	}
	return domain.BranchingAction{Type: domain.ActionSkipToEnd}
}
