package engine

import "survey-flow-service/internal/domain"

// MatchesQuota reports whether the answer set falls under the quota.
// The quota must be enabled and every condition must hold. A choice
// condition with empty selectedValues never matches; a numeric
// condition needs the answer to parse as a number.
func MatchesQuota(q domain.Quota, answers domain.ResponseData) bool {
	if !q.Enabled {
		return false
	}
	for _, cond := range q.Conditions {
		if !matchesQuotaCondition(cond, answers) {
			return false
		}
	}
	return true
}

func matchesQuotaCondition(cond domain.QuotaCondition, answers domain.ResponseData) bool {
	answer := answers.Get(cond.QuestionID)
	if answer.Kind == domain.AnswerNone {
		return false
	}

	if cond.ConditionType == domain.QuotaNumeric {
		num, ok := answer.Number()
		if !ok {
			return false
		}
		switch cond.Operator {
		case domain.OpEquals:
			return num == cond.Value
		case domain.OpNotEquals:
			return num != cond.Value
		case domain.OpGreaterThan:
			return num > cond.Value
		case domain.OpLessThan:
			return num < cond.Value
		case domain.OpGreaterEqual:
			return num >= cond.Value
		case domain.OpLessEqual:
			return num <= cond.Value
		}
		return false
	}

	// Choice type, also the default for definitions predating
	// conditionType.
	if len(cond.SelectedValues) == 0 {
		return false
	}
	if list := answer.Strings(); list != nil {
		for _, v := range cond.SelectedValues {
			if containsString(list, v) {
				return true
			}
		}
		return false
	}
	return containsString(cond.SelectedValues, answer.Text())
}

// FindExceededQuotas returns every enabled, matching quota whose
// snapshot count has reached its limit, in declaration order. The
// caller treats the first entry as authoritative and applies its
// action.
func FindExceededQuotas(quotas []domain.Quota, answers domain.ResponseData, counters map[string]int) []domain.Quota {
	var out []domain.Quota
	for _, q := range quotas {
		if !MatchesQuota(q, answers) {
			continue
		}
		if counters[q.ID] >= q.Limit {
			out = append(out, q)
		}
	}
	return out
}

// MatchingQuotaIDs returns the IDs of all enabled quotas the answer set
// matches. The caller increments each counter exactly once per
// accepted response.
func MatchingQuotaIDs(quotas []domain.Quota, answers domain.ResponseData) []string {
	var ids []string
	for _, q := range quotas {
		if MatchesQuota(q, answers) {
			ids = append(ids, q.ID)
		}
	}
	return ids
}
