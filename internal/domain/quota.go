package domain

// QuotaConditionType selects how a quota condition is evaluated.
type QuotaConditionType string

const (
	QuotaChoice  QuotaConditionType = "choice"
	QuotaNumeric QuotaConditionType = "numeric"
)

// QuotaCondition is either a choice-membership test (SelectedValues
// against the answer) or a numeric comparison (Operator/Value). Older
// definitions omit ConditionType; choice is the default.
type QuotaCondition struct {
	QuestionID     string             `json:"questionId"`
	ConditionType  QuotaConditionType `json:"conditionType,omitempty"`
	SelectedValues []string           `json:"selectedValues,omitempty"`
	Operator       ConditionOperator  `json:"operator,omitempty"`
	Value          float64            `json:"value,omitempty"`
}

// QuotaAction decides what happens once the limit is reached.
type QuotaAction string

const (
	// QuotaClose rejects the submission without storing it.
	QuotaClose QuotaAction = "close"
	// QuotaDisqualify stores the response as disqualified.
	QuotaDisqualify QuotaAction = "disqualify"
)

// Quota caps how many completed responses may match its conditions.
// Conditions are AND-combined. Counters live outside the definition.
type Quota struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Conditions []QuotaCondition `json:"conditions"`
	Limit      int              `json:"limit"`
	Action     QuotaAction      `json:"action"`
	Enabled    bool             `json:"enabled"`
}
