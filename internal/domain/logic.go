package domain

// ConditionOperator is the comparison applied by a single condition.
type ConditionOperator string

const (
	OpEquals        ConditionOperator = "equals"
	OpNotEquals     ConditionOperator = "not_equals"
	OpContains      ConditionOperator = "contains"
	OpNotContains   ConditionOperator = "not_contains"
	OpGreaterThan   ConditionOperator = "greater_than"
	OpLessThan      ConditionOperator = "less_than"
	OpGreaterEqual  ConditionOperator = "greater_equal"
	OpLessEqual     ConditionOperator = "less_equal"
	OpIsAnswered    ConditionOperator = "is_answered"
	OpIsNotAnswered ConditionOperator = "is_not_answered"
)

// Condition tests one question's answer against a comparison value.
type Condition struct {
	ID         string            `json:"id"`
	QuestionID string            `json:"questionId"`
	Operator   ConditionOperator `json:"operator"`
	Value      AnswerValue       `json:"value"`
}

// Connector combines the results inside a condition group.
type Connector string

const (
	ConnectorAnd Connector = "and"
	ConnectorOr  Connector = "or"
)

// ConditionGroup nests conditions and subgroups under one connector.
// A group with no conditions and no subgroups evaluates to true; rules
// rely on that as a catch-all pattern.
type ConditionGroup struct {
	ID         string           `json:"id"`
	Connector  Connector        `json:"connector"`
	Conditions []Condition      `json:"conditions"`
	Groups     []ConditionGroup `json:"groups,omitempty"`
}

// BranchingActionType is the navigation outcome of a rule. ActionNext
// is never authored; the engine returns it when no rule matched and a
// later page exists.
type BranchingActionType string

const (
	ActionGoToPage   BranchingActionType = "go_to_page"
	ActionSkipToEnd  BranchingActionType = "skip_to_end"
	ActionDisqualify BranchingActionType = "disqualify"
	ActionNext       BranchingActionType = "next"
)

type BranchingAction struct {
	Type   BranchingActionType `json:"type"`
	PageID string              `json:"pageId,omitempty"`
}

// BranchingRule maps a condition group to an action. Rules on a page
// run in ascending priority order; the first match wins.
type BranchingRule struct {
	ID             string          `json:"id"`
	ConditionGroup ConditionGroup  `json:"conditionGroup"`
	Action         BranchingAction `json:"action"`
	Priority       int             `json:"priority"`
}
