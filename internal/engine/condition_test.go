package engine

import (
	"testing"

	"survey-flow-service/internal/domain"
)

func TestEvaluateConditionOperators(t *testing.T) {
	answers := domain.ResponseData{
		"q1": domain.StringValue("yes"),
		"q2": domain.StringsValue([]string{"a", "b"}),
		"q3": domain.NumberValue(25),
		"q4": domain.StringValue(""),
		"q5": domain.StringValue("hello world"),
	}

	cases := []struct {
		name string
		cond domain.Condition
		want bool
	}{
		{"equals scalar", cond("q1", domain.OpEquals, domain.StringValue("yes")), true},
		{"equals scalar miss", cond("q1", domain.OpEquals, domain.StringValue("no")), false},
		{"equals array membership", cond("q2", domain.OpEquals, domain.StringValue("a")), true},
		{"equals array membership miss", cond("q2", domain.OpEquals, domain.StringValue("c")), false},
		{"not_equals array", cond("q2", domain.OpNotEquals, domain.StringValue("c")), true},
		{"equals number stringified", cond("q3", domain.OpEquals, domain.StringValue("25")), true},
		{"contains substring", cond("q5", domain.OpContains, domain.StringValue("world")), true},
		{"contains array vs array intersect", cond("q2", domain.OpContains, domain.StringsValue([]string{"x", "b"})), true},
		{"contains array vs array disjoint", cond("q2", domain.OpContains, domain.StringsValue([]string{"x", "y"})), false},
		{"not_contains array", cond("q2", domain.OpNotContains, domain.StringValue("a")), false},
		{"greater_than", cond("q3", domain.OpGreaterThan, domain.NumberValue(18)), true},
		{"less_than", cond("q3", domain.OpLessThan, domain.NumberValue(18)), false},
		{"greater_equal boundary", cond("q3", domain.OpGreaterEqual, domain.NumberValue(25)), true},
		{"less_equal boundary", cond("q3", domain.OpLessEqual, domain.NumberValue(25)), true},
		{"numeric on non-numeric answer", cond("q1", domain.OpGreaterThan, domain.NumberValue(0)), false},
		{"numeric on missing answer", cond("missing", domain.OpLessThan, domain.NumberValue(100)), false},
		{"is_answered present", cond("q1", domain.OpIsAnswered, domain.AnswerValue{}), true},
		{"is_answered empty string", cond("q4", domain.OpIsAnswered, domain.AnswerValue{}), false},
		{"is_not_answered missing", cond("missing", domain.OpIsNotAnswered, domain.AnswerValue{}), true},
		{"unknown operator fails closed", cond("q1", "sounds_like", domain.StringValue("yes")), false},
		{"equals on dangling question", cond("missing", domain.OpEquals, domain.StringValue("yes")), false},
	}

	for _, tc := range cases {
		if got := EvaluateCondition(tc.cond, answers); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAnsweredOperatorsAreNegations(t *testing.T) {
	values := map[string]domain.AnswerValue{
		"missing":      {},
		"empty string": domain.StringValue(""),
		"string":       domain.StringValue("x"),
		"empty array":  domain.StringsValue(nil),
		"array":        domain.StringsValue([]string{"x"}),
		"number":       domain.NumberValue(0),
		"empty map":    domain.RowsValue(map[string]string{}),
		"blank map":    domain.RowsValue(map[string]string{"r1": ""}),
		"map":          domain.RowsValue(map[string]string{"r1": "c1"}),
	}

	for name, v := range values {
		answers := domain.ResponseData{"q": v}
		pos := EvaluateCondition(cond("q", domain.OpIsAnswered, domain.AnswerValue{}), answers)
		neg := EvaluateCondition(cond("q", domain.OpIsNotAnswered, domain.AnswerValue{}), answers)
		if pos == neg {
			t.Fatalf("%s: is_answered=%v and is_not_answered=%v must be negations", name, pos, neg)
		}
	}
}

func TestEvaluateConditionGroupEmptyIsTrue(t *testing.T) {
	for _, connector := range []domain.Connector{domain.ConnectorAnd, domain.ConnectorOr} {
		g := domain.ConditionGroup{Connector: connector}
		if !EvaluateConditionGroup(g, domain.ResponseData{}) {
			t.Fatalf("empty group with connector %q should be true", connector)
		}
	}
}

func TestEvaluateConditionGroupConnectors(t *testing.T) {
	answers := domain.ResponseData{"q1": domain.StringValue("yes")}

	trueCond := cond("q1", domain.OpEquals, domain.StringValue("yes"))
	falseCond := cond("q1", domain.OpEquals, domain.StringValue("no"))

	for _, tc := range []struct {
		connector domain.Connector
		a, b      domain.Condition
		want      bool
	}{
		{domain.ConnectorAnd, trueCond, trueCond, true},
		{domain.ConnectorAnd, trueCond, falseCond, false},
		{domain.ConnectorAnd, falseCond, falseCond, false},
		{domain.ConnectorOr, trueCond, falseCond, true},
		{domain.ConnectorOr, falseCond, falseCond, false},
	} {
		g := domain.ConditionGroup{Connector: tc.connector, Conditions: []domain.Condition{tc.a, tc.b}}
		if got := EvaluateConditionGroup(g, answers); got != tc.want {
			t.Fatalf("connector %q: got %v, want %v", tc.connector, got, tc.want)
		}
	}
}

func TestEvaluateConditionGroupNested(t *testing.T) {
	answers := domain.ResponseData{
		"q1": domain.StringValue("yes"),
		"q2": domain.NumberValue(30),
	}

	// q1 == "no" OR (q2 > 18 AND q2 < 65)
	g := domain.ConditionGroup{
		Connector:  domain.ConnectorOr,
		Conditions: []domain.Condition{cond("q1", domain.OpEquals, domain.StringValue("no"))},
		Groups: []domain.ConditionGroup{
			{
				Connector: domain.ConnectorAnd,
				Conditions: []domain.Condition{
					cond("q2", domain.OpGreaterThan, domain.NumberValue(18)),
					cond("q2", domain.OpLessThan, domain.NumberValue(65)),
				},
			},
		},
	}

	if !EvaluateConditionGroup(g, answers) {
		t.Fatalf("expected nested group to match")
	}

	answers["q2"] = domain.NumberValue(70)
	if EvaluateConditionGroup(g, answers) {
		t.Fatalf("expected nested group to fail with q2=70")
	}
}

func cond(questionID string, op domain.ConditionOperator, value domain.AnswerValue) domain.Condition {
	return domain.Condition{QuestionID: questionID, Operator: op, Value: value}
}
