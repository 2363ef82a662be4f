package engine

import (
	"testing"

	"survey-flow-service/internal/domain"
)

func TestVisibleQuestions(t *testing.T) {
	showOnYes := &domain.DisplayCondition{
		Behavior: domain.BehaviorShow,
		ConditionGroup: domain.ConditionGroup{
			Connector:  domain.ConnectorAnd,
			Conditions: []domain.Condition{cond("q1", domain.OpEquals, domain.StringValue("yes"))},
		},
	}
	hideOnYes := &domain.DisplayCondition{
		Behavior: domain.BehaviorHide,
		ConditionGroup: domain.ConditionGroup{
			Connector:  domain.ConnectorAnd,
			Conditions: []domain.Condition{cond("q1", domain.OpEquals, domain.StringValue("yes"))},
		},
	}
	questions := []domain.Question{
		{ID: "q1", Type: domain.SingleChoice},
		{ID: "q2", Type: domain.OpenText, DisplayCondition: showOnYes},
		{ID: "q3", Type: domain.OpenText, DisplayCondition: hideOnYes},
	}

	visible := VisibleQuestions(questions, domain.ResponseData{"q1": domain.StringValue("yes")})
	if len(visible) != 2 || visible[0].ID != "q1" || visible[1].ID != "q2" {
		t.Fatalf("expected q1,q2 visible, got %+v", ids(visible))
	}

	visible = VisibleQuestions(questions, domain.ResponseData{"q1": domain.StringValue("no")})
	if len(visible) != 2 || visible[1].ID != "q3" {
		t.Fatalf("expected q1,q3 visible, got %+v", ids(visible))
	}
}

func ids(questions []domain.Question) []string {
	out := make([]string, len(questions))
	for i, q := range questions {
		out[i] = q.ID
	}
	return out
}
