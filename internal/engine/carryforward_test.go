package engine

import (
	"reflect"
	"testing"

	"survey-flow-service/internal/domain"
)

func carrySource() domain.Question {
	return domain.Question{
		ID:   "q1",
		Type: domain.MultipleChoice,
		Choices: []domain.Choice{
			{ID: "c1", Text: "Apple", Value: "apple"},
			{ID: "c2", Text: "Banana", Value: "banana"},
			{ID: "c3", Text: "Cherry", Value: "cherry"},
		},
	}
}

func TestCarryForwardSelected(t *testing.T) {
	source := carrySource()
	target := domain.Question{
		ID:           "q2",
		Type:         domain.SingleChoice,
		CarryForward: &domain.CarryForward{QuestionID: "q1", Mode: domain.CarrySelected},
	}
	answers := domain.ResponseData{"q1": domain.StringsValue([]string{"apple", "cherry"})}

	resolved := ResolveCarryForward(target, []domain.Question{source, target}, answers)
	want := []string{"apple", "cherry"}
	if got := choiceValues(resolved.Choices); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected choices %v, got %v", want, got)
	}
}

func TestCarryForwardNotSelected(t *testing.T) {
	source := carrySource()
	target := domain.Question{
		ID:           "q2",
		Type:         domain.MultipleChoice,
		CarryForward: &domain.CarryForward{QuestionID: "q1", Mode: domain.CarryNotSelected},
	}
	answers := domain.ResponseData{"q1": domain.StringsValue([]string{"apple", "cherry"})}

	resolved := ResolveCarryForward(target, []domain.Question{source, target}, answers)
	if got := choiceValues(resolved.Choices); !reflect.DeepEqual(got, []string{"banana"}) {
		t.Fatalf("expected only banana, got %v", got)
	}
}

func TestCarryForwardRoundTrip(t *testing.T) {
	source := carrySource()
	target := domain.Question{
		ID:           "q2",
		Type:         domain.SingleChoice,
		CarryForward: &domain.CarryForward{QuestionID: "q1", Mode: domain.CarrySelected},
	}
	all := []domain.Question{source, target}

	// Answer contains every choice value: selected keeps the full
	// list, not_selected keeps nothing.
	answers := domain.ResponseData{"q1": domain.StringsValue(choiceValues(source.Choices))}

	resolved := ResolveCarryForward(target, all, answers)
	if len(resolved.Choices) != len(source.Choices) {
		t.Fatalf("selected mode with all values answered should keep all choices, got %d", len(resolved.Choices))
	}

	target.CarryForward.Mode = domain.CarryNotSelected
	resolved = ResolveCarryForward(target, all, answers)
	if len(resolved.Choices) != 0 {
		t.Fatalf("not_selected mode with all values answered should keep none, got %d", len(resolved.Choices))
	}
}

func TestCarryForwardCommaSplitString(t *testing.T) {
	source := carrySource()
	target := domain.Question{
		ID:           "q2",
		Type:         domain.SingleChoice,
		CarryForward: &domain.CarryForward{QuestionID: "q1", Mode: domain.CarrySelected},
	}
	answers := domain.ResponseData{"q1": domain.StringValue("apple,banana")}

	resolved := ResolveCarryForward(target, []domain.Question{source, target}, answers)
	if got := choiceValues(resolved.Choices); !reflect.DeepEqual(got, []string{"apple", "banana"}) {
		t.Fatalf("expected comma-split selection, got %v", got)
	}
}

func TestCarryForwardIntoMatrix(t *testing.T) {
	source := carrySource()
	target := domain.Question{
		ID:   "q2",
		Type: domain.MatrixSingle,
		MatrixColumns: []domain.MatrixColumn{
			{ID: "col1", Text: "Like", Value: "like"},
			{ID: "col2", Text: "Dislike", Value: "dislike"},
		},
		CarryForward: &domain.CarryForward{QuestionID: "q1", Mode: domain.CarrySelected},
	}
	answers := domain.ResponseData{"q1": domain.StringsValue([]string{"banana"})}

	resolved := ResolveCarryForward(target, []domain.Question{source, target}, answers)
	if len(resolved.MatrixRows) != 1 {
		t.Fatalf("expected 1 matrix row, got %d", len(resolved.MatrixRows))
	}
	if resolved.MatrixRows[0].ID != "banana" || resolved.MatrixRows[0].Text != "Banana" {
		t.Fatalf("expected row built from choice, got %+v", resolved.MatrixRows[0])
	}
	if len(resolved.MatrixColumns) != 2 {
		t.Fatalf("matrix columns must stay as authored, got %+v", resolved.MatrixColumns)
	}
}

func TestCarryForwardMissingSourcePassthrough(t *testing.T) {
	target := domain.Question{
		ID:           "q2",
		Type:         domain.SingleChoice,
		Choices:      []domain.Choice{{ID: "c1", Text: "Keep", Value: "keep"}},
		CarryForward: &domain.CarryForward{QuestionID: "gone", Mode: domain.CarrySelected},
	}

	resolved := ResolveCarryForward(target, []domain.Question{target}, domain.ResponseData{})
	if got := choiceValues(resolved.Choices); !reflect.DeepEqual(got, []string{"keep"}) {
		t.Fatalf("missing source must be a passthrough, got %v", got)
	}
}

func TestCarryForwardDoesNotMutateInput(t *testing.T) {
	source := carrySource()
	target := domain.Question{
		ID:           "q2",
		Type:         domain.SingleChoice,
		CarryForward: &domain.CarryForward{QuestionID: "q1", Mode: domain.CarrySelected},
	}
	all := []domain.Question{source, target}
	answers := domain.ResponseData{"q1": domain.StringsValue([]string{"apple"})}

	_ = ResolveCarryForward(target, all, answers)
	if len(all[0].Choices) != 3 {
		t.Fatalf("source question was mutated: %+v", all[0].Choices)
	}
	if target.Choices != nil {
		t.Fatalf("target question was mutated: %+v", target.Choices)
	}
}

func choiceValues(choices []domain.Choice) []string {
	out := make([]string, len(choices))
	for i, c := range choices {
		out[i] = c.Value
	}
	return out
}
