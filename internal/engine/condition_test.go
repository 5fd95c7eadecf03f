package engine

import (
	"testing"

	"credit-engine/internal/model"
)

func simpleCond(source string, op model.ConditionOperator, value any) *model.DisplayCondition {
	return &model.DisplayCondition{SourceQuestionID: source, Operator: op, Value: value}
}

func TestEvaluateConditionOperators(t *testing.T) {
	answers := map[string]any{
		"veteran":    "yes",
		"age":        float64(23),
		"age_text":   "23",
		"benefits":   []any{"snap", "ssi"},
		"empty_list": []any{},
		"blank":      "",
	}

	tests := []struct {
		name string
		cond *model.DisplayCondition
		want bool
	}{
		{"equals match", simpleCond("veteran", model.OpEquals, "yes"), true},
		{"equals mismatch", simpleCond("veteran", model.OpEquals, "no"), false},
		{"equals numeric cross-type", simpleCond("age", model.OpEquals, 23), true},
		{"notEquals match", simpleCond("veteran", model.OpNotEquals, "no"), true},
		{"notEquals mismatch", simpleCond("veteran", model.OpNotEquals, "yes"), false},
		{"includes member", simpleCond("benefits", model.OpIncludes, "snap"), true},
		{"includes non-member", simpleCond("benefits", model.OpIncludes, "tanf"), false},
		{"includes on scalar answer", simpleCond("veteran", model.OpIncludes, "yes"), false},
		{"greaterThan true", simpleCond("age", model.OpGreaterThan, 18), true},
		{"greaterThan false", simpleCond("age", model.OpGreaterThan, 40), false},
		{"greaterThan numeric string answer", simpleCond("age_text", model.OpGreaterThan, 18), true},
		{"greaterThan malformed answer", simpleCond("veteran", model.OpGreaterThan, 18), false},
		{"lessThan true", simpleCond("age", model.OpLessThan, 40), true},
		{"lessThan boundary", simpleCond("age", model.OpLessThan, 23), false},
		{"exists answered", simpleCond("veteran", model.OpExists, nil), true},
		{"exists unanswered", simpleCond("missing", model.OpExists, nil), false},
		{"exists blank string", simpleCond("blank", model.OpExists, nil), false},
		{"exists empty list", simpleCond("empty_list", model.OpExists, nil), false},
		{"unanswered source is false", simpleCond("missing", model.OpEquals, "yes"), false},
		{"unanswered source notEquals is false", simpleCond("missing", model.OpNotEquals, "yes"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateCondition(tt.cond, answers); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEvaluateConditionComposite(t *testing.T) {
	answers := map[string]any{"a": "1", "b": "2"}

	and := &model.DisplayCondition{
		Logic: model.LogicAnd,
		Conditions: []model.DisplayCondition{
			*simpleCond("a", model.OpEquals, "1"),
			*simpleCond("b", model.OpEquals, "2"),
		},
	}
	if !EvaluateCondition(and, answers) {
		t.Fatal("expected AND of two true children to be true")
	}

	and.Conditions[1].Value = "wrong"
	if EvaluateCondition(and, answers) {
		t.Fatal("expected AND with a false child to be false")
	}

	or := &model.DisplayCondition{
		Logic: model.LogicOr,
		Conditions: []model.DisplayCondition{
			*simpleCond("a", model.OpEquals, "wrong"),
			*simpleCond("b", model.OpEquals, "2"),
		},
	}
	if !EvaluateCondition(or, answers) {
		t.Fatal("expected OR with a true child to be true")
	}

	or.Conditions[1].Value = "wrong"
	if EvaluateCondition(or, answers) {
		t.Fatal("expected OR of two false children to be false")
	}
}

func TestEvaluateConditionEmptyComposites(t *testing.T) {
	answers := map[string]any{}

	emptyAnd := &model.DisplayCondition{Logic: model.LogicAnd}
	if !EvaluateCondition(emptyAnd, answers) {
		t.Fatal("AND over empty child list must be true")
	}

	emptyOr := &model.DisplayCondition{Logic: model.LogicOr}
	if EvaluateCondition(emptyOr, answers) {
		t.Fatal("OR over empty child list must be false")
	}
}

func TestEvaluateConditionNested(t *testing.T) {
	answers := map[string]any{
		"veteran":        "yes",
		"unemployed_6mo": "no",
		"disabled":       "yes",
	}

	// veteran AND (unemployed_6mo OR disabled)
	cond := &model.DisplayCondition{
		Logic: model.LogicAnd,
		Conditions: []model.DisplayCondition{
			*simpleCond("veteran", model.OpEquals, "yes"),
			{
				Logic: model.LogicOr,
				Conditions: []model.DisplayCondition{
					*simpleCond("unemployed_6mo", model.OpEquals, "yes"),
					*simpleCond("disabled", model.OpEquals, "yes"),
				},
			},
		},
	}
	if !EvaluateCondition(cond, answers) {
		t.Fatal("expected nested composite to be true")
	}

	answers["disabled"] = "no"
	if EvaluateCondition(cond, answers) {
		t.Fatal("expected nested composite to be false after both OR branches fail")
	}
}

func TestEvaluateConditionDeterministic(t *testing.T) {
	answers := map[string]any{"a": "yes", "n": float64(7)}
	cond := &model.DisplayCondition{
		Logic: model.LogicOr,
		Conditions: []model.DisplayCondition{
			*simpleCond("a", model.OpEquals, "no"),
			*simpleCond("n", model.OpGreaterThan, 5),
		},
	}

	first := EvaluateCondition(cond, answers)
	for i := 0; i < 100; i++ {
		if EvaluateCondition(cond, answers) != first {
			t.Fatalf("evaluation not deterministic on iteration %d", i)
		}
	}
}

func TestEvaluateConditionNilAlwaysVisible(t *testing.T) {
	if !EvaluateCondition(nil, map[string]any{}) {
		t.Fatal("nil condition must evaluate to true")
	}
}
