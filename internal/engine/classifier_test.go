package engine

import (
	"errors"
	"reflect"
	"testing"

	"credit-engine/internal/model"
)

func testEngine() *Engine {
	return New(model.DefaultTargetGroups(), nil)
}

func completedResponse(t *testing.T, q *model.Questionnaire, answers map[string]any) *model.ResponseData {
	t.Helper()
	resp := newResponse(q)
	for k, v := range answers {
		resp.Answers[k] = v
	}
	ReevaluateSections(q, resp)
	if !resp.IsCompleted {
		t.Fatalf("fixture response not terminal, states: %+v", resp.SectionStates)
	}
	return resp
}

func TestClassifyMultipleGroups(t *testing.T) {
	e := testEngine()
	q := screeningQuestionnaire()

	// Veteran and SNAP recipient at once.
	resp := completedResponse(t, q, map[string]any{
		"is_veteran":         "yes",
		"vet_unemployed_6mo": "yes",
		"vet_disabled":       "no",
		"snap_received":      "yes",
		"snap_months":        float64(9),
		"snap_vet_household": "yes",
	})

	got, err := e.Classify(q, resp)
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}

	if !reflect.DeepEqual(got.TargetGroups, []string{"V", "SNAP"}) {
		t.Fatalf("expected [V SNAP], got %v", got.TargetGroups)
	}
	// V has the higher MaxCredit (5600 vs 2400).
	if got.PrimaryTargetGroup != "V" {
		t.Fatalf("expected primary V, got %s", got.PrimaryTargetGroup)
	}
}

func TestClassifySkippedSectionDoesNotQualify(t *testing.T) {
	e := testEngine()
	q := screeningQuestionnaire()

	resp := completedResponse(t, q, map[string]any{
		"is_veteran":    "no",
		"snap_received": "yes",
		"snap_months":   float64(9),
	})

	got, err := e.Classify(q, resp)
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if !reflect.DeepEqual(got.TargetGroups, []string{"SNAP"}) {
		t.Fatalf("expected [SNAP], got %v", got.TargetGroups)
	}
	if got.PrimaryTargetGroup != "SNAP" {
		t.Fatalf("expected primary SNAP, got %s", got.PrimaryTargetGroup)
	}
}

func TestClassifyHigherCreditWins(t *testing.T) {
	e := testEngine()
	q := screeningQuestionnaire()

	// Disabled veteran outranks the plain veteran group (9600 vs 5600).
	resp := completedResponse(t, q, map[string]any{
		"is_veteran":         "yes",
		"vet_unemployed_6mo": "yes",
		"vet_disabled":       "yes",
		"snap_received":      "no",
	})

	got, err := e.Classify(q, resp)
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if got.PrimaryTargetGroup != "V-DISAB" {
		t.Fatalf("expected primary V-DISAB, got %s", got.PrimaryTargetGroup)
	}
}

func TestClassifyNoQualifyingGroups(t *testing.T) {
	e := testEngine()
	q := screeningQuestionnaire()

	resp := completedResponse(t, q, map[string]any{
		"is_veteran":    "no",
		"snap_received": "no",
	})

	got, err := e.Classify(q, resp)
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if len(got.TargetGroups) != 0 {
		t.Fatalf("expected no groups, got %v", got.TargetGroups)
	}
	if got.PrimaryTargetGroup != "" {
		t.Fatalf("expected empty primary, got %s", got.PrimaryTargetGroup)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	e := testEngine()
	q := screeningQuestionnaire()

	resp := completedResponse(t, q, map[string]any{
		"is_veteran":         "yes",
		"vet_unemployed_6mo": "yes",
		"vet_disabled":       "no",
		"snap_received":      "yes",
		"snap_months":        float64(9),
		"snap_vet_household": "no",
	})

	first, err := e.Classify(q, resp)
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	second, err := e.Classify(q, resp)
	if err != nil {
		t.Fatalf("second classify failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("classification not idempotent: %+v vs %+v", first, second)
	}
}

func TestClassifyUnknownTargetGroup(t *testing.T) {
	e := testEngine()
	q := screeningQuestionnaire()
	q.Sections[0].Questions[1].TargetGroup = "NOT-A-CODE"

	resp := completedResponse(t, q, map[string]any{
		"is_veteran":         "yes",
		"vet_unemployed_6mo": "yes",
		"vet_disabled":       "no",
		"snap_received":      "no",
	})

	_, err := e.Classify(q, resp)
	if !errors.Is(err, ErrUnknownTargetGroup) {
		t.Fatalf("expected ErrUnknownTargetGroup, got %v", err)
	}
}

func TestClassifyEligibleValues(t *testing.T) {
	e := testEngine()
	q := &model.Questionnaire{
		ID:     "benefits-v1",
		Status: model.QuestionnairePublished,
		Sections: []model.QuestionnaireSection{
			{
				ID:    "benefits",
				Order: 1,
				Questions: []model.QuestionMetadata{
					{
						ID: "household_benefits", Type: model.QuestionTypeCheckbox, Required: true,
						Options:        []string{"snap", "ssi", "none"},
						TargetGroup:    "SSI",
						EligibleValues: []string{"ssi"},
					},
				},
			},
		},
	}

	resp := completedResponse(t, q, map[string]any{
		"household_benefits": []any{"snap", "ssi"},
	})

	got, err := e.Classify(q, resp)
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if !reflect.DeepEqual(got.TargetGroups, []string{"SSI"}) {
		t.Fatalf("expected [SSI], got %v", got.TargetGroups)
	}
}
