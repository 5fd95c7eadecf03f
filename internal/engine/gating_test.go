package engine

import (
	"testing"
	"time"

	"credit-engine/internal/model"
)

// screeningQuestionnaire builds the fixture used across the gating,
// classifier and service tests: a veteran section gated on is_veteran and a
// SNAP section gated on snap_received, with a cross-section condition from
// the SNAP section back to is_veteran.
func screeningQuestionnaire() *model.Questionnaire {
	return &model.Questionnaire{
		ID:      "wotc-v1",
		Name:    "WOTC Intake",
		Version: 1,
		Status:  model.QuestionnairePublished,
		Sections: []model.QuestionnaireSection{
			{
				ID:           "veteran",
				Title:        "Veteran Status",
				TargetGroups: []string{"V", "V-DISAB"},
				Order:        1,
				GatingConfig: &model.GatingConfig{
					QuestionID:           "is_veteran",
					ApplicableAnswers:    []string{"yes"},
					NotApplicableAnswers: []string{"no"},
					SkipReasonKey:        "not_a_veteran",
				},
				Questions: []model.QuestionMetadata{
					{ID: "is_veteran", Type: model.QuestionTypeRadio, Required: true, Options: []string{"yes", "no"}},
					{
						ID: "vet_unemployed_6mo", Type: model.QuestionTypeRadio, Required: true,
						Options:            []string{"yes", "no"},
						TargetGroup:        "V",
						EligibilityTrigger: "yes",
						DisplayCondition:   &model.DisplayCondition{SourceQuestionID: "is_veteran", Operator: model.OpEquals, Value: "yes"},
					},
					{
						ID: "vet_disabled", Type: model.QuestionTypeRadio, Required: true,
						Options:            []string{"yes", "no"},
						TargetGroup:        "V-DISAB",
						EligibilityTrigger: "yes",
						DisplayCondition:   &model.DisplayCondition{SourceQuestionID: "is_veteran", Operator: model.OpEquals, Value: "yes"},
					},
				},
			},
			{
				ID:           "snap",
				Title:        "SNAP Benefits",
				TargetGroups: []string{"SNAP"},
				Order:        2,
				Weight:       2,
				GatingConfig: &model.GatingConfig{
					QuestionID:           "snap_received",
					ApplicableAnswers:    []string{"yes"},
					NotApplicableAnswers: []string{"no"},
					SkipReasonKey:        "no_snap_benefits",
				},
				Questions: []model.QuestionMetadata{
					{ID: "snap_received", Type: model.QuestionTypeRadio, Required: true, Options: []string{"yes", "no"}, TargetGroup: "SNAP", EligibilityTrigger: "yes"},
					{
						ID: "snap_months", Type: model.QuestionTypeNumber, Required: true,
						DisplayCondition: &model.DisplayCondition{SourceQuestionID: "snap_received", Operator: model.OpEquals, Value: "yes"},
					},
					{
						ID: "snap_vet_household", Type: model.QuestionTypeRadio, Required: true,
						Options: []string{"yes", "no"},
						DisplayCondition: &model.DisplayCondition{
							Logic: model.LogicAnd,
							Conditions: []model.DisplayCondition{
								{SourceQuestionID: "snap_received", Operator: model.OpEquals, Value: "yes"},
								{SourceQuestionID: "is_veteran", Operator: model.OpEquals, Value: "yes"},
							},
						},
					},
				},
			},
		},
	}
}

func newResponse(q *model.Questionnaire) *model.ResponseData {
	return &model.ResponseData{
		ScreeningID:     "scr-1",
		QuestionnaireID: q.ID,
		Answers:         map[string]any{},
		CreatedAt:       time.Now(),
	}
}

func TestEvaluateSectionLifecycle(t *testing.T) {
	q := screeningQuestionnaire()
	section := q.Section("veteran")
	answers := map[string]any{}

	if got := EvaluateSection(section, answers).Status; got != model.SectionPending {
		t.Fatalf("untouched section: expected pending, got %s", got)
	}

	answers["is_veteran"] = "yes"
	if got := EvaluateSection(section, answers).Status; got != model.SectionInProgress {
		t.Fatalf("gate applicable, follow-ups unanswered: expected in_progress, got %s", got)
	}

	answers["vet_unemployed_6mo"] = "yes"
	if got := EvaluateSection(section, answers).Status; got != model.SectionInProgress {
		t.Fatalf("one visible question unanswered: expected in_progress, got %s", got)
	}

	answers["vet_disabled"] = "no"
	state := EvaluateSection(section, answers)
	if state.Status != model.SectionCompleted {
		t.Fatalf("all visible questions answered: expected completed, got %s", state.Status)
	}
	if state.CompletedAt == nil {
		t.Fatal("completed section must carry CompletedAt")
	}
}

func TestEvaluateSectionSkip(t *testing.T) {
	q := screeningQuestionnaire()
	section := q.Section("veteran")

	state := EvaluateSection(section, map[string]any{"is_veteran": "no"})
	if state.Status != model.SectionSkipped {
		t.Fatalf("expected skipped, got %s", state.Status)
	}
	if state.SkippedReason != "not_a_veteran" {
		t.Fatalf("expected skip reason from gating config, got %q", state.SkippedReason)
	}
}

func TestEvaluateSectionHiddenQuestionsNotRequired(t *testing.T) {
	q := screeningQuestionnaire()
	section := q.Section("snap")

	// Gate answered "yes" but is_veteran unanswered, so snap_vet_household
	// stays hidden and must not block completion.
	answers := map[string]any{
		"snap_received": "yes",
		"snap_months":   float64(8),
	}
	if got := EvaluateSection(section, answers).Status; got != model.SectionCompleted {
		t.Fatalf("hidden question blocked completion: got %s", got)
	}

	// Once is_veteran is answered yes, the household question becomes
	// visible and the section falls back to in_progress.
	answers["is_veteran"] = "yes"
	if got := EvaluateSection(section, answers).Status; got != model.SectionInProgress {
		t.Fatalf("newly visible question did not reopen section: got %s", got)
	}
}

func TestEvaluateSectionOptionalQuestionsDoNotBlock(t *testing.T) {
	section := &model.QuestionnaireSection{
		ID:    "contact",
		Order: 1,
		Questions: []model.QuestionMetadata{
			{ID: "zip_code", Type: model.QuestionTypeText, Required: true},
			{ID: "phone", Type: model.QuestionTypeText}, // optional
		},
	}

	answers := map[string]any{"zip_code": "02134"}
	if got := EvaluateSection(section, answers).Status; got != model.SectionCompleted {
		t.Fatalf("unanswered optional question blocked completion: got %s", got)
	}
}

func TestEvaluateSectionIndeterminateGate(t *testing.T) {
	q := screeningQuestionnaire()
	section := q.Section("veteran")

	// An answer outside both gating sets leaves applicability undetermined:
	// the section may not complete or skip.
	state := EvaluateSection(section, map[string]any{"is_veteran": "unsure"})
	if state.Status.Terminal() {
		t.Fatalf("indeterminate gate must not produce a terminal state, got %s", state.Status)
	}
}

func TestReevaluateSectionsCascade(t *testing.T) {
	q := screeningQuestionnaire()
	resp := newResponse(q)

	// Complete both sections with the respondent as a veteran.
	resp.Answers["is_veteran"] = "yes"
	resp.Answers["vet_unemployed_6mo"] = "yes"
	resp.Answers["vet_disabled"] = "no"
	resp.Answers["snap_received"] = "yes"
	resp.Answers["snap_months"] = float64(8)
	resp.Answers["snap_vet_household"] = "no"
	ReevaluateSections(q, resp)

	if !resp.IsCompleted {
		t.Fatal("expected response to be completed")
	}
	if resp.CurrentSectionID != "" {
		t.Fatalf("completed response should have no current section, got %q", resp.CurrentSectionID)
	}

	// Edit the upstream answer: the veteran section flips to skipped and
	// the SNAP section must be requalified in the same pass.
	resp.Answers["is_veteran"] = "no"
	ReevaluateSections(q, resp)

	vet := resp.SectionState("veteran")
	if vet == nil || vet.Status != model.SectionSkipped {
		t.Fatalf("expected veteran section skipped after edit, got %+v", vet)
	}

	// snap_vet_household is now hidden; the SNAP section stays completed
	// because every still-visible question is answered.
	snap := resp.SectionState("snap")
	if snap == nil || snap.Status != model.SectionCompleted {
		t.Fatalf("expected snap section to remain completed, got %+v", snap)
	}
	if !resp.IsCompleted {
		t.Fatal("expected response to remain completed after cascade")
	}
}

func TestReevaluateSectionsPreservesCompletedAt(t *testing.T) {
	q := screeningQuestionnaire()
	resp := newResponse(q)

	resp.Answers["is_veteran"] = "no"
	resp.Answers["snap_received"] = "yes"
	resp.Answers["snap_months"] = float64(3)
	ReevaluateSections(q, resp)

	first := resp.SectionState("snap").CompletedAt
	if first == nil {
		t.Fatal("expected snap section completed")
	}

	ReevaluateSections(q, resp)
	if second := resp.SectionState("snap").CompletedAt; second == nil || !second.Equal(*first) {
		t.Fatalf("CompletedAt changed across re-evaluation: %v -> %v", first, second)
	}
}

func TestProgressWeighted(t *testing.T) {
	q := screeningQuestionnaire()
	resp := newResponse(q)

	ReevaluateSections(q, resp)
	if p := Progress(q, resp.SectionStates); p != 0 {
		t.Fatalf("expected 0%% progress, got %v", p)
	}

	// Veteran section (weight 1) done; SNAP (weight 2) untouched.
	resp.Answers["is_veteran"] = "no"
	ReevaluateSections(q, resp)
	if p := Progress(q, resp.SectionStates); p < 33.3 || p > 33.4 {
		t.Fatalf("expected ~33.3%% progress, got %v", p)
	}

	resp.Answers["snap_received"] = "no"
	ReevaluateSections(q, resp)
	if p := Progress(q, resp.SectionStates); p != 100 {
		t.Fatalf("expected 100%% progress, got %v", p)
	}
}

func TestProgressMonotonicWithoutEdits(t *testing.T) {
	q := screeningQuestionnaire()
	resp := newResponse(q)

	steps := []struct {
		questionID string
		answer     any
	}{
		{"is_veteran", "yes"},
		{"vet_unemployed_6mo", "yes"},
		{"vet_disabled", "no"},
		{"snap_received", "yes"},
		{"snap_months", float64(8)},
		{"snap_vet_household", "yes"},
	}

	last := float64(-1)
	for _, step := range steps {
		resp.Answers[step.questionID] = step.answer
		ReevaluateSections(q, resp)
		p := Progress(q, resp.SectionStates)
		if p < last {
			t.Fatalf("progress decreased from %v to %v after answering %s", last, p, step.questionID)
		}
		last = p
	}
	if last != 100 {
		t.Fatalf("expected 100%% at the end, got %v", last)
	}
}
