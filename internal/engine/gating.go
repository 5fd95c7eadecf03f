package engine

import (
	"fmt"
	"time"

	"credit-engine/internal/model"
)

// EvaluateSection derives the lifecycle state of one section from the
// current answer map. The state is a pure function of the answers, which is
// what makes cascading invalidation a single forward pass: editing any
// upstream answer and re-deriving every section reaches a fixed point in one
// sweep because display-condition references only ever point backwards.
func EvaluateSection(section *model.QuestionnaireSection, answers map[string]any) model.SectionState {
	state := model.SectionState{SectionID: section.ID, Status: model.SectionPending}

	gateResolved := true

	if gc := section.GatingConfig; gc != nil {
		gate, ok := answers[gc.QuestionID]
		if !ok || isEmptyAnswer(gate) {
			gateResolved = false
		} else {
			gateStr := answerAsString(gate)
			switch {
			case containsString(gc.NotApplicableAnswers, gateStr):
				state.Status = model.SectionSkipped
				state.SkippedReason = gc.SkipReasonKey
				if state.SkippedReason == "" {
					state.SkippedReason = fmt.Sprintf("gated out by %s", gc.QuestionID)
				}
				return state
			case containsString(gc.ApplicableAnswers, gateStr):
				// applicability settled, fall through to completion check
			default:
				// answer outside both sets: applicability not yet determined
				gateResolved = false
			}
		}
	}

	if !gateResolved {
		// The section cannot complete or skip until the gate resolves, but
		// it leaves pending as soon as any of its questions is answered.
		if sectionTouched(section, answers) {
			state.Status = model.SectionInProgress
		}
		return state
	}

	if allVisibleAnswered(section.Questions, answers) && sectionTouched(section, answers) {
		now := time.Now()
		state.Status = model.SectionCompleted
		state.CompletedAt = &now
		return state
	}
	if sectionTouched(section, answers) {
		state.Status = model.SectionInProgress
	}
	return state
}

// ReevaluateSections re-derives the state of every section in order and
// updates the response in place: section states, current section, overall
// completion. Called after every answer write, including edits to earlier
// answers, so downstream sections are invalidated and requalified in the
// same pass. Previously recorded CompletedAt timestamps survive as long as
// the section remains completed.
func ReevaluateSections(q *model.Questionnaire, resp *model.ResponseData) {
	ordered := q.SectionsInOrder()
	states := make([]model.SectionState, 0, len(ordered))
	currentID := ""
	allTerminal := true

	for i := range ordered {
		state := EvaluateSection(&ordered[i], resp.Answers)

		if prev := resp.SectionState(state.SectionID); prev != nil &&
			prev.Status == model.SectionCompleted && state.Status == model.SectionCompleted {
			state.CompletedAt = prev.CompletedAt
		}

		if !state.Status.Terminal() {
			allTerminal = false
			if currentID == "" {
				currentID = state.SectionID
			}
		}
		states = append(states, state)
	}

	resp.SectionStates = states
	resp.CurrentSectionID = currentID
	resp.IsCompleted = allTerminal && len(states) > 0
	resp.UpdatedAt = time.Now()
}

// Progress returns the weighted completion percentage, 0-100. Completed and
// skipped sections both count as done; skipped sections were gated out and
// their unanswered questions are excluded from accounting by construction.
func Progress(q *model.Questionnaire, states []model.SectionState) float64 {
	byID := make(map[string]model.SectionStatus, len(states))
	for _, s := range states {
		byID[s.SectionID] = s.Status
	}

	var total, done float64
	for i := range q.Sections {
		w := q.Sections[i].ProgressWeight()
		total += w
		if byID[q.Sections[i].ID].Terminal() {
			done += w
		}
	}
	if total == 0 {
		return 0
	}
	return done / total * 100
}

// allVisibleAnswered walks the question tree and checks that every visible
// required question has a recorded answer. Hidden questions are not required
// while hidden; follow-ups of a hidden question are hidden with it.
func allVisibleAnswered(questions []model.QuestionMetadata, answers map[string]any) bool {
	for i := range questions {
		q := &questions[i]
		if !EvaluateCondition(q.DisplayCondition, answers) {
			continue
		}
		if q.Required {
			a, ok := answers[q.ID]
			if !ok || isEmptyAnswer(a) {
				return false
			}
		}
		if !allVisibleAnswered(q.FollowUpQuestions, answers) {
			return false
		}
	}
	return true
}

// sectionTouched reports whether any question in the section, the gating
// question included, has a recorded answer
func sectionTouched(section *model.QuestionnaireSection, answers map[string]any) bool {
	if gc := section.GatingConfig; gc != nil {
		if a, ok := answers[gc.QuestionID]; ok && !isEmptyAnswer(a) {
			return true
		}
	}
	return anyAnswered(section.Questions, answers)
}

func anyAnswered(questions []model.QuestionMetadata, answers map[string]any) bool {
	for i := range questions {
		if a, ok := answers[questions[i].ID]; ok && !isEmptyAnswer(a) {
			return true
		}
		if anyAnswered(questions[i].FollowUpQuestions, answers) {
			return true
		}
	}
	return false
}

// answerAsString renders an answer for membership checks against gating
// answer sets
func answerAsString(v any) string {
	switch a := v.(type) {
	case string:
		return a
	case bool:
		if a {
			return "true"
		}
		return "false"
	case float64:
		return trimFloat(a)
	case int:
		return fmt.Sprintf("%d", a)
	default:
		return fmt.Sprintf("%v", a)
	}
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
