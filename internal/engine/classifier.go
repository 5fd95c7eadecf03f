package engine

import (
	"fmt"

	"credit-engine/internal/model"
)

// Classify turns a terminal answer set into the set of qualifying target
// groups. Only completed sections contribute; questions hidden by their
// display condition never qualify. The returned group list preserves section
// order and is deduplicated, so calling Classify twice on the same answers
// yields the identical result.
//
// The primary group is the qualifying code with the highest MaxCredit in the
// reference table; ties go to the code appearing earliest in section order.
// It is the headline figure shown to the employer, but every qualifying code
// is retained for its own credit calculation.
func (e *Engine) Classify(q *model.Questionnaire, resp *model.ResponseData) (model.Classification, error) {
	var result model.Classification
	seen := make(map[string]bool)

	for _, section := range q.SectionsInOrder() {
		state := resp.SectionState(section.ID)
		if state == nil || state.Status != model.SectionCompleted {
			continue
		}
		codes, err := e.qualifyingCodes(section.Questions, resp.Answers)
		if err != nil {
			return model.Classification{}, err
		}
		for _, code := range codes {
			if !seen[code] {
				seen[code] = true
				result.TargetGroups = append(result.TargetGroups, code)
			}
		}
	}

	for _, code := range result.TargetGroups {
		if result.PrimaryTargetGroup == "" ||
			e.groups[code].MaxCredit > e.groups[result.PrimaryTargetGroup].MaxCredit {
			result.PrimaryTargetGroup = code
		}
	}
	return result, nil
}

// qualifyingCodes walks a question tree collecting target groups whose
// eligibility trigger matched. A code missing from the reference table is a
// configuration error and aborts classification rather than being dropped.
func (e *Engine) qualifyingCodes(questions []model.QuestionMetadata, answers map[string]any) ([]string, error) {
	var codes []string
	for i := range questions {
		q := &questions[i]
		if !EvaluateCondition(q.DisplayCondition, answers) {
			continue
		}
		if q.TargetGroup != "" && answerQualifies(q, answers) {
			if _, ok := e.groups[q.TargetGroup]; !ok {
				return nil, fmt.Errorf("%w: %q referenced by question %s", ErrUnknownTargetGroup, q.TargetGroup, q.ID)
			}
			codes = append(codes, q.TargetGroup)
		}
		nested, err := e.qualifyingCodes(q.FollowUpQuestions, answers)
		if err != nil {
			return nil, err
		}
		codes = append(codes, nested...)
	}
	return codes, nil
}

// answerQualifies checks the recorded answer against the question's
// eligibility trigger and eligible-value set. Checkbox answers qualify when
// any selected value matches.
func answerQualifies(q *model.QuestionMetadata, answers map[string]any) bool {
	answer, ok := answers[q.ID]
	if !ok || isEmptyAnswer(answer) {
		return false
	}

	matches := func(s string) bool {
		if q.EligibilityTrigger != "" && s == q.EligibilityTrigger {
			return true
		}
		return containsString(q.EligibleValues, s)
	}

	if items, ok := asCollection(answer); ok {
		for _, item := range items {
			if matches(answerAsString(item)) {
				return true
			}
		}
		return false
	}
	return matches(answerAsString(answer))
}
