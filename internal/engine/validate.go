package engine

import (
	"fmt"

	"credit-engine/internal/model"
)

// IssueLevel grades a validation finding
type IssueLevel string

const (
	LevelCritical IssueLevel = "CRITICAL"
	LevelWarning  IssueLevel = "WARNING"
)

// ValidationIssue is one finding from the publish-time validation pass
type ValidationIssue struct {
	Level   IssueLevel `json:"level"`
	Code    string     `json:"code"`
	Message string     `json:"message"`
}

// HasBlocking reports whether any issue blocks publishing
func HasBlocking(issues []ValidationIssue) bool {
	for _, issue := range issues {
		if issue.Level == LevelCritical {
			return true
		}
	}
	return false
}

// ValidateQuestionnaire runs the configuration checks that must hold before
// a questionnaire version is published. Everything caught here is tolerated
// silently at evaluation time (predicates default to false), so publishing a
// questionnaire with critical issues would produce screenings that can never
// complete or classify.
func (e *Engine) ValidateQuestionnaire(q *model.Questionnaire) []ValidationIssue {
	var issues []ValidationIssue

	critical := func(code, format string, args ...any) {
		issues = append(issues, ValidationIssue{Level: LevelCritical, Code: code, Message: fmt.Sprintf(format, args...)})
	}
	warning := func(code, format string, args ...any) {
		issues = append(issues, ValidationIssue{Level: LevelWarning, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	// answered tracks question IDs reachable before the question under
	// inspection: earlier sections plus earlier questions in the current
	// section. A display condition may only reference members of this set,
	// which rules out forward and cyclic references in one pass.
	answered := make(map[string]bool)
	seen := make(map[string]string) // question ID -> section ID

	for _, section := range q.SectionsInOrder() {
		if len(section.Questions) == 0 {
			warning("EMPTY_SECTION", "section %s has no questions", section.ID)
		}

		if gc := section.GatingConfig; gc != nil {
			if !containsQuestionID(section.Questions, gc.QuestionID) {
				critical("GATING_QUESTION_UNKNOWN", "section %s gates on %q which is not one of its questions", section.ID, gc.QuestionID)
			}
			for _, a := range gc.ApplicableAnswers {
				if containsString(gc.NotApplicableAnswers, a) {
					critical("GATING_ANSWERS_OVERLAP", "section %s: answer %q is both applicable and not applicable", section.ID, a)
				}
			}
			if len(gc.ApplicableAnswers) == 0 {
				warning("GATING_NEVER_APPLICABLE", "section %s can never become applicable", section.ID)
			}
		}

		// The gating question is answered first within its section.
		if gc := section.GatingConfig; gc != nil {
			answered[gc.QuestionID] = true
		}

		e.validateQuestions(section.ID, section.Questions, answered, seen, critical, warning)
	}

	return issues
}

func (e *Engine) validateQuestions(sectionID string, questions []model.QuestionMetadata, answered map[string]bool, seen map[string]string, critical, warning func(code, format string, args ...any)) {
	for i := range questions {
		q := &questions[i]

		if prev, dup := seen[q.ID]; dup {
			critical("DUPLICATE_QUESTION_ID", "question %q appears in sections %s and %s", q.ID, prev, sectionID)
		}
		seen[q.ID] = sectionID

		if q.DisplayCondition != nil {
			validateCondition(sectionID, q.ID, q.DisplayCondition, answered, critical, warning)
		}

		if q.TargetGroup != "" {
			if _, ok := e.groups[q.TargetGroup]; !ok {
				critical("UNKNOWN_TARGET_GROUP", "question %q references target group %q which is not in the reference table", q.ID, q.TargetGroup)
			}
			if q.EligibilityTrigger == "" && len(q.EligibleValues) == 0 {
				warning("TARGET_GROUP_UNREACHABLE", "question %q names target group %q but no answer value triggers it", q.ID, q.TargetGroup)
			}
		} else if q.EligibilityTrigger != "" || len(q.EligibleValues) > 0 {
			warning("TRIGGER_WITHOUT_TARGET_GROUP", "question %q has eligibility values but no target group", q.ID)
		}

		answered[q.ID] = true
		e.validateQuestions(sectionID, q.FollowUpQuestions, answered, seen, critical, warning)
	}
}

// validateCondition checks every simple condition in the tree against the
// set of questions answered before the dependent question is reachable
func validateCondition(sectionID, questionID string, cond *model.DisplayCondition, answered map[string]bool, critical, warning func(code, format string, args ...any)) {
	if cond.IsComposite() {
		if cond.Logic != model.LogicAnd && cond.Logic != model.LogicOr {
			critical("UNKNOWN_CONDITION_LOGIC", "question %q: unknown logic %q", questionID, cond.Logic)
		}
		if cond.Logic == model.LogicOr && len(cond.Conditions) == 0 {
			warning("UNSATISFIABLE_CONDITION", "question %q: OR over no conditions never shows the question", questionID)
		}
		for i := range cond.Conditions {
			validateCondition(sectionID, questionID, &cond.Conditions[i], answered, critical, warning)
		}
		return
	}

	switch cond.Operator {
	case model.OpEquals, model.OpNotEquals, model.OpIncludes, model.OpGreaterThan, model.OpLessThan, model.OpExists:
	default:
		critical("UNKNOWN_CONDITION_OPERATOR", "question %q: unknown operator %q", questionID, cond.Operator)
	}

	if !answered[cond.SourceQuestionID] {
		critical("FORWARD_CONDITION_REFERENCE", "question %q in section %s depends on %q which is not answered before it", questionID, sectionID, cond.SourceQuestionID)
	}
}

func containsQuestionID(questions []model.QuestionMetadata, id string) bool {
	for i := range questions {
		if questions[i].ID == id {
			return true
		}
		if containsQuestionID(questions[i].FollowUpQuestions, id) {
			return true
		}
	}
	return false
}
