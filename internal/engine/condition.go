package engine

import (
	"strconv"

	"credit-engine/internal/model"
)

// EvaluateCondition evaluates a display condition tree against the answers
// recorded so far. A nil condition means "always visible". The function is
// pure and never panics: an unanswered source question or a malformed
// numeric answer simply evaluates to false, since a partially-completed
// questionnaire is a normal runtime state.
func EvaluateCondition(cond *model.DisplayCondition, answers map[string]any) bool {
	if cond == nil {
		return true
	}

	if cond.IsComposite() {
		switch cond.Logic {
		case model.LogicAnd:
			// vacuous truth over an empty child list
			for i := range cond.Conditions {
				if !EvaluateCondition(&cond.Conditions[i], answers) {
					return false
				}
			}
			return true
		case model.LogicOr:
			for i := range cond.Conditions {
				if EvaluateCondition(&cond.Conditions[i], answers) {
					return true
				}
			}
			return false
		default:
			return false
		}
	}

	answer, ok := answers[cond.SourceQuestionID]

	if cond.Operator == model.OpExists {
		return ok && !isEmptyAnswer(answer)
	}

	// Unanswered source hides the dependent question until the dependency
	// is answered.
	if !ok || answer == nil {
		return false
	}

	switch cond.Operator {
	case model.OpEquals:
		return answersEqual(answer, cond.Value)
	case model.OpNotEquals:
		return !answersEqual(answer, cond.Value)
	case model.OpIncludes:
		items, ok := asCollection(answer)
		if !ok {
			return false
		}
		for _, item := range items {
			if answersEqual(item, cond.Value) {
				return true
			}
		}
		return false
	case model.OpGreaterThan:
		a, okA := toNumber(answer)
		b, okB := toNumber(cond.Value)
		return okA && okB && a > b
	case model.OpLessThan:
		a, okA := toNumber(answer)
		b, okB := toNumber(cond.Value)
		return okA && okB && a < b
	default:
		return false
	}
}

// answersEqual compares an answer with a condition value. Numbers compare
// numerically regardless of concrete type (JSON decoding yields float64,
// authored conditions may carry int), everything else compares as strings.
func answersEqual(a, b any) bool {
	na, okA := strictNumber(a)
	nb, okB := strictNumber(b)
	if okA && okB {
		return na == nb
	}
	if okA != okB {
		return false
	}

	sa, okA := asString(a)
	sb, okB := asString(b)
	if okA && okB {
		return sa == sb
	}

	if ba, ok := a.(bool); ok {
		bb, ok := b.(bool)
		return ok && ba == bb
	}

	return false
}

// strictNumber converts numeric Go types only; strings are not coerced here
func strictNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// toNumber coerces an answer to a number for greaterThan/lessThan, accepting
// numeric strings as typed into text fields
func toNumber(v any) (float64, bool) {
	if n, ok := strictNumber(v); ok {
		return n, true
	}
	if s, ok := v.(string); ok {
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asCollection normalizes checkbox-style answers to a slice
func asCollection(v any) ([]any, bool) {
	switch items := v.(type) {
	case []any:
		return items, true
	case []string:
		out := make([]any, len(items))
		for i, s := range items {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

// isEmptyAnswer reports whether a recorded value counts as "no answer" for
// the exists operator and for completion accounting
func isEmptyAnswer(v any) bool {
	switch a := v.(type) {
	case nil:
		return true
	case string:
		return a == ""
	case []any:
		return len(a) == 0
	case []string:
		return len(a) == 0
	}
	return false
}
