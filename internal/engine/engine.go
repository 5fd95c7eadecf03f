package engine

import (
	"errors"

	"credit-engine/internal/model"
)

var (
	// ErrUnknownTargetGroup means a question references a code missing from
	// the target-group table. This is a questionnaire configuration error:
	// it blocks credit calculation and must never be silently dropped.
	ErrUnknownTargetGroup = errors.New("unknown target group code")

	// ErrUnknownProgram means no program formula is configured for the code
	ErrUnknownProgram = errors.New("unknown program code")

	// ErrUnknownMethod means a program formula names a calculation method
	// with no registered implementation
	ErrUnknownMethod = errors.New("unknown calculation method")

	// ErrCalculationFinal is returned when a caller tries to recompute a
	// claimed or denied credit calculation. Claimed amounts may already be
	// filed with a tax authority; the stored amount must stay untouched.
	ErrCalculationFinal = errors.New("credit calculation is claimed or denied")

	// ErrNoSecondYear means the target group has no second-year schedule
	ErrNoSecondYear = errors.New("target group has no second-year wage cap")
)

// Engine evaluates questionnaire gating, classifies respondents into target
// groups and computes credit amounts. Reference tables are injected at
// construction and never mutated; all methods are safe to call from
// different goroutines for different respondents.
type Engine struct {
	groups   map[string]model.TargetGroupDefinition
	programs map[string]model.ProgramFormula
}

// New creates an engine over the given reference tables. The maps are copied
// so later mutation by the caller cannot affect evaluation.
func New(groups map[string]model.TargetGroupDefinition, programs map[string]model.ProgramFormula) *Engine {
	g := make(map[string]model.TargetGroupDefinition, len(groups))
	for code, def := range groups {
		g[code] = def
	}
	p := make(map[string]model.ProgramFormula, len(programs))
	for code, f := range programs {
		p[code] = f
	}
	return &Engine{groups: g, programs: p}
}

// TargetGroup looks up a target-group definition by code
func (e *Engine) TargetGroup(code string) (model.TargetGroupDefinition, bool) {
	def, ok := e.groups[code]
	return def, ok
}
