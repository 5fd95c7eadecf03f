package engine

import (
	"fmt"
	"time"

	"credit-engine/internal/model"
)

// FormulaInput carries the payroll or expenditure figures a state-program
// formula operates on. Only the fields the method uses are read.
type FormulaInput struct {
	HoursWorked float64
	WagesEarned float64
	Expenditure float64
}

// formulaFunc is one pure state-program formula. It returns the base the
// rate was applied to, the applied rate, and the credit before capping.
type formulaFunc func(f model.ProgramFormula, in FormulaInput) (base, rate, raw float64)

// formulaRegistry maps each calculation method to its formula. Dispatch goes
// through this table so adding a method is one entry, not another branch in
// every caller.
var formulaRegistry = map[model.CalculationMethod]formulaFunc{
	model.MethodWagePercentage: func(f model.ProgramFormula, in FormulaInput) (float64, float64, float64) {
		return in.WagesEarned, f.Rate, f.Rate * in.WagesEarned
	},
	model.MethodFlatPerEmployee: func(f model.ProgramFormula, in FormulaInput) (float64, float64, float64) {
		return f.FlatAmount, 1, f.FlatAmount
	},
	model.MethodTieredByHours: func(f model.ProgramFormula, in FormulaInput) (float64, float64, float64) {
		rate := f.LowerTierRate
		if in.HoursWorked >= upperTierHours {
			rate = f.UpperTierRate
		}
		return in.WagesEarned, rate, rate * in.WagesEarned
	},
	model.MethodPercentageOfExpenditure: func(f model.ProgramFormula, in FormulaInput) (float64, float64, float64) {
		return in.Expenditure, f.Rate, f.Rate * in.Expenditure
	},
}

// CalculateProgram computes a state-program credit. The formula is looked up
// from the program's configured method; programs with an hours requirement
// stay projected until the requirement is met, mirroring the WOTC lifecycle.
func (e *Engine) CalculateProgram(screeningID, programCode string, in FormulaInput) (*model.ProgramCreditCalculation, error) {
	formula, ok := e.programs[programCode]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProgram, programCode)
	}
	fn, ok := formulaRegistry[formula.Method]
	if !ok {
		return nil, fmt.Errorf("%w: %q (program %s)", ErrUnknownMethod, formula.Method, programCode)
	}

	base, rate, raw := fn(formula, in)
	capped := raw
	if formula.Cap > 0 && capped > formula.Cap {
		capped = formula.Cap
	}
	capped = round2(capped)

	status := model.CalculationInProgress
	if formula.HoursRequired > 0 && in.HoursWorked < formula.HoursRequired {
		status = model.CalculationProjected
	}

	return &model.ProgramCreditCalculation{
		ScreeningID:       screeningID,
		ProgramCode:       programCode,
		CalculationMethod: formula.Method,
		RateApplied:       rate,
		BaseAmount:        base,
		CappedAmount:      capped,
		FinalCreditAmount: capped,
		Status:            status,
		CalculatedAt:      time.Now(),
	}, nil
}
