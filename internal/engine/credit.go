package engine

import (
	"fmt"
	"math"
	"time"

	"credit-engine/internal/model"
)

// WOTC tiering: 25% of qualified wages from 120 hours, 40% from 400 hours
const (
	lowerTierRate  = 0.25
	upperTierRate  = 0.40
	upperTierHours = 400
)

// Calculate computes the first-year WOTC credit for one target group. Below
// the minimum hours the result is a projection at the 25% tier with no
// actual amount; from the minimum on, the actual amount is the tiered
// percentage of wages up to the qualified wage cap. MaxCreditAmount is
// always the 40% ceiling regardless of hours, for display of potential
// value before hours accrue.
func (e *Engine) Calculate(screeningID, code string, hoursWorked, wagesEarned float64) (*model.CreditCalculation, error) {
	def, ok := e.groups[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTargetGroup, code)
	}
	return e.calculateYear(screeningID, def, 1, def.QualifiedWageCap, hoursWorked, wagesEarned), nil
}

// CalculateSecondYear computes the independent second-year credit for
// multi-year target groups. The second year applies the same tiering against
// its own wage cap; the two years are never summed into one cap.
func (e *Engine) CalculateSecondYear(screeningID, code string, hoursWorked, wagesEarned float64) (*model.CreditCalculation, error) {
	def, ok := e.groups[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTargetGroup, code)
	}
	if !def.MultiYear() {
		return nil, fmt.Errorf("%w: %q", ErrNoSecondYear, code)
	}
	return e.calculateYear(screeningID, def, 2, def.SecondYearWageCap, hoursWorked, wagesEarned), nil
}

// Recalculate recomputes an existing calculation with fresh payroll data.
// Claimed and denied calculations are final: the call fails and the stored
// record is left untouched.
func (e *Engine) Recalculate(existing *model.CreditCalculation, hoursWorked, wagesEarned float64) (*model.CreditCalculation, error) {
	if existing.Status.Final() {
		return nil, fmt.Errorf("%w: %s/%s year %d", ErrCalculationFinal,
			existing.ScreeningID, existing.TargetGroup, existing.Year)
	}

	var fresh *model.CreditCalculation
	var err error
	if existing.Year == 2 {
		fresh, err = e.CalculateSecondYear(existing.ScreeningID, existing.TargetGroup, hoursWorked, wagesEarned)
	} else {
		fresh, err = e.Calculate(existing.ScreeningID, existing.TargetGroup, hoursWorked, wagesEarned)
	}
	if err != nil {
		return nil, err
	}
	fresh.ID = existing.ID
	fresh.CalculatedAt = existing.CalculatedAt
	return fresh, nil
}

func (e *Engine) calculateYear(screeningID string, def model.TargetGroupDefinition, year int, wageCap, hoursWorked, wagesEarned float64) *model.CreditCalculation {
	now := time.Now()
	calc := &model.CreditCalculation{
		ScreeningID:          screeningID,
		TargetGroup:          def.Code,
		Year:                 year,
		MaxCreditAmount:      round2(upperTierRate * wageCap),
		HoursWorked:          hoursWorked,
		WagesEarned:          wagesEarned,
		MinimumHoursRequired: def.HoursRequired,
		CalculatedAt:         now,
		UpdatedAt:            now,
	}

	qualifiedWages := wagesEarned
	if qualifiedWages > wageCap {
		qualifiedWages = wageCap
	}

	if hoursWorked < def.HoursRequired {
		// Forward estimate at the lower tier; no actual amount yet.
		calc.Status = model.CalculationProjected
		calc.ProjectedCreditAmount = round2(lowerTierRate * qualifiedWages)
		return calc
	}

	rate := lowerTierRate
	if hoursWorked >= upperTierHours {
		rate = upperTierRate
	}
	amount := round2(rate * qualifiedWages)

	calc.Status = model.CalculationInProgress
	calc.ProjectedCreditAmount = amount
	calc.ActualCreditAmount = &amount
	return calc
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
