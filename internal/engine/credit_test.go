package engine

import (
	"errors"
	"testing"

	"credit-engine/internal/model"
)

func TestCalculateBelowMinimumHours(t *testing.T) {
	e := testEngine()

	calc, err := e.Calculate("scr-1", "SNAP", 119, 3000)
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	if calc.Status != model.CalculationProjected {
		t.Fatalf("119 hours: expected projected, got %s", calc.Status)
	}
	if calc.ActualCreditAmount != nil {
		t.Fatalf("119 hours: expected nil actual amount, got %v", *calc.ActualCreditAmount)
	}
	// Forward estimate at the 25% tier.
	if calc.ProjectedCreditAmount != 750 {
		t.Fatalf("expected projected 750, got %v", calc.ProjectedCreditAmount)
	}
	if calc.MinimumHoursRequired != 120 {
		t.Fatalf("expected minimum hours 120, got %v", calc.MinimumHoursRequired)
	}
}

func TestCalculateTierBoundaries(t *testing.T) {
	e := testEngine()

	tests := []struct {
		hours      float64
		wantStatus model.CalculationStatus
		wantActual float64 // 0 means nil
	}{
		{119, model.CalculationProjected, 0},
		{120, model.CalculationInProgress, 0.25 * 3000},
		{399, model.CalculationInProgress, 0.25 * 3000},
		{400, model.CalculationInProgress, 0.40 * 3000},
		{450, model.CalculationInProgress, 0.40 * 3000},
	}

	for _, tt := range tests {
		calc, err := e.Calculate("scr-1", "SNAP", tt.hours, 3000)
		if err != nil {
			t.Fatalf("calculate at %v hours failed: %v", tt.hours, err)
		}
		if calc.Status != tt.wantStatus {
			t.Fatalf("%v hours: expected status %s, got %s", tt.hours, tt.wantStatus, calc.Status)
		}
		if tt.wantActual == 0 {
			if calc.ActualCreditAmount != nil {
				t.Fatalf("%v hours: expected nil actual, got %v", tt.hours, *calc.ActualCreditAmount)
			}
			continue
		}
		if calc.ActualCreditAmount == nil || *calc.ActualCreditAmount != tt.wantActual {
			t.Fatalf("%v hours: expected actual %v, got %v", tt.hours, tt.wantActual, calc.ActualCreditAmount)
		}
	}
}

func TestCalculateWageCap(t *testing.T) {
	e := testEngine()

	// SNAP cap is 6000: wages above the cap must not inflate the credit.
	calc, err := e.Calculate("scr-1", "SNAP", 400, 10000)
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	if calc.ActualCreditAmount == nil || *calc.ActualCreditAmount != 2400 {
		t.Fatalf("expected actual 2400 (40%% of capped 6000), got %v", calc.ActualCreditAmount)
	}
}

func TestCalculateVeteranScenario(t *testing.T) {
	e := testEngine()

	calc, err := e.Calculate("scr-1", "V", 450, 20000)
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	if calc.ActualCreditAmount == nil || *calc.ActualCreditAmount != 5600 {
		t.Fatalf("expected actual 5600 (40%% of 14000 cap), got %v", calc.ActualCreditAmount)
	}
	if calc.MaxCreditAmount != 5600 {
		t.Fatalf("expected max 5600, got %v", calc.MaxCreditAmount)
	}
}

func TestCalculateMaxIsCeilingRegardlessOfHours(t *testing.T) {
	e := testEngine()

	calc, err := e.Calculate("scr-1", "V", 10, 500)
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	// 40% of the 14000 wage cap, shown as potential value before hours accrue.
	if calc.MaxCreditAmount != 5600 {
		t.Fatalf("expected max 5600 at 10 hours, got %v", calc.MaxCreditAmount)
	}
}

func TestCalculateSecondYearIndependent(t *testing.T) {
	e := testEngine()

	// IV-B long-term assistance: 500 first-year hours at $9000, 300
	// second-year hours at $8000. Two independent tiered calculations.
	first, err := e.Calculate("scr-1", "IV-B", 500, 9000)
	if err != nil {
		t.Fatalf("first year failed: %v", err)
	}
	second, err := e.CalculateSecondYear("scr-1", "IV-B", 300, 8000)
	if err != nil {
		t.Fatalf("second year failed: %v", err)
	}

	if first.ActualCreditAmount == nil || *first.ActualCreditAmount != 3600 {
		t.Fatalf("first year: expected 3600 (40%% of 9000), got %v", first.ActualCreditAmount)
	}
	if second.ActualCreditAmount == nil || *second.ActualCreditAmount != 2000 {
		t.Fatalf("second year: expected 2000 (25%% of 8000), got %v", second.ActualCreditAmount)
	}
	if first.Year != 1 || second.Year != 2 {
		t.Fatalf("expected years 1 and 2, got %d and %d", first.Year, second.Year)
	}
}

func TestCalculateSecondYearRequiresSchedule(t *testing.T) {
	e := testEngine()

	if _, err := e.CalculateSecondYear("scr-1", "SNAP", 400, 5000); !errors.Is(err, ErrNoSecondYear) {
		t.Fatalf("expected ErrNoSecondYear for SNAP, got %v", err)
	}
}

func TestCalculateUnknownCode(t *testing.T) {
	e := testEngine()

	if _, err := e.Calculate("scr-1", "NOPE", 400, 5000); !errors.Is(err, ErrUnknownTargetGroup) {
		t.Fatalf("expected ErrUnknownTargetGroup, got %v", err)
	}
}

func TestRecalculateUpdatesAmounts(t *testing.T) {
	e := testEngine()

	calc, err := e.Calculate("scr-1", "V", 100, 2000)
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	calc.ID = "calc-1"

	updated, err := e.Recalculate(calc, 420, 15000)
	if err != nil {
		t.Fatalf("recalculate failed: %v", err)
	}
	if updated.ID != "calc-1" {
		t.Fatalf("recalculation must keep the record identity, got %q", updated.ID)
	}
	if updated.ActualCreditAmount == nil || *updated.ActualCreditAmount != 5600 {
		t.Fatalf("expected actual 5600 after payroll update, got %v", updated.ActualCreditAmount)
	}
}

func TestRecalculateClaimedRejected(t *testing.T) {
	e := testEngine()

	calc, err := e.Calculate("scr-1", "V", 450, 20000)
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	calc.Status = model.CalculationClaimed
	storedAmount := *calc.ActualCreditAmount

	if _, err := e.Recalculate(calc, 500, 25000); !errors.Is(err, ErrCalculationFinal) {
		t.Fatalf("expected ErrCalculationFinal, got %v", err)
	}
	if *calc.ActualCreditAmount != storedAmount {
		t.Fatalf("stored amount changed from %v to %v", storedAmount, *calc.ActualCreditAmount)
	}

	calc.Status = model.CalculationDenied
	if _, err := e.Recalculate(calc, 500, 25000); !errors.Is(err, ErrCalculationFinal) {
		t.Fatalf("expected ErrCalculationFinal for denied, got %v", err)
	}
}

func TestCalculateProgramFormulas(t *testing.T) {
	programs := map[string]model.ProgramFormula{
		"CA-HIRE":  {ProgramCode: "CA-HIRE", Method: model.MethodWagePercentage, Rate: 0.1, Cap: 5000},
		"NY-FLAT":  {ProgramCode: "NY-FLAT", Method: model.MethodFlatPerEmployee, FlatAmount: 1500},
		"TX-TIER":  {ProgramCode: "TX-TIER", Method: model.MethodTieredByHours, LowerTierRate: 0.15, UpperTierRate: 0.3, Cap: 4000, HoursRequired: 120},
		"WA-TRAIN": {ProgramCode: "WA-TRAIN", Method: model.MethodPercentageOfExpenditure, Rate: 0.5, Cap: 2500},
	}
	e := New(model.DefaultTargetGroups(), programs)

	tests := []struct {
		program    string
		in         FormulaInput
		wantFinal  float64
		wantStatus model.CalculationStatus
	}{
		{"CA-HIRE", FormulaInput{WagesEarned: 30000}, 3000, model.CalculationInProgress},
		{"CA-HIRE", FormulaInput{WagesEarned: 80000}, 5000, model.CalculationInProgress}, // capped
		{"NY-FLAT", FormulaInput{WagesEarned: 12000}, 1500, model.CalculationInProgress},
		{"TX-TIER", FormulaInput{HoursWorked: 200, WagesEarned: 10000}, 1500, model.CalculationInProgress},
		{"TX-TIER", FormulaInput{HoursWorked: 450, WagesEarned: 10000}, 3000, model.CalculationInProgress},
		{"TX-TIER", FormulaInput{HoursWorked: 80, WagesEarned: 10000}, 1500, model.CalculationProjected},
		{"WA-TRAIN", FormulaInput{Expenditure: 4000}, 2000, model.CalculationInProgress},
		{"WA-TRAIN", FormulaInput{Expenditure: 10000}, 2500, model.CalculationInProgress}, // capped
	}

	for _, tt := range tests {
		calc, err := e.CalculateProgram("scr-1", tt.program, tt.in)
		if err != nil {
			t.Fatalf("%s: calculate failed: %v", tt.program, err)
		}
		if calc.FinalCreditAmount != tt.wantFinal {
			t.Fatalf("%s: expected final %v, got %v", tt.program, tt.wantFinal, calc.FinalCreditAmount)
		}
		if calc.Status != tt.wantStatus {
			t.Fatalf("%s: expected status %s, got %s", tt.program, tt.wantStatus, calc.Status)
		}
	}
}

func TestCalculateProgramUnknown(t *testing.T) {
	e := testEngine()

	if _, err := e.CalculateProgram("scr-1", "NOPE", FormulaInput{}); !errors.Is(err, ErrUnknownProgram) {
		t.Fatalf("expected ErrUnknownProgram, got %v", err)
	}
}
