package model

import "time"

// CalculationStatus is the lifecycle of a credit calculation
type CalculationStatus string

const (
	CalculationProjected  CalculationStatus = "projected"
	CalculationInProgress CalculationStatus = "in_progress"
	CalculationClaimed    CalculationStatus = "claimed"
	CalculationDenied     CalculationStatus = "denied"
)

// Final reports whether the calculation may no longer be recomputed
func (s CalculationStatus) Final() bool {
	return s == CalculationClaimed || s == CalculationDenied
}

// CreditCalculation is one WOTC credit row for one screening and one target
// group. Year distinguishes the first and second employment year for
// multi-year groups; single-year groups always use Year 1.
type CreditCalculation struct {
	ID                    string            `json:"id" bson:"_id,omitempty"`
	ScreeningID           string            `json:"screeningId" bson:"screeningId"`
	TargetGroup           string            `json:"targetGroup" bson:"targetGroup"`
	Year                  int               `json:"year" bson:"year"`
	MaxCreditAmount       float64           `json:"maxCreditAmount" bson:"maxCreditAmount"`
	ProjectedCreditAmount float64           `json:"projectedCreditAmount" bson:"projectedCreditAmount"`
	ActualCreditAmount    *float64          `json:"actualCreditAmount,omitempty" bson:"actualCreditAmount,omitempty"`
	HoursWorked           float64           `json:"hoursWorked" bson:"hoursWorked"`
	WagesEarned           float64           `json:"wagesEarned" bson:"wagesEarned"`
	MinimumHoursRequired  float64           `json:"minimumHoursRequired" bson:"minimumHoursRequired"`
	Status                CalculationStatus `json:"status" bson:"status"`
	CalculatedAt          time.Time         `json:"calculatedAt" bson:"calculatedAt"`
	UpdatedAt             time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// CalculationMethod selects a state-program credit formula
type CalculationMethod string

const (
	MethodWagePercentage          CalculationMethod = "wage_percentage"
	MethodFlatPerEmployee         CalculationMethod = "flat_per_employee"
	MethodTieredByHours           CalculationMethod = "tiered_by_hours"
	MethodPercentageOfExpenditure CalculationMethod = "percentage_of_expenditure"
)

// ProgramFormula is the configuration for one state-program credit. Looked
// up by the program's leverage type rather than the fixed WOTC table.
type ProgramFormula struct {
	ProgramCode   string            `json:"programCode" bson:"_id"`
	Name          string            `json:"name" bson:"name"`
	Method        CalculationMethod `json:"method" bson:"method"`
	Rate          float64           `json:"rate" bson:"rate"`                   // wage_percentage / percentage_of_expenditure
	FlatAmount    float64           `json:"flatAmount" bson:"flatAmount"`       // flat_per_employee
	LowerTierRate float64           `json:"lowerTierRate" bson:"lowerTierRate"` // tiered_by_hours
	UpperTierRate float64           `json:"upperTierRate" bson:"upperTierRate"` // tiered_by_hours
	Cap           float64           `json:"cap" bson:"cap"`                     // 0 means uncapped
	HoursRequired float64           `json:"hoursRequired" bson:"hoursRequired"`
}

// ProgramCreditCalculation is a CreditCalculation generalized for
// state-program formulas.
type ProgramCreditCalculation struct {
	ID                string            `json:"id" bson:"_id,omitempty"`
	ScreeningID       string            `json:"screeningId" bson:"screeningId"`
	ProgramCode       string            `json:"programCode" bson:"programCode"`
	CalculationMethod CalculationMethod `json:"calculationMethod" bson:"calculationMethod"`
	RateApplied       float64           `json:"rateApplied" bson:"rateApplied"`
	BaseAmount        float64           `json:"baseAmount" bson:"baseAmount"` // wages, expenditure or headcount base
	CappedAmount      float64           `json:"cappedAmount" bson:"cappedAmount"`
	FinalCreditAmount float64           `json:"finalCreditAmount" bson:"finalCreditAmount"`
	Status            CalculationStatus `json:"status" bson:"status"`
	CalculatedAt      time.Time         `json:"calculatedAt" bson:"calculatedAt"`
}
