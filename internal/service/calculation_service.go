package service

import (
	"context"
	"errors"
	"fmt"

	"credit-engine/internal/engine"
	"credit-engine/internal/model"
	"credit-engine/internal/repository"
)

var (
	ErrNotClassified      = errors.New("screening has no classification")
	ErrCalculationMissing = errors.New("credit calculation not found")
)

// CalculationService owns the credit lifecycle around the engine: projecting
// credits at classification time, re-projecting on payroll updates, batch
// recalculation, and the claim/deny transitions that freeze a record.
type CalculationService struct {
	calcRepo      repository.CalculationRepo
	screeningRepo repository.ScreeningRepo
	eng           *engine.Engine
	broadcaster   Broadcaster
}

// NewCalculationService creates a new calculation service
func NewCalculationService(calcRepo repository.CalculationRepo, screeningRepo repository.ScreeningRepo, eng *engine.Engine) *CalculationService {
	return &CalculationService{
		calcRepo:      calcRepo,
		screeningRepo: screeningRepo,
		eng:           eng,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *CalculationService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// ProjectCredits creates the initial projected calculation for every
// qualifying target group of a classified screening. Zero hours and wages:
// the rows carry the 40% ceiling as potential value until payroll arrives.
func (s *CalculationService) ProjectCredits(ctx context.Context, screeningID string) ([]*model.CreditCalculation, error) {
	screening, err := s.screeningRepo.GetByID(ctx, screeningID)
	if err != nil {
		return nil, fmt.Errorf("failed to load screening: %w", err)
	}
	if screening.Classification == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotClassified, screeningID)
	}

	var out []*model.CreditCalculation
	for _, code := range screening.Classification.TargetGroups {
		calc, err := s.eng.Calculate(screeningID, code, 0, 0)
		if err != nil {
			return nil, err
		}
		if err := s.calcRepo.Upsert(ctx, calc); err != nil {
			return nil, fmt.Errorf("failed to store calculation: %w", err)
		}
		out = append(out, calc)
	}
	return out, nil
}

// PayrollUpdate carries fresh hours/wages for one screening. Year selects
// the first or second employment year; second-year updates only apply to
// multi-year target groups.
type PayrollUpdate struct {
	ScreeningID string  `json:"screeningId"`
	Year        int     `json:"year"`
	HoursWorked float64 `json:"hoursWorked"`
	WagesEarned float64 `json:"wagesEarned"`
}

// ApplyPayroll recomputes every calculation of a screening with new payroll
// figures, upserted idempotently by (screeningId, targetGroup, year).
// Hitting a claimed or denied row rejects the whole update with
// ErrCalculationFinal: payroll for a finalized screening indicates a caller
// bug, and the stored amounts stay untouched.
func (s *CalculationService) ApplyPayroll(ctx context.Context, update PayrollUpdate) ([]*model.CreditCalculation, error) {
	screening, err := s.screeningRepo.GetByID(ctx, update.ScreeningID)
	if err != nil {
		return nil, fmt.Errorf("failed to load screening: %w", err)
	}
	if screening.Classification == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotClassified, update.ScreeningID)
	}
	year := update.Year
	if year == 0 {
		year = 1
	}

	var out []*model.CreditCalculation
	for _, code := range screening.Classification.TargetGroups {
		if year == 2 {
			if def, ok := s.eng.TargetGroup(code); !ok || !def.MultiYear() {
				continue
			}
		}

		existing, err := s.calcRepo.Get(ctx, update.ScreeningID, code, year)
		if err != nil {
			return nil, fmt.Errorf("failed to load calculation: %w", err)
		}

		var calc *model.CreditCalculation
		if existing != nil {
			calc, err = s.eng.Recalculate(existing, update.HoursWorked, update.WagesEarned)
		} else if year == 2 {
			calc, err = s.eng.CalculateSecondYear(update.ScreeningID, code, update.HoursWorked, update.WagesEarned)
		} else {
			calc, err = s.eng.Calculate(update.ScreeningID, code, update.HoursWorked, update.WagesEarned)
		}
		if err != nil {
			return nil, err
		}

		if err := s.calcRepo.Upsert(ctx, calc); err != nil {
			return nil, fmt.Errorf("failed to store calculation: %w", err)
		}
		out = append(out, calc)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToEmployer(screening.EmployerID, "credit_update", map[string]interface{}{
			"screeningId":  update.ScreeningID,
			"year":         year,
			"calculations": out,
		})
	}
	return out, nil
}

// BatchResult is the outcome for one item of a batch recalculation
type BatchResult struct {
	ScreeningID  string                     `json:"screeningId"`
	Calculations []*model.CreditCalculation `json:"calculations,omitempty"`
	Error        string                     `json:"error,omitempty"`
}

// ApplyPayrollBatch recalculates many screenings, one result per item. A
// failing item never aborts the batch; its error is reported in place.
func (s *CalculationService) ApplyPayrollBatch(ctx context.Context, updates []PayrollUpdate) []BatchResult {
	results := make([]BatchResult, 0, len(updates))
	for _, update := range updates {
		result := BatchResult{ScreeningID: update.ScreeningID}
		calcs, err := s.ApplyPayroll(ctx, update)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Calculations = calcs
		}
		results = append(results, result)
	}
	return results
}

// GetByScreening returns all credit calculations for a screening
func (s *CalculationService) GetByScreening(ctx context.Context, screeningID string) ([]*model.CreditCalculation, error) {
	return s.calcRepo.GetByScreening(ctx, screeningID)
}

// Claim marks a calculation as filed by finance. The record becomes final:
// later payroll updates for it are rejected.
func (s *CalculationService) Claim(ctx context.Context, screeningID, targetGroup string, year int) error {
	return s.finalize(ctx, screeningID, targetGroup, year, model.CalculationClaimed)
}

// Deny marks a calculation as denied by the certifying agency
func (s *CalculationService) Deny(ctx context.Context, screeningID, targetGroup string, year int) error {
	return s.finalize(ctx, screeningID, targetGroup, year, model.CalculationDenied)
}

func (s *CalculationService) finalize(ctx context.Context, screeningID, targetGroup string, year int, status model.CalculationStatus) error {
	existing, err := s.calcRepo.Get(ctx, screeningID, targetGroup, year)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: %s/%s year %d", ErrCalculationMissing, screeningID, targetGroup, year)
	}
	if existing.Status.Final() {
		return fmt.Errorf("%w: %s/%s year %d", engine.ErrCalculationFinal, screeningID, targetGroup, year)
	}
	return s.calcRepo.SetStatus(ctx, screeningID, targetGroup, year, status)
}

// CalculateProgram computes and stores a state-program credit for a screening
func (s *CalculationService) CalculateProgram(ctx context.Context, screeningID, programCode string, in engine.FormulaInput) (*model.ProgramCreditCalculation, error) {
	if _, err := s.screeningRepo.GetByID(ctx, screeningID); err != nil {
		return nil, fmt.Errorf("failed to load screening: %w", err)
	}
	calc, err := s.eng.CalculateProgram(screeningID, programCode, in)
	if err != nil {
		return nil, err
	}
	if err := s.calcRepo.UpsertProgram(ctx, calc); err != nil {
		return nil, fmt.Errorf("failed to store program calculation: %w", err)
	}
	return calc, nil
}

// GetProgramsByScreening returns all program calculations for a screening
func (s *CalculationService) GetProgramsByScreening(ctx context.Context, screeningID string) ([]*model.ProgramCreditCalculation, error) {
	return s.calcRepo.GetProgramsByScreening(ctx, screeningID)
}
