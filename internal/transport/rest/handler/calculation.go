package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"credit-engine/internal/engine"
	"credit-engine/internal/service"
)

// CalculationHandler handles credit calculation endpoints
type CalculationHandler struct {
	calcSvc *service.CalculationService
}

// NewCalculationHandler creates a new calculation handler
func NewCalculationHandler(calcSvc *service.CalculationService) *CalculationHandler {
	return &CalculationHandler{calcSvc: calcSvc}
}

// Project handles POST /v1/screenings/{screeningId}/credits/project
func (h *CalculationHandler) Project(w http.ResponseWriter, r *http.Request) {
	screeningID := mux.Vars(r)["screeningId"]

	calcs, err := h.calcSvc.ProjectCredits(r.Context(), screeningID)
	if err != nil {
		if errors.Is(err, service.ErrNotClassified) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"calculations": calcs})
}

// Get handles GET /v1/screenings/{screeningId}/credits
func (h *CalculationHandler) Get(w http.ResponseWriter, r *http.Request) {
	screeningID := mux.Vars(r)["screeningId"]

	calcs, err := h.calcSvc.GetByScreening(r.Context(), screeningID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"calculations": calcs})
}

// ApplyPayroll handles PUT /v1/screenings/{screeningId}/credits/payroll
func (h *CalculationHandler) ApplyPayroll(w http.ResponseWriter, r *http.Request) {
	screeningID := mux.Vars(r)["screeningId"]

	var update service.PayrollUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	update.ScreeningID = screeningID

	calcs, err := h.calcSvc.ApplyPayroll(r.Context(), update)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrCalculationFinal):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrNotClassified):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"calculations": calcs})
}

// ApplyPayrollBatch handles POST /v1/credits/payroll-batch
func (h *CalculationHandler) ApplyPayrollBatch(w http.ResponseWriter, r *http.Request) {
	var updates []service.PayrollUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	results := h.calcSvc.ApplyPayrollBatch(r.Context(), updates)
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// FinalizeRequest is the request body for claiming or denying a calculation
type FinalizeRequest struct {
	TargetGroup string `json:"targetGroup"`
	Year        int    `json:"year"`
}

// Claim handles POST /v1/screenings/{screeningId}/credits/claim
func (h *CalculationHandler) Claim(w http.ResponseWriter, r *http.Request) {
	h.finalize(w, r, h.calcSvc.Claim)
}

// Deny handles POST /v1/screenings/{screeningId}/credits/deny
func (h *CalculationHandler) Deny(w http.ResponseWriter, r *http.Request) {
	h.finalize(w, r, h.calcSvc.Deny)
}

func (h *CalculationHandler) finalize(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, screeningID, targetGroup string, year int) error) {
	screeningID := mux.Vars(r)["screeningId"]

	var req FinalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TargetGroup == "" {
		writeError(w, http.StatusBadRequest, "targetGroup is required")
		return
	}
	year := req.Year
	if year == 0 {
		year = 1
	}

	if err := fn(r.Context(), screeningID, req.TargetGroup, year); err != nil {
		switch {
		case errors.Is(err, service.ErrCalculationMissing):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, engine.ErrCalculationFinal):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ProgramCalculationRequest is the request body for a state-program calculation
type ProgramCalculationRequest struct {
	ProgramCode string  `json:"programCode"`
	HoursWorked float64 `json:"hoursWorked"`
	WagesEarned float64 `json:"wagesEarned"`
	Expenditure float64 `json:"expenditure"`
}

// CalculateProgram handles POST /v1/screenings/{screeningId}/credits/programs
func (h *CalculationHandler) CalculateProgram(w http.ResponseWriter, r *http.Request) {
	screeningID := mux.Vars(r)["screeningId"]

	var req ProgramCalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProgramCode == "" {
		writeError(w, http.StatusBadRequest, "programCode is required")
		return
	}

	calc, err := h.calcSvc.CalculateProgram(r.Context(), screeningID, req.ProgramCode, engine.FormulaInput{
		HoursWorked: req.HoursWorked,
		WagesEarned: req.WagesEarned,
		Expenditure: req.Expenditure,
	})
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrUnknownProgram), errors.Is(err, engine.ErrUnknownMethod):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, calc)
}

// GetPrograms handles GET /v1/screenings/{screeningId}/credits/programs
func (h *CalculationHandler) GetPrograms(w http.ResponseWriter, r *http.Request) {
	screeningID := mux.Vars(r)["screeningId"]

	calcs, err := h.calcSvc.GetProgramsByScreening(r.Context(), screeningID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"calculations": calcs})
}
