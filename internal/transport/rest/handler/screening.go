package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"credit-engine/internal/cache"
	"credit-engine/internal/service"
	"credit-engine/internal/transport/rest/middleware"
)

// ScreeningHandler handles screening lifecycle and answer endpoints
type ScreeningHandler struct {
	screeningSvc  *service.ScreeningService
	progressCache cache.ProgressCache
}

// NewScreeningHandler creates a new screening handler
func NewScreeningHandler(screeningSvc *service.ScreeningService, progressCache cache.ProgressCache) *ScreeningHandler {
	return &ScreeningHandler{
		screeningSvc:  screeningSvc,
		progressCache: progressCache,
	}
}

// StartScreeningRequest is the request body for opening a screening
type StartScreeningRequest struct {
	EmployeeID      string `json:"employeeId"`
	QuestionnaireID string `json:"questionnaireId"`
}

// Start handles POST /v1/screenings
func (h *ScreeningHandler) Start(w http.ResponseWriter, r *http.Request) {
	employerID := middleware.GetEmployerID(r.Context())
	if employerID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req StartScreeningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.EmployeeID == "" || req.QuestionnaireID == "" {
		writeError(w, http.StatusBadRequest, "employeeId and questionnaireId are required")
		return
	}

	resp, err := h.screeningSvc.Start(r.Context(), employerID, req.EmployeeID, req.QuestionnaireID)
	if err != nil {
		if errors.Is(err, service.ErrQuestionnaireUnpublished) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /v1/screenings/{screeningId}
func (h *ScreeningHandler) Get(w http.ResponseWriter, r *http.Request) {
	screeningID := mux.Vars(r)["screeningId"]

	screening, err := h.screeningSvc.Get(r.Context(), screeningID)
	if err != nil {
		writeError(w, http.StatusNotFound, "screening not found")
		return
	}

	writeJSON(w, http.StatusOK, screening)
}

// List handles GET /v1/screenings
func (h *ScreeningHandler) List(w http.ResponseWriter, r *http.Request) {
	employerID := middleware.GetEmployerID(r.Context())
	if employerID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	screenings, err := h.screeningSvc.ListByEmployer(r.Context(), employerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"screenings": screenings})
}

// ProgressBoard handles GET /v1/screenings/progress
func (h *ScreeningHandler) ProgressBoard(w http.ResponseWriter, r *http.Request) {
	employerID := middleware.GetEmployerID(r.Context())
	if employerID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limitStr := r.URL.Query().Get("limit")
	limit := 20
	if limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.progressCache.GetBoard(r.Context(), employerID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"progress": entries})
}

// GetResponse handles GET /v1/screenings/{screeningId}/response
func (h *ScreeningHandler) GetResponse(w http.ResponseWriter, r *http.Request) {
	screeningID := mux.Vars(r)["screeningId"]

	resp, err := h.screeningSvc.GetResponse(r.Context(), screeningID)
	if err != nil {
		writeError(w, http.StatusNotFound, "screening not found")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Classify handles POST /v1/screenings/{screeningId}/classify
func (h *ScreeningHandler) Classify(w http.ResponseWriter, r *http.Request) {
	screeningID := mux.Vars(r)["screeningId"]

	classification, err := h.screeningSvc.Classify(r.Context(), screeningID)
	if err != nil {
		if errors.Is(err, service.ErrScreeningIncomplete) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, classification)
}

// SubmitAnswerRequest is the request body for recording one answer
type SubmitAnswerRequest struct {
	QuestionID string      `json:"questionId"`
	Answer     interface{} `json:"answer"`
}

// SubmitAnswer handles POST /v1/screenings/{screeningId}/answers. The
// applicant token is scoped to one screening; a mismatched path is rejected.
func (h *ScreeningHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	screeningID := mux.Vars(r)["screeningId"]
	if screeningID != middleware.GetScreeningID(r.Context()) {
		writeError(w, http.StatusForbidden, "token not valid for this screening")
		return
	}

	var req SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuestionID == "" {
		writeError(w, http.StatusBadRequest, "questionId is required")
		return
	}

	result, err := h.screeningSvc.SubmitAnswer(r.Context(), screeningID, req.QuestionID, req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownQuestion):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrScreeningClosed):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetOwnResponse handles GET /v1/screenings/{screeningId}/my-response for
// the applicant resuming a screening
func (h *ScreeningHandler) GetOwnResponse(w http.ResponseWriter, r *http.Request) {
	screeningID := mux.Vars(r)["screeningId"]
	if screeningID != middleware.GetScreeningID(r.Context()) {
		writeError(w, http.StatusForbidden, "token not valid for this screening")
		return
	}

	resp, err := h.screeningSvc.GetResponse(r.Context(), screeningID)
	if err != nil {
		writeError(w, http.StatusNotFound, "screening not found")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
