package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"credit-engine/internal/model"
	"credit-engine/internal/service"
)

// QuestionnaireHandler handles questionnaire authoring endpoints
type QuestionnaireHandler struct {
	questionnaireSvc *service.QuestionnaireService
}

// NewQuestionnaireHandler creates a new questionnaire handler
func NewQuestionnaireHandler(questionnaireSvc *service.QuestionnaireService) *QuestionnaireHandler {
	return &QuestionnaireHandler{questionnaireSvc: questionnaireSvc}
}

// CreateQuestionnaireRequest is the request body for creating a questionnaire
type CreateQuestionnaireRequest struct {
	Name     string                       `json:"name"`
	Version  int                          `json:"version"`
	Sections []model.QuestionnaireSection `json:"sections"`
}

// Create handles POST /v1/questionnaires
func (h *QuestionnaireHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateQuestionnaireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	q := &model.Questionnaire{
		Name:     req.Name,
		Version:  req.Version,
		Sections: req.Sections,
	}
	created, err := h.questionnaireSvc.Create(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /v1/questionnaires/{questionnaireId}
func (h *QuestionnaireHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["questionnaireId"]

	q, err := h.questionnaireSvc.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "questionnaire not found")
		return
	}

	writeJSON(w, http.StatusOK, q)
}

// List handles GET /v1/questionnaires
func (h *QuestionnaireHandler) List(w http.ResponseWriter, r *http.Request) {
	questionnaires, err := h.questionnaireSvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"questionnaires": questionnaires})
}

// Update handles PUT /v1/questionnaires/{questionnaireId}
func (h *QuestionnaireHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["questionnaireId"]

	var req CreateQuestionnaireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q := &model.Questionnaire{
		ID:       id,
		Name:     req.Name,
		Version:  req.Version,
		Sections: req.Sections,
	}
	if err := h.questionnaireSvc.Update(r.Context(), q); err != nil {
		if errors.Is(err, service.ErrQuestionnaireNotDraft) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, q)
}

// Validate handles POST /v1/questionnaires/{questionnaireId}/validate
func (h *QuestionnaireHandler) Validate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["questionnaireId"]

	issues, err := h.questionnaireSvc.Validate(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "questionnaire not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"issues": issues})
}

// Publish handles POST /v1/questionnaires/{questionnaireId}/publish
func (h *QuestionnaireHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["questionnaireId"]

	issues, err := h.questionnaireSvc.Publish(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":  err.Error(),
				"issues": issues,
			})
			return
		}
		if errors.Is(err, service.ErrQuestionnaireNotDraft) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "published", "issues": issues})
}
