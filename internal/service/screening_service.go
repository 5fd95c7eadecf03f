package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"credit-engine/internal/cache"
	"credit-engine/internal/engine"
	"credit-engine/internal/model"
	"credit-engine/internal/repository"
)

var (
	ErrScreeningClosed          = errors.New("screening is closed")
	ErrUnknownQuestion          = errors.New("question not in questionnaire")
	ErrQuestionnaireUnpublished = errors.New("questionnaire is not published")
	ErrScreeningIncomplete      = errors.New("screening has unfinished sections")
)

// ScreeningService runs the answer-submission loop: every answer write, edit
// included, re-derives the state of every section in questionnaire order,
// updates progress, and classifies the respondent once all sections are
// terminal. Operations for one screening must not run concurrently; callers
// shard by screening ID.
type ScreeningService struct {
	screeningRepo  repository.ScreeningRepo
	responseRepo   repository.ResponseRepo
	respCache      cache.ResponseCache
	progressCache  cache.ProgressCache
	questionnaires *QuestionnaireService
	eng            *engine.Engine
	authSvc        *AuthService
	broadcaster    Broadcaster
}

// NewScreeningService creates a new screening service
func NewScreeningService(
	screeningRepo repository.ScreeningRepo,
	responseRepo repository.ResponseRepo,
	respCache cache.ResponseCache,
	progressCache cache.ProgressCache,
	questionnaires *QuestionnaireService,
	eng *engine.Engine,
	authSvc *AuthService,
) *ScreeningService {
	return &ScreeningService{
		screeningRepo:  screeningRepo,
		responseRepo:   responseRepo,
		respCache:      respCache,
		progressCache:  progressCache,
		questionnaires: questionnaires,
		eng:            eng,
		authSvc:        authSvc,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *ScreeningService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// StartScreeningResponse is returned when a screening is opened
type StartScreeningResponse struct {
	Screening *model.Screening `json:"screening"`
	Token     string           `json:"token"`
}

// Start opens a screening for an employee against a published questionnaire
// and issues the applicant's screening-scoped token
func (s *ScreeningService) Start(ctx context.Context, employerID, employeeID, questionnaireID string) (*StartScreeningResponse, error) {
	q, err := s.questionnaires.Get(ctx, questionnaireID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questionnaire: %w", err)
	}
	if q.Status != model.QuestionnairePublished {
		return nil, fmt.Errorf("%w: %s", ErrQuestionnaireUnpublished, questionnaireID)
	}

	screening := &model.Screening{
		ID:              uuid.New().String(),
		EmployerID:      employerID,
		EmployeeID:      employeeID,
		QuestionnaireID: questionnaireID,
		Status:          model.ScreeningOpen,
		CreatedAt:       time.Now(),
	}
	if err := s.screeningRepo.Create(ctx, screening); err != nil {
		return nil, fmt.Errorf("failed to create screening: %w", err)
	}

	token, err := s.authSvc.GenerateScreeningToken(screening.ID, employeeID)
	if err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToEmployer(employerID, "screening_started", map[string]interface{}{
			"screeningId": screening.ID,
			"employeeId":  employeeID,
		})
	}

	return &StartScreeningResponse{Screening: screening, Token: token}, nil
}

// Get returns a screening by ID
func (s *ScreeningService) Get(ctx context.Context, screeningID string) (*model.Screening, error) {
	return s.screeningRepo.GetByID(ctx, screeningID)
}

// ListByEmployer returns an employer's screenings
func (s *ScreeningService) ListByEmployer(ctx context.Context, employerID string) ([]*model.Screening, error) {
	return s.screeningRepo.ListByEmployer(ctx, employerID)
}

// SubmitAnswerResult reports the evaluation outcome of one answer write
type SubmitAnswerResult struct {
	SectionStates    []model.SectionState  `json:"sectionStates"`
	CurrentSectionID string                `json:"currentSectionId,omitempty"`
	Progress         float64               `json:"progress"`
	IsCompleted      bool                  `json:"isCompleted"`
	Classification   *model.Classification `json:"classification,omitempty"`
}

// SubmitAnswer records (or overwrites) one answer and re-evaluates the whole
// questionnaire. When the edit touches an answer earlier sections depend on,
// the forward pass resets and requalifies everything downstream in the same
// call. Once every section is terminal the respondent is classified and the
// result persisted onto the screening.
func (s *ScreeningService) SubmitAnswer(ctx context.Context, screeningID, questionID string, answer any) (*SubmitAnswerResult, error) {
	screening, err := s.screeningRepo.GetByID(ctx, screeningID)
	if err != nil {
		return nil, fmt.Errorf("failed to load screening: %w", err)
	}
	if screening.Status == model.ScreeningClosed {
		return nil, fmt.Errorf("%w: %s", ErrScreeningClosed, screeningID)
	}

	q, err := s.questionnaires.Get(ctx, screening.QuestionnaireID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questionnaire: %w", err)
	}
	if q.SectionForQuestion(questionID) == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuestion, questionID)
	}

	resp, err := s.getOrCreateResponse(ctx, screening, q)
	if err != nil {
		return nil, err
	}

	resp.Answers[questionID] = answer
	engine.ReevaluateSections(q, resp)
	progress := engine.Progress(q, resp.SectionStates)

	if err := s.saveResponse(ctx, resp); err != nil {
		return nil, err
	}
	if s.progressCache != nil {
		s.progressCache.UpdateProgress(ctx, screening.EmployerID, screening.ID, progress)
	}

	result := &SubmitAnswerResult{
		SectionStates:    resp.SectionStates,
		CurrentSectionID: resp.CurrentSectionID,
		Progress:         progress,
		IsCompleted:      resp.IsCompleted,
	}

	if resp.IsCompleted {
		classification, err := s.eng.Classify(q, resp)
		if err != nil {
			// Configuration error: surface it, do not drop the code.
			return nil, fmt.Errorf("classification failed: %w", err)
		}
		if err := s.screeningRepo.SetClassification(ctx, screening.ID, &classification); err != nil {
			return nil, fmt.Errorf("failed to store classification: %w", err)
		}
		result.Classification = &classification

		if s.broadcaster != nil {
			s.broadcaster.BroadcastToEmployer(screening.EmployerID, "classification_ready", map[string]interface{}{
				"screeningId":        screening.ID,
				"targetGroups":       classification.TargetGroups,
				"primaryTargetGroup": classification.PrimaryTargetGroup,
			})
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToScreening(screening.ID, "section_update", result)
		s.broadcaster.BroadcastToEmployer(screening.EmployerID, "progress_update", map[string]interface{}{
			"screeningId": screening.ID,
			"progress":    progress,
		})
	}

	return result, nil
}

// GetResponse returns the current response state for a screening
func (s *ScreeningService) GetResponse(ctx context.Context, screeningID string) (*model.ResponseData, error) {
	screening, err := s.screeningRepo.GetByID(ctx, screeningID)
	if err != nil {
		return nil, err
	}
	q, err := s.questionnaires.Get(ctx, screening.QuestionnaireID)
	if err != nil {
		return nil, err
	}
	return s.getOrCreateResponse(ctx, screening, q)
}

// Classify re-runs classification on a terminal response. Exposed for the
// admin dashboard; SubmitAnswer already classifies on completion.
func (s *ScreeningService) Classify(ctx context.Context, screeningID string) (*model.Classification, error) {
	screening, err := s.screeningRepo.GetByID(ctx, screeningID)
	if err != nil {
		return nil, err
	}
	q, err := s.questionnaires.Get(ctx, screening.QuestionnaireID)
	if err != nil {
		return nil, err
	}
	resp, err := s.getOrCreateResponse(ctx, screening, q)
	if err != nil {
		return nil, err
	}
	if !resp.IsCompleted {
		return nil, fmt.Errorf("%w: %s", ErrScreeningIncomplete, screeningID)
	}

	classification, err := s.eng.Classify(q, resp)
	if err != nil {
		return nil, err
	}
	if err := s.screeningRepo.SetClassification(ctx, screeningID, &classification); err != nil {
		return nil, err
	}
	return &classification, nil
}

func (s *ScreeningService) getOrCreateResponse(ctx context.Context, screening *model.Screening, q *model.Questionnaire) (*model.ResponseData, error) {
	if s.respCache != nil {
		if resp, err := s.respCache.Get(ctx, screening.ID); err == nil && resp != nil {
			return resp, nil
		}
	}

	resp, err := s.responseRepo.GetByScreeningID(ctx, screening.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load response: %w", err)
	}
	if resp == nil {
		resp = &model.ResponseData{
			ScreeningID:     screening.ID,
			QuestionnaireID: q.ID,
			Answers:         map[string]any{},
			CreatedAt:       time.Now(),
		}
		engine.ReevaluateSections(q, resp)
	}
	if resp.Answers == nil {
		resp.Answers = map[string]any{}
	}
	return resp, nil
}

func (s *ScreeningService) saveResponse(ctx context.Context, resp *model.ResponseData) error {
	if err := s.responseRepo.Upsert(ctx, resp); err != nil {
		return fmt.Errorf("failed to persist response: %w", err)
	}
	if s.respCache != nil {
		s.respCache.Set(ctx, resp)
	}
	return nil
}
