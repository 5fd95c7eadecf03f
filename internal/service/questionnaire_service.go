package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"credit-engine/internal/cache"
	"credit-engine/internal/engine"
	"credit-engine/internal/model"
	"credit-engine/internal/repository"
)

var (
	ErrQuestionnaireNotDraft = errors.New("questionnaire is not a draft")
	ErrValidationFailed      = errors.New("questionnaire validation failed")
)

// QuestionnaireService manages questionnaire versions and the publish gate.
// Configuration errors are caught here, at publish time; the engine tolerates
// them silently during answer evaluation, which is exactly why publishing a
// broken questionnaire must be impossible.
type QuestionnaireService struct {
	repo   repository.QuestionnaireRepo
	qCache cache.QuestionnaireCache
	eng    *engine.Engine
}

// NewQuestionnaireService creates a new questionnaire service
func NewQuestionnaireService(repo repository.QuestionnaireRepo, qCache cache.QuestionnaireCache, eng *engine.Engine) *QuestionnaireService {
	return &QuestionnaireService{repo: repo, qCache: qCache, eng: eng}
}

// Create stores a new draft questionnaire version
func (s *QuestionnaireService) Create(ctx context.Context, q *model.Questionnaire) (*model.Questionnaire, error) {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	q.Status = model.QuestionnaireDraft
	if q.Version == 0 {
		q.Version = 1
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to create questionnaire: %w", err)
	}
	return q, nil
}

// Get returns a questionnaire by ID, serving published versions from cache
func (s *QuestionnaireService) Get(ctx context.Context, id string) (*model.Questionnaire, error) {
	if s.qCache != nil {
		if q, err := s.qCache.Get(ctx, id); err == nil && q != nil {
			return q, nil
		}
	}

	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.qCache != nil {
		s.qCache.Set(ctx, q)
	}
	return q, nil
}

// List returns all questionnaire versions
func (s *QuestionnaireService) List(ctx context.Context) ([]*model.Questionnaire, error) {
	return s.repo.List(ctx)
}

// Update replaces the sections of a draft. Published versions are immutable.
func (s *QuestionnaireService) Update(ctx context.Context, q *model.Questionnaire) error {
	existing, err := s.repo.GetByID(ctx, q.ID)
	if err != nil {
		return err
	}
	if existing.Status != model.QuestionnaireDraft {
		return fmt.Errorf("%w: %s", ErrQuestionnaireNotDraft, q.ID)
	}
	return s.repo.Update(ctx, q)
}

// Validate runs the publish-time validation pass without publishing
func (s *QuestionnaireService) Validate(ctx context.Context, id string) ([]engine.ValidationIssue, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.eng.ValidateQuestionnaire(q), nil
}

// Publish validates a draft and, if nothing blocks, marks it published.
// Critical issues are returned alongside ErrValidationFailed so the caller
// can show them.
func (s *QuestionnaireService) Publish(ctx context.Context, id string) ([]engine.ValidationIssue, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status != model.QuestionnaireDraft {
		return nil, fmt.Errorf("%w: %s", ErrQuestionnaireNotDraft, id)
	}

	issues := s.eng.ValidateQuestionnaire(q)
	if engine.HasBlocking(issues) {
		return issues, ErrValidationFailed
	}

	if err := s.repo.SetStatus(ctx, id, model.QuestionnairePublished); err != nil {
		return issues, err
	}
	if s.qCache != nil {
		s.qCache.Invalidate(ctx, id)
	}
	return issues, nil
}
