package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"taskflow/internal/errors"
	"taskflow/internal/model"
	"taskflow/internal/repository"
)

// CreateEvaluationInput carries the fields accepted on evaluation creation.
type CreateEvaluationInput struct {
	TaskID   uint
	Rating   int
	Feedback string
}

// EvaluationService handles one-time ratings of completed tasks.
type EvaluationService interface {
	List(ctx context.Context, actor Actor) ([]model.TaskEvaluation, error)
	Create(ctx context.Context, actor Actor, in CreateEvaluationInput) (*model.TaskEvaluation, error)
}

type evaluationService struct {
	evaluationRepo repository.EvaluationRepository
	taskRepo       repository.TaskRepository
	userRepo       repository.UserRepository
}

// NewEvaluationService creates a new evaluation service.
func NewEvaluationService(evaluationRepo repository.EvaluationRepository, taskRepo repository.TaskRepository, userRepo repository.UserRepository) EvaluationService {
	return &evaluationService{
		evaluationRepo: evaluationRepo,
		taskRepo:       taskRepo,
		userRepo:       userRepo,
	}
}

// List returns evaluations visible to the actor: employees see evaluations
// of tasks assigned to them, admins see evaluations they authored.
func (s *evaluationService) List(ctx context.Context, actor Actor) ([]model.TaskEvaluation, error) {
	if actor.IsEmployee() {
		return s.evaluationRepo.ListByAssignee(ctx, actor.ID)
	}
	return s.evaluationRepo.ListByEvaluator(ctx, actor.ID)
}

// Create evaluates a completed task. Admin only; a task can be evaluated at
// most once. The assignee is notified in the same transaction.
func (s *evaluationService) Create(ctx context.Context, actor Actor, in CreateEvaluationInput) (*model.TaskEvaluation, error) {
	if !CanEvaluateTask(actor) {
		return nil, errors.ErrPermissionDenied
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, errors.ErrInvalidRating
	}

	task, err := s.taskRepo.FindByID(ctx, in.TaskID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrTaskNotFound
		}
		return nil, err
	}
	if task.Status != model.TaskStatusCompleted {
		return nil, errors.ErrTaskNotCompleted
	}

	exists, err := s.evaluationRepo.ExistsForTask(ctx, in.TaskID)
	if err != nil {
		return nil, fmt.Errorf("check existing evaluation: %w", err)
	}
	if exists {
		return nil, errors.ErrTaskAlreadyEvaluated
	}

	evaluation := &model.TaskEvaluation{
		TaskID:        in.TaskID,
		Rating:        in.Rating,
		Feedback:      in.Feedback,
		EvaluatedByID: actor.ID,
	}

	err = s.evaluationRepo.WithTransaction(ctx, func(ctx context.Context, evaluations repository.EvaluationRepository, notifications repository.NotificationRepository) error {
		if err := evaluations.Create(ctx, evaluation); err != nil {
			return fmt.Errorf("create evaluation: %w", err)
		}
		if task.AssignedToID != nil {
			notification := &model.Notification{
				UserID:  *task.AssignedToID,
				Title:   "Task Evaluation",
				Message: fmt.Sprintf("Your task %q was rated %d", task.Title, evaluation.Rating),
				TaskID:  &task.ID,
			}
			if err := notifications.Create(ctx, notification); err != nil {
				return fmt.Errorf("create notification: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	evaluator, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("load evaluator: %w", err)
	}
	evaluation.Task = *task
	evaluation.EvaluatedBy = *evaluator
	return evaluation, nil
}
