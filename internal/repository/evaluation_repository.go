package repository

import (
	"context"

	"gorm.io/gorm"

	"taskflow/internal/model"
)

// EvaluationRepository defines task evaluation persistence operations.
type EvaluationRepository interface {
	ExistsForTask(ctx context.Context, taskID uint) (bool, error)
	ListByEvaluator(ctx context.Context, evaluatorID uint) ([]model.TaskEvaluation, error)
	ListByAssignee(ctx context.Context, assigneeID uint) ([]model.TaskEvaluation, error)
	// WithTransaction runs fn inside one transaction so the evaluation and its
	// assignee notification either both persist or neither does.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, evaluations EvaluationRepository, notifications NotificationRepository) error) error
	Create(ctx context.Context, evaluation *model.TaskEvaluation) error
}

type evaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository creates a new evaluation repository.
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

// Create creates a new evaluation.
func (r *evaluationRepository) Create(ctx context.Context, evaluation *model.TaskEvaluation) error {
	return r.db.WithContext(ctx).Create(evaluation).Error
}

// ExistsForTask reports whether the task already has an evaluation.
func (r *evaluationRepository) ExistsForTask(ctx context.Context, taskID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TaskEvaluation{}).
		Where("task_id = ?", taskID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByEvaluator returns evaluations authored by the given admin.
func (r *evaluationRepository) ListByEvaluator(ctx context.Context, evaluatorID uint) ([]model.TaskEvaluation, error) {
	var evaluations []model.TaskEvaluation
	err := r.db.WithContext(ctx).
		Preload("Task").
		Preload("Task.CreatedBy").
		Preload("Task.AssignedTo").
		Preload("EvaluatedBy").
		Where("evaluated_by_id = ?", evaluatorID).
		Order("evaluated_at DESC").
		Find(&evaluations).Error
	if err != nil {
		return nil, err
	}
	return evaluations, nil
}

// ListByAssignee returns evaluations of tasks assigned to the given employee.
func (r *evaluationRepository) ListByAssignee(ctx context.Context, assigneeID uint) ([]model.TaskEvaluation, error) {
	var evaluations []model.TaskEvaluation
	err := r.db.WithContext(ctx).
		Preload("Task").
		Preload("Task.CreatedBy").
		Preload("Task.AssignedTo").
		Preload("EvaluatedBy").
		Joins("JOIN tasks ON tasks.id = task_evaluations.task_id").
		Where("tasks.assigned_to_id = ?", assigneeID).
		Order("evaluated_at DESC").
		Find(&evaluations).Error
	if err != nil {
		return nil, err
	}
	return evaluations, nil
}

// WithTransaction executes fn within a database transaction, handing it
// transaction-scoped evaluation and notification repositories.
func (r *evaluationRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, evaluations EvaluationRepository, notifications NotificationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &evaluationRepository{db: tx}, &notificationRepository{db: tx})
	})
}
