package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"taskflow/internal/model"
)

// TaskFilter narrows task listings. Nil/empty fields are ignored.
type TaskFilter struct {
	Status       model.TaskStatus
	Priority     model.TaskPriority
	CreatedByID  *uint
	AssignedToID *uint
}

// TaskRepository defines task persistence operations.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]model.Task, error)
	CountByStatus(ctx context.Context, assignedToID *uint, statuses ...model.TaskStatus) (int64, error)
	CountOverdue(ctx context.Context, assignedToID *uint, now time.Time) (int64, error)
	// WithTransaction runs fn inside one transaction so a task write and its
	// triggering notification either both persist or neither does.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tasks TaskRepository, notifications NotificationRepository) error) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create creates a new task.
func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// Update updates an existing task.
func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// Delete removes a task by ID.
func (r *taskRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Task{}, id).Error
}

// FindByID finds a task by ID with creator and assignee preloaded.
func (r *taskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Preload("AssignedTo").
		Where("id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns tasks matching the filter, newest first.
func (r *taskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Preload("AssignedTo").
		Order("created_at DESC")

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.CreatedByID != nil {
		q = q.Where("created_by_id = ?", *filter.CreatedByID)
	}
	if filter.AssignedToID != nil {
		q = q.Where("assigned_to_id = ?", *filter.AssignedToID)
	}

	var tasks []model.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// CountByStatus counts tasks, optionally scoped to an assignee and statuses.
func (r *taskRepository) CountByStatus(ctx context.Context, assignedToID *uint, statuses ...model.TaskStatus) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Task{})
	if assignedToID != nil {
		q = q.Where("assigned_to_id = ?", *assignedToID)
	}
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountOverdue counts open tasks whose due date has passed.
func (r *taskRepository) CountOverdue(ctx context.Context, assignedToID *uint, now time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("status IN ?", []model.TaskStatus{model.TaskStatusPending, model.TaskStatusInProgress}).
		Where("due_date < ?", now)
	if assignedToID != nil {
		q = q.Where("assigned_to_id = ?", *assignedToID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// WithTransaction executes fn within a database transaction, handing it
// transaction-scoped task and notification repositories.
func (r *taskRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, tasks TaskRepository, notifications NotificationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &taskRepository{db: tx}, &notificationRepository{db: tx})
	})
}
