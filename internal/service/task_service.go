package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskflow/internal/cache"
	"taskflow/internal/errors"
	"taskflow/internal/model"
	"taskflow/internal/repository"
)

const statsCacheTTL = time.Minute

// CreateTaskInput carries the fields accepted on task creation.
type CreateTaskInput struct {
	Title        string
	Description  string
	AssignedToID *uint
	Priority     model.TaskPriority
	DueDate      time.Time
}

// UpdateTaskInput carries a partial task update. Nil fields are left
// unchanged. Employees may only supply Status.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	AssignedToID *uint
	Status       *model.TaskStatus
	Priority     *model.TaskPriority
	DueDate      *time.Time
}

// HasNonStatusFields reports whether the update touches anything beyond status.
func (in UpdateTaskInput) HasNonStatusFields() bool {
	return in.Title != nil || in.Description != nil || in.AssignedToID != nil ||
		in.Priority != nil || in.DueDate != nil
}

// ListTasksInput narrows a task listing.
type ListTasksInput struct {
	Status      model.TaskStatus
	Priority    model.TaskPriority
	CreatedByID *uint
}

// TaskStatistics holds task counts scoped to the caller's visibility.
type TaskStatistics struct {
	TotalTasks      int64 `json:"total_tasks"`
	PendingTasks    int64 `json:"pending_tasks"`
	InProgressTasks int64 `json:"in_progress_tasks"`
	CompletedTasks  int64 `json:"completed_tasks"`
	OverdueTasks    int64 `json:"overdue_tasks"`
}

// TaskService handles task lifecycle operations.
type TaskService interface {
	List(ctx context.Context, actor Actor, in ListTasksInput) ([]model.Task, error)
	Create(ctx context.Context, actor Actor, in CreateTaskInput) (*model.Task, error)
	Get(ctx context.Context, actor Actor, id uint) (*model.Task, error)
	Update(ctx context.Context, actor Actor, id uint, in UpdateTaskInput) (*model.Task, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	Statistics(ctx context.Context, actor Actor) (*TaskStatistics, error)
}

type taskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	cache    *cache.Client
	now      func() time.Time
}

// NewTaskService creates a new task service.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, cache *cache.Client) TaskService {
	return &taskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		cache:    cache,
		now:      time.Now,
	}
}

// List returns tasks visible to the actor. Employees see only tasks assigned
// to them; admins see all tasks and may narrow by creator.
func (s *taskService) List(ctx context.Context, actor Actor, in ListTasksInput) ([]model.Task, error) {
	filter := repository.TaskFilter{
		Status:   in.Status,
		Priority: in.Priority,
	}
	if actor.IsEmployee() {
		id := actor.ID
		filter.AssignedToID = &id
	} else if in.CreatedByID != nil {
		filter.CreatedByID = in.CreatedByID
	}
	return s.taskRepo.List(ctx, filter)
}

// Create creates a task and, when an assignee is given, its notification in
// one transaction. Admin only.
func (s *taskService) Create(ctx context.Context, actor Actor, in CreateTaskInput) (*model.Task, error) {
	if !CanCreateTask(actor) {
		return nil, errors.ErrPermissionDenied
	}

	priority := in.Priority
	if priority == "" {
		priority = model.TaskPriorityMedium
	}
	if !model.ValidTaskPriority(priority) {
		return nil, errors.ErrInvalidPriority
	}

	if in.AssignedToID != nil {
		if err := s.requireEmployee(ctx, *in.AssignedToID); err != nil {
			return nil, err
		}
	}

	task := &model.Task{
		Title:        in.Title,
		Description:  in.Description,
		CreatedByID:  actor.ID,
		AssignedToID: in.AssignedToID,
		Status:       model.TaskStatusPending,
		Priority:     priority,
		DueDate:      in.DueDate,
	}

	err := s.taskRepo.WithTransaction(ctx, func(ctx context.Context, tasks repository.TaskRepository, notifications repository.NotificationRepository) error {
		if err := tasks.Create(ctx, task); err != nil {
			return fmt.Errorf("create task: %w", err)
		}
		if task.AssignedToID != nil {
			notification := &model.Notification{
				UserID:  *task.AssignedToID,
				Title:   "New Task",
				Message: fmt.Sprintf("A new task has been assigned to you: %s", task.Title),
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

	s.invalidateStats(ctx, task.AssignedToID)
	return s.taskRepo.FindByID(ctx, task.ID)
}

// Get returns a task, applying the role visibility gate.
func (s *taskService) Get(ctx context.Context, actor Actor, id uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrTaskNotFound
		}
		return nil, err
	}
	if !CanViewTask(actor, task) {
		return nil, errors.ErrPermissionDenied
	}
	return task, nil
}

// Update applies a partial update to a task. Employees may only change the
// status of tasks assigned to them; doing so notifies the task's creator in
// the same transaction. Admins may change any field.
func (s *taskService) Update(ctx context.Context, actor Actor, id uint, in UpdateTaskInput) (*model.Task, error) {
	task, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if !CanUpdateAllTaskFields(actor) && in.HasNonStatusFields() {
		return nil, errors.ErrPermissionDenied
	}

	if in.Status != nil && !model.ValidTaskStatus(*in.Status) {
		return nil, errors.ErrInvalidStatus
	}
	if in.Priority != nil && !model.ValidTaskPriority(*in.Priority) {
		return nil, errors.ErrInvalidPriority
	}

	if in.AssignedToID != nil {
		if err := s.requireEmployee(ctx, *in.AssignedToID); err != nil {
			return nil, err
		}
	}

	previousAssignee := task.AssignedToID

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.AssignedToID != nil {
		task.AssignedToID = in.AssignedToID
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.DueDate != nil {
		task.DueDate = *in.DueDate
	}
	if in.Status != nil {
		// CompletedAt is stamped exactly on the transition into completed and
		// never cleared, even if the task is later reopened.
		if *in.Status == model.TaskStatusCompleted && task.Status != model.TaskStatusCompleted {
			now := s.now()
			task.CompletedAt = &now
		}
		task.Status = *in.Status
	}

	notifyCreator := actor.IsEmployee() && in.Status != nil

	err = s.taskRepo.WithTransaction(ctx, func(ctx context.Context, tasks repository.TaskRepository, notifications repository.NotificationRepository) error {
		if err := tasks.Update(ctx, task); err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		if notifyCreator {
			notification := &model.Notification{
				UserID:  task.CreatedByID,
				Title:   "Task Updated",
				Message: fmt.Sprintf("The status of task %q was updated to %s", task.Title, task.Status),
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

	s.invalidateStats(ctx, previousAssignee, task.AssignedToID)
	return s.taskRepo.FindByID(ctx, task.ID)
}

// Delete removes a task. Only the admin who created it may delete it.
func (s *taskService) Delete(ctx context.Context, actor Actor, id uint) error {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrTaskNotFound
		}
		return err
	}
	if !CanDeleteTask(actor, task) {
		return errors.ErrPermissionDenied
	}
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	s.invalidateStats(ctx, task.AssignedToID)
	return nil
}

// Statistics returns task counts scoped to the caller. Results are cached
// briefly; task writes invalidate the affected keys.
func (s *taskService) Statistics(ctx context.Context, actor Actor) (*TaskStatistics, error) {
	key := s.statsCacheKey(actor)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached TaskStatistics
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	var scope *uint
	if actor.IsEmployee() {
		id := actor.ID
		scope = &id
	}

	stats := &TaskStatistics{}
	var err error
	if stats.TotalTasks, err = s.taskRepo.CountByStatus(ctx, scope); err != nil {
		return nil, err
	}
	if stats.PendingTasks, err = s.taskRepo.CountByStatus(ctx, scope, model.TaskStatusPending); err != nil {
		return nil, err
	}
	if stats.InProgressTasks, err = s.taskRepo.CountByStatus(ctx, scope, model.TaskStatusInProgress); err != nil {
		return nil, err
	}
	if stats.CompletedTasks, err = s.taskRepo.CountByStatus(ctx, scope, model.TaskStatusCompleted); err != nil {
		return nil, err
	}
	if stats.OverdueTasks, err = s.taskRepo.CountOverdue(ctx, scope, s.now()); err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(stats); err == nil {
		_ = s.cache.Set(ctx, key, payload, statsCacheTTL)
	}
	return stats, nil
}

func (s *taskService) statsCacheKey(actor Actor) string {
	if actor.IsAdmin() {
		return "task_stats:global"
	}
	return fmt.Sprintf("task_stats:user:%d", actor.ID)
}

func (s *taskService) invalidateStats(ctx context.Context, assignees ...*uint) {
	keys := []string{"task_stats:global"}
	for _, id := range assignees {
		if id != nil {
			keys = append(keys, fmt.Sprintf("task_stats:user:%d", *id))
		}
	}
	_ = s.cache.Delete(ctx, keys...)
}

// requireEmployee validates that the given user exists and holds the
// employee role, as only employees can be assigned tasks.
func (s *taskService) requireEmployee(ctx context.Context, userID uint) error {
	assignee, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrAssigneeNotEmployee
		}
		return fmt.Errorf("find assignee: %w", err)
	}
	if !assignee.IsEmployee() {
		return errors.ErrAssigneeNotEmployee
	}
	return nil
}
