package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"taskflow/internal/errors"
	"taskflow/internal/model"
	"taskflow/internal/repository"
)

func newTestTaskService(taskRepo *MockTaskRepository, userRepo *MockUserRepository) *taskService {
	return NewTaskService(taskRepo, userRepo, nil).(*taskService)
}

func TestTaskService_Create(t *testing.T) {
	admin := Actor{ID: 1, Role: model.RoleAdmin}
	employee := Actor{ID: 2, Role: model.RoleEmployee}

	t.Run("employee is denied regardless of payload", func(t *testing.T) {
		svc := newTestTaskService(new(MockTaskRepository), new(MockUserRepository))

		_, err := svc.Create(context.Background(), employee, CreateTaskInput{
			Title:   "Report",
			DueDate: time.Now().Add(48 * time.Hour),
		})
		assert.ErrorIs(t, err, errors.ErrPermissionDenied)
	})

	t.Run("assignee must hold the employee role", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockUsers := new(MockUserRepository)
		assigneeID := uint(5)
		mockUsers.On("FindByID", mock.Anything, assigneeID).Return(&model.User{
			ID:   assigneeID,
			Role: model.RoleAdmin,
		}, nil)

		svc := newTestTaskService(mockTasks, mockUsers)
		_, err := svc.Create(context.Background(), admin, CreateTaskInput{
			Title:        "Report",
			AssignedToID: &assigneeID,
			DueDate:      time.Now().Add(48 * time.Hour),
		})
		assert.ErrorIs(t, err, errors.ErrAssigneeNotEmployee)
		mockTasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown assignee fails validation", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockUsers := new(MockUserRepository)
		assigneeID := uint(99)
		mockUsers.On("FindByID", mock.Anything, assigneeID).Return(nil, gorm.ErrRecordNotFound)

		svc := newTestTaskService(mockTasks, mockUsers)
		_, err := svc.Create(context.Background(), admin, CreateTaskInput{
			Title:        "Report",
			AssignedToID: &assigneeID,
			DueDate:      time.Now().Add(48 * time.Hour),
		})
		assert.ErrorIs(t, err, errors.ErrAssigneeNotEmployee)
	})

	t.Run("invalid priority is rejected", func(t *testing.T) {
		svc := newTestTaskService(new(MockTaskRepository), new(MockUserRepository))

		_, err := svc.Create(context.Background(), admin, CreateTaskInput{
			Title:    "Report",
			Priority: "critical",
			DueDate:  time.Now().Add(48 * time.Hour),
		})
		assert.ErrorIs(t, err, errors.ErrInvalidPriority)
	})

	t.Run("assigned task notifies the assignee in the same transaction", func(t *testing.T) {
		mockTasks := &MockTaskRepository{Notifications: new(MockNotificationRepository)}
		mockUsers := new(MockUserRepository)
		assigneeID := uint(2)

		mockUsers.On("FindByID", mock.Anything, assigneeID).Return(&model.User{
			ID:   assigneeID,
			Role: model.RoleEmployee,
		}, nil)
		mockTasks.On("Create", mock.Anything, mock.AnythingOfType("*model.Task")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*model.Task).ID = 42
			}).Return(nil)
		mockTasks.Notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *model.Notification) bool {
			return n.UserID == assigneeID && n.TaskID != nil && *n.TaskID == 42
		})).Return(nil)
		mockTasks.On("FindByID", mock.Anything, uint(42)).Return(&model.Task{
			ID:           42,
			Title:        "Report",
			AssignedToID: &assigneeID,
			Status:       model.TaskStatusPending,
		}, nil)

		svc := newTestTaskService(mockTasks, mockUsers)
		task, err := svc.Create(context.Background(), admin, CreateTaskInput{
			Title:        "Report",
			AssignedToID: &assigneeID,
			DueDate:      time.Now().Add(48 * time.Hour),
		})

		assert.NoError(t, err)
		assert.Equal(t, uint(42), task.ID)
		mockTasks.AssertExpectations(t)
		mockTasks.Notifications.AssertExpectations(t)
	})

	t.Run("unassigned task creates no notification", func(t *testing.T) {
		mockTasks := &MockTaskRepository{Notifications: new(MockNotificationRepository)}
		mockTasks.On("Create", mock.Anything, mock.AnythingOfType("*model.Task")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*model.Task).ID = 7
			}).Return(nil)
		mockTasks.On("FindByID", mock.Anything, uint(7)).Return(&model.Task{ID: 7}, nil)

		svc := newTestTaskService(mockTasks, new(MockUserRepository))
		_, err := svc.Create(context.Background(), admin, CreateTaskInput{
			Title:   "Unassigned",
			DueDate: time.Now().Add(24 * time.Hour),
		})

		assert.NoError(t, err)
		mockTasks.Notifications.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestTaskService_Get(t *testing.T) {
	employee := Actor{ID: 2, Role: model.RoleEmployee}
	otherEmployee := Actor{ID: 3, Role: model.RoleEmployee}
	assigneeID := uint(2)

	task := &model.Task{ID: 10, CreatedByID: 1, AssignedToID: &assigneeID}

	tests := []struct {
		name          string
		actor         Actor
		setupMock     func(*MockTaskRepository)
		expectedError error
	}{
		{
			name:  "assignee can view",
			actor: employee,
			setupMock: func(m *MockTaskRepository) {
				m.On("FindByID", mock.Anything, uint(10)).Return(task, nil)
			},
		},
		{
			name:  "other employee is denied",
			actor: otherEmployee,
			setupMock: func(m *MockTaskRepository) {
				m.On("FindByID", mock.Anything, uint(10)).Return(task, nil)
			},
			expectedError: errors.ErrPermissionDenied,
		},
		{
			name:  "admin can view any task",
			actor: Actor{ID: 9, Role: model.RoleAdmin},
			setupMock: func(m *MockTaskRepository) {
				m.On("FindByID", mock.Anything, uint(10)).Return(task, nil)
			},
		},
		{
			name:  "missing task",
			actor: employee,
			setupMock: func(m *MockTaskRepository) {
				m.On("FindByID", mock.Anything, uint(10)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrTaskNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTasks := new(MockTaskRepository)
			tt.setupMock(mockTasks)

			svc := newTestTaskService(mockTasks, new(MockUserRepository))
			got, err := svc.Get(context.Background(), tt.actor, 10)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, task.ID, got.ID)
			}
		})
	}
}

func TestTaskService_Update(t *testing.T) {
	admin := Actor{ID: 1, Role: model.RoleAdmin}
	employee := Actor{ID: 2, Role: model.RoleEmployee}
	assigneeID := uint(2)

	newTask := func() *model.Task {
		return &model.Task{
			ID:           10,
			Title:        "Report",
			CreatedByID:  1,
			AssignedToID: &assigneeID,
			Status:       model.TaskStatusInProgress,
			DueDate:      time.Now().Add(48 * time.Hour),
		}
	}

	t.Run("employee may not touch non-status fields", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockTasks.On("FindByID", mock.Anything, uint(10)).Return(newTask(), nil)

		svc := newTestTaskService(mockTasks, new(MockUserRepository))
		title := "Renamed"
		_, err := svc.Update(context.Background(), employee, 10, UpdateTaskInput{Title: &title})

		assert.ErrorIs(t, err, errors.ErrPermissionDenied)
		mockTasks.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("completing stamps completed_at and notifies the creator", func(t *testing.T) {
		mockTasks := &MockTaskRepository{Notifications: new(MockNotificationRepository)}
		task := newTask()
		mockTasks.On("FindByID", mock.Anything, uint(10)).Return(task, nil)
		mockTasks.On("Update", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)
		mockTasks.Notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *model.Notification) bool {
			return n.UserID == task.CreatedByID
		})).Return(nil)

		fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		svc := newTestTaskService(mockTasks, new(MockUserRepository))
		svc.now = func() time.Time { return fixed }

		status := model.TaskStatusCompleted
		got, err := svc.Update(context.Background(), employee, 10, UpdateTaskInput{Status: &status})

		assert.NoError(t, err)
		assert.Equal(t, model.TaskStatusCompleted, got.Status)
		assert.NotNil(t, got.CompletedAt)
		assert.Equal(t, fixed, *got.CompletedAt)
		mockTasks.Notifications.AssertExpectations(t)
	})

	t.Run("non-completing status change leaves completed_at nil", func(t *testing.T) {
		mockTasks := &MockTaskRepository{Notifications: new(MockNotificationRepository)}
		task := newTask()
		task.Status = model.TaskStatusPending
		mockTasks.On("FindByID", mock.Anything, uint(10)).Return(task, nil)
		mockTasks.On("Update", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)
		mockTasks.Notifications.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := newTestTaskService(mockTasks, new(MockUserRepository))
		status := model.TaskStatusInProgress
		got, err := svc.Update(context.Background(), employee, 10, UpdateTaskInput{Status: &status})

		assert.NoError(t, err)
		assert.Nil(t, got.CompletedAt)
	})

	t.Run("reopening a completed task keeps the stamp", func(t *testing.T) {
		mockTasks := &MockTaskRepository{Notifications: new(MockNotificationRepository)}
		task := newTask()
		completed := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
		task.Status = model.TaskStatusCompleted
		task.CompletedAt = &completed
		mockTasks.On("FindByID", mock.Anything, uint(10)).Return(task, nil)
		mockTasks.On("Update", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)
		mockTasks.Notifications.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := newTestTaskService(mockTasks, new(MockUserRepository))
		status := model.TaskStatusPending
		got, err := svc.Update(context.Background(), employee, 10, UpdateTaskInput{Status: &status})

		assert.NoError(t, err)
		assert.Equal(t, model.TaskStatusPending, got.Status)
		assert.Equal(t, completed, *got.CompletedAt)
	})

	t.Run("admin status change does not notify", func(t *testing.T) {
		mockTasks := &MockTaskRepository{Notifications: new(MockNotificationRepository)}
		mockTasks.On("FindByID", mock.Anything, uint(10)).Return(newTask(), nil)
		mockTasks.On("Update", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)

		svc := newTestTaskService(mockTasks, new(MockUserRepository))
		status := model.TaskStatusCancelled
		_, err := svc.Update(context.Background(), admin, 10, UpdateTaskInput{Status: &status})

		assert.NoError(t, err)
		mockTasks.Notifications.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("admin reassignment re-validates the employee role", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockUsers := new(MockUserRepository)
		mockTasks.On("FindByID", mock.Anything, uint(10)).Return(newTask(), nil)
		newAssignee := uint(8)
		mockUsers.On("FindByID", mock.Anything, newAssignee).Return(&model.User{
			ID:   newAssignee,
			Role: model.RoleAdmin,
		}, nil)

		svc := newTestTaskService(mockTasks, mockUsers)
		_, err := svc.Update(context.Background(), admin, 10, UpdateTaskInput{AssignedToID: &newAssignee})

		assert.ErrorIs(t, err, errors.ErrAssigneeNotEmployee)
	})
}

func TestTaskService_Delete(t *testing.T) {
	assigneeID := uint(2)
	task := &model.Task{ID: 10, CreatedByID: 1, AssignedToID: &assigneeID}

	tests := []struct {
		name          string
		actor         Actor
		expectedError error
	}{
		{
			name:  "creating admin may delete",
			actor: Actor{ID: 1, Role: model.RoleAdmin},
		},
		{
			name:          "another admin may not delete",
			actor:         Actor{ID: 5, Role: model.RoleAdmin},
			expectedError: errors.ErrPermissionDenied,
		},
		{
			name:          "assignee may not delete",
			actor:         Actor{ID: 2, Role: model.RoleEmployee},
			expectedError: errors.ErrPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTasks := new(MockTaskRepository)
			mockTasks.On("FindByID", mock.Anything, uint(10)).Return(task, nil)
			if tt.expectedError == nil {
				mockTasks.On("Delete", mock.Anything, uint(10)).Return(nil)
			}

			svc := newTestTaskService(mockTasks, new(MockUserRepository))
			err := svc.Delete(context.Background(), tt.actor, 10)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				mockTasks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				mockTasks.AssertExpectations(t)
			}
		})
	}
}

func TestTaskService_List(t *testing.T) {
	t.Run("employee listing is scoped to own assignments", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		employeeID := uint(2)
		mockTasks.On("List", mock.Anything, mock.MatchedBy(func(f repository.TaskFilter) bool {
			return f.AssignedToID != nil && *f.AssignedToID == employeeID && f.CreatedByID == nil
		})).Return([]model.Task{}, nil)

		svc := newTestTaskService(mockTasks, new(MockUserRepository))
		creator := uint(1)
		// A creator filter from an employee is ignored, not honored.
		_, err := svc.List(context.Background(), Actor{ID: employeeID, Role: model.RoleEmployee}, ListTasksInput{CreatedByID: &creator})

		assert.NoError(t, err)
		mockTasks.AssertExpectations(t)
	})

	t.Run("admin may narrow by creator", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		creator := uint(1)
		mockTasks.On("List", mock.Anything, mock.MatchedBy(func(f repository.TaskFilter) bool {
			return f.AssignedToID == nil && f.CreatedByID != nil && *f.CreatedByID == creator &&
				f.Status == model.TaskStatusPending
		})).Return([]model.Task{}, nil)

		svc := newTestTaskService(mockTasks, new(MockUserRepository))
		_, err := svc.List(context.Background(), Actor{ID: 9, Role: model.RoleAdmin}, ListTasksInput{
			Status:      model.TaskStatusPending,
			CreatedByID: &creator,
		})

		assert.NoError(t, err)
		mockTasks.AssertExpectations(t)
	})
}

func TestTaskService_Statistics(t *testing.T) {
	t.Run("employee counts are scoped to own assignments", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		employeeID := uint(2)
		scoped := mock.MatchedBy(func(id *uint) bool { return id != nil && *id == employeeID })

		mockTasks.On("CountByStatus", mock.Anything, scoped, mock.Anything).Return(int64(4), nil).Once()
		mockTasks.On("CountByStatus", mock.Anything, scoped, mock.Anything).Return(int64(1), nil).Once()
		mockTasks.On("CountByStatus", mock.Anything, scoped, mock.Anything).Return(int64(2), nil).Once()
		mockTasks.On("CountByStatus", mock.Anything, scoped, mock.Anything).Return(int64(1), nil).Once()
		mockTasks.On("CountOverdue", mock.Anything, scoped, mock.Anything).Return(int64(1), nil).Once()

		svc := newTestTaskService(mockTasks, new(MockUserRepository))
		stats, err := svc.Statistics(context.Background(), Actor{ID: employeeID, Role: model.RoleEmployee})

		assert.NoError(t, err)
		assert.Equal(t, int64(4), stats.TotalTasks)
		assert.Equal(t, int64(1), stats.PendingTasks)
		assert.Equal(t, int64(2), stats.InProgressTasks)
		assert.Equal(t, int64(1), stats.CompletedTasks)
		assert.Equal(t, int64(1), stats.OverdueTasks)
		mockTasks.AssertExpectations(t)
	})

	t.Run("admin counts are global", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		global := mock.MatchedBy(func(id *uint) bool { return id == nil })

		mockTasks.On("CountByStatus", mock.Anything, global, mock.Anything).Return(int64(10), nil).Times(4)
		mockTasks.On("CountOverdue", mock.Anything, global, mock.Anything).Return(int64(3), nil).Once()

		svc := newTestTaskService(mockTasks, new(MockUserRepository))
		stats, err := svc.Statistics(context.Background(), Actor{ID: 1, Role: model.RoleAdmin})

		assert.NoError(t, err)
		assert.Equal(t, int64(10), stats.TotalTasks)
		assert.Equal(t, int64(3), stats.OverdueTasks)
		mockTasks.AssertExpectations(t)
	})
}
