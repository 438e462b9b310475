package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"taskflow/internal/model"
	"taskflow/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	args := m.Called(ctx, username, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockTaskRepository is a mock implementation of TaskRepository.
// WithTransaction runs the callback against the mock itself and the
// Notifications mock, standing in for transaction-scoped repositories.
type MockTaskRepository struct {
	mock.Mock
	Notifications *MockNotificationRepository
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) CountByStatus(ctx context.Context, assignedToID *uint, statuses ...model.TaskStatus) (int64, error) {
	args := m.Called(ctx, assignedToID, statuses)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) CountOverdue(ctx context.Context, assignedToID *uint, now time.Time) (int64, error) {
	args := m.Called(ctx, assignedToID, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, tasks repository.TaskRepository, notifications repository.NotificationRepository) error) error {
	if m.Notifications == nil {
		m.Notifications = new(MockNotificationRepository)
	}
	return fn(ctx, m, m.Notifications)
}

// MockNotificationRepository is a mock implementation of NotificationRepository.
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) Update(ctx context.Context, notification *model.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) FindByIDForUser(ctx context.Context, id, userID uint) (*model.Notification, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ListForUser(ctx context.Context, userID uint) ([]model.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) DeleteForUser(ctx context.Context, id, userID uint) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEvaluationRepository is a mock implementation of EvaluationRepository.
type MockEvaluationRepository struct {
	mock.Mock
	Notifications *MockNotificationRepository
}

func (m *MockEvaluationRepository) Create(ctx context.Context, evaluation *model.TaskEvaluation) error {
	args := m.Called(ctx, evaluation)
	return args.Error(0)
}

func (m *MockEvaluationRepository) ExistsForTask(ctx context.Context, taskID uint) (bool, error) {
	args := m.Called(ctx, taskID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEvaluationRepository) ListByEvaluator(ctx context.Context, evaluatorID uint) ([]model.TaskEvaluation, error) {
	args := m.Called(ctx, evaluatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TaskEvaluation), args.Error(1)
}

func (m *MockEvaluationRepository) ListByAssignee(ctx context.Context, assigneeID uint) ([]model.TaskEvaluation, error) {
	args := m.Called(ctx, assigneeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TaskEvaluation), args.Error(1)
}

func (m *MockEvaluationRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, evaluations repository.EvaluationRepository, notifications repository.NotificationRepository) error) error {
	if m.Notifications == nil {
		m.Notifications = new(MockNotificationRepository)
	}
	return fn(ctx, m, m.Notifications)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}
