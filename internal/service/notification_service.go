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

// NotificationService handles per-user notification queries and mutations.
type NotificationService interface {
	List(ctx context.Context, actor Actor, markAllRead bool) ([]model.Notification, int64, error)
	MarkRead(ctx context.Context, actor Actor, id uint) (*model.Notification, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	UnreadCount(ctx context.Context, actor Actor) (int64, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new notification service.
func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

// List returns all of the caller's notifications plus the unread count taken
// before the optional bulk mark-read, matching the read-then-mutate shape of
// the endpoint.
func (s *notificationService) List(ctx context.Context, actor Actor, markAllRead bool) ([]model.Notification, int64, error) {
	unread, err := s.notificationRepo.CountUnread(ctx, actor.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("count unread: %w", err)
	}

	if markAllRead {
		if err := s.notificationRepo.MarkAllRead(ctx, actor.ID); err != nil {
			return nil, 0, fmt.Errorf("mark all read: %w", err)
		}
	}

	notifications, err := s.notificationRepo.ListForUser(ctx, actor.ID)
	if err != nil {
		return nil, 0, err
	}
	return notifications, unread, nil
}

// MarkRead flips a single caller-owned notification to read.
func (s *notificationService) MarkRead(ctx context.Context, actor Actor, id uint) (*model.Notification, error) {
	notification, err := s.notificationRepo.FindByIDForUser(ctx, id, actor.ID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotificationNotFound
		}
		return nil, err
	}

	notification.IsRead = true
	if err := s.notificationRepo.Update(ctx, notification); err != nil {
		return nil, fmt.Errorf("update notification: %w", err)
	}
	return notification, nil
}

// Delete removes a caller-owned notification.
func (s *notificationService) Delete(ctx context.Context, actor Actor, id uint) error {
	err := s.notificationRepo.DeleteForUser(ctx, id, actor.ID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrNotificationNotFound
		}
		return err
	}
	return nil
}

// UnreadCount returns how many of the caller's notifications are unread.
func (s *notificationService) UnreadCount(ctx context.Context, actor Actor) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, actor.ID)
}
