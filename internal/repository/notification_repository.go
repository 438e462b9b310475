package repository

import (
	"context"

	"gorm.io/gorm"

	"taskflow/internal/model"
)

// NotificationRepository defines notification persistence operations.
// Except for Create, every operation is scoped to the owning user.
type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	Update(ctx context.Context, notification *model.Notification) error
	FindByIDForUser(ctx context.Context, id, userID uint) (*model.Notification, error)
	ListForUser(ctx context.Context, userID uint) ([]model.Notification, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkAllRead(ctx context.Context, userID uint) error
	DeleteForUser(ctx context.Context, id, userID uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create creates a new notification.
func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// Update updates an existing notification.
func (r *notificationRepository) Update(ctx context.Context, notification *model.Notification) error {
	return r.db.WithContext(ctx).Save(notification).Error
}

// FindByIDForUser finds a notification owned by the given user.
func (r *notificationRepository) FindByIDForUser(ctx context.Context, id, userID uint) (*model.Notification, error) {
	var notification model.Notification
	err := r.db.WithContext(ctx).
		Preload("Task").
		Preload("Task.CreatedBy").
		Preload("Task.AssignedTo").
		Where("id = ? AND user_id = ?", id, userID).
		First(&notification).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// ListForUser returns the user's notifications, newest first.
func (r *notificationRepository) ListForUser(ctx context.Context, userID uint) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.WithContext(ctx).
		Preload("Task").
		Preload("Task.CreatedBy").
		Preload("Task.AssignedTo").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// CountUnread counts the user's unread notifications.
func (r *notificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// MarkAllRead flips all of the user's unread notifications to read.
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// DeleteForUser removes a notification owned by the given user.
// Returns gorm.ErrRecordNotFound when nothing matched.
func (r *notificationRepository) DeleteForUser(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
