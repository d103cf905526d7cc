package repository

import (
	"context"

	"github.com/xxiimcha/lifeec-mobile/internal/model"
	"github.com/xxiimcha/lifeec-mobile/prometheus"
	"gorm.io/gorm"
)

// NotificationRepository is the store for in-app notifications
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a notification repository
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a new notification
func (r *NotificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	defer prometheus.TrackDBOperation("notifications.insert")()
	return r.db.WithContext(ctx).Create(notification).Error
}

// FindByUser returns the user's notifications, newest first
func (r *NotificationRepository) FindByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	defer prometheus.TrackDBOperation("notifications.find_by_user")()
	notifications := []model.Notification{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flags the notification as read and returns the updated row. A
// notification owned by another user is reported as ErrNotFound.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) (*model.Notification, error) {
	defer prometheus.TrackDBOperation("notifications.mark_read")()
	result := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var notification model.Notification
	if err := r.db.WithContext(ctx).First(&notification, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &notification, nil
}
