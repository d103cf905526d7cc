package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/xxiimcha/lifeec-mobile/internal/apperror"
	"github.com/xxiimcha/lifeec-mobile/internal/model"
	"github.com/xxiimcha/lifeec-mobile/internal/repository"
)

// NotificationStore is the persistence for notifications
type NotificationStore interface {
	Create(ctx context.Context, notification *model.Notification) error
	FindByUser(ctx context.Context, userID string) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, userID string) (*model.Notification, error)
}

// NotificationService creates and lists notifications
type NotificationService struct {
	notifications NotificationStore
	clock         clockwork.Clock
}

// NewNotificationService creates a notification service
func NewNotificationService(notifications NotificationStore, clock clockwork.Clock) *NotificationService {
	return &NotificationService{notifications: notifications, clock: clock}
}

// Create validates and stores a notification
func (s *NotificationService) Create(ctx context.Context, userID, notificationType, content string) (*model.Notification, error) {
	fields := map[string]string{}
	if strings.TrimSpace(userID) == "" {
		fields["userId"] = "User ID is required"
	}
	t := model.NotificationType(notificationType)
	if notificationType == "" {
		fields["type"] = "Notification type is required"
	} else if !t.Valid() {
		fields["type"] = "Notification type must be one of message, alert, reminder"
	}
	if strings.TrimSpace(content) == "" {
		fields["content"] = "Content is required"
	}
	if len(fields) > 0 {
		return nil, apperror.Validation("Validation failed", fields)
	}

	notification := &model.Notification{
		UserID:    userID,
		Type:      t,
		Content:   content,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		return nil, apperror.Store("Error creating notification", err)
	}
	return notification, nil
}

// ForUser returns the user's notifications, newest first
func (s *NotificationService) ForUser(ctx context.Context, userID string) ([]model.Notification, error) {
	notifications, err := s.notifications.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Store("Error fetching notifications", err)
	}
	return notifications, nil
}

// MarkRead flags one of userID's notifications as read. Notifications owned
// by someone else are reported as not found.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) (*model.Notification, error) {
	notification, err := s.notifications.MarkRead(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Notification not found")
	}
	if err != nil {
		return nil, apperror.Store("Error updating notification", err)
	}
	return notification, nil
}
