package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType classifies a notification
type NotificationType string

const (
	NotificationMessage  NotificationType = "message"
	NotificationAlert    NotificationType = "alert"
	NotificationReminder NotificationType = "reminder"
)

// Valid reports whether t is one of the known notification types
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationMessage, NotificationAlert, NotificationReminder:
		return true
	}
	return false
}

// Notification is an in-app notice addressed to one account
type Notification struct {
	ID        string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string           `json:"userId" gorm:"type:varchar(36);index;not null"`
	Type      NotificationType `json:"type" gorm:"type:varchar(20);not null"`
	Content   string           `json:"content" gorm:"type:text;not null"`
	IsRead    bool             `json:"isRead" gorm:"default:false"`
	CreatedAt time.Time        `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// BeforeCreate assigns an id if the caller did not
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
