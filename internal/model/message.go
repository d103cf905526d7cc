package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a direct message from one account to another
type Message struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SenderID   string    `json:"senderId" gorm:"type:varchar(36);index:idx_message_pair;not null"`
	ReceiverID string    `json:"receiverId" gorm:"type:varchar(36);index:idx_message_pair;not null"`
	Text       string    `json:"text" gorm:"type:text;not null"`
	Time       time.Time `json:"time" gorm:"column:sent_at;index;not null"`
	IsRead     bool      `json:"isRead" gorm:"default:false"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BeforeCreate assigns an id if the caller did not
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
