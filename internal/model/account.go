package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account represents a user of the system. ResidentID links a family member
// to the resident they are related to.
type Account struct {
	ID                   string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name                 string     `json:"name" gorm:"type:varchar(100);not null"`
	Email                string     `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password             string     `json:"-" gorm:"type:varchar(255);not null"`
	UserType             Role       `json:"userType" gorm:"type:varchar(30);index;not null"`
	ResidentID           *string    `json:"residentId,omitempty" gorm:"type:varchar(36);index"`
	ResetPasswordToken   *string    `json:"-" gorm:"type:varchar(64);index"`
	ResetPasswordExpires *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// BeforeCreate assigns an id if the caller did not
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
