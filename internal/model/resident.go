package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmergencyContact is stored inline on the resident row
type EmergencyContact struct {
	Name  string `json:"name" gorm:"column:emergency_contact_name;type:varchar(100)"`
	Phone string `json:"phone" gorm:"column:emergency_contact_phone;type:varchar(30)"`
}

// Resident is a person under care
type Resident struct {
	ID               string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name             string           `json:"name" gorm:"type:varchar(100);not null"`
	Age              int              `json:"age"`
	Gender           string           `json:"gender" gorm:"type:varchar(20)"`
	Contact          string           `json:"contact" gorm:"type:varchar(50)"`
	EmergencyContact EmergencyContact `json:"emergencyContact" gorm:"embedded"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// BeforeCreate assigns an id if the caller did not
func (r *Resident) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
