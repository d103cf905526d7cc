package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Alert is an emergency notice raised for a resident. ResidentName is a
// snapshot taken when the alert was raised. Alerts are never updated.
type Alert struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ResidentID   string    `json:"residentId" gorm:"type:varchar(36);index;not null"`
	ResidentName string    `json:"residentName" gorm:"type:varchar(100);not null"`
	Message      string    `json:"message" gorm:"type:text;not null"`
	Timestamp    time.Time `json:"timestamp" gorm:"column:raised_at;index;not null"`
}

// BeforeCreate assigns an id if the caller did not
func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// DashboardSummary holds the headline numbers shown on the staff dashboard
type DashboardSummary struct {
	TotalResidents  int64 `json:"totalResidents"`
	TotalAlerts     int64 `json:"totalAlerts"`
	ActiveResidents int64 `json:"activeResidents"`
}
