package repository

import (
	"context"
	"time"

	"github.com/xxiimcha/lifeec-mobile/internal/model"
	"github.com/xxiimcha/lifeec-mobile/prometheus"
	"gorm.io/gorm"
)

// AlertRepository is the store for emergency alerts
type AlertRepository struct {
	db *gorm.DB
}

// NewAlertRepository creates an alert repository
func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create inserts a new alert
func (r *AlertRepository) Create(ctx context.Context, alert *model.Alert) error {
	defer prometheus.TrackDBOperation("alerts.insert")()
	return r.db.WithContext(ctx).Create(alert).Error
}

// Delete removes the alert with the given id. A missing id is not an error.
func (r *AlertRepository) Delete(ctx context.Context, id string) error {
	defer prometheus.TrackDBOperation("alerts.delete")()
	return r.db.WithContext(ctx).Delete(&model.Alert{}, "id = ?", id).Error
}

// FindByResidentSince returns the resident's alerts raised at or after since
func (r *AlertRepository) FindByResidentSince(ctx context.Context, residentID string, since time.Time) ([]model.Alert, error) {
	defer prometheus.TrackDBOperation("alerts.recent")()
	alerts := []model.Alert{}
	err := r.db.WithContext(ctx).
		Where("resident_id = ? AND raised_at >= ?", residentID, since).
		Order("raised_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

// TimestampsBetween returns the raise time of every alert in [from, to)
func (r *AlertRepository) TimestampsBetween(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	defer prometheus.TrackDBOperation("alerts.timestamps_between")()
	var alerts []model.Alert
	err := r.db.WithContext(ctx).
		Select("raised_at").
		Where("raised_at >= ? AND raised_at < ?", from, to).
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}

	timestamps := make([]time.Time, len(alerts))
	for i, a := range alerts {
		timestamps[i] = a.Timestamp
	}
	return timestamps, nil
}

// Count returns the total number of alerts
func (r *AlertRepository) Count(ctx context.Context) (int64, error) {
	defer prometheus.TrackDBOperation("alerts.count")()
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Alert{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountActiveResidents returns the number of distinct, existing residents
// with at least one alert raised at or after since
func (r *AlertRepository) CountActiveResidents(ctx context.Context, since time.Time) (int64, error) {
	defer prometheus.TrackDBOperation("alerts.count_active_residents")()
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Alert{}).
		Joins("JOIN residents ON residents.id = alerts.resident_id").
		Where("alerts.raised_at >= ?", since).
		Distinct("alerts.resident_id").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
