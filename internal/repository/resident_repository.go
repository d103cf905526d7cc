package repository

import (
	"context"

	"github.com/xxiimcha/lifeec-mobile/internal/model"
	"github.com/xxiimcha/lifeec-mobile/prometheus"
	"gorm.io/gorm"
)

// ResidentRepository is the store for resident records
type ResidentRepository struct {
	db *gorm.DB
}

// NewResidentRepository creates a resident repository
func NewResidentRepository(db *gorm.DB) *ResidentRepository {
	return &ResidentRepository{db: db}
}

// Create inserts a new resident
func (r *ResidentRepository) Create(ctx context.Context, resident *model.Resident) error {
	defer prometheus.TrackDBOperation("residents.insert")()
	return r.db.WithContext(ctx).Create(resident).Error
}

// FindByID returns the resident with the given id
func (r *ResidentRepository) FindByID(ctx context.Context, id string) (*model.Resident, error) {
	defer prometheus.TrackDBOperation("residents.find_by_id")()
	var resident model.Resident
	if err := r.db.WithContext(ctx).First(&resident, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &resident, nil
}

// Save writes every column of an existing resident
func (r *ResidentRepository) Save(ctx context.Context, resident *model.Resident) error {
	defer prometheus.TrackDBOperation("residents.update")()
	return r.db.WithContext(ctx).Save(resident).Error
}

// Delete removes the resident with the given id
func (r *ResidentRepository) Delete(ctx context.Context, id string) (bool, error) {
	defer prometheus.TrackDBOperation("residents.delete")()
	result := r.db.WithContext(ctx).Delete(&model.Resident{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// List returns all residents
func (r *ResidentRepository) List(ctx context.Context) ([]model.Resident, error) {
	defer prometheus.TrackDBOperation("residents.list")()
	residents := []model.Resident{}
	if err := r.db.WithContext(ctx).Order("name").Find(&residents).Error; err != nil {
		return nil, err
	}
	return residents, nil
}

// Count returns the total number of residents
func (r *ResidentRepository) Count(ctx context.Context) (int64, error) {
	defer prometheus.TrackDBOperation("residents.count")()
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Resident{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
