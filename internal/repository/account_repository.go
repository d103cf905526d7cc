package repository

import (
	"context"
	"errors"
	"time"

	"github.com/xxiimcha/lifeec-mobile/internal/model"
	"github.com/xxiimcha/lifeec-mobile/prometheus"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup by id or key matches nothing
var ErrNotFound = errors.New("record not found")

// AccountRepository is the directory store for user accounts
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an account repository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account
func (r *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	defer prometheus.TrackDBOperation("accounts.insert")()
	return r.db.WithContext(ctx).Create(account).Error
}

// FindByID returns the account with the given id
func (r *AccountRepository) FindByID(ctx context.Context, id string) (*model.Account, error) {
	defer prometheus.TrackDBOperation("accounts.find_by_id")()
	var account model.Account
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

// FindByEmail returns the account registered with the given email
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	defer prometheus.TrackDBOperation("accounts.find_by_email")()
	var account model.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

// ExistsByEmail reports whether an account other than excludeID uses email
func (r *AccountRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	defer prometheus.TrackDBOperation("accounts.exists_by_email")()
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Account{}).Where("email = ?", email)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByRoles returns every account whose role is in roles, in store order
func (r *AccountRepository) FindByRoles(ctx context.Context, roles []model.Role) ([]model.Account, error) {
	defer prometheus.TrackDBOperation("accounts.find_by_roles")()
	accounts := []model.Account{}
	if len(roles) == 0 {
		return accounts, nil
	}
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	if err := r.db.WithContext(ctx).Where("user_type IN ?", names).Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// List returns all accounts
func (r *AccountRepository) List(ctx context.Context) ([]model.Account, error) {
	defer prometheus.TrackDBOperation("accounts.list")()
	accounts := []model.Account{}
	if err := r.db.WithContext(ctx).Order("created_at").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Save writes all fields of an existing account
func (r *AccountRepository) Save(ctx context.Context, account *model.Account) error {
	defer prometheus.TrackDBOperation("accounts.update")()
	return r.db.WithContext(ctx).Save(account).Error
}

// Delete removes the account with the given id
func (r *AccountRepository) Delete(ctx context.Context, id string) (bool, error) {
	defer prometheus.TrackDBOperation("accounts.delete")()
	result := r.db.WithContext(ctx).Delete(&model.Account{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SetResetToken stores a hashed reset token and its expiry on the account
func (r *AccountRepository) SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error {
	defer prometheus.TrackDBOperation("accounts.set_reset_token")()
	return r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Updates(map[string]interface{}{
		"reset_password_token":   tokenHash,
		"reset_password_expires": expires,
	}).Error
}

// FindByResetToken returns the account holding tokenHash whose expiry is
// still after now
func (r *AccountRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*model.Account, error) {
	defer prometheus.TrackDBOperation("accounts.find_by_reset_token")()
	var account model.Account
	err := r.db.WithContext(ctx).
		Where("reset_password_token = ? AND reset_password_expires > ?", tokenHash, now).
		First(&account).Error
	if err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

// ResetPassword sets the password hash and clears any pending reset token
func (r *AccountRepository) ResetPassword(ctx context.Context, id, passwordHash string) error {
	defer prometheus.TrackDBOperation("accounts.reset_password")()
	return r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password":               passwordHash,
		"reset_password_token":   nil,
		"reset_password_expires": nil,
	}).Error
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
