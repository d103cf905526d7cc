package service

import (
	"context"
	"errors"
	"strings"

	"github.com/xxiimcha/lifeec-mobile/internal/apperror"
	"github.com/xxiimcha/lifeec-mobile/internal/model"
	"github.com/xxiimcha/lifeec-mobile/internal/repository"
)

// AccountDirectory is the full directory store used for account management
type AccountDirectory interface {
	Create(ctx context.Context, account *model.Account) error
	FindByID(ctx context.Context, id string) (*model.Account, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	List(ctx context.Context) ([]model.Account, error)
	Save(ctx context.Context, account *model.Account) error
	Delete(ctx context.Context, id string) (bool, error)
}

// AccountInput carries account fields for create and update. On update,
// empty fields keep their current value.
type AccountInput struct {
	Name       string
	Email      string
	Password   string
	UserType   string
	ResidentID string
}

// AccountService manages user accounts
type AccountService struct {
	accounts AccountDirectory
	hasher   PasswordHasher
}

// NewAccountService creates an account service
func NewAccountService(accounts AccountDirectory, hasher PasswordHasher) *AccountService {
	return &AccountService{accounts: accounts, hasher: hasher}
}

// Create registers a new account
func (s *AccountService) Create(ctx context.Context, in AccountInput) (*model.Account, error) {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(in.Email) == "" {
		fields["email"] = "email is required"
	}
	if in.Password == "" {
		fields["password"] = "password is required"
	}
	role, ok := model.ParseRole(in.UserType)
	if !ok {
		fields["userType"] = "userType must be one of Family Member, Nurse, Nutritionist, Admin"
	} else if role == model.RoleFamilyMember && strings.TrimSpace(in.ResidentID) == "" {
		fields["residentId"] = "residentId is required for Family Member accounts"
	}
	if len(fields) > 0 {
		return nil, apperror.Validation("Validation failed", fields)
	}

	email := normalizeEmail(in.Email)
	taken, err := s.accounts.ExistsByEmail(ctx, email, "")
	if err != nil {
		return nil, apperror.Store("Failed to add user", err)
	}
	if taken {
		return nil, apperror.Conflict("Email already in use")
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperror.Store("Failed to add user", err)
	}

	account := &model.Account{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: hashed,
		UserType: role,
	}
	if role == model.RoleFamilyMember {
		rid := strings.TrimSpace(in.ResidentID)
		account.ResidentID = &rid
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, apperror.Store("Failed to add user", err)
	}
	return account, nil
}

// List returns every account
func (s *AccountService) List(ctx context.Context) ([]model.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, apperror.Store("Failed to get users", err)
	}
	return accounts, nil
}

// Get returns one account
func (s *AccountService) Get(ctx context.Context, id string) (*model.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, apperror.Store("Failed to get user", err)
	}
	return account, nil
}

// Update changes the non-empty fields of an account
func (s *AccountService) Update(ctx context.Context, id string, in AccountInput) (*model.Account, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		account.Name = name
	}
	if in.UserType != "" {
		role, ok := model.ParseRole(in.UserType)
		if !ok {
			return nil, apperror.Validation("Validation failed", map[string]string{
				"userType": "userType must be one of Family Member, Nurse, Nutritionist, Admin",
			})
		}
		account.UserType = role
	}
	if rid := strings.TrimSpace(in.ResidentID); rid != "" {
		account.ResidentID = &rid
	}
	if account.UserType == model.RoleFamilyMember && (account.ResidentID == nil || *account.ResidentID == "") {
		return nil, apperror.Validation("Validation failed", map[string]string{
			"residentId": "residentId is required for Family Member accounts",
		})
	}
	if account.UserType != model.RoleFamilyMember {
		account.ResidentID = nil
	}

	if in.Email != "" {
		email := normalizeEmail(in.Email)
		taken, err := s.accounts.ExistsByEmail(ctx, email, account.ID)
		if err != nil {
			return nil, apperror.Store("Failed to edit user", err)
		}
		if taken {
			return nil, apperror.Conflict("Email already in use")
		}
		account.Email = email
	}
	if in.Password != "" {
		hashed, err := s.hasher.Hash(in.Password)
		if err != nil {
			return nil, apperror.Store("Failed to edit user", err)
		}
		account.Password = hashed
	}

	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, apperror.Store("Failed to edit user", err)
	}
	return account, nil
}

// Delete removes an account. Unlike alerts, a missing account is reported.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	deleted, err := s.accounts.Delete(ctx, id)
	if err != nil {
		return apperror.Store("Failed to delete user", err)
	}
	if !deleted {
		return apperror.NotFound("User not found")
	}
	return nil
}
