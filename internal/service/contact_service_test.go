package service

import (
	"context"
	"errors"
	"testing"

	"github.com/xxiimcha/lifeec-mobile/internal/apperror"
	"github.com/xxiimcha/lifeec-mobile/internal/model"
	"github.com/xxiimcha/lifeec-mobile/internal/repository"
	"github.com/xxiimcha/lifeec-mobile/internal/testutil"
)

func seedDirectory(t *testing.T, repo *repository.AccountRepository) {
	t.Helper()
	rid := "resident-1"
	accounts := []*model.Account{
		{Name: "Fam", Email: "fam@lifeec.test", Password: "x", UserType: model.RoleFamilyMember, ResidentID: &rid},
		{Name: "Nurse", Email: "nurse@lifeec.test", Password: "x", UserType: model.RoleNurse},
		{Name: "Nutri", Email: "nutri@lifeec.test", Password: "x", UserType: model.RoleNutritionist},
		{Name: "Admin", Email: "admin@lifeec.test", Password: "x", UserType: model.RoleAdmin},
	}
	for _, a := range accounts {
		if err := repo.Create(context.Background(), a); err != nil {
			t.Fatalf("seed %s: %v", a.Email, err)
		}
	}
}

func TestListVisibleContacts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewAccountRepository(db)
	seedDirectory(t, repo)
	svc := NewContactService(repo)

	cases := map[string][]model.Role{
		"Family Member": {model.RoleNurse, model.RoleAdmin},
		"Nurse":         {model.RoleFamilyMember, model.RoleNutritionist, model.RoleAdmin},
		"Nutritionist":  {model.RoleNurse, model.RoleAdmin},
		"Admin":         {model.RoleAdmin},
		"":              {model.RoleAdmin},
		"Janitor":       {model.RoleAdmin},
	}

	for requester, want := range cases {
		t.Run(requester, func(t *testing.T) {
			accounts, err := svc.ListVisible(context.Background(), requester)
			if err != nil {
				t.Fatalf("list visible: %v", err)
			}
			allowed := map[model.Role]bool{}
			for _, r := range want {
				allowed[r] = true
			}
			if len(accounts) != len(want) {
				t.Fatalf("expected %d contacts, got %d", len(want), len(accounts))
			}
			for _, a := range accounts {
				if !allowed[a.UserType] {
					t.Fatalf("requester %q must not see %s", requester, a.UserType)
				}
				if a.Email == "" || a.Name == "" {
					t.Fatalf("contact fields missing: %+v", a)
				}
			}
		})
	}
}

type brokenContactStore struct{}

func (brokenContactStore) FindByRoles(context.Context, []model.Role) ([]model.Account, error) {
	return []model.Account{{Name: "partial"}}, errors.New("timeout")
}

func TestListVisibleStoreFailure(t *testing.T) {
	svc := NewContactService(brokenContactStore{})
	accounts, err := svc.ListVisible(context.Background(), "Nurse")
	if !apperror.Is(err, apperror.KindStore) {
		t.Fatalf("expected store error, got %v", err)
	}
	if accounts != nil {
		t.Fatalf("expected no partial contacts, got %v", accounts)
	}
}
