package service

import (
	"context"
	"testing"

	"github.com/xxiimcha/lifeec-mobile/internal/apperror"
	"github.com/xxiimcha/lifeec-mobile/internal/model"
	"github.com/xxiimcha/lifeec-mobile/internal/repository"
	"github.com/xxiimcha/lifeec-mobile/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

func newAccountService(t *testing.T) *AccountService {
	t.Helper()
	repo := repository.NewAccountRepository(testutil.NewDB(t))
	return NewAccountService(repo, &BcryptHasher{Cost: bcrypt.MinCost})
}

func TestAccountLifecycle(t *testing.T) {
	svc := newAccountService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, AccountInput{
		Name: "Maria", Email: "Maria@LifeEC.test", Password: "pw", UserType: "Family Member", ResidentID: "res-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Email != "maria@lifeec.test" {
		t.Fatalf("expected normalized email, got %s", created.Email)
	}
	if created.Password == "pw" {
		t.Fatalf("password stored in clear")
	}
	if created.ResidentID == nil || *created.ResidentID != "res-1" {
		t.Fatalf("expected resident link, got %v", created.ResidentID)
	}

	if _, err := svc.Create(ctx, AccountInput{
		Name: "Dup", Email: "maria@lifeec.test", Password: "pw", UserType: "Nurse",
	}); !apperror.Is(err, apperror.KindConflict) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, AccountInput{UserType: "Nurse"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.UserType != model.RoleNurse || updated.ResidentID != nil {
		t.Fatalf("expected nurse without resident link, got %+v", updated)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAccountValidation(t *testing.T) {
	svc := newAccountService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		in    AccountInput
		field string
	}{
		{"unknown role", AccountInput{Name: "a", Email: "a@x.test", Password: "p", UserType: "Janitor"}, "userType"},
		{"family without resident", AccountInput{Name: "a", Email: "a@x.test", Password: "p", UserType: "Family Member"}, "residentId"},
		{"missing email", AccountInput{Name: "a", Password: "p", UserType: "Admin"}, "email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			appErr, ok := err.(*apperror.Error)
			if !ok || appErr.Kind != apperror.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := appErr.Fields[tc.field]; !ok {
				t.Fatalf("expected %s to be reported, got %v", tc.field, appErr.Fields)
			}
		})
	}
}
