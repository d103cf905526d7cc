package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/xxiimcha/lifeec-mobile/internal/apperror"
	"github.com/xxiimcha/lifeec-mobile/internal/model"
	"github.com/xxiimcha/lifeec-mobile/internal/repository"
	"github.com/xxiimcha/lifeec-mobile/pkg/jwtutil"
	"github.com/xxiimcha/lifeec-mobile/pkg/mailer"
	"github.com/xxiimcha/lifeec-mobile/prometheus"
)

// ResetTokenTTL is how long a password reset link stays valid
const ResetTokenTTL = 10 * time.Minute

// AccountStore is the directory store used for authentication
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*model.Account, error)
	ResetPassword(ctx context.Context, id, passwordHash string) error
}

// SignInResult is returned on successful sign-in
type SignInResult struct {
	Token    string     `json:"token"`
	UserType model.Role `json:"userType"`
	Name     string     `json:"name"`
	ID       string     `json:"id"`
}

// AuthService handles sign-in and the password reset flow
type AuthService struct {
	accounts     AccountStore
	hasher       PasswordHasher
	tokens       *jwtutil.JWTUtil
	notifier     mailer.Notifier
	clock        clockwork.Clock
	resetURLBase string
}

// NewAuthService creates an auth service
func NewAuthService(accounts AccountStore, hasher PasswordHasher, tokens *jwtutil.JWTUtil,
	notifier mailer.Notifier, clock clockwork.Clock, resetURLBase string) *AuthService {
	return &AuthService{
		accounts:     accounts,
		hasher:       hasher,
		tokens:       tokens,
		notifier:     notifier,
		clock:        clock,
		resetURLBase: strings.TrimRight(resetURLBase, "/"),
	}
}

// SignIn verifies credentials and issues a one-hour token
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	prometheus.LoginCounter.Inc()

	fields := map[string]string{}
	if strings.TrimSpace(email) == "" {
		fields["email"] = "email is required"
	}
	if password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		return nil, apperror.Validation("Email and password are required", fields)
	}

	account, err := s.accounts.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		prometheus.RecordAuthError("user_not_found")
		return nil, apperror.Auth("Invalid credentials")
	}
	if err != nil {
		return nil, apperror.Store("Sign in failed", err)
	}

	ok, err := s.hasher.Verify(account.Password, password)
	if err != nil {
		return nil, apperror.Store("Sign in failed", err)
	}
	if !ok {
		prometheus.RecordAuthError("invalid_password")
		return nil, apperror.Auth("Invalid credentials")
	}

	token, err := s.tokens.GenerateToken(account.ID, string(account.UserType))
	if err != nil {
		prometheus.RecordAuthError("token_generation_failed")
		return nil, apperror.Store("Sign in failed", err)
	}

	return &SignInResult{
		Token:    token,
		UserType: account.UserType,
		Name:     account.Name,
		ID:       account.ID,
	}, nil
}

// ForgotPassword issues a reset token for the account and mails the link.
// Only the sha256 of the token is stored.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return apperror.Validation("Email is required", map[string]string{"email": "email is required"})
	}

	account, err := s.accounts.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("User not found")
	}
	if err != nil {
		return apperror.Store("Failed to process password reset", err)
	}

	token, err := newResetToken()
	if err != nil {
		return apperror.Store("Failed to process password reset", err)
	}

	expires := s.clock.Now().UTC().Add(ResetTokenTTL)
	if err := s.accounts.SetResetToken(ctx, account.ID, hashResetToken(token), expires); err != nil {
		return apperror.Store("Failed to process password reset", err)
	}

	if err := s.notifier.SendPasswordReset(ctx, account.Email, s.resetURLBase+"/"+token); err != nil {
		return apperror.Store("Failed to send password reset email", err)
	}

	prometheus.RecordPasswordReset("requested")
	return nil
}

// ResetPassword sets a new password if token is known and unexpired
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if password == "" {
		return apperror.Validation("Password is required", map[string]string{"password": "password is required"})
	}
	if token == "" {
		prometheus.RecordAuthError("invalid_reset_token")
		return apperror.Validation("Invalid or expired token", nil)
	}

	account, err := s.accounts.FindByResetToken(ctx, hashResetToken(token), s.clock.Now().UTC())
	if errors.Is(err, repository.ErrNotFound) {
		prometheus.RecordAuthError("invalid_reset_token")
		return apperror.Validation("Invalid or expired token", nil)
	}
	if err != nil {
		return apperror.Store("Failed to reset password", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return apperror.Store("Failed to reset password", err)
	}
	if err := s.accounts.ResetPassword(ctx, account.ID, hashed); err != nil {
		return apperror.Store("Failed to reset password", err)
	}

	prometheus.RecordPasswordReset("completed")
	return nil
}

func newResetToken() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
