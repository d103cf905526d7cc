package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/xxiimcha/lifeec-mobile/internal/service"
	"github.com/xxiimcha/lifeec-mobile/pkg/logger"
	"go.uber.org/zap"
)

// SignInRequest is the body of POST /auth/signin
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordRequest is the body of POST /auth/forgot-password
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

// ResetPasswordRequest is the body of POST /auth/reset-password/:token
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// AuthHandler serves sign-in and password reset
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// SignIn handles POST /auth/signin
func (h *AuthHandler) SignIn(c echo.Context) error {
	log := logger.FromContext(c)

	var req SignInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.auth.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		log.Warn("Sign in failed", zap.String("email", req.Email))
		return err
	}

	log.Info("User signed in",
		zap.String("user_id", res.ID),
		zap.String("user_type", string(res.UserType)))
	return c.JSON(http.StatusOK, res)
}

// ForgotPassword handles POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.auth.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}

	logger.FromContext(c).Info("Password reset requested", zap.String("email", req.Email))
	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset link sent to your email"})
}

// ResetPassword handles POST /auth/reset-password/:token
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.auth.ResetPassword(c.Request().Context(), c.Param("token"), req.Password); err != nil {
		return err
	}

	logger.FromContext(c).Info("Password reset completed")
	return c.JSON(http.StatusOK, echo.Map{"message": "Password has been reset successfully"})
}
