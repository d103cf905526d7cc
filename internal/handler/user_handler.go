package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/xxiimcha/lifeec-mobile/internal/service"
	"github.com/xxiimcha/lifeec-mobile/pkg/logger"
	"go.uber.org/zap"
)

// UserRequest is the body of POST /users and PUT /users/:id
type UserRequest struct {
	Name       string `json:"name" validate:"max=100"`
	Email      string `json:"email" validate:"omitempty,email,max=100"`
	Password   string `json:"password"`
	UserType   string `json:"userType"`
	ResidentID string `json:"residentId" validate:"max=36"`
}

func (r UserRequest) input() service.AccountInput {
	return service.AccountInput{
		Name:       r.Name,
		Email:      r.Email,
		Password:   r.Password,
		UserType:   r.UserType,
		ResidentID: r.ResidentID,
	}
}

// UserHandler serves account administration
type UserHandler struct {
	accounts *service.AccountService
}

// NewUserHandler creates a user handler
func NewUserHandler(accounts *service.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// Create handles POST /users
func (h *UserHandler) Create(c echo.Context) error {
	var req UserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}

	logger.FromContext(c).Info("User created",
		zap.String("user_id", account.ID),
		zap.String("user_type", string(account.UserType)))
	return c.JSON(http.StatusCreated, account)
}

// List handles GET /users
func (h *UserHandler) List(c echo.Context) error {
	accounts, err := h.accounts.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accounts)
}

// Get handles GET /users/:id
func (h *UserHandler) Get(c echo.Context) error {
	account, err := h.accounts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Update handles PUT /users/:id
func (h *UserHandler) Update(c echo.Context) error {
	var req UserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.Update(c.Request().Context(), c.Param("id"), req.input())
	if err != nil {
		return err
	}

	logger.FromContext(c).Info("User updated", zap.String("user_id", account.ID))
	return c.JSON(http.StatusOK, account)
}

// Delete handles DELETE /users/:id
func (h *UserHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.accounts.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	logger.FromContext(c).Info("User deleted", zap.String("user_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}
