package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/xxiimcha/lifeec-mobile/internal/service"
	"github.com/xxiimcha/lifeec-mobile/pkg/logger"
	"go.uber.org/zap"
)

// ContactHandler serves the role-filtered contact directory
type ContactHandler struct {
	contacts *service.ContactService
}

// NewContactHandler creates a contact handler
func NewContactHandler(contacts *service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// List handles GET /contacts?userType=
func (h *ContactHandler) List(c echo.Context) error {
	role := c.QueryParam("userType")
	accounts, err := h.contacts.ListVisible(c.Request().Context(), role)
	if err != nil {
		return err
	}

	logger.FromContext(c).Debug("Contacts listed",
		zap.String("user_type", role),
		zap.Int("count", len(accounts)))
	return c.JSON(http.StatusOK, accounts)
}
