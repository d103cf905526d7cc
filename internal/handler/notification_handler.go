package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/xxiimcha/lifeec-mobile/internal/apperror"
	"github.com/xxiimcha/lifeec-mobile/internal/middleware"
	"github.com/xxiimcha/lifeec-mobile/internal/model"
	"github.com/xxiimcha/lifeec-mobile/internal/service"
	"github.com/xxiimcha/lifeec-mobile/pkg/logger"
	"go.uber.org/zap"
)

// NotificationRequest is the body of POST /notifications
type NotificationRequest struct {
	UserID  string `json:"userId" validate:"max=36"`
	Type    string `json:"type" validate:"omitempty,oneof=message alert reminder"`
	Content string `json:"content"`
}

// NotificationHandler serves in-app notifications
type NotificationHandler struct {
	notifications *service.NotificationService
}

// NewNotificationHandler creates a notification handler
func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// Create handles POST /notifications
func (h *NotificationHandler) Create(c echo.Context) error {
	var req NotificationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	notification, err := h.notifications.Create(c.Request().Context(), req.UserID, req.Type, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, notification)
}

// ForUser handles GET /notifications/:userId. Only the addressee or an
// Admin may list them.
func (h *NotificationHandler) ForUser(c echo.Context) error {
	claims := middleware.GetUserClaims(c)
	userID := c.Param("userId")
	if claims.UserID != userID && model.Role(claims.UserType) != model.RoleAdmin {
		logger.FromContext(c).Warn("Notification list denied",
			zap.String("caller_id", claims.UserID),
			zap.String("user_id", userID))
		return apperror.Forbidden("Access denied")
	}

	notifications, err := h.notifications.ForUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notifications)
}

// MarkRead handles PATCH /notifications/:id/read for the caller's own
// notifications
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	claims := middleware.GetUserClaims(c)
	notification, err := h.notifications.MarkRead(c.Request().Context(), c.Param("id"), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notification)
}
