package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/xxiimcha/lifeec-mobile/internal/middleware"
	"github.com/xxiimcha/lifeec-mobile/internal/service"
	"github.com/xxiimcha/lifeec-mobile/pkg/logger"
	"go.uber.org/zap"
)

// MessageRequest is the body of POST /messages. The sender is the
// authenticated caller.
type MessageRequest struct {
	ReceiverID string `json:"receiverId" validate:"max=36"`
	Text       string `json:"text"`
}

// MessageHandler serves direct messages between accounts
type MessageHandler struct {
	messages *service.MessageService
}

// NewMessageHandler creates a message handler
func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Send handles POST /messages
func (h *MessageHandler) Send(c echo.Context) error {
	claims := middleware.GetUserClaims(c)

	var req MessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	message, err := h.messages.Send(c.Request().Context(), claims.UserID, req.ReceiverID, req.Text)
	if err != nil {
		return err
	}

	logger.FromContext(c).Info("Message sent",
		zap.String("message_id", message.ID),
		zap.String("receiver_id", message.ReceiverID))
	return c.JSON(http.StatusCreated, message)
}

// Conversation handles GET /messages?with=
func (h *MessageHandler) Conversation(c echo.Context) error {
	claims := middleware.GetUserClaims(c)
	messages, err := h.messages.Conversation(c.Request().Context(), claims.UserID, c.QueryParam("with"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messages)
}

// MarkRead handles PATCH /messages/:id/read
func (h *MessageHandler) MarkRead(c echo.Context) error {
	claims := middleware.GetUserClaims(c)
	if err := h.messages.MarkRead(c.Request().Context(), c.Param("id"), claims.UserID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Message marked as read"})
}
