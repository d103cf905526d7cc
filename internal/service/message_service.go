package service

import (
	"context"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/xxiimcha/lifeec-mobile/internal/apperror"
	"github.com/xxiimcha/lifeec-mobile/internal/model"
)

// MessageStore is the persistence for direct messages
type MessageStore interface {
	Create(ctx context.Context, message *model.Message) error
	Conversation(ctx context.Context, a, b string) ([]model.Message, error)
	MarkRead(ctx context.Context, id, receiverID string) (bool, error)
}

// MessageService sends and lists direct messages
type MessageService struct {
	messages MessageStore
	clock    clockwork.Clock
}

// NewMessageService creates a message service
func NewMessageService(messages MessageStore, clock clockwork.Clock) *MessageService {
	return &MessageService{messages: messages, clock: clock}
}

// Send stores a message from senderID to receiverID
func (s *MessageService) Send(ctx context.Context, senderID, receiverID, text string) (*model.Message, error) {
	fields := map[string]string{}
	if senderID == "" {
		fields["senderId"] = "senderId is required"
	}
	if strings.TrimSpace(receiverID) == "" {
		fields["receiverId"] = "receiverId is required"
	}
	if strings.TrimSpace(text) == "" {
		fields["text"] = "text is required"
	}
	if len(fields) > 0 {
		return nil, apperror.Validation("Validation failed", fields)
	}

	message := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Time:       s.clock.Now().UTC(),
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, apperror.Store("Error saving message", err)
	}
	return message, nil
}

// Conversation returns the messages between two accounts, oldest first
func (s *MessageService) Conversation(ctx context.Context, userID, otherID string) ([]model.Message, error) {
	if strings.TrimSpace(otherID) == "" {
		return nil, apperror.Validation("Validation failed", map[string]string{"with": "with is required"})
	}
	messages, err := s.messages.Conversation(ctx, userID, otherID)
	if err != nil {
		return nil, apperror.Store("Error fetching messages", err)
	}
	return messages, nil
}

// MarkRead flags a message received by receiverID as read
func (s *MessageService) MarkRead(ctx context.Context, id, receiverID string) error {
	found, err := s.messages.MarkRead(ctx, id, receiverID)
	if err != nil {
		return apperror.Store("Error updating message", err)
	}
	if !found {
		return apperror.NotFound("Message not found")
	}
	return nil
}
