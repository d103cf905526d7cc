package repository

import (
	"context"

	"github.com/xxiimcha/lifeec-mobile/internal/model"
	"github.com/xxiimcha/lifeec-mobile/prometheus"
	"gorm.io/gorm"
)

// MessageRepository is the store for direct messages
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a message repository
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new message
func (r *MessageRepository) Create(ctx context.Context, message *model.Message) error {
	defer prometheus.TrackDBOperation("messages.insert")()
	return r.db.WithContext(ctx).Create(message).Error
}

// Conversation returns every message exchanged between a and b in either
// direction, oldest first
func (r *MessageRepository) Conversation(ctx context.Context, a, b string) ([]model.Message, error) {
	defer prometheus.TrackDBOperation("messages.conversation")()
	messages := []model.Message{}
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("sent_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead flags a message addressed to receiverID as read. It reports
// whether a matching message existed.
func (r *MessageRepository) MarkRead(ctx context.Context, id, receiverID string) (bool, error) {
	defer prometheus.TrackDBOperation("messages.mark_read")()
	result := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		Update("is_read", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
