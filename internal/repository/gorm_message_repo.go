package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Gaurav220900/Social/internal/domain"
)

// GormMessageRepository implements MessageRepository using GORM.
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GORM-based message repository.
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Create persists a message and bumps the conversation's activity timestamp
// in the same transaction. The message's read flag is whatever the caller
// decided; it is never changed here.
func (r *GormMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}

	model := domain.MessageToModel(msg)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		result := tx.Model(&domain.ConversationModel{}).
			Where("id = ?", msg.ConversationID).
			Update("updated_at", time.Now())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrConversationNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	msg.CreatedAt = model.CreatedAt
	return nil
}

// History lists all messages between two users ascending by creation time.
func (r *GormMessageRepository) History(ctx context.Context, userID, otherID string) ([]*domain.Message, error) {
	var models []domain.MessageModel
	if err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	messages := make([]*domain.Message, 0, len(models))
	for i := range models {
		messages = append(messages, models[i].ToDomain())
	}
	return messages, nil
}

// MarkSeen flips read on every unread message from senderID to receiverID.
// A second call finds nothing to update and changes nothing.
func (r *GormMessageRepository) MarkSeen(ctx context.Context, receiverID, senderID string) error {
	return r.db.WithContext(ctx).Model(&domain.MessageModel{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Update("is_read", true).Error
}

// CountUnread counts unread messages addressed to userID. Always a live
// COUNT so the value cannot drift from the rows.
func (r *GormMessageRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.MessageModel{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// FindOrCreateConversation resolves the one conversation for the unordered
// pair. The pair is stored normalized so (A,B) and (B,A) hit the same row;
// a concurrent create losing the unique-index race falls back to the winner.
func (r *GormMessageRepository) FindOrCreateConversation(ctx context.Context, userA, userB string) (*domain.Conversation, error) {
	low, high := domain.NormalizePair(userA, userB)

	var model domain.ConversationModel
	err := r.db.WithContext(ctx).
		First(&model, "member_low_id = ? AND member_high_id = ?", low, high).Error
	if err == nil {
		return model.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	model = domain.ConversationModel{
		ID:           uuid.New().String(),
		MemberLowID:  low,
		MemberHighID: high,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing domain.ConversationModel
			if ferr := r.db.WithContext(ctx).
				First(&existing, "member_low_id = ? AND member_high_id = ?", low, high).Error; ferr != nil {
				return nil, ferr
			}
			return existing.ToDomain(), nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ConversationsFor lists the user's conversations newest activity first.
func (r *GormMessageRepository) ConversationsFor(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	var models []domain.ConversationModel
	if err := r.db.WithContext(ctx).
		Where("member_low_id = ? OR member_high_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	conversations := make([]*domain.Conversation, 0, len(models))
	for i := range models {
		conversations = append(conversations, models[i].ToDomain())
	}
	return conversations, nil
}

// LastMessage returns the newest message of a conversation, nil when empty.
func (r *GormMessageRepository) LastMessage(ctx context.Context, conversationID string) (*domain.Message, error) {
	var model domain.MessageModel
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure interface is satisfied at compile time.
var _ MessageRepository = (*GormMessageRepository)(nil)
