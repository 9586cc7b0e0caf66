package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Gaurav220900/Social/internal/domain"
)

// GormNotificationRepository implements NotificationRepository using GORM.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GORM-based notification
// repository.
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create persists a notification.
func (r *GormNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	model := domain.NotificationToModel(n)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	n.CreatedAt = model.CreatedAt
	return nil
}

// ListForRecipient returns the recipient's notifications newest first.
func (r *GormNotificationRepository) ListForRecipient(ctx context.Context, recipientID string, limit int) ([]*domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	var models []domain.NotificationModel
	if err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}

	notifications := make([]*domain.Notification, 0, len(models))
	for i := range models {
		notifications = append(notifications, models[i].ToDomain())
	}
	return notifications, nil
}

// MarkRead flips read on one notification. Scoped to the recipient so a user
// cannot touch someone else's notification.
func (r *GormNotificationRepository) MarkRead(ctx context.Context, recipientID, id string) error {
	result := r.db.WithContext(ctx).Model(&domain.NotificationModel{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.notFoundOrAlreadyRead(ctx, recipientID, id)
	}
	return nil
}

// notFoundOrAlreadyRead distinguishes a missing notification from one that
// was already read, so MarkRead stays idempotent.
func (r *GormNotificationRepository) notFoundOrAlreadyRead(ctx context.Context, recipientID, id string) error {
	var model domain.NotificationModel
	err := r.db.WithContext(ctx).
		First(&model, "id = ? AND recipient_id = ?", id, recipientID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

// MarkAllRead flips read on every unread notification of the recipient.
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	return r.db.WithContext(ctx).Model(&domain.NotificationModel{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true).Error
}

// Delete removes one notification, scoped to its recipient.
func (r *GormNotificationRepository) Delete(ctx context.Context, recipientID, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Delete(&domain.NotificationModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// CountUnread counts the recipient's unread notifications.
func (r *GormNotificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.NotificationModel{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure interface is satisfied at compile time.
var _ NotificationRepository = (*GormNotificationRepository)(nil)
