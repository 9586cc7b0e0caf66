package domain

import (
	"time"
)

// NotificationType enumerates the producing actions.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
)

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationLike, NotificationComment, NotificationFollow:
		return true
	}
	return false
}

// Notification represents a like/comment/follow event for a recipient.
type Notification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipient_id"`
	SenderID    string           `json:"sender_id"`
	Type        NotificationType `json:"type"`
	PostID      string           `json:"post_id,omitempty"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
}

// NotificationResponse is a notification with its sender (and post, for
// like/comment) populated for display.
type NotificationResponse struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Sender    UserSummary      `json:"sender"`
	Post      *Post            `json:"post,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

// NotificationModel is the GORM model for the notifications table.
type NotificationModel struct {
	ID          string    `gorm:"type:varchar(36);primaryKey"`
	RecipientID string    `gorm:"type:varchar(36);index:idx_recipient_created;not null"`
	SenderID    string    `gorm:"type:varchar(36);not null"`
	Type        string    `gorm:"type:varchar(20);not null"`
	PostID      string    `gorm:"type:varchar(36)"`
	Read        bool      `gorm:"column:is_read;not null;default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_recipient_created,sort:desc"`
}

// TableName specifies the table name for NotificationModel.
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts NotificationModel to domain Notification.
func (m *NotificationModel) ToDomain() *Notification {
	return &Notification{
		ID:          m.ID,
		RecipientID: m.RecipientID,
		SenderID:    m.SenderID,
		Type:        NotificationType(m.Type),
		PostID:      m.PostID,
		Read:        m.Read,
		CreatedAt:   m.CreatedAt,
	}
}

// NotificationToModel converts domain Notification to NotificationModel.
func NotificationToModel(n *Notification) *NotificationModel {
	return &NotificationModel{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		SenderID:    n.SenderID,
		Type:        string(n.Type),
		PostID:      n.PostID,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt,
	}
}
