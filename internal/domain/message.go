package domain

import (
	"time"
)

// Message represents one chat message inside a conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	ReceiverID     string    `json:"receiver_id"`
	Content        string    `json:"content"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

// Conversation is the durable record for a chat between exactly two users.
// MemberLowID/MemberHighID store the pair normalized by lexicographic order
// so the unordered pair maps to at most one row.
type Conversation struct {
	ID           string    `json:"id"`
	MemberLowID  string    `json:"-"`
	MemberHighID string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Members returns both member ids.
func (c *Conversation) Members() []string {
	return []string{c.MemberLowID, c.MemberHighID}
}

// OtherMember returns the member that is not userID, or empty when userID is
// not part of the conversation.
func (c *Conversation) OtherMember(userID string) string {
	switch userID {
	case c.MemberLowID:
		return c.MemberHighID
	case c.MemberHighID:
		return c.MemberLowID
	}
	return ""
}

// NormalizePair orders two member ids into the (low, high) storage form.
func NormalizePair(a, b string) (low, high string) {
	if a < b {
		return a, b
	}
	return b, a
}

// SendMessageRequest is the body of POST /api/messages.
type SendMessageRequest struct {
	ReceiverID string `json:"receiverId" binding:"required"`
	Content    string `json:"content" binding:"required,max=2000"`
}

// MarkSeenRequest is the body of POST /api/messages/mark-seen.
type MarkSeenRequest struct {
	SenderID string `json:"senderId" binding:"required"`
}

// ConversationRequest is the body of POST /api/conversations.
type ConversationRequest struct {
	ReceiverID string `json:"receiverId" binding:"required"`
}

// ConversationResponse is a conversation as listed for one viewer: the other
// participant plus the latest message, newest activity first.
type ConversationResponse struct {
	ID          string      `json:"id"`
	Members     []string    `json:"members"`
	Partner     UserSummary `json:"partner"`
	LastMessage *Message    `json:"last_message,omitempty"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// MessageModel is the GORM model for the messages table.
type MessageModel struct {
	ID             string    `gorm:"type:varchar(36);primaryKey"`
	ConversationID string    `gorm:"type:varchar(36);index;not null"`
	SenderID       string    `gorm:"type:varchar(36);index;not null"`
	ReceiverID     string    `gorm:"type:varchar(36);index:idx_receiver_read;not null"`
	Content        string    `gorm:"type:text;not null"`
	Read           bool      `gorm:"column:is_read;index:idx_receiver_read;not null;default:false"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index"`
}

// TableName specifies the table name for MessageModel.
func (MessageModel) TableName() string {
	return "messages"
}

// ToDomain converts MessageModel to domain Message.
func (m *MessageModel) ToDomain() *Message {
	return &Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		Content:        m.Content,
		Read:           m.Read,
		CreatedAt:      m.CreatedAt,
	}
}

// MessageToModel converts domain Message to MessageModel.
func MessageToModel(msg *Message) *MessageModel {
	return &MessageModel{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		ReceiverID:     msg.ReceiverID,
		Content:        msg.Content,
		Read:           msg.Read,
		CreatedAt:      msg.CreatedAt,
	}
}

// ConversationModel is the GORM model for the conversations table.
type ConversationModel struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"`
	MemberLowID  string    `gorm:"type:varchar(36);uniqueIndex:idx_member_pair;index;not null"`
	MemberHighID string    `gorm:"type:varchar(36);uniqueIndex:idx_member_pair;index;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime;index"`
}

// TableName specifies the table name for ConversationModel.
func (ConversationModel) TableName() string {
	return "conversations"
}

// ToDomain converts ConversationModel to domain Conversation.
func (m *ConversationModel) ToDomain() *Conversation {
	return &Conversation{
		ID:           m.ID,
		MemberLowID:  m.MemberLowID,
		MemberHighID: m.MemberHighID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
