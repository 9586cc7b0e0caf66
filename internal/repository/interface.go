package repository

import (
	"context"
	"errors"

	"github.com/Gaurav220900/Social/internal/domain"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailExists          = errors.New("email already exists")
	ErrUsernameExists       = errors.New("username already exists")
	ErrMessageNotFound      = errors.New("message not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrPostNotFound         = errors.New("post not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrAlreadyFollowing     = errors.New("already following")
	ErrFollowNotFound       = errors.New("follow relationship not found")
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetSummaries(ctx context.Context, ids []string) (map[string]domain.UserSummary, error)
	SearchByUsername(ctx context.Context, query string, limit int) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateBlockedIDs(ctx context.Context, userID string, blocked []string) error
}

// MessageRepository defines the interface for message and conversation
// persistence. Unread accounting recomputes by count, never keeps a stored
// counter.
type MessageRepository interface {
	// Create persists a message inside its conversation and bumps the
	// conversation's activity timestamp.
	Create(ctx context.Context, msg *domain.Message) error
	// History lists all messages between two users ascending by creation time.
	History(ctx context.Context, userID, otherID string) ([]*domain.Message, error)
	// MarkSeen flips read=true on every unread message from senderID to
	// receiverID. Idempotent.
	MarkSeen(ctx context.Context, receiverID, senderID string) error
	// CountUnread counts unread messages addressed to userID.
	CountUnread(ctx context.Context, userID string) (int64, error)
	// FindOrCreateConversation resolves the single conversation for the
	// unordered user pair, creating it when absent.
	FindOrCreateConversation(ctx context.Context, userA, userB string) (*domain.Conversation, error)
	// ConversationsFor lists a user's conversations newest activity first.
	ConversationsFor(ctx context.Context, userID string) ([]*domain.Conversation, error)
	// LastMessage returns the newest message of a conversation, nil when the
	// conversation is empty.
	LastMessage(ctx context.Context, conversationID string) (*domain.Message, error)
}

// NotificationRepository defines the interface for notification persistence.
// Read state here is independent of message read state.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	// ListForRecipient returns notifications newest first.
	ListForRecipient(ctx context.Context, recipientID string, limit int) ([]*domain.Notification, error)
	// MarkRead flips read on one notification, scoped to its recipient.
	MarkRead(ctx context.Context, recipientID, id string) error
	// MarkAllRead flips read on every unread notification of the recipient.
	// Idempotent.
	MarkAllRead(ctx context.Context, recipientID string) error
	Delete(ctx context.Context, recipientID, id string) error
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}

// PostRepository defines the interface for post, comment and like
// persistence.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, authorID, id string) error
	// Feed lists posts newest first with offset pagination.
	Feed(ctx context.Context, limit, offset int) ([]*domain.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error)
	// ToggleLike flips the (post, user) like row and returns the new state
	// plus the post's like count.
	ToggleLike(ctx context.Context, postID, userID string) (liked bool, likes int64, err error)
	CreateComment(ctx context.Context, comment *domain.Comment) error
	ListComments(ctx context.Context, postID string) ([]*domain.Comment, error)
}

// FollowRepository defines the interface for the follow graph.
type FollowRepository interface {
	// Follow creates the relationship; duplicates surface as
	// ErrAlreadyFollowing.
	Follow(ctx context.Context, followerID, targetID string) error
	Unfollow(ctx context.Context, followerID, targetID string) error
	IsFollowing(ctx context.Context, followerID, targetID string) (bool, error)
	FollowerCount(ctx context.Context, userID string) (int64, error)
	FollowingCount(ctx context.Context, userID string) (int64, error)
	FollowerIDs(ctx context.Context, userID string) ([]string, error)
}
