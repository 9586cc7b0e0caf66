package service

import (
	"context"
	"errors"

	"github.com/Gaurav220900/Social/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSelfFollow         = errors.New("cannot follow yourself")
	ErrSelfMessage        = errors.New("cannot message yourself")
	ErrSelfBlock          = errors.New("cannot block yourself")
	ErrBlocked            = errors.New("recipient has blocked you")
	ErrEmptyContent       = errors.New("content must not be empty")
)

// UserService handles registration, authentication and profiles.
type UserService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	Search(ctx context.Context, query string, limit int) ([]*domain.User, error)
	Update(ctx context.Context, userID string, req *domain.UpdateUserRequest) (*domain.User, error)
}

// ChatService persists chat messages and fans them out to live sessions.
type ChatService interface {
	// Send validates, persists and then pushes the message to both the
	// receiver's and the sender's live sessions.
	Send(ctx context.Context, senderID string, req *domain.SendMessageRequest) (*domain.Message, error)
	History(ctx context.Context, userID, otherID string) ([]*domain.Message, error)
	FindOrCreateConversation(ctx context.Context, userID, otherID string) (*domain.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]*domain.ConversationResponse, error)
}

// NotificationService creates and pushes like/comment/follow notifications.
type NotificationService interface {
	// Notify persists and pushes a notification unless the actor is the
	// recipient. Push failures are swallowed.
	Notify(ctx context.Context, recipientID, senderID string, typ domain.NotificationType, postID string) error
	List(ctx context.Context, recipientID string, limit int) ([]*domain.NotificationResponse, error)
	MarkRead(ctx context.Context, recipientID, id string) error
	MarkAllRead(ctx context.Context, recipientID string) error
	Delete(ctx context.Context, recipientID, id string) error
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}

// SocialService manages the follow graph and block lists.
type SocialService interface {
	Follow(ctx context.Context, followerID, targetID string) error
	Unfollow(ctx context.Context, followerID, targetID string) error
	Block(ctx context.Context, userID, targetID string) error
	Unblock(ctx context.Context, userID, targetID string) error
}

// PostService handles posts, comments and likes.
type PostService interface {
	Create(ctx context.Context, authorID string, req *domain.CreatePostRequest) (*domain.Post, error)
	Get(ctx context.Context, id string) (*domain.Post, error)
	Update(ctx context.Context, authorID, id string, req *domain.UpdatePostRequest) (*domain.Post, error)
	Delete(ctx context.Context, authorID, id string) error
	Feed(ctx context.Context, limit, offset int) ([]*domain.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error)
	ToggleLike(ctx context.Context, postID, userID string) (*domain.LikeResponse, error)
	CreateComment(ctx context.Context, postID, authorID string, req *domain.CreateCommentRequest) (*domain.Comment, error)
	ListComments(ctx context.Context, postID string) ([]*domain.Comment, error)
}
