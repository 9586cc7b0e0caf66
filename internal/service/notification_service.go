package service

import (
	"context"

	"github.com/Gaurav220900/Social/internal/domain"
	"github.com/Gaurav220900/Social/internal/realtime"
	"github.com/Gaurav220900/Social/internal/repository"
	"github.com/Gaurav220900/Social/pkg/log"
)

// notificationServiceImpl implements NotificationService.
type notificationServiceImpl struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	posts         repository.PostRepository
	router        *realtime.Router
}

// NewNotificationService creates a new notification service.
func NewNotificationService(
	notifications repository.NotificationRepository,
	users repository.UserRepository,
	posts repository.PostRepository,
	router *realtime.Router,
) NotificationService {
	return &notificationServiceImpl{
		notifications: notifications,
		users:         users,
		posts:         posts,
		router:        router,
	}
}

// Notify persists a notification and pushes it to the recipient's live
// sessions. Self-notifications are skipped before any write. The producing
// route only ever sees persistence errors, never push errors.
func (s *notificationServiceImpl) Notify(ctx context.Context, recipientID, senderID string, typ domain.NotificationType, postID string) error {
	if recipientID == senderID {
		return nil
	}

	n := &domain.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        typ,
		PostID:      postID,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldUserID, recipientID).Msg("failed to persist notification")
		return err
	}

	s.router.DeliverToUser(recipientID, realtime.EventNewNotification, s.populate(ctx, n))
	return nil
}

// populate attaches the sender summary and, for like/comment, the post.
// Lookup failures degrade to a partially populated payload rather than
// dropping the notification.
func (s *notificationServiceImpl) populate(ctx context.Context, n *domain.Notification) *domain.NotificationResponse {
	resp := &domain.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}

	summaries, err := s.users.GetSummaries(ctx, []string{n.SenderID})
	if err == nil {
		resp.Sender = summaries[n.SenderID]
	} else {
		resp.Sender = domain.UserSummary{ID: n.SenderID}
	}

	if n.PostID != "" {
		if post, err := s.posts.GetByID(ctx, n.PostID); err == nil {
			resp.Post = post
		}
	}
	return resp
}

// List returns the recipient's notifications newest first with senders and
// posts populated.
func (s *notificationServiceImpl) List(ctx context.Context, recipientID string, limit int) ([]*domain.NotificationResponse, error) {
	notifications, err := s.notifications.ListForRecipient(ctx, recipientID, limit)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]string, 0, len(notifications))
	for _, n := range notifications {
		senderIDs = append(senderIDs, n.SenderID)
	}
	summaries, err := s.users.GetSummaries(ctx, senderIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp := &domain.NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Sender:    summaries[n.SenderID],
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
		if n.PostID != "" {
			if post, err := s.posts.GetByID(ctx, n.PostID); err == nil {
				resp.Post = post
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

// MarkRead flips read on one of the recipient's notifications.
func (s *notificationServiceImpl) MarkRead(ctx context.Context, recipientID, id string) error {
	return s.notifications.MarkRead(ctx, recipientID, id)
}

// MarkAllRead flips read on all of the recipient's notifications.
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, recipientID string) error {
	return s.notifications.MarkAllRead(ctx, recipientID)
}

// Delete removes one of the recipient's notifications.
func (s *notificationServiceImpl) Delete(ctx context.Context, recipientID, id string) error {
	return s.notifications.Delete(ctx, recipientID, id)
}

// CountUnread counts the recipient's unread notifications.
func (s *notificationServiceImpl) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	return s.notifications.CountUnread(ctx, recipientID)
}

var _ NotificationService = (*notificationServiceImpl)(nil)
