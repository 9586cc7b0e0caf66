package service

import (
	"context"

	"github.com/Gaurav220900/Social/internal/realtime"
	"github.com/Gaurav220900/Social/internal/repository"
	"github.com/Gaurav220900/Social/pkg/log"
)

// UnreadAccountant owns unread-message accounting. The count is always the
// number of unread messages addressed to the user, recomputed from the rows
// on every read so it cannot drift from durable state. The same policy feeds
// both the pushed unreadCount payload and the REST endpoint.
type UnreadAccountant struct {
	messages repository.MessageRepository
	router   *realtime.Router
}

// NewUnreadAccountant creates an accountant over the message store.
func NewUnreadAccountant(messages repository.MessageRepository, router *realtime.Router) *UnreadAccountant {
	return &UnreadAccountant{
		messages: messages,
		router:   router,
	}
}

// UnreadCountFor returns the user's current unread message count.
func (a *UnreadAccountant) UnreadCountFor(ctx context.Context, userID string) (int64, error) {
	return a.messages.CountUnread(ctx, userID)
}

// MarkSeen flips every unread message from senderID to receiverID to read
// and pushes the recomputed count to the receiver's live sessions. Calling
// it again changes nothing.
func (a *UnreadAccountant) MarkSeen(ctx context.Context, receiverID, senderID string) error {
	if err := a.messages.MarkSeen(ctx, receiverID, senderID); err != nil {
		return err
	}
	a.PushCount(ctx, receiverID)
	return nil
}

// PushCount recomputes the unread count and pushes it to the user's live
// sessions. Offline users simply miss the push; the durable rows remain the
// source of truth.
func (a *UnreadAccountant) PushCount(ctx context.Context, userID string) {
	count, err := a.messages.CountUnread(ctx, userID)
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to recompute unread count")
		return
	}
	a.router.DeliverToUser(userID, realtime.EventUnreadCount, realtime.UnreadCountData{Count: count})
}
