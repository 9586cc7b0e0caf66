package service

import (
	"context"
	"strings"

	"github.com/Gaurav220900/Social/internal/audit"
	"github.com/Gaurav220900/Social/internal/domain"
	"github.com/Gaurav220900/Social/internal/realtime"
	"github.com/Gaurav220900/Social/internal/repository"
	"github.com/Gaurav220900/Social/pkg/log"
)

// chatServiceImpl implements ChatService.
type chatServiceImpl struct {
	messages   repository.MessageRepository
	users      repository.UserRepository
	registry   *realtime.Registry
	router     *realtime.Router
	accountant *UnreadAccountant
}

// NewChatService creates a new chat service.
func NewChatService(
	messages repository.MessageRepository,
	users repository.UserRepository,
	registry *realtime.Registry,
	router *realtime.Router,
	accountant *UnreadAccountant,
) ChatService {
	return &chatServiceImpl{
		messages:   messages,
		users:      users,
		registry:   registry,
		router:     router,
		accountant: accountant,
	}
}

// Send validates, persists and routes one chat message. A persistence
// failure surfaces to the caller before any push; a push failure never
// surfaces at all. Messages arriving while the receiver has this
// conversation open are written already read so the unread count never
// counts them.
func (s *chatServiceImpl) Send(ctx context.Context, senderID string, req *domain.SendMessageRequest) (*domain.Message, error) {
	l := log.Ctx(ctx)

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if req.ReceiverID == senderID {
		return nil, ErrSelfMessage
	}

	receiver, err := s.users.GetByID(ctx, req.ReceiverID)
	if err != nil {
		return nil, err
	}
	for _, blocked := range receiver.BlockedIDs {
		if blocked == senderID {
			return nil, ErrBlocked
		}
	}

	conv, err := s.messages.FindOrCreateConversation(ctx, senderID, req.ReceiverID)
	if err != nil {
		l.Error().Err(err).Msg("failed to resolve conversation")
		return nil, err
	}

	// Open-conversation wins: if any of the receiver's live sessions has
	// the sender open, the message is born read.
	viewing := s.registry.HasConversationOpen(req.ReceiverID, senderID)

	msg := &domain.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		ReceiverID:     req.ReceiverID,
		Content:        content,
		Read:           viewing,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		l.Error().Err(err).Msg("failed to persist message")
		return nil, err
	}

	// Fire and forget from here on. The receiver gets the message, the
	// sender's other sessions get the echo.
	s.router.DeliverToUser(req.ReceiverID, realtime.EventReceiveMessage, msg)
	s.router.DeliverToUser(senderID, realtime.EventReceiveMessage, msg)

	if !viewing {
		s.accountant.PushCount(ctx, req.ReceiverID)
	}

	audit.LogWithTarget(ctx, audit.ActionSendMessage, senderID, req.ReceiverID, "message sent")
	return msg, nil
}

// History lists all messages between two users ascending by creation time.
func (s *chatServiceImpl) History(ctx context.Context, userID, otherID string) ([]*domain.Message, error) {
	return s.messages.History(ctx, userID, otherID)
}

// FindOrCreateConversation resolves the single conversation for the pair.
func (s *chatServiceImpl) FindOrCreateConversation(ctx context.Context, userID, otherID string) (*domain.Conversation, error) {
	if userID == otherID {
		return nil, ErrSelfMessage
	}
	if _, err := s.users.GetByID(ctx, otherID); err != nil {
		return nil, err
	}
	return s.messages.FindOrCreateConversation(ctx, userID, otherID)
}

// ListConversations lists the viewer's conversations newest activity first,
// with the partner and latest message attached.
func (s *chatServiceImpl) ListConversations(ctx context.Context, userID string) ([]*domain.ConversationResponse, error) {
	conversations, err := s.messages.ConversationsFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	partnerIDs := make([]string, 0, len(conversations))
	for _, c := range conversations {
		partnerIDs = append(partnerIDs, c.OtherMember(userID))
	}
	summaries, err := s.users.GetSummaries(ctx, partnerIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		last, err := s.messages.LastMessage(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, &domain.ConversationResponse{
			ID:          c.ID,
			Members:     c.Members(),
			Partner:     summaries[c.OtherMember(userID)],
			LastMessage: last,
			UpdatedAt:   c.UpdatedAt,
		})
	}
	return out, nil
}

var _ ChatService = (*chatServiceImpl)(nil)
