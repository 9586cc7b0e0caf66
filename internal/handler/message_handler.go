package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Gaurav220900/Social/internal/domain"
	"github.com/Gaurav220900/Social/internal/repository"
	"github.com/Gaurav220900/Social/internal/service"
	"github.com/Gaurav220900/Social/pkg/log"
	"github.com/Gaurav220900/Social/pkg/middleware"
	"github.com/Gaurav220900/Social/pkg/response"
)

// MessageHandler handles chat message and conversation requests.
type MessageHandler struct {
	chat           service.ChatService
	unread         *service.UnreadAccountant
	authMiddleware *middleware.AuthMiddleware
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(
	chat service.ChatService,
	unread *service.UnreadAccountant,
	authMiddleware *middleware.AuthMiddleware,
) *MessageHandler {
	return &MessageHandler{
		chat:           chat,
		unread:         unread,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all message routes.
func (h *MessageHandler) RegisterRoutes(r *gin.Engine) {
	messages := r.Group("/api/messages")
	messages.Use(h.authMiddleware.RequireAuth())
	{
		messages.POST("", h.Send)
		messages.GET("/unread-count", h.UnreadCount)
		messages.POST("/mark-seen", h.MarkSeen)
		messages.GET("/:userId/:receiverId", h.History)
	}

	conversations := r.Group("/api/conversations")
	conversations.Use(h.authMiddleware.RequireAuth())
	{
		conversations.POST("", h.FindOrCreateConversation)
		conversations.GET("/:userId", h.ListConversations)
	}
}

// Send creates a message and triggers realtime delivery to both parties.
func (h *MessageHandler) Send(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	senderID := middleware.GetUserID(c)

	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid send message request")
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.chat.Send(ctx, senderID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyContent), errors.Is(err, service.ErrSelfMessage):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrBlocked):
			response.Forbidden(c, "cannot message this user")
		case errors.Is(err, repository.ErrUserNotFound):
			response.NotFound(c, "receiver not found")
		default:
			l.Error().Err(err).Msg("failed to send message")
			response.InternalError(c, "failed to send message")
		}
		return
	}

	response.Created(c, msg)
}

// History returns the full conversation between two users ascending by
// creation time. The viewer must be one of the two.
func (h *MessageHandler) History(c *gin.Context) {
	ctx := c.Request.Context()
	viewer := middleware.GetUserID(c)
	userID := c.Param("userId")
	receiverID := c.Param("receiverId")

	if viewer != userID && viewer != receiverID {
		response.Forbidden(c, "not a participant of this conversation")
		return
	}

	history, err := h.chat.History(ctx, userID, receiverID)
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("failed to load chat history")
		response.InternalError(c, "failed to load messages")
		return
	}

	response.Success(c, history)
}

// UnreadCount returns the authenticated user's unread message count.
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	count, err := h.unread.UnreadCountFor(ctx, userID)
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to count unread messages")
		response.InternalError(c, "failed to count unread messages")
		return
	}

	response.Success(c, gin.H{"unreadCount": count})
}

// MarkSeen flips the given sender's messages to the authenticated user to
// read.
func (h *MessageHandler) MarkSeen(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	var req domain.MarkSeenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.unread.MarkSeen(ctx, userID, req.SenderID); err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to mark messages seen")
		response.InternalError(c, "failed to mark messages seen")
		return
	}

	response.Success(c, gin.H{"message": "marked seen"})
}

// FindOrCreateConversation resolves the conversation between the
// authenticated user and the given receiver.
func (h *MessageHandler) FindOrCreateConversation(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	var req domain.ConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	conv, err := h.chat.FindOrCreateConversation(ctx, userID, req.ReceiverID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfMessage):
			response.BadRequest(c, err.Error())
		case errors.Is(err, repository.ErrUserNotFound):
			response.NotFound(c, "receiver not found")
		default:
			l := log.Ctx(ctx)
			l.Error().Err(err).Msg("failed to resolve conversation")
			response.InternalError(c, "failed to resolve conversation")
		}
		return
	}

	response.Success(c, gin.H{
		"id":      conv.ID,
		"members": conv.Members(),
	})
}

// ListConversations lists the viewer's conversations newest activity first.
func (h *MessageHandler) ListConversations(c *gin.Context) {
	ctx := c.Request.Context()
	viewer := middleware.GetUserID(c)
	if c.Param("userId") != viewer {
		response.Forbidden(c, "can only list your own conversations")
		return
	}

	conversations, err := h.chat.ListConversations(ctx, viewer)
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("failed to list conversations")
		response.InternalError(c, "failed to list conversations")
		return
	}

	response.Success(c, conversations)
}
