package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Gaurav220900/Social/internal/repository"
	"github.com/Gaurav220900/Social/internal/service"
	"github.com/Gaurav220900/Social/pkg/log"
	"github.com/Gaurav220900/Social/pkg/middleware"
	"github.com/Gaurav220900/Social/pkg/response"
)

// NotificationHandler handles notification requests. Everything is scoped to
// the authenticated recipient.
type NotificationHandler struct {
	notifications  service.NotificationService
	authMiddleware *middleware.AuthMiddleware
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(
	notifications service.NotificationService,
	authMiddleware *middleware.AuthMiddleware,
) *NotificationHandler {
	return &NotificationHandler{
		notifications:  notifications,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all notification routes.
func (h *NotificationHandler) RegisterRoutes(r *gin.Engine) {
	notifications := r.Group("/api/notifications")
	notifications.Use(h.authMiddleware.RequireAuth())
	{
		notifications.GET("", h.List)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.PUT("/read-all", h.MarkAllRead)
		notifications.PUT("/:id/read", h.MarkRead)
		notifications.DELETE("/:id", h.Delete)
	}
}

// List returns the recipient's notifications newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	list, err := h.notifications.List(ctx, userID, 50)
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to list notifications")
		response.InternalError(c, "failed to list notifications")
		return
	}

	response.Success(c, list)
}

// UnreadCount returns the recipient's unread notification count.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	count, err := h.notifications.CountUnread(ctx, userID)
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to count notifications")
		response.InternalError(c, "failed to count notifications")
		return
	}

	response.Success(c, gin.H{"unreadCount": count})
}

// MarkRead flips one notification to read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	if err := h.notifications.MarkRead(ctx, userID, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			response.NotFound(c, "notification not found")
			return
		}
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to mark notification read")
		response.InternalError(c, "failed to mark notification read")
		return
	}

	response.Success(c, gin.H{"message": "marked read"})
}

// MarkAllRead flips every notification of the recipient to read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	if err := h.notifications.MarkAllRead(ctx, userID); err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to mark notifications read")
		response.InternalError(c, "failed to mark notifications read")
		return
	}

	response.Success(c, gin.H{"message": "all marked read"})
}

// Delete removes one notification.
func (h *NotificationHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	if err := h.notifications.Delete(ctx, userID, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			response.NotFound(c, "notification not found")
			return
		}
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to delete notification")
		response.InternalError(c, "failed to delete notification")
		return
	}

	response.Success(c, gin.H{"message": "deleted"})
}
