package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Gaurav220900/Social/internal/domain"
	"github.com/Gaurav220900/Social/internal/repository"
	"github.com/Gaurav220900/Social/internal/service"
	"github.com/Gaurav220900/Social/pkg/log"
	"github.com/Gaurav220900/Social/pkg/middleware"
	"github.com/Gaurav220900/Social/pkg/response"
)

// PostHandler handles post, comment and like requests.
type PostHandler struct {
	posts          service.PostService
	authMiddleware *middleware.AuthMiddleware
}

// NewPostHandler creates a new post handler.
func NewPostHandler(posts service.PostService, authMiddleware *middleware.AuthMiddleware) *PostHandler {
	return &PostHandler{
		posts:          posts,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all post routes.
func (h *PostHandler) RegisterRoutes(r *gin.Engine) {
	posts := r.Group("/api/posts")
	posts.Use(h.authMiddleware.RequireAuth())
	{
		posts.POST("", h.Create)
		posts.GET("", h.Feed)
		posts.GET("/user/:userId", h.ListByAuthor)
		posts.GET("/:id", h.Get)
		posts.PUT("/:id", h.Update)
		posts.DELETE("/:id", h.Delete)
		posts.PUT("/:id/like", h.ToggleLike)
		posts.POST("/:id/comments", h.CreateComment)
		posts.GET("/:id/comments", h.ListComments)
	}
}

// Create persists a post and broadcasts it to connected clients.
func (h *PostHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	authorID := middleware.GetUserID(c)

	var req domain.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.posts.Create(ctx, authorID, &req)
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("failed to create post")
		response.InternalError(c, "failed to create post")
		return
	}

	response.Created(c, post)
}

// Feed lists posts newest first.
func (h *PostHandler) Feed(c *gin.Context) {
	ctx := c.Request.Context()

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	feed, err := h.posts.Feed(ctx, limit, offset)
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("failed to load feed")
		response.InternalError(c, "failed to load feed")
		return
	}

	response.Success(c, feed)
}

// ListByAuthor lists one user's posts.
func (h *PostHandler) ListByAuthor(c *gin.Context) {
	ctx := c.Request.Context()

	posts, err := h.posts.ListByAuthor(ctx, c.Param("userId"))
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("failed to list posts")
		response.InternalError(c, "failed to list posts")
		return
	}

	response.Success(c, posts)
}

// Get returns one post.
func (h *PostHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	post, err := h.posts.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("failed to load post")
		response.InternalError(c, "failed to load post")
		return
	}

	response.Success(c, post)
}

// Update edits the viewer's own post.
func (h *PostHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	authorID := middleware.GetUserID(c)

	var req domain.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.posts.Update(ctx, authorID, c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("failed to update post")
		response.InternalError(c, "failed to update post")
		return
	}

	response.Success(c, post)
}

// Delete removes the viewer's own post.
func (h *PostHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	authorID := middleware.GetUserID(c)

	if err := h.posts.Delete(ctx, authorID, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("failed to delete post")
		response.InternalError(c, "failed to delete post")
		return
	}

	response.Success(c, gin.H{"message": "deleted"})
}

// ToggleLike flips the viewer's like on a post.
func (h *PostHandler) ToggleLike(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	result, err := h.posts.ToggleLike(ctx, c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("failed to toggle like")
		response.InternalError(c, "failed to toggle like")
		return
	}

	response.Success(c, result)
}

// CreateComment adds a comment to a post.
func (h *PostHandler) CreateComment(c *gin.Context) {
	ctx := c.Request.Context()
	authorID := middleware.GetUserID(c)

	var req domain.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.posts.CreateComment(ctx, c.Param("id"), authorID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("failed to create comment")
		response.InternalError(c, "failed to create comment")
		return
	}

	response.Created(c, comment)
}

// ListComments lists a post's comments oldest first.
func (h *PostHandler) ListComments(c *gin.Context) {
	ctx := c.Request.Context()

	comments, err := h.posts.ListComments(ctx, c.Param("id"))
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("failed to list comments")
		response.InternalError(c, "failed to list comments")
		return
	}

	response.Success(c, comments)
}
