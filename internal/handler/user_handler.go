package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Gaurav220900/Social/internal/domain"
	"github.com/Gaurav220900/Social/internal/repository"
	"github.com/Gaurav220900/Social/internal/service"
	"github.com/Gaurav220900/Social/pkg/log"
	"github.com/Gaurav220900/Social/pkg/middleware"
	"github.com/Gaurav220900/Social/pkg/response"
)

// UserHandler handles auth, profile and social graph requests.
type UserHandler struct {
	users          service.UserService
	social         service.SocialService
	posts          service.PostService
	authMiddleware *middleware.AuthMiddleware
}

// NewUserHandler creates a new user handler.
func NewUserHandler(
	users service.UserService,
	social service.SocialService,
	posts service.PostService,
	authMiddleware *middleware.AuthMiddleware,
) *UserHandler {
	return &UserHandler{
		users:          users,
		social:         social,
		posts:          posts,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all user routes.
func (h *UserHandler) RegisterRoutes(r *gin.Engine) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)

		protected := auth.Group("")
		protected.Use(h.authMiddleware.RequireAuth())
		{
			protected.GET("/me", h.Me)
			protected.GET("/search", h.Search)
			protected.GET("/:id", h.Profile)
			protected.PUT("/:id", h.Update)
			protected.PUT("/:id/follow", h.Follow)
			protected.PUT("/:id/unfollow", h.Unfollow)
			protected.PUT("/:id/block", h.Block)
			protected.PUT("/:id/unblock", h.Unblock)
		}
	}
}

// Register handles user registration.
func (h *UserHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid register request")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.users.Register(ctx, &req)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			response.Conflict(c, "email already exists")
			return
		}
		if errors.Is(err, repository.ErrUsernameExists) {
			response.Conflict(c, "username already exists")
			return
		}
		l.Error().Err(err).Msg("register failed")
		response.InternalError(c, "failed to register user")
		return
	}

	response.Created(c, result)
}

// Login handles user login.
func (h *UserHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid login request")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.users.Login(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid email or password")
			return
		}
		l.Error().Err(err).Msg("login failed")
		response.InternalError(c, "failed to login")
		return
	}

	response.Success(c, result)
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c *gin.Context) {
	h.profileFor(c, middleware.GetUserID(c))
}

// Profile returns another user's profile with their posts.
func (h *UserHandler) Profile(c *gin.Context) {
	h.profileFor(c, c.Param("id"))
}

func (h *UserHandler) profileFor(c *gin.Context, userID string) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	user, err := h.users.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to load profile")
		response.InternalError(c, "failed to load profile")
		return
	}

	posts, err := h.posts.ListByAuthor(ctx, userID)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to load profile posts")
		response.InternalError(c, "failed to load profile")
		return
	}

	response.Success(c, gin.H{
		"user":  user.ToResponse(),
		"posts": posts,
	})
}

// Search finds users by username fragment.
func (h *UserHandler) Search(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := h.users.Search(ctx, c.Query("username"), 20)
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("user search failed")
		response.InternalError(c, "search failed")
		return
	}

	results := make([]domain.UserSummary, 0, len(users))
	for _, u := range users {
		results = append(results, u.Summary())
	}
	response.Success(c, results)
}

// Update edits the authenticated user's own profile.
func (h *UserHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	if c.Param("id") != userID {
		response.Forbidden(c, "can only update your own profile")
		return
	}

	var req domain.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.users.Update(ctx, userID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			response.Conflict(c, "username already exists")
			return
		}
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("profile update failed")
		response.InternalError(c, "failed to update profile")
		return
	}

	response.Success(c, user.ToResponse())
}

// Follow makes the authenticated user follow the target.
func (h *UserHandler) Follow(c *gin.Context) {
	h.socialAction(c, h.social.Follow, "followed")
}

// Unfollow removes the follow relationship.
func (h *UserHandler) Unfollow(c *gin.Context) {
	h.socialAction(c, h.social.Unfollow, "unfollowed")
}

// Block adds the target to the authenticated user's block list.
func (h *UserHandler) Block(c *gin.Context) {
	h.socialAction(c, h.social.Block, "blocked")
}

// Unblock removes the target from the block list.
func (h *UserHandler) Unblock(c *gin.Context) {
	h.socialAction(c, h.social.Unblock, "unblocked")
}

func (h *UserHandler) socialAction(c *gin.Context, action func(ctx context.Context, userID, targetID string) error, verb string) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	targetID := c.Param("id")

	if err := action(ctx, userID, targetID); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfFollow), errors.Is(err, service.ErrSelfBlock):
			response.BadRequest(c, err.Error())
		case errors.Is(err, repository.ErrAlreadyFollowing):
			response.BadRequest(c, "already following")
		case errors.Is(err, repository.ErrFollowNotFound):
			response.BadRequest(c, "not following")
		case errors.Is(err, repository.ErrUserNotFound):
			response.NotFound(c, "user not found")
		default:
			l := log.Ctx(ctx)
			l.Error().Err(err).Str(log.FieldUserID, userID).Msg("social action failed")
			response.InternalError(c, "action failed")
		}
		return
	}

	response.Success(c, gin.H{"message": verb})
}
