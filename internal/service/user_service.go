package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Gaurav220900/Social/internal/audit"
	"github.com/Gaurav220900/Social/internal/cache"
	"github.com/Gaurav220900/Social/internal/domain"
	"github.com/Gaurav220900/Social/internal/repository"
	"github.com/Gaurav220900/Social/pkg/log"
	"github.com/Gaurav220900/Social/pkg/token"
)

// userServiceImpl implements UserService.
type userServiceImpl struct {
	users     repository.UserRepository
	follows   repository.FollowRepository
	userCache cache.UserCache
	cacheTTL  time.Duration
	tokens    *token.Manager
}

// NewUserService creates a new user service.
func NewUserService(
	users repository.UserRepository,
	follows repository.FollowRepository,
	userCache cache.UserCache,
	cacheTTL time.Duration,
	tokens *token.Manager,
) UserService {
	return &userServiceImpl{
		users:     users,
		follows:   follows,
		userCache: userCache,
		cacheTTL:  cacheTTL,
		tokens:    tokens,
	}
}

// Register creates a new account and returns it with an access token.
func (s *userServiceImpl) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error().Err(err).Msg("failed to hash password")
		return nil, err
	}

	user := &domain.User{
		Email:        strings.ToLower(req.Email),
		Username:     req.Username,
		PasswordHash: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	accessToken, expiresAt, err := s.tokens.Generate(user.ID, user.Email, user.Username)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, user.ID).Msg("failed to generate token after register")
		return nil, err
	}

	audit.Log(ctx, audit.ActionRegister, user.ID, "user registered")
	return &domain.AuthResponse{
		User:        user.ToResponse(),
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}, nil
}

// Login authenticates a user by email and password.
func (s *userServiceImpl) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			audit.Log(ctx, audit.ActionLoginFailed, "", "login with unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		audit.Log(ctx, audit.ActionLoginFailed, user.ID, "login with wrong password")
		return nil, ErrInvalidCredentials
	}

	accessToken, expiresAt, err := s.tokens.Generate(user.ID, user.Email, user.Username)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, user.ID).Msg("failed to generate token")
		return nil, err
	}

	audit.Log(ctx, audit.ActionLogin, user.ID, "user logged in")
	return &domain.AuthResponse{
		User:        user.ToResponse(),
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}, nil
}

// GetProfile returns a user's profile with follower counts, read through the
// cache when possible.
func (s *userServiceImpl) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if cached, err := s.userCache.GetByID(ctx, userID); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str(log.FieldUserID, userID).Msg("user cache read failed")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.FollowerCount, err = s.follows.FollowerCount(ctx, userID); err != nil {
		return nil, err
	}
	if user.FollowingCount, err = s.follows.FollowingCount(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.userCache.Set(ctx, user, s.cacheTTL); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str(log.FieldUserID, userID).Msg("user cache write failed")
	}
	return user, nil
}

// Search finds users by username fragment.
func (s *userServiceImpl) Search(ctx context.Context, query string, limit int) ([]*domain.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return s.users.SearchByUsername(ctx, query, limit)
}

// Update edits the viewer's profile and invalidates the cache entry.
func (s *userServiceImpl) Update(ctx context.Context, userID string, req *domain.UpdateUserRequest) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.City != nil {
		user.City = *req.City
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = *req.ProfilePicture
	}
	if req.CoverPicture != nil {
		user.CoverPicture = *req.CoverPicture
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	if err := s.userCache.Invalidate(ctx, userID); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str(log.FieldUserID, userID).Msg("failed to invalidate user cache")
	}
	return user, nil
}

var _ UserService = (*userServiceImpl)(nil)
