package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Gaurav220900/Social/internal/config"
	"github.com/Gaurav220900/Social/internal/domain"
)

// RedisUserCache caches user profiles in redis under a key prefix.
type RedisUserCache struct {
	client *redis.Client
	prefix string
}

// NewRedisUserCache connects to redis and verifies the connection.
func NewRedisUserCache(cfg config.RedisConfig, prefix string) (*RedisUserCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisUserCache{
		client: client,
		prefix: prefix,
	}, nil
}

func (c *RedisUserCache) keyByID(userID string) string {
	return fmt.Sprintf("%s:id:%s", c.prefix, userID)
}

// cachedUser carries every field explicitly since domain.User hides some of
// them from API marshaling.
type cachedUser struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	ProfilePicture string    `json:"profile_picture"`
	CoverPicture   string    `json:"cover_picture"`
	Bio            string    `json:"bio"`
	City           string    `json:"city"`
	BlockedIDs     []string  `json:"blocked_ids"`
	FollowerCount  int64     `json:"follower_count"`
	FollowingCount int64     `json:"following_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GetByID returns the cached user or ErrCacheMiss.
func (c *RedisUserCache) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	data, err := c.client.Get(ctx, c.keyByID(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var cu cachedUser
	if err := json.Unmarshal(data, &cu); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &domain.User{
		ID:             cu.ID,
		Email:          cu.Email,
		Username:       cu.Username,
		ProfilePicture: cu.ProfilePicture,
		CoverPicture:   cu.CoverPicture,
		Bio:            cu.Bio,
		City:           cu.City,
		BlockedIDs:     cu.BlockedIDs,
		FollowerCount:  cu.FollowerCount,
		FollowingCount: cu.FollowingCount,
		CreatedAt:      cu.CreatedAt,
		UpdatedAt:      cu.UpdatedAt,
	}, nil
}

// Set stores the user under its id key. Password hashes are never cached.
func (c *RedisUserCache) Set(ctx context.Context, user *domain.User, ttl time.Duration) error {
	data, err := json.Marshal(cachedUser{
		ID:             user.ID,
		Email:          user.Email,
		Username:       user.Username,
		ProfilePicture: user.ProfilePicture,
		CoverPicture:   user.CoverPicture,
		Bio:            user.Bio,
		City:           user.City,
		BlockedIDs:     user.BlockedIDs,
		FollowerCount:  user.FollowerCount,
		FollowingCount: user.FollowingCount,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	if err := c.client.Set(ctx, c.keyByID(user.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

// Invalidate drops the user's cache entry after a write.
func (c *RedisUserCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, c.keyByID(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// Close closes the underlying redis client.
func (c *RedisUserCache) Close() error {
	return c.client.Close()
}

var _ UserCache = (*RedisUserCache)(nil)
