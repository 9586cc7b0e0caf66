package cache

import (
	"context"
	"errors"
	"time"

	"github.com/Gaurav220900/Social/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// UserCache is a read-through cache for user profiles. It is an optimization
// only: every method may fail without affecting correctness and callers fall
// back to the repository.
type UserCache interface {
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User, ttl time.Duration) error
	Invalidate(ctx context.Context, userID string) error
	Close() error
}

// Noop is the cache used when redis is not configured.
type Noop struct{}

func (Noop) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	return nil, ErrCacheMiss
}

func (Noop) Set(ctx context.Context, user *domain.User, ttl time.Duration) error {
	return nil
}

func (Noop) Invalidate(ctx context.Context, userID string) error {
	return nil
}

func (Noop) Close() error {
	return nil
}

var _ UserCache = Noop{}
