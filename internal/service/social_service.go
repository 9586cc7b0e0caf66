package service

import (
	"context"

	"github.com/Gaurav220900/Social/internal/audit"
	"github.com/Gaurav220900/Social/internal/cache"
	"github.com/Gaurav220900/Social/internal/domain"
	"github.com/Gaurav220900/Social/internal/repository"
	"github.com/Gaurav220900/Social/pkg/log"
)

// socialServiceImpl implements SocialService.
type socialServiceImpl struct {
	follows       repository.FollowRepository
	users         repository.UserRepository
	userCache     cache.UserCache
	notifications NotificationService
}

// NewSocialService creates a new social graph service.
func NewSocialService(
	follows repository.FollowRepository,
	users repository.UserRepository,
	userCache cache.UserCache,
	notifications NotificationService,
) SocialService {
	return &socialServiceImpl{
		follows:       follows,
		users:         users,
		userCache:     userCache,
		notifications: notifications,
	}
}

// Follow creates the follow relationship and notifies the target. Following
// yourself and following twice are both rejected before any notification, so
// a target is never notified about the same follower twice.
func (s *socialServiceImpl) Follow(ctx context.Context, followerID, targetID string) error {
	if followerID == targetID {
		return ErrSelfFollow
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return err
	}

	if err := s.follows.Follow(ctx, followerID, targetID); err != nil {
		return err
	}

	if err := s.notifications.Notify(ctx, targetID, followerID, domain.NotificationFollow, ""); err != nil {
		// The follow itself stands; the missing notification is recoverable
		// from the follow row.
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldUserID, targetID).Msg("failed to create follow notification")
	}

	s.invalidate(ctx, followerID, targetID)
	audit.LogWithTarget(ctx, audit.ActionFollow, followerID, targetID, "user followed")
	return nil
}

// Unfollow removes the follow relationship.
func (s *socialServiceImpl) Unfollow(ctx context.Context, followerID, targetID string) error {
	if followerID == targetID {
		return ErrSelfFollow
	}
	if err := s.follows.Unfollow(ctx, followerID, targetID); err != nil {
		return err
	}

	s.invalidate(ctx, followerID, targetID)
	audit.LogWithTarget(ctx, audit.ActionUnfollow, followerID, targetID, "user unfollowed")
	return nil
}

// Block adds targetID to the user's block list. Blocking an already blocked
// user changes nothing.
func (s *socialServiceImpl) Block(ctx context.Context, userID, targetID string) error {
	if userID == targetID {
		return ErrSelfBlock
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	for _, id := range user.BlockedIDs {
		if id == targetID {
			return nil
		}
	}

	blocked := append(user.BlockedIDs, targetID)
	if err := s.users.UpdateBlockedIDs(ctx, userID, blocked); err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	audit.LogWithTarget(ctx, audit.ActionBlock, userID, targetID, "user blocked")
	return nil
}

// Unblock removes targetID from the user's block list.
func (s *socialServiceImpl) Unblock(ctx context.Context, userID, targetID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	blocked := make([]string, 0, len(user.BlockedIDs))
	for _, id := range user.BlockedIDs {
		if id != targetID {
			blocked = append(blocked, id)
		}
	}
	if len(blocked) == len(user.BlockedIDs) {
		return nil
	}

	if err := s.users.UpdateBlockedIDs(ctx, userID, blocked); err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	audit.LogWithTarget(ctx, audit.ActionUnblock, userID, targetID, "user unblocked")
	return nil
}

func (s *socialServiceImpl) invalidate(ctx context.Context, userIDs ...string) {
	for _, id := range userIDs {
		if err := s.userCache.Invalidate(ctx, id); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str(log.FieldUserID, id).Msg("failed to invalidate user cache")
		}
	}
}

var _ SocialService = (*socialServiceImpl)(nil)
