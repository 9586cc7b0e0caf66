package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Gaurav220900/Social/internal/domain"
)

// isUniqueViolation reports whether err is a unique-constraint violation.
// GORM v1.25+ wraps these as gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// GormFollowRepository implements FollowRepository using GORM.
type GormFollowRepository struct {
	db *gorm.DB
}

// NewGormFollowRepository creates a new GORM-backed follow repository.
func NewGormFollowRepository(db *gorm.DB) *GormFollowRepository {
	return &GormFollowRepository{db: db}
}

// Follow creates a follow relationship. A soft-deleted row for the pair is
// restored instead of inserting a second one; a live duplicate surfaces as
// ErrAlreadyFollowing.
func (r *GormFollowRepository) Follow(ctx context.Context, followerID, targetID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Unscoped().
			Model(&domain.FollowModel{}).
			Where("follower_id = ? AND target_id = ? AND deleted_at IS NOT NULL", followerID, targetID).
			Update("deleted_at", nil)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}

		model := domain.FollowModel{
			ID:         uuid.New().String(),
			FollowerID: followerID,
			TargetID:   targetID,
		}
		if err := tx.Create(&model).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyFollowing
			}
			return err
		}
		return nil
	})
}

// Unfollow removes a follow relationship.
func (r *GormFollowRepository) Unfollow(ctx context.Context, followerID, targetID string) error {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND target_id = ?", followerID, targetID).
		Delete(&domain.FollowModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFollowNotFound
	}
	return nil
}

// IsFollowing checks if followerID follows targetID.
func (r *GormFollowRepository) IsFollowing(ctx context.Context, followerID, targetID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.FollowModel{}).
		Where("follower_id = ? AND target_id = ?", followerID, targetID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FollowerCount returns how many users follow userID.
func (r *GormFollowRepository) FollowerCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.FollowModel{}).
		Where("target_id = ?", userID).
		Count(&count).Error
	return count, err
}

// FollowingCount returns how many users userID follows.
func (r *GormFollowRepository) FollowingCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.FollowModel{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	return count, err
}

// FollowerIDs lists the ids of everyone following userID.
func (r *GormFollowRepository) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&domain.FollowModel{}).
		Where("target_id = ?", userID).
		Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Ensure interface is satisfied at compile time.
var _ FollowRepository = (*GormFollowRepository)(nil)
