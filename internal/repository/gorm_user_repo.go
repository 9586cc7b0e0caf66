package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Gaurav220900/Social/internal/domain"
	"github.com/Gaurav220900/Social/pkg/database"
)

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM-based user repository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user.
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	model := domain.UserToModel(user)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return r.translateUnique(ctx, err, user)
	}

	user.CreatedAt = model.CreatedAt
	user.UpdatedAt = model.UpdatedAt
	return nil
}

// translateUnique maps a duplicate-key error to the field-specific sentinel.
func (r *GormUserRepository) translateUnique(ctx context.Context, err error, user *domain.User) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	var count int64
	r.db.WithContext(ctx).Model(&domain.UserModel{}).Where("email = ?", user.Email).Count(&count)
	if count > 0 {
		return ErrEmailExists
	}
	return ErrUsernameExists
}

// GetByID retrieves a user by ID.
func (r *GormUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var model domain.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GetByEmail retrieves a user by email.
func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var model domain.UserModel
	if err := r.db.WithContext(ctx).First(&model, "email = ?", strings.ToLower(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GetByUsername retrieves a user by username.
func (r *GormUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var model domain.UserModel
	if err := r.db.WithContext(ctx).First(&model, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GetSummaries loads compact user shapes for a set of ids in one query.
// Missing ids are simply absent from the result map.
func (r *GormUserRepository) GetSummaries(ctx context.Context, ids []string) (map[string]domain.UserSummary, error) {
	out := make(map[string]domain.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var models []domain.UserModel
	if err := r.db.WithContext(ctx).
		Select("id", "username", "profile_picture").
		Where("id IN ?", ids).
		Find(&models).Error; err != nil {
		return nil, err
	}

	for _, m := range models {
		out[m.ID] = domain.UserSummary{
			ID:             m.ID,
			Username:       m.Username,
			ProfilePicture: m.ProfilePicture,
		}
	}
	return out, nil
}

// SearchByUsername finds users whose username contains query.
func (r *GormUserRepository) SearchByUsername(ctx context.Context, query string, limit int) ([]*domain.User, error) {
	if limit <= 0 {
		limit = 20
	}

	var models []domain.UserModel
	if err := r.db.WithContext(ctx).
		Where("username LIKE ?", "%"+query+"%").
		Order("username").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(models))
	for i := range models {
		users = append(users, models[i].ToDomain())
	}
	return users, nil
}

// Update persists profile fields of a user.
func (r *GormUserRepository) Update(ctx context.Context, user *domain.User) error {
	result := r.db.WithContext(ctx).Model(&domain.UserModel{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"username":        user.Username,
			"bio":             user.Bio,
			"city":            user.City,
			"profile_picture": user.ProfilePicture,
			"cover_picture":   user.CoverPicture,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrUsernameExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	var updated domain.UserModel
	r.db.WithContext(ctx).First(&updated, "id = ?", user.ID)
	user.UpdatedAt = updated.UpdatedAt
	return nil
}

// UpdateBlockedIDs replaces a user's block list.
func (r *GormUserRepository) UpdateBlockedIDs(ctx context.Context, userID string, blocked []string) error {
	result := r.db.WithContext(ctx).Model(&domain.UserModel{}).
		Where("id = ?", userID).
		Update("blocked_ids", database.StringArray(blocked))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Ensure interface is satisfied at compile time.
var _ UserRepository = (*GormUserRepository)(nil)
