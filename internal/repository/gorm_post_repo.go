package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Gaurav220900/Social/internal/domain"
)

// GormPostRepository implements PostRepository using GORM.
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GORM-based post repository.
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// Create persists a post.
func (r *GormPostRepository) Create(ctx context.Context, post *domain.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}

	model := domain.PostModel{
		ID:          post.ID,
		AuthorID:    post.AuthorID,
		Description: post.Description,
		Image:       post.Image,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	post.CreatedAt = model.CreatedAt
	post.UpdatedAt = model.UpdatedAt
	return nil
}

// GetByID retrieves a post with its like and comment counts.
func (r *GormPostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	var model domain.PostModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	post := model.ToDomain()
	if err := r.fillCounts(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *GormPostRepository) fillCounts(ctx context.Context, post *domain.Post) error {
	if err := r.db.WithContext(ctx).Model(&domain.LikeModel{}).
		Where("post_id = ?", post.ID).
		Count(&post.LikeCount).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&domain.CommentModel{}).
		Where("post_id = ?", post.ID).
		Count(&post.CommentCount).Error
}

// Update persists editable fields of a post, scoped to its author.
func (r *GormPostRepository) Update(ctx context.Context, post *domain.Post) error {
	result := r.db.WithContext(ctx).Model(&domain.PostModel{}).
		Where("id = ? AND author_id = ?", post.ID, post.AuthorID).
		Updates(map[string]interface{}{
			"description": post.Description,
			"image":       post.Image,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Delete soft-deletes a post, scoped to its author.
func (r *GormPostRepository) Delete(ctx context.Context, authorID, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND author_id = ?", id, authorID).
		Delete(&domain.PostModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Feed lists posts newest first with offset pagination.
func (r *GormPostRepository) Feed(ctx context.Context, limit, offset int) ([]*domain.Post, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var models []domain.PostModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error; err != nil {
		return nil, err
	}
	return r.toDomainWithCounts(ctx, models)
}

// ListByAuthor lists a user's posts newest first.
func (r *GormPostRepository) ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error) {
	var models []domain.PostModel
	if err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return r.toDomainWithCounts(ctx, models)
}

func (r *GormPostRepository) toDomainWithCounts(ctx context.Context, models []domain.PostModel) ([]*domain.Post, error) {
	posts := make([]*domain.Post, 0, len(models))
	for i := range models {
		post := models[i].ToDomain()
		if err := r.fillCounts(ctx, post); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// ToggleLike flips the (post, user) like row and returns the resulting state
// with the post's like count.
func (r *GormPostRepository) ToggleLike(ctx context.Context, postID, userID string) (bool, int64, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post domain.PostModel
		if err := tx.First(&post, "id = ?", postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		result := tx.Where("post_id = ? AND user_id = ?", postID, userID).
			Delete(&domain.LikeModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			liked = false
			return nil
		}

		model := domain.LikeModel{
			ID:     uuid.New().String(),
			PostID: postID,
			UserID: userID,
		}
		if err := tx.Create(&model).Error; err != nil {
			if isUniqueViolation(err) {
				liked = true
				return nil
			}
			return err
		}
		liked = true
		return nil
	})
	if err != nil {
		return false, 0, err
	}

	var likes int64
	if err := r.db.WithContext(ctx).Model(&domain.LikeModel{}).
		Where("post_id = ?", postID).
		Count(&likes).Error; err != nil {
		return liked, 0, err
	}
	return liked, likes, nil
}

// CreateComment persists a comment on a post.
func (r *GormPostRepository) CreateComment(ctx context.Context, comment *domain.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.PostModel{}).
		Where("id = ?", comment.PostID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrPostNotFound
	}

	model := domain.CommentModel{
		ID:       comment.ID,
		PostID:   comment.PostID,
		AuthorID: comment.AuthorID,
		Content:  comment.Content,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	comment.CreatedAt = model.CreatedAt
	return nil
}

// ListComments lists a post's comments oldest first.
func (r *GormPostRepository) ListComments(ctx context.Context, postID string) ([]*domain.Comment, error) {
	var models []domain.CommentModel
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	comments := make([]*domain.Comment, 0, len(models))
	for i := range models {
		comments = append(comments, models[i].ToDomain())
	}
	return comments, nil
}

// Ensure interface is satisfied at compile time.
var _ PostRepository = (*GormPostRepository)(nil)
