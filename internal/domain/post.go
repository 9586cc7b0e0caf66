package domain

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a feed post.
type Post struct {
	ID           string      `json:"id"`
	AuthorID     string      `json:"author_id"`
	Author       UserSummary `json:"author"`
	Description  string      `json:"description"`
	Image        string      `json:"image,omitempty"`
	LikeCount    int64       `json:"like_count"`
	CommentCount int64       `json:"comment_count"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Comment represents a comment on a post.
type Comment struct {
	ID        string      `json:"id"`
	PostID    string      `json:"post_id"`
	AuthorID  string      `json:"author_id"`
	Author    UserSummary `json:"author"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

// CreatePostRequest is the body of POST /api/posts.
type CreatePostRequest struct {
	Description string `json:"description" binding:"required,max=2000"`
	Image       string `json:"image"`
}

// UpdatePostRequest is the body of PUT /api/posts/:id.
type UpdatePostRequest struct {
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

// CreateCommentRequest is the body of POST /api/posts/:id/comments.
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

// LikeResponse is returned by the like toggle.
type LikeResponse struct {
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes"`
}

// PostModel is the GORM model for the posts table.
type PostModel struct {
	ID          string         `gorm:"type:varchar(36);primaryKey"`
	AuthorID    string         `gorm:"type:varchar(36);index;not null"`
	Description string         `gorm:"type:text;not null"`
	Image       string         `gorm:"type:varchar(255)"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for PostModel.
func (PostModel) TableName() string {
	return "posts"
}

// ToDomain converts PostModel to domain Post. Author summary and counts are
// filled in by the repository.
func (m *PostModel) ToDomain() *Post {
	return &Post{
		ID:          m.ID,
		AuthorID:    m.AuthorID,
		Description: m.Description,
		Image:       m.Image,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// CommentModel is the GORM model for the comments table.
type CommentModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	PostID    string    `gorm:"type:varchar(36);index;not null"`
	AuthorID  string    `gorm:"type:varchar(36);not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

// TableName specifies the table name for CommentModel.
func (CommentModel) TableName() string {
	return "comments"
}

// ToDomain converts CommentModel to domain Comment.
func (m *CommentModel) ToDomain() *Comment {
	return &Comment{
		ID:        m.ID,
		PostID:    m.PostID,
		AuthorID:  m.AuthorID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// LikeModel is the GORM model for the likes table. One row per (post, user).
type LikeModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	PostID    string    `gorm:"type:varchar(36);uniqueIndex:idx_post_user;not null"`
	UserID    string    `gorm:"type:varchar(36);uniqueIndex:idx_post_user;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for LikeModel.
func (LikeModel) TableName() string {
	return "likes"
}
