package domain

import (
	"time"

	"github.com/Gaurav220900/Social/pkg/database"
	"gorm.io/gorm"
)

// User represents a user entity.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	CoverPicture   string    `json:"cover_picture,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	City           string    `json:"city,omitempty"`
	BlockedIDs     []string  `json:"-"`
	FollowerCount  int64     `json:"follower_count"`
	FollowingCount int64     `json:"following_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserSummary is the compact user shape embedded in messages, notifications
// and posts.
type UserSummary struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// Summary converts User to its embedded summary shape.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
	}
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest represents a profile update request.
type UpdateUserRequest struct {
	Username       *string `json:"username"`
	Bio            *string `json:"bio"`
	City           *string `json:"city"`
	ProfilePicture *string `json:"profile_picture"`
	CoverPicture   *string `json:"cover_picture"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   int64        `json:"expires_at"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	CoverPicture   string    `json:"cover_picture,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	City           string    `json:"city,omitempty"`
	FollowerCount  int64     `json:"follower_count"`
	FollowingCount int64     `json:"following_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToResponse converts User to UserResponse.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
		CoverPicture:   u.CoverPicture,
		Bio:            u.Bio,
		City:           u.City,
		FollowerCount:  u.FollowerCount,
		FollowingCount: u.FollowingCount,
		CreatedAt:      u.CreatedAt,
	}
}

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID             string               `gorm:"type:varchar(36);primaryKey"`
	Email          string               `gorm:"type:varchar(255);uniqueIndex;not null"`
	Username       string               `gorm:"type:varchar(50);uniqueIndex;not null"`
	PasswordHash   string               `gorm:"type:varchar(255);not null"`
	ProfilePicture string               `gorm:"type:varchar(255)"`
	CoverPicture   string               `gorm:"type:varchar(255)"`
	Bio            string               `gorm:"type:varchar(500)"`
	City           string               `gorm:"type:varchar(100)"`
	BlockedIDs     database.StringArray `gorm:"type:text"`
	CreatedAt      time.Time            `gorm:"autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt       `gorm:"index"`
}

// TableName specifies the table name for UserModel.
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts UserModel to domain User. Follower counts are filled in
// by the repository.
func (m *UserModel) ToDomain() *User {
	return &User{
		ID:             m.ID,
		Email:          m.Email,
		Username:       m.Username,
		PasswordHash:   m.PasswordHash,
		ProfilePicture: m.ProfilePicture,
		CoverPicture:   m.CoverPicture,
		Bio:            m.Bio,
		City:           m.City,
		BlockedIDs:     []string(m.BlockedIDs),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// UserToModel converts domain User to UserModel.
func UserToModel(u *User) *UserModel {
	return &UserModel{
		ID:             u.ID,
		Email:          u.Email,
		Username:       u.Username,
		PasswordHash:   u.PasswordHash,
		ProfilePicture: u.ProfilePicture,
		CoverPicture:   u.CoverPicture,
		Bio:            u.Bio,
		City:           u.City,
		BlockedIDs:     database.StringArray(u.BlockedIDs),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// FollowModel is the GORM model for the follows table. The pair is unique so
// a duplicate follow surfaces as gorm.ErrDuplicatedKey.
type FollowModel struct {
	ID         string         `gorm:"type:varchar(36);primaryKey"`
	FollowerID string         `gorm:"type:varchar(36);uniqueIndex:idx_follower_target;not null"`
	TargetID   string         `gorm:"type:varchar(36);uniqueIndex:idx_follower_target;index;not null"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"uniqueIndex:idx_follower_target"`
}

// TableName specifies the table name for FollowModel.
func (FollowModel) TableName() string {
	return "follows"
}
