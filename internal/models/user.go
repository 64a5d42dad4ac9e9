package models

import "time"

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Username     string    `json:"username" gorm:"size:50;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Bio          *string   `json:"bio"`
	Image        *string   `json:"image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserSummary is the author/avatar projection of a user embedded in posts, replies and lists
type UserSummary struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	Username string  `json:"username"`
	Image    *string `json:"image"`
}

// TableName maps UserSummary onto the users table
func (UserSummary) TableName() string {
	return "users"
}

// RegisterRequest defines the request body for registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Username string `json:"username" validate:"required,notblank,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest defines the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for a partial profile update.
// A nil field is left unchanged.
type UpdateProfileRequest struct {
	Bio   *string `json:"bio" validate:"omitempty,max=500"`
	Image *string `json:"image" validate:"omitempty,url"`
}

// Profile is a user as seen by a (possibly anonymous) viewer
type Profile struct {
	User           *User `json:"user"`
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
	IsFollowing    bool  `json:"is_following"`
}
