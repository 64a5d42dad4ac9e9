package models

import "time"

// Post is a piece of content owned by its author.
// LikeCount, ReplyCount and LikedByMe are computed by queries and never stored.
type Post struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	AuthorID  uint         `json:"author_id" gorm:"not null;index"`
	Author    *UserSummary `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Content   string       `json:"content" gorm:"type:text;not null"`
	Image     *string      `json:"image"`
	CreatedAt time.Time    `json:"created_at" gorm:"index"`
	UpdatedAt time.Time    `json:"updated_at"`

	LikeCount  int64 `json:"like_count" gorm:"->;-:migration"`
	ReplyCount int64 `json:"reply_count" gorm:"->;-:migration"`
	LikedByMe  bool  `json:"liked_by_me" gorm:"->;-:migration"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content string  `json:"content" validate:"required,notblank,max=5000"`
	Image   *string `json:"image" validate:"omitempty,url"`
}

// FeedPage is one page of the following feed
type FeedPage struct {
	Posts      []Post `json:"posts"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalItems int64  `json:"total_items"`
	TotalPages int    `json:"total_pages"`
}
