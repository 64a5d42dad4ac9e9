package models

import "time"

// Reply is a comment on a post
type Reply struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	PostID    uint         `json:"post_id" gorm:"not null;index"`
	Post      *Post        `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	AuthorID  uint         `json:"author_id" gorm:"not null;index"`
	Author    *UserSummary `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Content   string       `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time    `json:"created_at" gorm:"index"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// CreateReplyRequest defines the request body for replying to a post
type CreateReplyRequest struct {
	Content string `json:"content" validate:"required,notblank,max=2000"`
}
