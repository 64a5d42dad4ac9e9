package models

import "time"

// Like is a user's like on a post; at most one per (user, post)
type Like struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	UserID    uint         `json:"user_id" gorm:"not null;index;uniqueIndex:idx_like_user_post"`
	User      *UserSummary `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	PostID    uint         `json:"post_id" gorm:"not null;index;uniqueIndex:idx_like_user_post"`
	Post      *Post        `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time    `json:"created_at"`
}
