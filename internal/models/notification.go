package models

import "time"

// Notification types
const (
	NotificationLike   = "like"
	NotificationReply  = "reply"
	NotificationFollow = "follow"
)

// Notification tells a user that someone interacted with them or their content
type Notification struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Type        string       `json:"type" gorm:"size:20;not null;index"`
	ActorID     uint         `json:"actor_id" gorm:"not null;index"`
	Actor       *UserSummary `json:"actor,omitempty" gorm:"foreignKey:ActorID;constraint:OnDelete:CASCADE"`
	RecipientID uint         `json:"recipient_id" gorm:"not null;index"`
	Recipient   *UserSummary `json:"-" gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
	PostID      *uint        `json:"post_id,omitempty" gorm:"index"`
	Post        *Post        `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Message     string       `json:"message"`
	IsRead      bool         `json:"is_read" gorm:"not null;default:false;index"`
	CreatedAt   time.Time    `json:"created_at" gorm:"index"`
}
