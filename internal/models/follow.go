package models

import "time"

// Follow is a directed follower -> following edge between two distinct users
type Follow struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	FollowerID  uint         `json:"follower_id" gorm:"not null;index;uniqueIndex:idx_follower_following;check:chk_follows_not_self,follower_id <> following_id"`
	Follower    *UserSummary `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	FollowingID uint         `json:"following_id" gorm:"not null;index;uniqueIndex:idx_follower_following"`
	Following   *UserSummary `json:"-" gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time    `json:"created_at"`
}
