package models

import "time"

// Image is the metadata of an uploaded picture attached to a post; the bytes live in object storage
type Image struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	UserID    uint         `json:"user_id" gorm:"not null;index"`
	User      *UserSummary `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	PostID    uint         `json:"post_id" gorm:"not null;index"`
	Post      *Post        `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	FileName  string       `json:"file_name" gorm:"size:255;not null;index"`
	FilePath  string       `json:"file_path" gorm:"size:255;not null;uniqueIndex"`
	ImageType string       `json:"image_type" gorm:"size:100;not null"`
	CreatedAt time.Time    `json:"created_at" gorm:"index"`
}

// ImageURL is a time-limited link to an image
type ImageURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
