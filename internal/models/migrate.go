package models

import "gorm.io/gorm"

// AutoMigrate creates or updates every table, parents before children
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Post{},
		&Reply{},
		&Like{},
		&Follow{},
		&Notification{},
		&Image{},
	)
}
