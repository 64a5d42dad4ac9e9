package repositories

import (
	"context"

	"github.com/anonto42/circle/backend/internal/models"
	"gorm.io/gorm"
)

// ImageRepository defines the interface for image metadata operations
type ImageRepository interface {
	CreateImage(ctx context.Context, image *models.Image) error
	GetImages(ctx context.Context, limit int) ([]models.Image, error)
	GetImageByFileName(ctx context.Context, fileName string) (*models.Image, error)
}

// PostgresImageRepository implements ImageRepository for PostgreSQL
type PostgresImageRepository struct {
	db *gorm.DB
}

// NewPostgresImageRepository creates a new PostgresImageRepository
func NewPostgresImageRepository(db *gorm.DB) *PostgresImageRepository {
	return &PostgresImageRepository{db: db}
}

func (r *PostgresImageRepository) CreateImage(ctx context.Context, image *models.Image) error {
	return translate(r.db.WithContext(ctx).Omit("User", "Post").Create(image).Error)
}

// GetImages returns the most recent image metadata rows
func (r *PostgresImageRepository) GetImages(ctx context.Context, limit int) ([]models.Image, error) {
	images := []models.Image{}
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&images).Error
	return images, err
}

// GetImageByFileName returns the newest image uploaded under an original file name
func (r *PostgresImageRepository) GetImageByFileName(ctx context.Context, fileName string) (*models.Image, error) {
	var image models.Image
	err := r.db.WithContext(ctx).
		Where("file_name = ?", fileName).
		Order("created_at DESC, id DESC").
		Take(&image).Error
	if err != nil {
		return nil, translate(err)
	}
	return &image, nil
}
