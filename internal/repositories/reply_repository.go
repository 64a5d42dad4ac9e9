package repositories

import (
	"context"

	"github.com/anonto42/circle/backend/internal/models"
	"gorm.io/gorm"
)

// ReplyRepository defines the interface for reply data operations
type ReplyRepository interface {
	CreateReply(ctx context.Context, reply *models.Reply) error
	GetRepliesByPostID(ctx context.Context, postID uint) ([]models.Reply, error)
}

// PostgresReplyRepository implements ReplyRepository for PostgreSQL
type PostgresReplyRepository struct {
	db *gorm.DB
}

// NewPostgresReplyRepository creates a new PostgresReplyRepository
func NewPostgresReplyRepository(db *gorm.DB) *PostgresReplyRepository {
	return &PostgresReplyRepository{db: db}
}

// CreateReply inserts a reply and loads its author summary
func (r *PostgresReplyRepository) CreateReply(ctx context.Context, reply *models.Reply) error {
	if err := r.db.WithContext(ctx).Omit("Author", "Post").Create(reply).Error; err != nil {
		return translate(err)
	}
	var author models.UserSummary
	if err := r.db.WithContext(ctx).First(&author, reply.AuthorID).Error; err != nil {
		return translate(err)
	}
	reply.Author = &author
	return nil
}

// GetRepliesByPostID retrieves the replies of a post, oldest first
func (r *PostgresReplyRepository) GetRepliesByPostID(ctx context.Context, postID uint) ([]models.Reply, error) {
	replies := []models.Reply{}
	err := r.db.WithContext(ctx).
		Preload("Author", summaryColumns).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&replies).Error
	return replies, err
}
