package repositories

import (
	"context"

	"github.com/anonto42/circle/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
// viewerID 0 means an anonymous viewer; LikedByMe is then always false.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id, viewerID uint) (*models.Post, error)
	GetAuthorID(ctx context.Context, id uint) (uint, error)
	GetAllPosts(ctx context.Context, viewerID uint) ([]models.Post, error)
	GetPostsByAuthorID(ctx context.Context, authorID, viewerID uint) ([]models.Post, error)
	GetFeed(ctx context.Context, viewerID uint, skip, limit int) ([]models.Post, int64, error)
	DeleteOwnedPost(ctx context.Context, id, requesterID uint) error
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

const annotatedPostColumns = `posts.*,
	(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS like_count,
	(SELECT COUNT(*) FROM replies WHERE replies.post_id = posts.id) AS reply_count,
	EXISTS (SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS liked_by_me`

// annotated selects posts with their author summary, counts and the viewer's like flag
func (r *PostgresPostRepository) annotated(ctx context.Context, viewerID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select(annotatedPostColumns, viewerID).
		Preload("Author", summaryColumns)
}

// CreatePost inserts a post and loads its author summary
func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit("Author").Create(post).Error; err != nil {
		return translate(err)
	}
	var author models.UserSummary
	if err := r.db.WithContext(ctx).First(&author, post.AuthorID).Error; err != nil {
		return translate(err)
	}
	post.Author = &author
	return nil
}

// GetPostByID retrieves one annotated post
func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id, viewerID uint) (*models.Post, error) {
	var post models.Post
	if err := r.annotated(ctx, viewerID).Where("posts.id = ?", id).Take(&post).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// GetAuthorID returns the owner of a post, ErrNotFound if the post does not exist
func (r *PostgresPostRepository) GetAuthorID(ctx context.Context, id uint) (uint, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Select("id", "author_id").Take(&post, id).Error; err != nil {
		return 0, translate(err)
	}
	return post.AuthorID, nil
}

// GetAllPosts retrieves every post, newest first
func (r *PostgresPostRepository) GetAllPosts(ctx context.Context, viewerID uint) ([]models.Post, error) {
	posts := []models.Post{}
	err := r.annotated(ctx, viewerID).
		Order("posts.created_at DESC, posts.id DESC").
		Find(&posts).Error
	return posts, err
}

// GetPostsByAuthorID retrieves one author's posts, newest first
func (r *PostgresPostRepository) GetPostsByAuthorID(ctx context.Context, authorID, viewerID uint) ([]models.Post, error) {
	posts := []models.Post{}
	err := r.annotated(ctx, viewerID).
		Where("posts.author_id = ?", authorID).
		Order("posts.created_at DESC, posts.id DESC").
		Find(&posts).Error
	return posts, err
}

// GetFeed retrieves one page of posts by the viewer and everyone the viewer follows
func (r *PostgresPostRepository) GetFeed(ctx context.Context, viewerID uint, skip, limit int) ([]models.Post, int64, error) {
	following := r.db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", viewerID)

	var total int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("posts.author_id = ? OR posts.author_id IN (?)", viewerID, following).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	posts := []models.Post{}
	err = r.annotated(ctx, viewerID).
		Where("posts.author_id = ? OR posts.author_id IN (?)", viewerID, following).
		Order("posts.created_at DESC, posts.id DESC").
		Offset(skip).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// DeleteOwnedPost deletes a post only if requesterID wrote it.
// Likes, replies, images and notifications of the post cascade.
func (r *PostgresPostRepository) DeleteOwnedPost(ctx context.Context, id, requesterID uint) error {
	authorID, err := r.GetAuthorID(ctx, id)
	if err != nil {
		return err
	}
	if authorID != requesterID {
		return ErrNotOwner
	}

	res := r.db.WithContext(ctx).Where("author_id = ?", requesterID).Delete(&models.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// deleted concurrently between the read and the delete
		return ErrNotFound
	}
	return nil
}
