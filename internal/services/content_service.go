package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/anonto42/circle/backend/internal/apperrors"
	"github.com/anonto42/circle/backend/internal/models"
	"github.com/anonto42/circle/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

const (
	defaultFeedLimit = 10
	maxFeedLimit     = 50
)

// ContentService manages posts, likes and replies
type ContentService struct {
	store *repositories.Store
	log   *logrus.Logger
}

// NewContentService creates a ContentService
func NewContentService(store *repositories.Store, log *logrus.Logger) *ContentService {
	return &ContentService{store: store, log: log}
}

func postNotFound() error {
	return apperrors.NotFound("Post not found")
}

// ListPosts returns every post newest first, annotated for viewerID (0 for anonymous)
func (s *ContentService) ListPosts(ctx context.Context, viewerID uint) ([]models.Post, error) {
	posts, err := s.store.Posts.GetAllPosts(ctx, viewerID)
	if err != nil {
		return nil, apperrors.Internal("posts.list", err)
	}
	return posts, nil
}

// GetPost returns one annotated post
func (s *ContentService) GetPost(ctx context.Context, id, viewerID uint) (*models.Post, error) {
	post, err := s.store.Posts.GetPostByID(ctx, id, viewerID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, postNotFound()
	}
	if err != nil {
		return nil, apperrors.Internal("posts.get", err)
	}
	return post, nil
}

// CreatePost publishes a post by authorID
func (s *ContentService) CreatePost(ctx context.Context, authorID uint, req models.CreatePostRequest) (*models.Post, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, apperrors.InvalidInput("content is required")
	}
	post := &models.Post{
		AuthorID: authorID,
		Content:  req.Content,
		Image:    req.Image,
	}
	if err := s.store.Posts.CreatePost(ctx, post); err != nil {
		return nil, storeError("posts.create", err)
	}
	return post, nil
}

// DeletePost deletes a post on behalf of its author.
// A missing post is NotFound for everyone; an existing post is Forbidden to non-authors.
func (s *ContentService) DeletePost(ctx context.Context, requesterID, id uint) error {
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		return tx.Posts.DeleteOwnedPost(ctx, id, requesterID)
	})
	switch {
	case err == nil:
		s.log.WithFields(logrus.Fields{"post_id": id, "user_id": requesterID}).Info("post deleted")
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return postNotFound()
	case errors.Is(err, repositories.ErrNotOwner):
		return apperrors.Forbidden("You are not authorized to delete this post")
	default:
		return apperrors.Internal("posts.delete", err)
	}
}

// LikePost likes a post. Liking twice is not an error; created reports whether a new like was stored.
func (s *ContentService) LikePost(ctx context.Context, userID, postID uint) (bool, error) {
	var created bool
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		authorID, err := tx.Posts.GetAuthorID(ctx, postID)
		if err != nil {
			return err
		}
		if created, err = tx.Likes.CreateLike(ctx, userID, postID); err != nil || !created {
			return err
		}
		return notify(ctx, tx, models.NotificationLike, userID, authorID, &postID)
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return false, postNotFound()
	}
	if err != nil {
		return false, storeError("likes.create", err)
	}
	return created, nil
}

// UnlikePost removes a like. Unliking a post that is not liked is not an error;
// removed reports whether a like existed.
func (s *ContentService) UnlikePost(ctx context.Context, userID, postID uint) (bool, error) {
	var removed bool
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Posts.GetAuthorID(ctx, postID); err != nil {
			return err
		}
		var err error
		removed, err = tx.Likes.DeleteLike(ctx, userID, postID)
		return err
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return false, postNotFound()
	}
	if err != nil {
		return false, storeError("likes.delete", err)
	}
	return removed, nil
}

// CreateReply adds a reply to an existing post
func (s *ContentService) CreateReply(ctx context.Context, authorID, postID uint, req models.CreateReplyRequest) (*models.Reply, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, apperrors.InvalidInput("content is required")
	}

	reply := &models.Reply{PostID: postID, AuthorID: authorID, Content: req.Content}
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		postAuthorID, err := tx.Posts.GetAuthorID(ctx, postID)
		if err != nil {
			return err
		}
		if err := tx.Replies.CreateReply(ctx, reply); err != nil {
			return err
		}
		return notify(ctx, tx, models.NotificationReply, authorID, postAuthorID, &postID)
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, postNotFound()
	}
	if err != nil {
		return nil, storeError("replies.create", err)
	}
	return reply, nil
}

// ListReplies returns a post's replies oldest first
func (s *ContentService) ListReplies(ctx context.Context, postID uint) ([]models.Reply, error) {
	if _, err := s.store.Posts.GetAuthorID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, postNotFound()
		}
		return nil, apperrors.Internal("replies.list", err)
	}
	replies, err := s.store.Replies.GetRepliesByPostID(ctx, postID)
	if err != nil {
		return nil, apperrors.Internal("replies.list", err)
	}
	return replies, nil
}

// Feed returns one page of posts from the viewer and the users they follow
func (s *ContentService) Feed(ctx context.Context, viewerID uint, page, limit int) (*models.FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxFeedLimit {
		limit = defaultFeedLimit
	}

	// pages past any realistic offset are simply empty
	skip := math.MaxInt32
	if page-1 <= math.MaxInt32/limit {
		skip = (page - 1) * limit
	}

	posts, total, err := s.store.Posts.GetFeed(ctx, viewerID, skip, limit)
	if err != nil {
		return nil, apperrors.Internal("posts.feed", err)
	}
	return &models.FeedPage{
		Posts:      posts,
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// notify records a notification for recipientID unless the actor is acting on their own content
func notify(ctx context.Context, tx *repositories.Store, kind string, actorID, recipientID uint, postID *uint) error {
	if actorID == recipientID {
		return nil
	}
	var message string
	switch kind {
	case models.NotificationLike:
		message = "liked your post"
	case models.NotificationReply:
		message = "replied to your post"
	case models.NotificationFollow:
		message = "started following you"
	default:
		return fmt.Errorf("unknown notification type %q", kind)
	}
	return tx.Notifications.CreateNotification(ctx, &models.Notification{
		Type:        kind,
		ActorID:     actorID,
		RecipientID: recipientID,
		PostID:      postID,
		Message:     message,
	})
}
