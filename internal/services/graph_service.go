package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/circle/backend/internal/apperrors"
	"github.com/anonto42/circle/backend/internal/models"
	"github.com/anonto42/circle/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

const searchLimit = 20

// GraphService manages profiles and follow edges
type GraphService struct {
	store *repositories.Store
	log   *logrus.Logger
}

// NewGraphService creates a GraphService
func NewGraphService(store *repositories.Store, log *logrus.Logger) *GraphService {
	return &GraphService{store: store, log: log}
}

func userNotFound() error {
	return apperrors.NotFound("User not found")
}

// GetProfile returns targetID's public profile with follow counts.
// IsFollowing is false for anonymous viewers (0) and for users viewing themselves.
func (s *GraphService) GetProfile(ctx context.Context, viewerID, targetID uint) (*models.Profile, error) {
	user, err := s.store.Users.GetUserByID(ctx, targetID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, userNotFound()
	}
	if err != nil {
		return nil, apperrors.Internal("users.profile", err)
	}

	profile := &models.Profile{User: user}
	if profile.FollowerCount, err = s.store.Follows.GetFollowersCount(ctx, targetID); err != nil {
		return nil, apperrors.Internal("users.profile.followers", err)
	}
	if profile.FollowingCount, err = s.store.Follows.GetFollowingCount(ctx, targetID); err != nil {
		return nil, apperrors.Internal("users.profile.following", err)
	}
	if viewerID != 0 && viewerID != targetID {
		if profile.IsFollowing, err = s.store.Follows.IsFollowing(ctx, viewerID, targetID); err != nil {
			return nil, apperrors.Internal("users.profile.is_following", err)
		}
	}
	return profile, nil
}

// UpdateProfile changes the requester's own bio and/or image
func (s *GraphService) UpdateProfile(ctx context.Context, requesterID, targetID uint, req models.UpdateProfileRequest) (*models.Profile, error) {
	if requesterID != targetID {
		return nil, apperrors.Forbidden("You can only update your own profile")
	}
	if req.Bio != nil && len([]rune(*req.Bio)) > 500 {
		return nil, apperrors.InvalidInput("bio must be at most 500 characters")
	}

	_, err := s.store.Users.UpdateProfile(ctx, requesterID, req.Bio, req.Image)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, userNotFound()
	}
	if err != nil {
		return nil, apperrors.Internal("users.update", err)
	}
	return s.GetProfile(ctx, requesterID, targetID)
}

// Follow makes followerID follow followingID. Following twice is not an error;
// created reports whether a new edge was stored.
func (s *GraphService) Follow(ctx context.Context, followerID, followingID uint) (bool, error) {
	if followerID == followingID {
		return false, apperrors.InvalidInput("You cannot follow yourself")
	}

	var created bool
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		exists, err := tx.Users.Exists(ctx, followingID)
		if err != nil {
			return err
		}
		if !exists {
			return userNotFound()
		}
		if created, err = tx.Follows.CreateFollow(ctx, followerID, followingID); err != nil || !created {
			return err
		}
		return notify(ctx, tx, models.NotificationFollow, followerID, followingID, nil)
	})
	if err != nil {
		return false, storeError("follows.create", err)
	}
	return created, nil
}

// Unfollow removes the edge if present; removed reports whether it existed
func (s *GraphService) Unfollow(ctx context.Context, followerID, followingID uint) (bool, error) {
	removed, err := s.store.Follows.DeleteFollow(ctx, followerID, followingID)
	if err != nil {
		return false, apperrors.Internal("follows.delete", err)
	}
	return removed, nil
}

// ListUserPosts returns targetID's posts newest first
func (s *GraphService) ListUserPosts(ctx context.Context, targetID, viewerID uint) ([]models.Post, error) {
	if err := s.requireUser(ctx, targetID, "users.posts"); err != nil {
		return nil, err
	}
	posts, err := s.store.Posts.GetPostsByAuthorID(ctx, targetID, viewerID)
	if err != nil {
		return nil, apperrors.Internal("users.posts", err)
	}
	return posts, nil
}

// ListFollowers returns the users following targetID
func (s *GraphService) ListFollowers(ctx context.Context, targetID uint) ([]models.UserSummary, error) {
	if err := s.requireUser(ctx, targetID, "users.followers"); err != nil {
		return nil, err
	}
	users, err := s.store.Follows.GetFollowers(ctx, targetID)
	if err != nil {
		return nil, apperrors.Internal("users.followers", err)
	}
	return users, nil
}

// ListFollowing returns the users targetID follows
func (s *GraphService) ListFollowing(ctx context.Context, targetID uint) ([]models.UserSummary, error) {
	if err := s.requireUser(ctx, targetID, "users.following"); err != nil {
		return nil, err
	}
	users, err := s.store.Follows.GetFollowing(ctx, targetID)
	if err != nil {
		return nil, apperrors.Internal("users.following", err)
	}
	return users, nil
}

// SearchUsers finds users by a fragment of their username
func (s *GraphService) SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.InvalidInput("Search query 'q' is required")
	}
	users, err := s.store.Users.SearchUsers(ctx, query, searchLimit)
	if err != nil {
		return nil, apperrors.Internal("users.search", err)
	}
	return users, nil
}

func (s *GraphService) requireUser(ctx context.Context, id uint, op string) error {
	exists, err := s.store.Users.Exists(ctx, id)
	if err != nil {
		return apperrors.Internal(op, err)
	}
	if !exists {
		return userNotFound()
	}
	return nil
}
