package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/anonto42/circle/backend/internal/apperrors"
	"github.com/anonto42/circle/backend/internal/models"
	"github.com/anonto42/circle/backend/internal/repositories"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const imagesListLimit = 100

// ObjectStore keeps image bytes outside the database
type ObjectStore interface {
	Upload(ctx context.Context, path, contentType string, r io.Reader) error
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, path string) error
}

// ImageService uploads post images and hands out time-limited links to them
type ImageService struct {
	store    *repositories.Store
	objects  ObjectStore
	maxBytes int64
	urlTTL   time.Duration
	log      *logrus.Logger
}

// NewImageService creates an ImageService
func NewImageService(store *repositories.Store, objects ObjectStore, maxBytes int64, urlTTL time.Duration, log *logrus.Logger) *ImageService {
	return &ImageService{store: store, objects: objects, maxBytes: maxBytes, urlTTL: urlTTL, log: log}
}

// Upload stores an image for one of the uploader's posts and records its metadata
func (s *ImageService) Upload(ctx context.Context, userID, postID uint, fileName string, r io.Reader) (*models.Image, error) {
	if r == nil || fileName == "" {
		return nil, apperrors.InvalidInput("File is required")
	}
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, apperrors.InvalidInput("Could not read uploaded file")
	}
	if len(data) == 0 {
		return nil, apperrors.InvalidInput("File is required")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, apperrors.InvalidInput(fmt.Sprintf("File must be at most %d bytes", s.maxBytes))
	}
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, apperrors.InvalidInput("File must be an image")
	}

	if err := s.checkPostOwner(ctx, s.store, userID, postID); err != nil {
		return nil, err
	}

	path := uuid.NewString() + mtype.Extension()
	if err := s.objects.Upload(ctx, path, mtype.String(), bytes.NewReader(data)); err != nil {
		return nil, apperrors.Internal("images.upload.object", err)
	}

	image := &models.Image{
		UserID:    userID,
		PostID:    postID,
		FileName:  fileName,
		FilePath:  path,
		ImageType: mtype.String(),
	}
	// the post may have gone away while the bytes were uploading
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := s.checkPostOwner(ctx, tx, userID, postID); err != nil {
			return err
		}
		return tx.Images.CreateImage(ctx, image)
	})
	if err != nil {
		if delErr := s.objects.Delete(ctx, path); delErr != nil {
			s.log.WithError(delErr).WithField("file_path", path).Warn("orphaned image object not removed")
		}
		if errors.Is(err, repositories.ErrMissingReference) {
			// the post, or its author and with it the post, vanished before the insert
			return nil, postNotFound()
		}
		return nil, storeError("images.upload.metadata", err)
	}
	return image, nil
}

// checkPostOwner requires postID to exist and belong to userID
func (s *ImageService) checkPostOwner(ctx context.Context, store *repositories.Store, userID, postID uint) error {
	authorID, err := store.Posts.GetAuthorID(ctx, postID)
	if errors.Is(err, repositories.ErrNotFound) {
		return postNotFound()
	}
	if err != nil {
		return apperrors.Internal("images.upload.post", err)
	}
	if authorID != userID {
		return apperrors.Forbidden("You can only add images to your own posts")
	}
	return nil
}

// List returns the most recent image metadata
func (s *ImageService) List(ctx context.Context) ([]models.Image, error) {
	images, err := s.store.Images.GetImages(ctx, imagesListLimit)
	if err != nil {
		return nil, apperrors.Internal("images.list", err)
	}
	return images, nil
}

// URL returns a signed link to the image uploaded under fileName
func (s *ImageService) URL(ctx context.Context, fileName string) (*models.ImageURL, error) {
	image, err := s.store.Images.GetImageByFileName(ctx, fileName)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NotFound("Image not found")
	}
	if err != nil {
		return nil, apperrors.Internal("images.url", err)
	}

	expiresAt := time.Now().Add(s.urlTTL)
	url, err := s.objects.SignedURL(ctx, image.FilePath, s.urlTTL)
	if err != nil {
		return nil, apperrors.Internal("images.url.sign", err)
	}
	return &models.ImageURL{URL: url, ExpiresAt: expiresAt}, nil
}
