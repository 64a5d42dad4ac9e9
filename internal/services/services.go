// Package services holds the business operations behind the HTTP handlers:
// authentication, content (posts, likes, replies), the social graph, notifications and images.
package services

import (
	"errors"

	"github.com/anonto42/circle/backend/internal/apperrors"
	"github.com/anonto42/circle/backend/internal/repositories"
	"github.com/anonto42/circle/backend/internal/token"
)

// Tokens issues and verifies bearer tokens
type Tokens interface {
	Issue(userID uint, email string) (string, error)
	Verify(tokenString string) (*token.Claims, error)
}

// storeError classifies a repository failure that has no operation-specific meaning
func storeError(op string, err error) error {
	var appErr *apperrors.Error
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, repositories.ErrMissingReference):
		// the caller's own row vanished after its token was issued
		return apperrors.Unauthenticated("Account no longer exists")
	default:
		return apperrors.Internal(op, err)
	}
}
