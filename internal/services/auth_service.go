package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/circle/backend/internal/apperrors"
	"github.com/anonto42/circle/backend/internal/models"
	"github.com/anonto42/circle/backend/internal/repositories"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	invalidCredentials = "Invalid email or password"
	// bcrypt hashes at most this many bytes of a password
	maxPasswordBytes = 72
)

// AuthService registers users, logs them in and resolves the current user
type AuthService struct {
	store     *repositories.Store
	tokens    Tokens
	cost      int
	dummyHash []byte
	log       *logrus.Logger
}

// NewAuthService creates an AuthService hashing passwords with the given bcrypt cost
func NewAuthService(store *repositories.Store, tokens Tokens, cost int, log *logrus.Logger) (*AuthService, error) {
	// compared against when the email is unknown, so both failures cost one bcrypt comparison
	dummy, err := bcrypt.GenerateFromPassword([]byte("circle-dummy-password"), cost)
	if err != nil {
		return nil, err
	}
	return &AuthService{store: store, tokens: tokens, cost: cost, dummyHash: dummy, log: log}, nil
}

// Register creates a user with a salted password hash
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if req.Email == "" || strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return nil, apperrors.InvalidInput("email, username and password are required")
	}
	if len(req.Password) < 6 {
		return nil, apperrors.InvalidInput("password must be at least 6 characters")
	}
	if len(req.Password) > maxPasswordBytes {
		return nil, apperrors.InvalidInput("password must be at most 72 bytes")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, apperrors.Internal("auth.register.hash", err)
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
	}

	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		emailTaken, usernameTaken, err := tx.Users.FindTaken(ctx, req.Email, req.Username)
		if err != nil {
			return err
		}
		switch {
		case emailTaken:
			return apperrors.Conflict("User with this email already exists")
		case usernameTaken:
			return apperrors.Conflict("User with this username already exists")
		}
		return tx.Users.CreateUser(ctx, user)
	})
	if errors.Is(err, repositories.ErrDuplicate) {
		// lost a race with a concurrent registration
		return nil, apperrors.Conflict("User with this email or username already exists")
	}
	if err != nil {
		return nil, storeError("auth.register", err)
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

// Login checks the credentials and issues a token.
// Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (string, *models.User, error) {
	user, err := s.store.Users.GetUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return "", nil, apperrors.Internal("auth.login", err)
	}

	hash := s.dummyHash
	if user != nil {
		hash = []byte(user.PasswordHash)
	}
	if cmpErr := bcrypt.CompareHashAndPassword(hash, []byte(req.Password)); cmpErr != nil || user == nil {
		return "", nil, apperrors.Unauthenticated(invalidCredentials)
	}

	t, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", nil, apperrors.Internal("auth.login.token", err)
	}
	return t, user, nil
}

// GetCurrentUser verifies a bearer token and loads the user it names
func (s *AuthService) GetCurrentUser(ctx context.Context, tokenString string) (*models.User, error) {
	if tokenString == "" {
		return nil, apperrors.Unauthenticated("No token provided")
	}
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, apperrors.Unauthenticated("Invalid or expired token")
	}

	user, err := s.store.Users.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		return nil, apperrors.Internal("auth.me", err)
	}
	return user, nil
}

// DeleteAccount removes the user and, by cascade, everything they own
func (s *AuthService) DeleteAccount(ctx context.Context, userID uint) error {
	err := s.store.Users.DeleteUser(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("User not found")
	}
	if err != nil {
		return apperrors.Internal("auth.delete_account", err)
	}
	s.log.WithField("user_id", userID).Info("account deleted")
	return nil
}
