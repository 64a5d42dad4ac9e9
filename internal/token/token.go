// Package token issues and verifies the signed bearer tokens that carry a user's identity.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	// ErrInvalidToken covers malformed tokens, bad signatures and foreign signing methods
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned once a token's expiry has passed
	ErrExpiredToken = errors.New("token expired")
)

// Claims are the custom claims carried by every token
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and verifies HS256 tokens with a process-wide secret
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates a token service. The secret must be non-empty.
func NewService(secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, errors.New("token secret is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &Service{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue creates a token for the user expiring after the configured TTL
func (s *Service) Issue(userID uint, email string) (string, error) {
	return s.IssueWithExpiry(userID, email, s.now().Add(s.ttl))
}

// IssueWithExpiry creates a token for the user with an explicit expiry
func (s *Service) IssueWithExpiry(userID uint, email string, expiry time.Time) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	t, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return t, nil
}

// Verify checks signature and expiry and returns the claims.
// Tokens without an expiry or a user id are rejected.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.ExpiresAt == nil || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
