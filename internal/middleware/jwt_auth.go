package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/anonto42/circle/backend/internal/token"
	"github.com/labstack/echo/v4"
)

type contextKey string

const userIDKey = contextKey("userID")

// TokenVerifier verifies bearer tokens
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// JWTAuthMiddleware rejects requests without a valid bearer token
// and stores the caller's identity in the request context.
func JWTAuthMiddleware(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			tokenString := ExtractBearerToken(authHeader)
			if tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			claims, err := tokens.Verify(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			setIdentity(c, claims)
			return next(c)
		}
	}
}

// OptionalJWTAuthMiddleware resolves the caller when a valid bearer token is present
// and lets anonymous or badly authenticated requests through as anonymous.
func OptionalJWTAuthMiddleware(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := ExtractBearerToken(c.Request().Header.Get("Authorization"))
			if tokenString == "" {
				return next(c)
			}
			if claims, err := tokens.Verify(tokenString); err == nil {
				setIdentity(c, claims)
			}
			return next(c)
		}
	}
}

// CurrentUserID returns the authenticated caller, ok is false for anonymous requests
func CurrentUserID(c echo.Context) (uint, bool) {
	id, ok := UserIDFromContext(c.Request().Context())
	return id, ok && id != 0
}

// WithUserID stores userID in ctx
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts the user id stored by WithUserID
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDKey).(uint)
	return id, ok
}

func setIdentity(c echo.Context, claims *token.Claims) {
	c.SetRequest(c.Request().WithContext(WithUserID(c.Request().Context(), claims.UserID)))
}

// ExtractBearerToken returns the token of a "Bearer <token>" header, or "" if the header is malformed.
// The scheme is case-insensitive.
func ExtractBearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
