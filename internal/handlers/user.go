package handlers

import (
	"net/http"

	"github.com/anonto42/circle/backend/internal/models"
	"github.com/anonto42/circle/backend/internal/services"
	"github.com/labstack/echo/v4"
)

const invalidUserID = "Invalid user ID"

// UserHandler handles HTTP requests related to user profiles
type UserHandler struct {
	graph *services.GraphService
	auth  *services.AuthService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(graph *services.GraphService, auth *services.AuthService) *UserHandler {
	return &UserHandler{graph: graph, auth: auth}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group, requireAuth, optionalAuth echo.MiddlewareFunc) {
	g.GET("/users/search", h.SearchUsers, optionalAuth)
	g.DELETE("/users/me", h.DeleteAccount, requireAuth)
	g.GET("/users/:id", h.GetUser, optionalAuth)
	g.PUT("/users/:id/update", h.UpdateProfile, requireAuth)
	g.GET("/users/:id/posts", h.GetUserPosts, optionalAuth)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// GetUser returns a user's public profile with follow counts
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c, "id", invalidUserID)
	if err != nil {
		return err
	}

	profile, err := h.graph.GetProfile(c.Request().Context(), viewerID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile updates the caller's bio and/or image
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", invalidUserID)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := h.graph.UpdateProfile(c.Request().Context(), userID, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// DeleteAccount deletes the caller's own account
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if err := h.auth.DeleteAccount(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetUserPosts lists a user's posts, newest first
func (h *UserHandler) GetUserPosts(c echo.Context) error {
	id, err := parseID(c, "id", invalidUserID)
	if err != nil {
		return err
	}

	posts, err := h.graph.ListUserPosts(c.Request().Context(), id, viewerID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// GetFollowers lists the users following a user
func (h *UserHandler) GetFollowers(c echo.Context) error {
	id, err := parseID(c, "id", invalidUserID)
	if err != nil {
		return err
	}

	users, err := h.graph.ListFollowers(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// GetFollowing lists the users a user follows
func (h *UserHandler) GetFollowing(c echo.Context) error {
	id, err := parseID(c, "id", invalidUserID)
	if err != nil {
		return err
	}

	users, err := h.graph.ListFollowing(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// SearchUsers finds users whose username contains ?q=
func (h *UserHandler) SearchUsers(c echo.Context) error {
	users, err := h.graph.SearchUsers(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
