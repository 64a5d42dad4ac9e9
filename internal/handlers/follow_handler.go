package handlers

import (
	"net/http"

	"github.com/anonto42/circle/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	graph *services.GraphService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(graph *services.GraphService) *FollowHandler {
	return &FollowHandler{graph: graph}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/users/:id/follow", h.FollowUser, requireAuth)
	g.DELETE("/users/:id/unfollow", h.UnfollowUser, requireAuth)
}

// FollowUser follows a user; repeating the follow is answered with 200 instead of 201
func (h *FollowHandler) FollowUser(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	targetID, err := parseID(c, "id", invalidUserID)
	if err != nil {
		return err
	}

	created, err := h.graph.Follow(c.Request().Context(), userID, targetID)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, echo.Map{"following": true})
}

// UnfollowUser removes the follow edge, if any
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	targetID, err := parseID(c, "id", invalidUserID)
	if err != nil {
		return err
	}

	removed, err := h.graph.Unfollow(c.Request().Context(), userID, targetID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"following": false, "removed": removed})
}
