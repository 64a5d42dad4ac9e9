package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/circle/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	content *services.ContentService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(content *services.ContentService) *FeedHandler {
	return &FeedHandler{content: content}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/feed", h.GetFeed, requireAuth)
}

// GetFeed returns one page of posts from the caller and the users they follow
func (h *FeedHandler) GetFeed(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	// unparsable values fall back to the defaults
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	feed, err := h.content.Feed(c.Request().Context(), userID, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feed)
}
