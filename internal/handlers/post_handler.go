package handlers

import (
	"net/http"

	"github.com/anonto42/circle/backend/internal/models"
	"github.com/anonto42/circle/backend/internal/services"
	"github.com/labstack/echo/v4"
)

const invalidPostID = "Invalid post ID"

// PostHandler handles HTTP requests related to posts, their likes and their replies
type PostHandler struct {
	content *services.ContentService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(content *services.ContentService) *PostHandler {
	return &PostHandler{content: content}
}

// RegisterPostRoutes registers post-related routes.
// Reads accept an optional bearer token; writes require one.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, requireAuth, optionalAuth echo.MiddlewareFunc) {
	g.GET("/posts", h.GetPosts, optionalAuth)
	g.POST("/posts", h.CreatePost, requireAuth)
	g.GET("/posts/:id", h.GetPost, optionalAuth)
	g.DELETE("/posts/:id", h.DeletePost, requireAuth)

	g.POST("/posts/:id/like", h.LikePost, requireAuth)
	g.DELETE("/posts/:id/unlike", h.UnlikePost, requireAuth)

	g.POST("/posts/:id/reply", h.CreateReply, requireAuth)
	g.GET("/posts/:id/replies", h.GetReplies)
}

// GetPosts lists every post, newest first
func (h *PostHandler) GetPosts(c echo.Context) error {
	posts, err := h.content.ListPosts(c.Request().Context(), viewerID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.content.CreatePost(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := parseID(c, "id", invalidPostID)
	if err != nil {
		return err
	}

	post, err := h.content.GetPost(c.Request().Context(), postID, viewerID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes one of the caller's posts
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	postID, err := parseID(c, "id", invalidPostID)
	if err != nil {
		return err
	}

	if err := h.content.DeletePost(c.Request().Context(), userID, postID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}
