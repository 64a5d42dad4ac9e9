package handlers

import (
	"net/http"

	"github.com/anonto42/circle/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// CreateReply adds a reply to a post
func (h *PostHandler) CreateReply(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	postID, err := parseID(c, "id", invalidPostID)
	if err != nil {
		return err
	}

	var req models.CreateReplyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	reply, err := h.content.CreateReply(c.Request().Context(), userID, postID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, reply)
}

// GetReplies lists a post's replies, oldest first
func (h *PostHandler) GetReplies(c echo.Context) error {
	postID, err := parseID(c, "id", invalidPostID)
	if err != nil {
		return err
	}

	replies, err := h.content.ListReplies(c.Request().Context(), postID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, replies)
}
