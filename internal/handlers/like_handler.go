package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// LikePost likes a post; repeating the like is answered with 200 instead of 201
func (h *PostHandler) LikePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	postID, err := parseID(c, "id", invalidPostID)
	if err != nil {
		return err
	}

	created, err := h.content.LikePost(c.Request().Context(), userID, postID)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, echo.Map{"liked": true})
}

// UnlikePost removes the caller's like, if any
func (h *PostHandler) UnlikePost(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	postID, err := parseID(c, "id", invalidPostID)
	if err != nil {
		return err
	}

	removed, err := h.content.UnlikePost(c.Request().Context(), userID, postID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": false, "removed": removed})
}
