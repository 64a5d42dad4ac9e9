package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/anonto42/circle/backend/internal/apperrors"
	"github.com/anonto42/circle/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// ImageHandler handles image upload and retrieval
type ImageHandler struct {
	images   *services.ImageService
	maxBytes int64
}

// NewImageHandler creates a new ImageHandler accepting files up to maxBytes
func NewImageHandler(images *services.ImageService, maxBytes int64) *ImageHandler {
	return &ImageHandler{images: images, maxBytes: maxBytes}
}

// RegisterImageRoutes registers image-related routes
func (h *ImageHandler) RegisterImageRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	// multipart framing needs some room on top of the file itself
	bodyLimit := middleware.BodyLimit(fmt.Sprintf("%dK", h.maxBytes/1024+64))

	g.POST("/images/upload", h.UploadImage, requireAuth, bodyLimit)
	g.GET("/images", h.GetImages, requireAuth)
	g.GET("/images/:filename", h.GetImageURL, requireAuth)
}

// UploadImage stores the multipart "file" for the post named by "post_id"
func (h *ImageHandler) UploadImage(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	postID, err := strconv.ParseUint(c.FormValue("post_id"), 10, 64)
	if err != nil || postID == 0 {
		return apperrors.InvalidInput("Invalid post ID")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.InvalidInput("File is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.InvalidInput("Could not read uploaded file")
	}
	defer file.Close()

	image, err := h.images.Upload(c.Request().Context(), userID, uint(postID), fileHeader.Filename, file)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, image)
}

// GetImages lists the most recent image metadata
func (h *ImageHandler) GetImages(c echo.Context) error {
	images, err := h.images.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"images": images})
}

// GetImageURL returns a time-limited link to an image by its original file name
func (h *ImageHandler) GetImageURL(c echo.Context) error {
	url, err := h.images.URL(c.Request().Context(), c.Param("filename"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, url)
}
