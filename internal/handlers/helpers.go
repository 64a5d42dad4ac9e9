package handlers

import (
	"strconv"

	"github.com/anonto42/circle/backend/internal/apperrors"
	"github.com/anonto42/circle/backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// bindAndValidate decodes the request body into req and checks its validate tags
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.InvalidInput("Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	return nil
}

// parseID reads a positive integer path parameter
func parseID(c echo.Context, name, message string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.InvalidInput(message)
	}
	return uint(id), nil
}

// viewerID is the caller's id, or 0 for an anonymous request
func viewerID(c echo.Context) uint {
	id, _ := middleware.CurrentUserID(c)
	return id
}

// requireUserID returns the authenticated caller
func requireUserID(c echo.Context) (uint, error) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		return 0, apperrors.Unauthenticated("Authentication required")
	}
	return id, nil
}
