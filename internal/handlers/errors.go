package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anonto42/circle/backend/internal/apperrors"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler writes every failure as {"error": "..."} with the status of its kind.
// Internal failures are logged with their cause and reported without it.
func NewHTTPErrorHandler(log *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := http.StatusInternalServerError, "Internal server error"

		var appErr *apperrors.Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = appErr.Kind.HTTPStatus()
			message = appErr.Message
			if appErr.Kind == apperrors.KindInternal {
				log.WithFields(logrus.Fields{
					"op":      appErr.Op,
					"method":  c.Request().Method,
					"path":    c.Path(),
					"user_id": viewerID(c),
				}).WithError(appErr.Err).Error("request failed")
			}
		case errors.As(err, &httpErr):
			status = httpErr.Code
			message = fmt.Sprint(httpErr.Message)
			if status >= http.StatusInternalServerError {
				message = http.StatusText(status)
			}
		default:
			log.WithFields(logrus.Fields{
				"method": c.Request().Method,
				"path":   c.Path(),
			}).WithError(err).Error("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, errorResponse{Error: message})
		}
		if err != nil {
			log.WithError(err).Warn("failed to write error response")
		}
	}
}
