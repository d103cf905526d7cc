package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/xxiimcha/lifeec-mobile/internal/apperror"
	"github.com/xxiimcha/lifeec-mobile/pkg/logger"
	"go.uber.org/zap"
)

// HTTPErrorHandler renders every error as {message, errors?}. Store causes
// are logged and never sent to the client.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	log := logger.FromContext(c)

	status := http.StatusInternalServerError
	body := echo.Map{"message": "Internal server error"}

	var appErr *apperror.Error
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		status = appErr.Kind.Status()
		body["message"] = appErr.Message
		if len(appErr.Fields) > 0 {
			body["errors"] = appErr.Fields
		}
		if status >= http.StatusInternalServerError {
			log.Error(appErr.Message, zap.Error(appErr.Cause))
		}
	case errors.As(err, &httpErr):
		status = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			body["message"] = msg
		} else {
			body["message"] = fmt.Sprint(httpErr.Message)
		}
	default:
		log.Error("Unhandled error", zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		log.Error("Failed to write error response", zap.Error(err))
	}
}
