package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"patrolBandit/business/bandit"
	"patrolBandit/business/experiment"
	"patrolBandit/pkg/logger"
)

type errorResponse struct {
	Message string `json:"message"`
}

// StatusFor maps a service error onto an HTTP status.
func StatusFor(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, bandit.ErrInvalidConfig), errors.Is(err, bandit.ErrUnknownPolicy):
		return http.StatusBadRequest
	case errors.Is(err, experiment.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders every unhandled error as {"message": ...}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := StatusFor(err)
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"trace_id", bandit.TraceIDFromContext(c.Request().Context()),
			"path", c.Path(),
			"error", err,
		)
		if status == http.StatusInternalServerError {
			msg = http.StatusText(status)
		}
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, errorResponse{Message: msg})
	}
	if werr != nil {
		logger.Error("failed to write error response", werr)
	}
}
