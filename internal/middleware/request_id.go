package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"patrolBandit/business/bandit"
)

// RequestID tags every request with an id, taken from X-Request-ID when the
// caller sent one. The id travels in the request context as the trace id of
// the simulation it starts.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}

			c.Response().Header().Set(echo.HeaderXRequestID, id)
			c.SetRequest(req.WithContext(bandit.ContextWithTraceID(req.Context(), id)))
			return next(c)
		}
	}
}
