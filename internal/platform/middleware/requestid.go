package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDHeader is the header used to propagate request ids.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen caps caller-supplied ids so a hostile header cannot bloat
// every log line for the request.
const maxRequestIDLen = 64

// RequestID attaches a request id to every request, preserving one supplied
// by the caller and echoing it back on the response. Oversized caller ids
// are replaced rather than truncated so the id stays unique.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(RequestIDHeader)
			if rid == "" || len(rid) > maxRequestIDLen {
				rid = uuid.NewString()
			}
			c.Set("request_id", rid)
			c.Response().Header().Set(RequestIDHeader, rid)
			return next(c)
		}
	}
}
