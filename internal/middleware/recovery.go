package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
)

// Recovery returns middleware that converts a panicking handler into a
// logged 500 instead of tearing down the whole server. Registered
// outermost so it also covers panics in later middleware.
func Recovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (returnErr error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				slog.Error("panic recovered",
					slog.Any("panic", r),
					slog.String("method", c.Request().Method),
					slog.String("path", c.Request().URL.Path),
					slog.String("stack", string(debug.Stack())),
				)
				returnErr = c.JSON(http.StatusInternalServerError, map[string]string{
					"error":   "Internal Server Error",
					"message": "An unexpected error occurred",
				})
			}()

			return next(c)
		}
	}
}
