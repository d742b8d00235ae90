package auth

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/mreboux/registrar/internal/middleware"
)

// RegisterRoutes sets up the auth routes on the given route group.
//
// Credential endpoints are rate-limited per IP to blunt brute-force and
// credential-stuffing attacks: 10 attempts per minute for login, 5 for
// register. The middlewares themselves (RequireAuth, RequireRole) are
// exported separately for other packages to apply to their own groups.
func RegisterRoutes(g *echo.Group, h *Handler, codec *TokenCodec, rdb *redis.Client) {
	authed := g.Group("/auth")

	// Public routes -- no session required.
	authed.POST("/register", h.Register, middleware.RateLimit(rdb, 5, time.Minute))
	authed.POST("/login", h.Login, middleware.RateLimit(rdb, 10, time.Minute))
	authed.POST("/logout", h.Logout)

	// Routes below require a valid session.
	authed.GET("/me", h.Me, RequireAuth(codec))
	authed.PUT("/password", h.ChangePassword, RequireAuth(codec))
	authed.DELETE("/account", h.DisableAccount, RequireAuth(codec))
}
