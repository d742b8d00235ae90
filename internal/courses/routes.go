package courses

import (
	"github.com/labstack/echo/v4"

	"github.com/mreboux/registrar/internal/auth"
)

// RegisterRoutes mounts the course endpoints on the given group. The
// catalog is readable by anyone; mutations require the editor role.
func RegisterRoutes(g *echo.Group, h *Handler, codec *auth.TokenCodec) {
	courses := g.Group("/courses")

	authed := auth.RequireAuth(codec)
	editor := auth.RequireRole(auth.RoleEditor)

	courses.GET("", h.List)
	courses.GET("/:id", h.Get)
	courses.POST("", h.Create, authed, editor)
	courses.DELETE("/:id", h.Delete, authed, editor)
}
