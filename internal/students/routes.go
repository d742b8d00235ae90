package students

import (
	"github.com/labstack/echo/v4"

	"github.com/mreboux/registrar/internal/auth"
)

// RegisterRoutes mounts the student endpoints on the given group. Listing
// requires a logged-in user of any role; mutations require the editor role.
func RegisterRoutes(g *echo.Group, h *Handler, codec *auth.TokenCodec) {
	students := g.Group("/students")

	authed := auth.RequireAuth(codec)
	editor := auth.RequireRole(auth.RoleEditor)

	students.GET("", h.List, authed)
	students.GET("/:id", h.Get)
	students.POST("", h.Create, authed, editor)
	students.PUT("/:id", h.Update, authed, editor)
	students.DELETE("/:id", h.Delete, authed, editor)
}
