package enrollments

import (
	"github.com/labstack/echo/v4"

	"github.com/mreboux/registrar/internal/auth"
)

// RegisterRoutes mounts the enrollment endpoints on the given group. A
// student's course list is public; enrolling and withdrawing require the
// editor role.
func RegisterRoutes(g *echo.Group, h *Handler, codec *auth.TokenCodec) {
	authed := auth.RequireAuth(codec)
	editor := auth.RequireRole(auth.RoleEditor)

	g.GET("/students/:id/courses", h.CoursesOf)
	g.POST("/enrollments", h.Enroll, authed, editor)
	g.DELETE("/enrollments/:studentID/:courseID", h.Withdraw, authed, editor)
}
