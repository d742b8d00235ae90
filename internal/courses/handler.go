package courses

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mreboux/registrar/internal/apperror"
)

// Handler exposes the course endpoints over HTTP.
type Handler struct {
	service CourseService
}

// NewHandler creates a course HTTP handler.
func NewHandler(service CourseService) *Handler {
	return &Handler{service: service}
}

// List handles GET /courses.
func (h *Handler) List(c echo.Context) error {
	list, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Get handles GET /courses/:id.
func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	course, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, course)
}

// Create handles POST /courses.
func (h *Handler) Create(c echo.Context) error {
	var req CreateCourseRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	course, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, course)
}

// Delete handles DELETE /courses/:id.
func (h *Handler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "course deleted"})
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperror.NewBadRequest("invalid course id")
	}
	return id, nil
}
