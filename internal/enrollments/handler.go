package enrollments

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mreboux/registrar/internal/apperror"
)

// Handler exposes the enrollment endpoints over HTTP.
type Handler struct {
	service EnrollmentService
}

// NewHandler creates an enrollment HTTP handler.
func NewHandler(service EnrollmentService) *Handler {
	return &Handler{service: service}
}

// Enroll handles POST /enrollments.
func (h *Handler) Enroll(c echo.Context) error {
	var req EnrollRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	enrollment, err := h.service.Enroll(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, enrollment)
}

// Withdraw handles DELETE /enrollments/:studentID/:courseID.
func (h *Handler) Withdraw(c echo.Context) error {
	studentID, err := parseIDParam(c, "studentID")
	if err != nil {
		return err
	}
	courseID, err := parseIDParam(c, "courseID")
	if err != nil {
		return err
	}
	if err := h.service.Withdraw(c.Request().Context(), studentID, courseID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "enrollment deleted"})
}

// CoursesOf handles GET /students/:id/courses.
func (h *Handler) CoursesOf(c echo.Context) error {
	studentID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	list, err := h.service.CoursesOf(c.Request().Context(), studentID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, apperror.NewBadRequest("invalid " + name)
	}
	return id, nil
}
