package students

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mreboux/registrar/internal/apperror"
)

// Handler exposes the student endpoints over HTTP.
type Handler struct {
	service StudentService
}

// NewHandler creates a student HTTP handler.
func NewHandler(service StudentService) *Handler {
	return &Handler{service: service}
}

// listResponse is the envelope for paginated collections.
type listResponse struct {
	Data []Student `json:"data"`
	Meta PageMeta  `json:"meta"`
}

// List handles GET /students. An optional ?search= filters by name, email,
// or DA.
func (h *Handler) List(c echo.Context) error {
	opts := parseListOptions(c)
	search := c.QueryParam("search")

	var (
		list []Student
		meta PageMeta
		err  error
	)
	if search != "" {
		list, meta, err = h.service.Search(c.Request().Context(), search, opts)
	} else {
		list, meta, err = h.service.List(c.Request().Context(), opts)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Data: list, Meta: meta})
}

// Get handles GET /students/:id.
func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	student, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, student)
}

// Create handles POST /students.
func (h *Handler) Create(c echo.Context) error {
	var req UpsertStudentRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	student, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, student)
}

// Update handles PUT /students/:id.
func (h *Handler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req UpsertStudentRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	student, err := h.service.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, student)
}

// Delete handles DELETE /students/:id.
func (h *Handler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "student deleted"})
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperror.NewBadRequest("invalid student id")
	}
	return id, nil
}

// parseListOptions reads page/limit query params, falling back to defaults
// on anything unparseable.
func parseListOptions(c echo.Context) ListOptions {
	opts := DefaultListOptions()
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		opts.Limit = limit
	}
	return opts.Clamp()
}
