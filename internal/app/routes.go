package app

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mreboux/registrar/internal/auth"
	"github.com/mreboux/registrar/internal/courses"
	"github.com/mreboux/registrar/internal/enrollments"
	"github.com/mreboux/registrar/internal/students"
)

// RegisterRoutes wires all feature packages and mounts their routes under
// /api/v1.
func (a *App) RegisterRoutes() {
	codec := auth.NewTokenCodec([]byte(a.Config.Auth.SessionSecret), a.Config.Auth.SessionTTL)

	userRepo := auth.NewUserRepository(a.DB)
	authService := auth.NewAuthService(userRepo, codec)
	authHandler := auth.NewHandler(authService, codec)

	studentRepo := students.NewStudentRepository(a.DB)
	studentService := students.NewStudentService(studentRepo)
	studentHandler := students.NewHandler(studentService)

	courseRepo := courses.NewCourseRepository(a.DB)
	courseService := courses.NewCourseService(courseRepo)
	courseHandler := courses.NewHandler(courseService)

	enrollmentRepo := enrollments.NewEnrollmentRepository(a.DB)
	enrollmentService := enrollments.NewEnrollmentService(enrollmentRepo, studentRepo)
	enrollmentHandler := enrollments.NewHandler(enrollmentService)

	a.Echo.GET("/healthz", a.healthz)

	api := a.Echo.Group("/api/v1")
	auth.RegisterRoutes(api, authHandler, codec, a.Redis)
	students.RegisterRoutes(api, studentHandler, codec)
	courses.RegisterRoutes(api, courseHandler, codec)
	enrollments.RegisterRoutes(api, enrollmentHandler, codec)
}

// healthz reports liveness plus the state of the two backing stores.
func (a *App) healthz(c echo.Context) error {
	ctx := c.Request().Context()

	status := http.StatusOK
	checks := map[string]string{"database": "ok", "redis": "ok"}

	if err := a.DB.PingContext(ctx); err != nil {
		checks["database"] = "unreachable"
		status = http.StatusServiceUnavailable
	}
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = "unreachable"
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, checks)
}
