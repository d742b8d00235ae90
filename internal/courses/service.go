package courses

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mreboux/registrar/internal/apperror"
)

// CourseService contains the business logic for the course catalog.
type CourseService interface {
	List(ctx context.Context) ([]Course, error)
	Get(ctx context.Context, id int64) (*Course, error)
	Create(ctx context.Context, req CreateCourseRequest) (*Course, error)
	Delete(ctx context.Context, id int64) error
}

type courseService struct {
	repo CourseRepository
}

// NewCourseService creates a course service backed by the given repository.
func NewCourseService(repo CourseRepository) CourseService {
	return &courseService{repo: repo}
}

func (s *courseService) List(ctx context.Context) ([]Course, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return list, nil
}

func (s *courseService) Get(ctx context.Context, id int64) (*Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, passthrough(err)
	}
	return course, nil
}

func (s *courseService) Create(ctx context.Context, req CreateCourseRequest) (*Course, error) {
	course := &Course{
		Code:          strings.TrimSpace(req.Code),
		Name:          strings.TrimSpace(req.Name),
		DurationHours: req.DurationHours,
		Teacher:       strings.TrimSpace(req.Teacher),
	}
	switch {
	case course.Code == "":
		return nil, apperror.NewValidation("code is required")
	case course.Name == "":
		return nil, apperror.NewValidation("name is required")
	case course.DurationHours < 1:
		return nil, apperror.NewValidation("duration_hours must be positive")
	case course.Teacher == "":
		return nil, apperror.NewValidation("teacher is required")
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, passthrough(err)
	}
	slog.Info("course created", "course_id", course.ID, "code", course.Code)
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return passthrough(err)
	}
	slog.Info("course deleted", "course_id", id)
	return nil
}

func passthrough(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.NewInternal(err)
}
