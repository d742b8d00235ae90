package students

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mreboux/registrar/internal/apperror"
)

// StudentService contains the business logic for student records.
type StudentService interface {
	List(ctx context.Context, opts ListOptions) ([]Student, PageMeta, error)
	Search(ctx context.Context, query string, opts ListOptions) ([]Student, PageMeta, error)
	Get(ctx context.Context, id int64) (*Student, error)
	Create(ctx context.Context, req UpsertStudentRequest) (*Student, error)
	Update(ctx context.Context, id int64, req UpsertStudentRequest) (*Student, error)
	Delete(ctx context.Context, id int64) error
}

type studentService struct {
	repo StudentRepository
}

// NewStudentService creates a student service backed by the given repository.
func NewStudentService(repo StudentRepository) StudentService {
	return &studentService{repo: repo}
}

func (s *studentService) List(ctx context.Context, opts ListOptions) ([]Student, PageMeta, error) {
	opts = opts.Clamp()
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, PageMeta{}, apperror.NewInternal(err)
	}
	meta, err := buildMeta(opts, total)
	if err != nil {
		return nil, PageMeta{}, err
	}
	list, err := s.repo.List(ctx, opts.Limit, opts.Offset())
	if err != nil {
		return nil, PageMeta{}, apperror.NewInternal(err)
	}
	return list, meta, nil
}

func (s *studentService) Search(ctx context.Context, query string, opts ListOptions) ([]Student, PageMeta, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx, opts)
	}
	opts = opts.Clamp()
	total, err := s.repo.CountSearch(ctx, query)
	if err != nil {
		return nil, PageMeta{}, apperror.NewInternal(err)
	}
	meta, err := buildMeta(opts, total)
	if err != nil {
		return nil, PageMeta{}, err
	}
	list, err := s.repo.Search(ctx, query, opts.Limit, opts.Offset())
	if err != nil {
		return nil, PageMeta{}, apperror.NewInternal(err)
	}
	return list, meta, nil
}

// buildMeta computes the page metadata and rejects pages past the end. An
// empty result set still serves page 1 so the frontend gets an empty list
// rather than an error.
func buildMeta(opts ListOptions, total int) (PageMeta, error) {
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}
	if opts.Page > totalPages {
		return PageMeta{}, apperror.NewNotFound("page out of range")
	}
	return PageMeta{
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

func (s *studentService) Get(ctx context.Context, id int64) (*Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, passthrough(err)
	}
	return student, nil
}

func (s *studentService) Create(ctx context.Context, req UpsertStudentRequest) (*Student, error) {
	student, err := studentFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, passthrough(err)
	}
	slog.Info("student created", "student_id", student.ID, "da", student.DA)
	return student, nil
}

func (s *studentService) Update(ctx context.Context, id int64, req UpsertStudentRequest) (*Student, error) {
	student, err := studentFromRequest(req)
	if err != nil {
		return nil, err
	}
	student.ID = id
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, passthrough(err)
	}
	return student, nil
}

func (s *studentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return passthrough(err)
	}
	slog.Info("student deleted", "student_id", id)
	return nil
}

func studentFromRequest(req UpsertStudentRequest) (*Student, error) {
	student := &Student{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		DA:        strings.TrimSpace(req.DA),
	}
	switch {
	case student.FirstName == "":
		return nil, apperror.NewValidation("first_name is required")
	case student.LastName == "":
		return nil, apperror.NewValidation("last_name is required")
	case student.Email == "" || !strings.Contains(student.Email, "@"):
		return nil, apperror.NewValidation("a valid email is required")
	case student.DA == "":
		return nil, apperror.NewValidation("da is required")
	}
	return student, nil
}

// passthrough keeps domain errors intact and wraps everything else as an
// internal error.
func passthrough(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.NewInternal(err)
}
