package enrollments

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mreboux/registrar/internal/apperror"
	"github.com/mreboux/registrar/internal/students"
)

// EnrollmentService contains the business logic for enrollments.
type EnrollmentService interface {
	Enroll(ctx context.Context, req EnrollRequest) (*Enrollment, error)
	Withdraw(ctx context.Context, studentID, courseID int64) error
	CoursesOf(ctx context.Context, studentID int64) ([]StudentCourse, error)
}

type enrollmentService struct {
	repo        EnrollmentRepository
	studentRepo students.StudentRepository
}

// NewEnrollmentService creates an enrollment service. The student
// repository is used to 404 the course listing of an unknown student.
func NewEnrollmentService(repo EnrollmentRepository, studentRepo students.StudentRepository) EnrollmentService {
	return &enrollmentService{repo: repo, studentRepo: studentRepo}
}

func (s *enrollmentService) Enroll(ctx context.Context, req EnrollRequest) (*Enrollment, error) {
	if req.StudentID < 1 || req.CourseID < 1 {
		return nil, apperror.NewValidation("student_id and course_id are required")
	}
	// The timestamp is set here rather than left to the column default so
	// the created response carries the real enrollment date.
	enrollment := &Enrollment{
		StudentID:  req.StudentID,
		CourseID:   req.CourseID,
		EnrolledAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, passthrough(err)
	}
	slog.Info("student enrolled", "student_id", req.StudentID, "course_id", req.CourseID)
	return enrollment, nil
}

func (s *enrollmentService) Withdraw(ctx context.Context, studentID, courseID int64) error {
	if err := s.repo.Delete(ctx, studentID, courseID); err != nil {
		return passthrough(err)
	}
	slog.Info("student withdrawn", "student_id", studentID, "course_id", courseID)
	return nil
}

func (s *enrollmentService) CoursesOf(ctx context.Context, studentID int64) ([]StudentCourse, error) {
	if _, err := s.studentRepo.FindByID(ctx, studentID); err != nil {
		return nil, passthrough(err)
	}
	list, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return list, nil
}

func passthrough(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.NewInternal(err)
}
