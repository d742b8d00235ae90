package enrollments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/mreboux/registrar/internal/apperror"
)

const (
	mysqlDuplicateEntry   = 1062
	mysqlForeignKeyNoRows = 1452
)

// EnrollmentRepository provides access to student/course enrollments.
type EnrollmentRepository interface {
	Create(ctx context.Context, e *Enrollment) error
	Delete(ctx context.Context, studentID, courseID int64) error
	ListByStudent(ctx context.Context, studentID int64) ([]StudentCourse, error)
}

type enrollmentRepository struct {
	db *sql.DB
}

// NewEnrollmentRepository creates a MariaDB-backed enrollment repository.
func NewEnrollmentRepository(db *sql.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(ctx context.Context, e *Enrollment) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO enrollments (student_id, course_id, enrolled_at) VALUES (?, ?, ?)`,
		e.StudentID, e.CourseID, e.EnrolledAt)
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlDuplicateEntry:
			return apperror.NewConflict("student is already enrolled in this course")
		case mysqlForeignKeyNoRows:
			return apperror.NewValidation("student or course does not exist")
		}
	}
	if err != nil {
		return fmt.Errorf("creating enrollment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading enrollment insert id: %w", err)
	}
	e.ID = id
	return nil
}

func (r *enrollmentRepository) Delete(ctx context.Context, studentID, courseID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM enrollments WHERE student_id = ? AND course_id = ?`,
		studentID, courseID)
	if err != nil {
		return fmt.Errorf("deleting enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NewNotFound("enrollment not found")
	}
	return nil
}

func (r *enrollmentRepository) ListByStudent(ctx context.Context, studentID int64) ([]StudentCourse, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.code, c.name, c.duration_hours, c.teacher, e.enrolled_at
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.student_id = ?
		ORDER BY e.enrolled_at DESC, c.code`, studentID)
	if err != nil {
		return nil, fmt.Errorf("listing courses for student %d: %w", studentID, err)
	}
	defer rows.Close()

	list := make([]StudentCourse, 0)
	for rows.Next() {
		var sc StudentCourse
		if err := rows.Scan(&sc.CourseID, &sc.Code, &sc.Name, &sc.DurationHours, &sc.Teacher, &sc.EnrolledAt); err != nil {
			return nil, fmt.Errorf("scanning student course row: %w", err)
		}
		list = append(list, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating student course rows: %w", err)
	}
	return list, nil
}
