package courses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/mreboux/registrar/internal/apperror"
)

const mysqlDuplicateEntry = 1062

// CourseRepository provides access to the course catalog.
type CourseRepository interface {
	List(ctx context.Context) ([]Course, error)
	FindByID(ctx context.Context, id int64) (*Course, error)
	Create(ctx context.Context, course *Course) error
	Delete(ctx context.Context, id int64) error
}

type courseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a MariaDB-backed course repository.
func NewCourseRepository(db *sql.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) List(ctx context.Context) ([]Course, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, code, name, duration_hours, teacher FROM courses ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	defer rows.Close()

	list := make([]Course, 0)
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.DurationHours, &c.Teacher); err != nil {
			return nil, fmt.Errorf("scanning course row: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating course rows: %w", err)
	}
	return list, nil
}

func (r *courseRepository) FindByID(ctx context.Context, id int64) (*Course, error) {
	var c Course
	err := r.db.QueryRowContext(ctx,
		`SELECT id, code, name, duration_hours, teacher FROM courses WHERE id = ?`, id).
		Scan(&c.ID, &c.Code, &c.Name, &c.DurationHours, &c.Teacher)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("course not found")
	}
	if err != nil {
		return nil, fmt.Errorf("finding course %d: %w", id, err)
	}
	return &c, nil
}

func (r *courseRepository) Create(ctx context.Context, course *Course) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO courses (code, name, duration_hours, teacher) VALUES (?, ?, ?, ?)`,
		course.Code, course.Name, course.DurationHours, course.Teacher)
	if isDuplicateEntry(err) {
		return apperror.NewConflict("a course with this code already exists")
	}
	if err != nil {
		return fmt.Errorf("creating course: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading course insert id: %w", err)
	}
	course.ID = id
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting course %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NewNotFound("course not found")
	}
	return nil
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
