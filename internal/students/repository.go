package students

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/mreboux/registrar/internal/apperror"
)

// mysqlDuplicateEntry is the MySQL/MariaDB error number for a unique
// constraint violation.
const mysqlDuplicateEntry = 1062

// StudentRepository provides access to student records.
type StudentRepository interface {
	List(ctx context.Context, limit, offset int) ([]Student, error)
	Count(ctx context.Context) (int, error)
	Search(ctx context.Context, query string, limit, offset int) ([]Student, error)
	CountSearch(ctx context.Context, query string) (int, error)
	FindByID(ctx context.Context, id int64) (*Student, error)
	Create(ctx context.Context, s *Student) error
	Update(ctx context.Context, s *Student) error
	Delete(ctx context.Context, id int64) error
}

type studentRepository struct {
	db *sql.DB
}

// NewStudentRepository creates a MariaDB-backed student repository.
func NewStudentRepository(db *sql.DB) StudentRepository {
	return &studentRepository{db: db}
}

const studentColumns = "id, first_name, last_name, email, da"

func (r *studentRepository) List(ctx context.Context, limit, offset int) ([]Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students ORDER BY last_name, first_name LIMIT ? OFFSET ?`, studentColumns)
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing students: %w", err)
	}
	defer rows.Close()
	return scanStudents(rows)
}

func (r *studentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM students`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting students: %w", err)
	}
	return count, nil
}

// searchFilter matches names, email, and DA against a contains pattern.
const searchFilter = `first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR da LIKE ?`

// likeEscaper neutralizes LIKE metacharacters in user input so a search
// for "_" or "%" matches those literal characters instead of everything.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func searchPattern(query string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(query)) + "%"
}

func (r *studentRepository) Search(ctx context.Context, query string, limit, offset int) ([]Student, error) {
	q := fmt.Sprintf(`SELECT %s FROM students WHERE %s ORDER BY last_name, first_name LIMIT ? OFFSET ?`,
		studentColumns, searchFilter)
	p := searchPattern(query)
	rows, err := r.db.QueryContext(ctx, q, p, p, p, p, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("searching students: %w", err)
	}
	defer rows.Close()
	return scanStudents(rows)
}

func (r *studentRepository) CountSearch(ctx context.Context, query string) (int, error) {
	q := fmt.Sprintf(`SELECT COUNT(*) FROM students WHERE %s`, searchFilter)
	p := searchPattern(query)
	var count int
	if err := r.db.QueryRowContext(ctx, q, p, p, p, p).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting student search: %w", err)
	}
	return count, nil
}

func (r *studentRepository) FindByID(ctx context.Context, id int64) (*Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = ?`, studentColumns)
	var s Student
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.DA)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("student not found")
	}
	if err != nil {
		return nil, fmt.Errorf("finding student %d: %w", id, err)
	}
	return &s, nil
}

func (r *studentRepository) Create(ctx context.Context, s *Student) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO students (first_name, last_name, email, da) VALUES (?, ?, ?, ?)`,
		s.FirstName, s.LastName, s.Email, s.DA)
	if isDuplicateEntry(err) {
		return apperror.NewConflict("a student with this email or DA already exists")
	}
	if err != nil {
		return fmt.Errorf("creating student: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading student insert id: %w", err)
	}
	s.ID = id
	return nil
}

func (r *studentRepository) Update(ctx context.Context, s *Student) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE students SET first_name = ?, last_name = ?, email = ?, da = ? WHERE id = ?`,
		s.FirstName, s.LastName, s.Email, s.DA, s.ID)
	if isDuplicateEntry(err) {
		return apperror.NewConflict("a student with this email or DA already exists")
	}
	if err != nil {
		return fmt.Errorf("updating student %d: %w", s.ID, err)
	}
	return requireRow(res, "student not found")
}

func (r *studentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting student %d: %w", id, err)
	}
	return requireRow(res, "student not found")
}

func scanStudents(rows *sql.Rows) ([]Student, error) {
	list := make([]Student, 0)
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.DA); err != nil {
			return nil, fmt.Errorf("scanning student row: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating student rows: %w", err)
	}
	return list, nil
}

func requireRow(res sql.Result, message string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NewNotFound(message)
	}
	return nil
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
