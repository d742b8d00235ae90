package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/mreboux/registrar/internal/apperror"
)

// mysqlDuplicateEntry is the MySQL/MariaDB error number for a unique
// constraint violation (ER_DUP_ENTRY).
const mysqlDuplicateEntry = 1062

// UserRepository defines the data access contract for account records.
// All SQL lives in the concrete implementation -- no SQL leaks out.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error
	UpdateSubscribed(ctx context.Context, id int64, subscribed bool) error
}

// userRepository implements UserRepository with hand-written MariaDB queries.
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository backed by the given DB pool.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new account row and backfills the generated ID.
// A duplicate email surfaces as apperror.NewConflict.
func (r *userRepository) Create(ctx context.Context, user *User) error {
	query := `INSERT INTO users (first_name, last_name, email, password_hash, role, subscribed, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.Subscribed,
		user.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return apperror.NewConflict("an account with this email already exists")
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading inserted user id: %w", err)
	}
	user.ID = id

	return nil
}

// FindByID retrieves an account by its numeric ID.
// Returns apperror.NotFound if no account exists with this ID.
func (r *userRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT id, first_name, last_name, email, password_hash, role, subscribed, created_at
	          FROM users WHERE id = ?`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id), "querying user by id")
}

// FindByEmail retrieves an account by its email address.
// Returns apperror.NotFound if no account exists with this email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT id, first_name, last_name, email, password_hash, role, subscribed, created_at
	          FROM users WHERE email = ?`

	return r.scanOne(r.db.QueryRowContext(ctx, query, email), "querying user by email")
}

// UpdatePasswordHash sets a new password hash for an account.
func (r *userRepository) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("updating password hash: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("user not found")
	}

	return nil
}

// UpdateSubscribed sets the subscribed flag. subscribed=false is the sole
// account-disable mechanism: the row stays, login refuses new sessions.
func (r *userRepository) UpdateSubscribed(ctx context.Context, id int64, subscribed bool) error {
	query := `UPDATE users SET subscribed = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, subscribed, id)
	if err != nil {
		return fmt.Errorf("updating subscribed flag: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("user not found")
	}

	return nil
}

// scanOne scans a single user row, mapping sql.ErrNoRows to NotFound.
func (r *userRepository) scanOne(row *sql.Row, op string) (*User, error) {
	user := &User{}
	var role string
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.Subscribed,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.Role = Role(role)

	return user, nil
}

// isDuplicateEntry reports whether err is a MySQL unique-key violation.
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
