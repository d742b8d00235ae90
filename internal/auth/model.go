// Package auth handles user authentication and role authorization for the
// registrar service: argon2id password hashing, signed expiring session
// tokens carried in an HttpOnly cookie, the middleware gates that verify
// them, and the account lifecycle flows (register, login, change password,
// disable account).
//
// Sessions are self-contained: the token embeds the authenticated identity
// and is re-verified on every request. Nothing is stored server-side, which
// also means nothing can be revoked server-side -- the short TTL bounds the
// exposure window of a stolen token.
package auth

import (
	"time"
)

// Role is the closed set of account roles. The wire values are inherited
// from the existing database and frontend ("editeur", not "editor").
type Role string

const (
	// RoleNormal is the default role: read access to the registry.
	RoleNormal Role = "normal"

	// RoleEditor can create, modify, and delete registry records.
	RoleEditor Role = "editeur"
)

// Valid reports whether r is a member of the closed role set. Tokens or
// database rows carrying any other value are rejected rather than falling
// through as an implicitly unprivileged role.
func (r Role) Valid() bool {
	switch r {
	case RoleNormal, RoleEditor:
		return true
	}
	return false
}

// User represents a registered account. This is the domain model used
// throughout the application; database scanning and JSON marshaling use
// this struct directly.
type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON responses.
	Role         Role      `json:"role"`
	Subscribed   bool      `json:"subscribed"`
	CreatedAt    time.Time `json:"created_at"`
}

// Principal is the authenticated identity reconstructed from a verified
// session token. It lives for the duration of one request and is never
// persisted server-side.
type Principal struct {
	UserID int64  `json:"sub"`
	Role   Role   `json:"role"`
	Email  string `json:"email"`
}

// --- Request DTOs (bound from HTTP requests) ---

// RegisterRequest holds the data submitted to POST /auth/register.
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest holds the data submitted to POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest holds the data submitted to PUT /auth/password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// --- Service Input DTOs (passed from handler to service) ---

// RegisterInput is the validated input for creating a new account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// LoginInput is the validated input for authenticating an account.
type LoginInput struct {
	Email    string
	Password string
}

// ChangePasswordInput is the validated input for replacing a password.
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}
