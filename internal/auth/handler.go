package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mreboux/registrar/internal/apperror"
)

// Handler handles HTTP requests for the account lifecycle. Handlers are
// thin: they bind the request, call the service, and shape the JSON
// response. No business logic lives here.
type Handler struct {
	service AuthService
	codec   *TokenCodec
}

// NewHandler creates a new auth handler with the given dependencies.
// The codec is only consulted for its TTL, to keep the cookie Max-Age in
// lockstep with the token lifetime.
func NewHandler(service AuthService, codec *TokenCodec) *Handler {
	return &Handler{service: service, codec: codec}
}

// publicUser is the subset of User returned to clients.
type publicUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

func toPublicUser(u *User) publicUser {
	return publicUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
	}
}

// Register creates a new account (POST /auth/register).
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	if msg := validateRegisterRequest(&req); msg != "" {
		return apperror.NewValidation(msg)
	}

	user, err := h.service.Register(c.Request().Context(), RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message": "account created",
		"user":    toPublicUser(user),
	})
}

// Login authenticates and sets the session cookie (POST /auth/login).
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return apperror.NewValidation("email and password are required")
	}

	token, user, err := h.service.Login(c.Request().Context(), LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	// The fresh cookie fully supersedes any previous one in the browser.
	setSessionCookie(c, token, int(h.codec.TTL().Seconds()))

	return c.JSON(http.StatusOK, map[string]any{
		"message": "logged in",
		"user":    toPublicUser(user),
	})
}

// Logout clears the session cookie (POST /auth/logout). The token itself
// is not revoked -- there is nothing server-side to revoke -- so clearing
// works whether or not the incoming token was valid.
func (h *Handler) Logout(c echo.Context) error {
	clearSessionCookie(c)

	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out",
	})
}

// Me returns the authenticated account (GET /auth/me).
func (h *Handler) Me(c echo.Context) error {
	principal := CurrentPrincipal(c)
	if principal == nil {
		return apperror.NewUnauthorized("authentication required")
	}

	user, err := h.service.Me(c.Request().Context(), *principal)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user": toPublicUser(user),
	})
}

// ChangePassword replaces the account password (PUT /auth/password).
func (h *Handler) ChangePassword(c echo.Context) error {
	principal := CurrentPrincipal(c)
	if principal == nil {
		return apperror.NewUnauthorized("authentication required")
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if req.OldPassword == "" {
		return apperror.NewValidation("old password is required")
	}
	if msg := validatePassword(req.NewPassword); msg != "" {
		return apperror.NewValidation(msg)
	}

	err := h.service.ChangePassword(c.Request().Context(), *principal, ChangePasswordInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "password updated",
	})
}

// DisableAccount disables the account and clears the cookie
// (DELETE /auth/account). The cookie is cleared unconditionally, even if
// the disable write raced with something else -- the browser must not
// keep a usable session either way.
func (h *Handler) DisableAccount(c echo.Context) error {
	principal := CurrentPrincipal(c)
	if principal == nil {
		return apperror.NewUnauthorized("authentication required")
	}

	err := h.service.DisableAccount(c.Request().Context(), *principal)

	clearSessionCookie(c)

	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "account disabled",
	})
}

// --- Validation helpers ---

// validateRegisterRequest performs basic server-side validation on the
// registration payload. Returns an error message or empty string.
func validateRegisterRequest(req *RegisterRequest) string {
	if req.FirstName == "" {
		return "first name is required"
	}
	if len(req.FirstName) > 50 {
		return "first name must be at most 50 characters"
	}
	if req.LastName == "" {
		return "last name is required"
	}
	if len(req.LastName) > 50 {
		return "last name must be at most 50 characters"
	}
	if req.Email == "" {
		return "email is required"
	}
	if len(req.Email) > 255 {
		return "email must be at most 255 characters"
	}
	return validatePassword(req.Password)
}

// validatePassword checks length bounds for a new password.
func validatePassword(password string) string {
	if password == "" {
		return "password is required"
	}
	if len(password) < 8 {
		return "password must be at least 8 characters"
	}
	if len(password) > 128 {
		return "password must be at most 128 characters"
	}
	return ""
}
