package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mreboux/registrar/internal/apperror"
)

// AuthService defines the business logic contract for the account
// lifecycle. Handlers call these methods -- they never touch the
// repository or the crypto primitives directly.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Login(ctx context.Context, input LoginInput) (token string, user *User, err error)
	Me(ctx context.Context, principal Principal) (*User, error)
	ChangePassword(ctx context.Context, principal Principal, input ChangePasswordInput) error
	DisableAccount(ctx context.Context, principal Principal) error
}

// authService implements AuthService with argon2id hashing and signed
// session tokens.
type authService struct {
	repo  UserRepository
	codec *TokenCodec
}

// NewAuthService creates a new auth service with the given dependencies.
func NewAuthService(repo UserRepository, codec *TokenCodec) AuthService {
	return &authService{
		repo:  repo,
		codec: codec,
	}
}

// Register creates a new account with role=normal and subscribed=true.
// A taken email surfaces as Conflict, distinct from other failures.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*User, error) {
	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	user := &User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        normalizeEmail(input.Email),
		PasswordHash: hash,
		Role:         RoleNormal,
		Subscribed:   true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// The unique-key Conflict passes through untouched; anything
		// else is an infrastructure failure.
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("creating user: %w", err))
	}

	slog.Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Login authenticates an account by email and password. On success it
// issues a fresh session token for the cookie.
//
// Unknown email and wrong password produce byte-identical responses so a
// caller cannot probe which emails are registered. A disabled account
// (subscribed=false) is the one distinguishable case: it returns 403, and
// since the account's existence is only confirmed to someone who would
// learn it on a successful login anyway, that is not a guessing vector.
func (s *authService) Login(ctx context.Context, input LoginInput) (string, *User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == 404 {
			return "", nil, apperror.NewUnauthorized("invalid email or password")
		}
		return "", nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	if !user.Subscribed {
		return "", nil, apperror.NewForbidden("account is disabled")
	}

	if !VerifyPassword(input.Password, user.PasswordHash) {
		return "", nil, apperror.NewUnauthorized("invalid email or password")
	}

	token, err := s.codec.Issue(Principal{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
	})
	if err != nil {
		return "", nil, apperror.NewInternal(fmt.Errorf("issuing session token: %w", err))
	}

	slog.Info("user logged in",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return token, user, nil
}

// Me returns the current account row for the authenticated principal.
// Returns NotFound if the backing record vanished after the token was issued.
func (s *authService) Me(ctx context.Context, principal Principal) (*User, error) {
	user, err := s.repo.FindByID(ctx, principal.UserID)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}
	return user, nil
}

// ChangePassword replaces the stored hash after re-verifying the old
// password. The re-verification guards against a hijacked-but-unexpired
// session silently locking out the real owner. Neither password is ever
// written to a log.
func (s *authService) ChangePassword(ctx context.Context, principal Principal, input ChangePasswordInput) error {
	user, err := s.repo.FindByID(ctx, principal.UserID)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	if !VerifyPassword(input.OldPassword, user.PasswordHash) {
		return apperror.NewUnauthorized("old password does not match")
	}

	hash, err := HashPassword(input.NewPassword)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	if err := s.repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return apperror.NewInternal(fmt.Errorf("storing password hash: %w", err))
	}

	slog.Info("password changed", slog.Int64("user_id", user.ID))

	return nil
}

// DisableAccount flips subscribed=false. Already-issued tokens stay
// cryptographically valid until they expire; the handler clears the
// browser cookie, and the short TTL bounds the rest.
func (s *authService) DisableAccount(ctx context.Context, principal Principal) error {
	if err := s.repo.UpdateSubscribed(ctx, principal.UserID, false); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return apperror.NewInternal(fmt.Errorf("disabling account: %w", err))
	}

	slog.Info("account disabled", slog.Int64("user_id", principal.UserID))

	return nil
}

// normalizeEmail lowercases and trims an email so lookups and the unique
// key agree on a canonical form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
