package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mreboux/registrar/internal/apperror"
)

// --- Mock Repository ---

// mockUserRepo implements UserRepository for testing.
type mockUserRepo struct {
	createFn             func(ctx context.Context, user *User) error
	findByIDFn           func(ctx context.Context, id int64) (*User, error)
	findByEmailFn        func(ctx context.Context, email string) (*User, error)
	updatePasswordHashFn func(ctx context.Context, id int64, passwordHash string) error
	updateSubscribedFn   func(ctx context.Context, id int64, subscribed bool) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("user not found")
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, apperror.NewNotFound("user not found")
}

func (m *mockUserRepo) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	if m.updatePasswordHashFn != nil {
		return m.updatePasswordHashFn(ctx, id, passwordHash)
	}
	return nil
}

func (m *mockUserRepo) UpdateSubscribed(ctx context.Context, id int64, subscribed bool) error {
	if m.updateSubscribedFn != nil {
		return m.updateSubscribedFn(ctx, id, subscribed)
	}
	return nil
}

// --- Test Helpers ---

// newTestService creates an authService with a mock repo and a working codec.
func newTestService(repo *mockUserRepo) (AuthService, *TokenCodec) {
	codec := NewTokenCodec(testSecret(), 15*time.Minute)
	return NewAuthService(repo, codec), codec
}

// storedUser builds an active user row with the given password hashed for real.
func storedUser(t *testing.T, email, password string) *User {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hashing test password: %v", err)
	}
	return &User{
		ID:           7,
		FirstName:    "Alice",
		LastName:     "Tremblay",
		Email:        email,
		PasswordHash: hash,
		Role:         RoleNormal,
		Subscribed:   true,
	}
}

// --- Register Tests ---

func TestRegister_Success(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *User) error {
			if user.Email != "alice@example.com" {
				t.Errorf("expected normalized email alice@example.com, got %s", user.Email)
			}
			if user.Role != RoleNormal {
				t.Errorf("expected role normal, got %s", user.Role)
			}
			if !user.Subscribed {
				t.Error("expected new account to be subscribed")
			}
			if user.PasswordHash == "" || user.PasswordHash == "secure-password-123" {
				t.Error("expected password to be stored hashed")
			}
			user.ID = 12
			return nil
		},
	}

	svc, _ := newTestService(repo)
	user, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Alice",
		LastName:  "Tremblay",
		Email:     "Alice@Example.com",
		Password:  "secure-password-123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 12 {
		t.Errorf("expected the generated ID to be backfilled, got %d", user.ID)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *User) error {
			return apperror.NewConflict("an account with this email already exists")
		},
	}

	svc, _ := newTestService(repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Bob",
		LastName:  "Roy",
		Email:     "taken@example.com",
		Password:  "secure-password-123",
	})
	assertAppError(t, err, 409)
}

func TestRegister_CreateError(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *User) error {
			return errors.New("db write error")
		},
	}

	svc, _ := newTestService(repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Bob",
		LastName:  "Roy",
		Email:     "bob@example.com",
		Password:  "secure-password-123",
	})
	assertAppError(t, err, 500)
}

// --- Login Tests ---

func TestLogin_Success(t *testing.T) {
	user := storedUser(t, "alice@example.com", "secure-password-123")
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			if email != "alice@example.com" {
				t.Errorf("expected normalized lookup email, got %s", email)
			}
			return user, nil
		},
	}

	svc, codec := newTestService(repo)
	token, got, err := svc.Login(context.Background(), LoginInput{
		Email:    "  Alice@Example.com ",
		Password: "secure-password-123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %d, got %d", user.ID, got.ID)
	}

	// The issued token must verify and carry the account's identity.
	principal, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if principal.UserID != user.ID || principal.Role != user.Role || principal.Email != user.Email {
		t.Errorf("token principal mismatch: %+v", principal)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := &mockUserRepo{} // FindByEmail defaults to NotFound.

	svc, _ := newTestService(repo)
	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever-password",
	})
	assertAppError(t, err, 401)
}

func TestLogin_WrongPassword(t *testing.T) {
	user := storedUser(t, "alice@example.com", "the-right-password")
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return user, nil
		},
	}

	svc, _ := newTestService(repo)
	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "the-wrong-password",
	})
	assertAppError(t, err, 401)
}

func TestLogin_UnknownEmailAndWrongPasswordIndistinguishable(t *testing.T) {
	user := storedUser(t, "alice@example.com", "the-right-password")
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			if email == "alice@example.com" {
				return user, nil
			}
			return nil, apperror.NewNotFound("user not found")
		},
	}

	svc, _ := newTestService(repo)

	_, _, errUnknown := svc.Login(context.Background(), LoginInput{
		Email: "nobody@example.com", Password: "x-password",
	})
	_, _, errWrongPw := svc.Login(context.Background(), LoginInput{
		Email: "alice@example.com", Password: "x-password",
	})

	var a, b *apperror.AppError
	if !errors.As(errUnknown, &a) || !errors.As(errWrongPw, &b) {
		t.Fatalf("expected AppErrors, got %v / %v", errUnknown, errWrongPw)
	}
	if a.Code != b.Code || a.Message != b.Message {
		t.Errorf("unknown-email and wrong-password responses must match: %v vs %v", a, b)
	}
}

func TestLogin_DisabledAccountIsForbidden(t *testing.T) {
	user := storedUser(t, "alice@example.com", "the-right-password")
	user.Subscribed = false
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return user, nil
		},
	}

	svc, _ := newTestService(repo)
	// Correct password, yet the disabled account refuses a new session.
	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "the-right-password",
	})
	assertAppError(t, err, 403)
}

func TestLogin_CorruptRoleRowFails(t *testing.T) {
	// The role column is a free VARCHAR; a hand-edited row with a value
	// outside the closed set must fail the login outright instead of
	// issuing a token no Verify will ever accept.
	user := storedUser(t, "alice@example.com", "the-right-password")
	user.Role = "superadmin"
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return user, nil
		},
	}

	svc, _ := newTestService(repo)
	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "the-right-password",
	})
	assertAppError(t, err, 500)
}

func TestLogin_NoLockoutAfterRepeatedFailures(t *testing.T) {
	user := storedUser(t, "alice@example.com", "the-right-password")
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return user, nil
		},
	}

	svc, _ := newTestService(repo)
	for i := 0; i < 3; i++ {
		_, _, err := svc.Login(context.Background(), LoginInput{
			Email: "alice@example.com", Password: "bad-password",
		})
		assertAppError(t, err, 401)
	}

	// The account is still usable with the correct password.
	_, _, err := svc.Login(context.Background(), LoginInput{
		Email: "alice@example.com", Password: "the-right-password",
	})
	if err != nil {
		t.Fatalf("expected login to succeed after failed attempts, got %v", err)
	}
}

// --- Me Tests ---

func TestMe_Success(t *testing.T) {
	user := storedUser(t, "alice@example.com", "pw-doesnt-matter")
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id int64) (*User, error) {
			if id != user.ID {
				t.Errorf("expected lookup by id %d, got %d", user.ID, id)
			}
			return user, nil
		},
	}

	svc, _ := newTestService(repo)
	got, err := svc.Me(context.Background(), Principal{UserID: user.ID, Role: user.Role, Email: user.Email})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Email != user.Email {
		t.Errorf("expected %s, got %s", user.Email, got.Email)
	}
}

func TestMe_VanishedRecord(t *testing.T) {
	repo := &mockUserRepo{} // FindByID defaults to NotFound.

	svc, _ := newTestService(repo)
	_, err := svc.Me(context.Background(), Principal{UserID: 99, Role: RoleNormal, Email: "g@example.com"})
	assertAppError(t, err, 404)
}

// --- ChangePassword Tests ---

func TestChangePassword_Success(t *testing.T) {
	user := storedUser(t, "alice@example.com", "old-password-123")
	var storedHash string
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id int64) (*User, error) {
			return user, nil
		},
		updatePasswordHashFn: func(ctx context.Context, id int64, passwordHash string) error {
			storedHash = passwordHash
			return nil
		},
	}

	svc, _ := newTestService(repo)
	err := svc.ChangePassword(context.Background(),
		Principal{UserID: user.ID, Role: user.Role, Email: user.Email},
		ChangePasswordInput{OldPassword: "old-password-123", NewPassword: "new-password-456"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if storedHash == "" {
		t.Fatal("expected a new hash to be stored")
	}
	if !VerifyPassword("new-password-456", storedHash) {
		t.Error("stored hash must verify against the new password")
	}
	if VerifyPassword("old-password-123", storedHash) {
		t.Error("stored hash must not verify against the old password")
	}
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	user := storedUser(t, "alice@example.com", "old-password-123")
	updateCalled := false
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id int64) (*User, error) {
			return user, nil
		},
		updatePasswordHashFn: func(ctx context.Context, id int64, passwordHash string) error {
			updateCalled = true
			return nil
		},
	}

	svc, _ := newTestService(repo)
	err := svc.ChangePassword(context.Background(),
		Principal{UserID: user.ID, Role: user.Role, Email: user.Email},
		ChangePasswordInput{OldPassword: "not-the-old-password", NewPassword: "new-password-456"},
	)
	assertAppError(t, err, 401)

	if updateCalled {
		t.Error("stored hash must remain untouched when the old password is wrong")
	}
	// The original password still works.
	if !VerifyPassword("old-password-123", user.PasswordHash) {
		t.Error("original password must still verify")
	}
}

// --- DisableAccount Tests ---

func TestDisableAccount_SetsSubscribedFalse(t *testing.T) {
	var gotID int64
	var gotSubscribed = true
	repo := &mockUserRepo{
		updateSubscribedFn: func(ctx context.Context, id int64, subscribed bool) error {
			gotID = id
			gotSubscribed = subscribed
			return nil
		},
	}

	svc, _ := newTestService(repo)
	err := svc.DisableAccount(context.Background(), Principal{UserID: 7, Role: RoleNormal, Email: "a@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != 7 || gotSubscribed {
		t.Errorf("expected UpdateSubscribed(7, false), got (%d, %v)", gotID, gotSubscribed)
	}
}

func TestDisableAccount_RepoError(t *testing.T) {
	repo := &mockUserRepo{
		updateSubscribedFn: func(ctx context.Context, id int64, subscribed bool) error {
			return errors.New("db write error")
		},
	}

	svc, _ := newTestService(repo)
	err := svc.DisableAccount(context.Background(), Principal{UserID: 7, Role: RoleNormal, Email: "a@example.com"})
	assertAppError(t, err, 500)
}

// Disable followed by login: the flow the account-disable mechanism exists for.
func TestDisableThenLogin_Forbidden(t *testing.T) {
	user := storedUser(t, "alice@example.com", "the-right-password")
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return user, nil
		},
		updateSubscribedFn: func(ctx context.Context, id int64, subscribed bool) error {
			user.Subscribed = subscribed
			return nil
		},
	}

	svc, _ := newTestService(repo)
	if err := svc.DisableAccount(context.Background(), Principal{UserID: user.ID, Role: user.Role, Email: user.Email}); err != nil {
		t.Fatalf("disable: %v", err)
	}

	// The stored hash still matches, but no new session is issued.
	_, _, err := svc.Login(context.Background(), LoginInput{
		Email: "alice@example.com", Password: "the-right-password",
	})
	assertAppError(t, err, 403)
}
