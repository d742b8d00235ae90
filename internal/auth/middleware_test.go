package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mreboux/registrar/internal/apperror"
)

// runGated sends a request through the given middleware chain wrapped
// around a handler that records whether it ran and what principal it saw.
func runGated(t *testing.T, cookie string, mws ...echo.MiddlewareFunc) (handlerRan bool, seen *Principal, err error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error {
		handlerRan = true
		seen = CurrentPrincipal(c)
		return c.NoContent(http.StatusOK)
	}
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	return handlerRan, seen, h(c)
}

// assertAppError checks that err is an *apperror.AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

func TestRequireAuth_NoCookie(t *testing.T) {
	codec := NewTokenCodec(testSecret(), 15*time.Minute)

	ran, _, err := runGated(t, "", RequireAuth(codec))
	if ran {
		t.Error("handler must not run without a session cookie")
	}
	assertAppError(t, err, 401)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	codec := NewTokenCodec(testSecret(), 15*time.Minute)

	ran, _, err := runGated(t, "not-a-token", RequireAuth(codec))
	if ran {
		t.Error("handler must not run with a forged token")
	}
	assertAppError(t, err, 401)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	expired := NewTokenCodec(testSecret(), -1*time.Second)
	tok, err := expired.Issue(testPrincipal)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	codec := NewTokenCodec(testSecret(), 15*time.Minute)
	ran, _, gateErr := runGated(t, tok, RequireAuth(codec))
	if ran {
		t.Error("handler must not run with an expired token")
	}
	assertAppError(t, gateErr, 401)
}

func TestRequireAuth_ValidTokenInjectsPrincipal(t *testing.T) {
	codec := NewTokenCodec(testSecret(), 15*time.Minute)
	tok, err := codec.Issue(testPrincipal)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	ran, seen, gateErr := runGated(t, tok, RequireAuth(codec))
	if gateErr != nil {
		t.Fatalf("unexpected error: %v", gateErr)
	}
	if !ran {
		t.Fatal("expected handler to run")
	}
	if seen == nil {
		t.Fatal("expected a principal in context")
	}
	if *seen != testPrincipal {
		t.Errorf("principal mismatch: got %+v want %+v", *seen, testPrincipal)
	}
}

func TestRequireRole_WithoutPrincipalIs401(t *testing.T) {
	// RequireRole applied without RequireAuth: the defensive check must
	// answer 401, not 403, and never run the handler.
	ran, _, err := runGated(t, "", RequireRole(RoleEditor))
	if ran {
		t.Error("handler must not run without a principal")
	}
	assertAppError(t, err, 401)
}

func TestRequireRole_InsufficientRoleIs403(t *testing.T) {
	codec := NewTokenCodec(testSecret(), 15*time.Minute)
	tok, err := codec.Issue(Principal{UserID: 1, Role: RoleNormal, Email: "n@example.com"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	ran, _, gateErr := runGated(t, tok, RequireAuth(codec), RequireRole(RoleEditor))
	if ran {
		t.Error("handler must not run for an unlisted role")
	}
	assertAppError(t, gateErr, 403)
}

func TestRequireRole_AllowedRolePasses(t *testing.T) {
	codec := NewTokenCodec(testSecret(), 15*time.Minute)
	tok, err := codec.Issue(testPrincipal)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	ran, _, gateErr := runGated(t, tok, RequireAuth(codec), RequireRole(RoleNormal, RoleEditor))
	if gateErr != nil {
		t.Fatalf("unexpected error: %v", gateErr)
	}
	if !ran {
		t.Error("expected handler to run for an allowed role")
	}
}

func TestCurrentPrincipal_EmptyContext(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if p := CurrentPrincipal(c); p != nil {
		t.Errorf("expected nil principal on an anonymous request, got %+v", p)
	}
}
