package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// sessionCookieName is the HTTP cookie carrying the session token. The
// name is part of the contract with the existing frontend.
const sessionCookieName = "access_token"

// readSessionToken reads the session token from the cookie. An empty
// return means the request is anonymous, which is a normal outcome, not
// an error.
func readSessionToken(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// setSessionCookie sets the session cookie on the response. The cookie is
// HttpOnly (JS can't read it) and SameSite=Lax; maxAge must match the
// token TTL so browser and token expire together.
//
// Secure is deliberately false: the deployment target serves plain HTTP.
// This is a documented weakening versus TLS-terminated production setups;
// flip it when the service moves behind TLS.
func setSessionCookie(c echo.Context, token string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// clearSessionCookie removes the session cookie by setting MaxAge to -1.
// Clearing always succeeds, whatever the state of the incoming token.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
