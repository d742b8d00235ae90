package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Typed verification failures. Both are answered with a 401, but the
// distinction matters for diagnostics: a burst of ErrTokenInvalid points
// at forgery attempts or a secret mismatch between deployments, while
// ErrTokenExpired is routine.
var (
	// ErrTokenExpired means the token was well-formed and correctly
	// signed, but its expiry instant has passed.
	ErrTokenExpired = errors.New("session token expired")

	// ErrTokenInvalid means the token is malformed, carries a bad
	// signature, or embeds claims outside the closed role set.
	ErrTokenInvalid = errors.New("session token invalid")
)

// sessionClaims is the JWT payload of a session token: the registered
// claims (sub, iat, exp) plus the role and email of the principal.
type sessionClaims struct {
	jwt.RegisteredClaims
	Role  string `json:"role"`
	Email string `json:"email"`
}

// TokenCodec issues and verifies signed, expiring session tokens. The
// signing secret is injected at construction and immutable afterwards --
// no code path reads it from the environment or a global. Safe for
// concurrent use by any number of requests.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec creates a codec signing with the given secret. ttl is the
// fixed lifetime of every issued token (15 minutes in production config).
func NewTokenCodec(secret []byte, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: secret, ttl: ttl}
}

// TTL returns the configured token lifetime. The cookie Max-Age must match it.
func (tc *TokenCodec) TTL() time.Duration {
	return tc.ttl
}

// Issue serializes the principal into an HS256-signed token valid for the
// codec's TTL, counted from now. The closed role set is enforced here as
// well as in Verify: a principal carrying an unknown role (a hand-edited
// users row) must fail loudly at login, not produce a token that every
// later Verify rejects.
func (tc *TokenCodec) Issue(p Principal) (string, error) {
	if !p.Role.Valid() {
		return "", fmt.Errorf("issuing session token: unknown role %q", p.Role)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tc.ttl)),
		},
		Role:  string(p.Role),
		Email: p.Email,
	})

	signed, err := token.SignedString(tc.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}

	return signed, nil
}

// Verify validates the signature and expiry of a token and reconstructs
// the Principal it carries. Returns ErrTokenExpired or ErrTokenInvalid;
// no other error values escape. Expiry is strict, with no leeway window.
func (tc *TokenCodec) Verify(tokenString string) (*Principal, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			// Pin the algorithm: a token that claims any other method
			// (including "none") must not reach signature verification.
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return tc.secret, nil
		},
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, ErrTokenInvalid
	}

	role := Role(claims.Role)
	if !role.Valid() {
		// A correctly signed token never carries an unknown role; treat
		// it as forged rather than letting it fall through unprivileged.
		return nil, ErrTokenInvalid
	}

	return &Principal{
		UserID: userID,
		Role:   role,
		Email:  claims.Email,
	}, nil
}
