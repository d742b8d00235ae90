package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !VerifyPassword("correct horse battery staple", hash) {
		t.Error("expected password to verify against its own hash")
	}
}

func TestHashPassword_WrongPasswordFails(t *testing.T) {
	hash, err := HashPassword("password-one")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if VerifyPassword("password-two", hash) {
		t.Error("expected a different password to fail verification")
	}
}

func TestHashPassword_FreshSaltPerCall(t *testing.T) {
	h1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if h1 == h2 {
		t.Error("expected two hashes of the same password to differ (fresh salt)")
	}
	if !VerifyPassword("same-password", h1) || !VerifyPassword("same-password", h2) {
		t.Error("expected both digests to verify against the password")
	}
}

func TestHashPassword_PHCFormat(t *testing.T) {
	hash, err := HashPassword("whatever")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Errorf("expected PHC argon2id prefix, got %q", hash)
	}
	if parts := strings.Split(hash, "$"); len(parts) != 6 {
		t.Errorf("expected 6 $-separated segments, got %d", len(parts))
	}
}

func TestVerifyPassword_MalformedDigestFailsClosed(t *testing.T) {
	malformed := []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=65536,t=3,p=4",              // missing salt+hash
		"$argon2id$v=19$bogus$AAAA$BBBB",              // unparseable params
		"$argon2id$v=19$m=65536,t=3,p=4$!!!$AAAA",     // bad salt base64
		"$argon2id$v=19$m=65536,t=3,p=4$AAAA$!!!",     // bad hash base64
		"$argon2i$v=19$m=65536,t=3,p=4$AAAA$BBBB",     // wrong variant
		"$$$$$",                                       // empty segments
	}

	for _, digest := range malformed {
		if VerifyPassword("any-password", digest) {
			t.Errorf("expected malformed digest %q to fail verification", digest)
		}
	}
}

// Parameters that parse fine but would crash or starve the key derivation
// must fail closed just like syntactically broken digests. argon2.IDKey
// panics on zero iterations or parallelism, and an enormous m= would
// allocate that many KiB per verify call.
func TestVerifyPassword_HostileParametersFailClosed(t *testing.T) {
	hostile := []string{
		"$argon2id$v=19$m=65536,t=0,p=4$AAAAAAAAAAAAAAAAAAAAAA$BBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB", // zero iterations
		"$argon2id$v=19$m=65536,t=3,p=0$AAAAAAAAAAAAAAAAAAAAAA$BBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB", // zero parallelism
		"$argon2id$v=19$m=0,t=3,p=4$AAAAAAAAAAAAAAAAAAAAAA$BBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB",     // zero memory
		"$argon2id$v=19$m=4,t=3,p=4$AAAAAAAAAAAAAAAAAAAAAA$BBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB",     // memory below 8*p floor
		"$argon2id$v=19$m=4294967295,t=3,p=4$AAAAAAAAAAAAAAAAAAAAAA$BBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB", // 4 TiB memory demand
	}

	for _, digest := range hostile {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("digest %q caused a panic: %v", digest, r)
				}
			}()
			if VerifyPassword("any-password", digest) {
				t.Errorf("expected hostile digest %q to fail verification", digest)
			}
		}()
	}
}
