package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestSessionTokensIssueAndValidate(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, time.January, 17, 10, 0, 0, 0, time.UTC)
	tokens := NewSessionTokens("secret", 8*time.Hour).WithClock(fixedClock(now))

	token, expires, err := tokens.Issue("admin", "Administrátor")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !expires.Equal(now.Add(8 * time.Hour)) {
		t.Fatalf("unexpected expiry %v", expires)
	}
	claims, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID() != "admin" || claims.DisplayName() != "Administrátor" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if len(claims.ID) != 26 {
		t.Fatalf("expected a ULID session id, got %q", claims.ID)
	}
}

func TestSessionTokensRejects(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, time.January, 17, 10, 0, 0, 0, time.UTC)
	tokens := NewSessionTokens("secret", time.Hour).WithClock(fixedClock(now))
	valid, _, err := tokens.Issue("admin", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	later := NewSessionTokens("secret", time.Hour).WithClock(fixedClock(now.Add(2 * time.Hour)))
	otherSecret := NewSessionTokens("other", time.Hour).WithClock(fixedClock(now))

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "admin", Issuer: sessionIssuer, ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	cases := []struct {
		name      string
		validator *SessionTokens
		token     string
		want      error
	}{
		{"empty", tokens, "", ErrMissingToken},
		{"garbage", tokens, "abc.def.ghi", ErrInvalidToken},
		{"expired", later, valid, ErrInvalidToken},
		{"wrong secret", otherSecret, valid, ErrInvalidToken},
		{"alg none", tokens, unsigned, ErrInvalidToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.validator.Validate(tc.token); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSessionTokensWithoutSecret(t *testing.T) {
	t.Parallel()
	if _, _, err := NewSessionTokens("  ", 0).Issue("admin", ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNeedsRenewal(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, time.January, 17, 10, 0, 0, 0, time.UTC)
	tokens := NewSessionTokens("secret", 8*time.Hour).WithClock(fixedClock(now))
	fresh := &Claims{RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(now.Add(-time.Minute))}}
	stale := &Claims{RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(now.Add(-10 * time.Minute))}}
	if tokens.NeedsRenewal(fresh) {
		t.Fatalf("fresh token should not be renewed")
	}
	if !tokens.NeedsRenewal(stale) {
		t.Fatalf("stale token should be renewed")
	}
}
