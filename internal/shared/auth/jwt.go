package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

const (
	// DefaultSessionLifetime is how long a session survives without activity.
	DefaultSessionLifetime = 8 * time.Hour
	// RenewInterval is the minimum token age before a request re-issues it.
	RenewInterval = 5 * time.Minute

	sessionIssuer = "menucms"
)

type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the staff username the session belongs to.
func (c *Claims) UserID() string { return c.Subject }

// DisplayName falls back to the username.
func (c *Claims) DisplayName() string {
	if strings.TrimSpace(c.Name) != "" {
		return c.Name
	}
	return c.Subject
}

type TokenValidator interface {
	Validate(token string) (*Claims, error)
}

// SessionTokens issues and validates HS256 session tokens. A session expires after
// lifetime without a renewal, which makes the lifetime an inactivity timeout.
type SessionTokens struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func NewSessionTokens(secret string, lifetime time.Duration) *SessionTokens {
	if lifetime <= 0 {
		lifetime = DefaultSessionLifetime
	}
	return &SessionTokens{secret: []byte(strings.TrimSpace(secret)), lifetime: lifetime, now: time.Now}
}

// WithClock replaces the time source.
func (s *SessionTokens) WithClock(now func() time.Time) *SessionTokens {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *SessionTokens) Lifetime() time.Duration { return s.lifetime }

// Issue signs a new session for the user and returns the token and its expiry.
func (s *SessionTokens) Issue(userID, name string) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("%w: jwt secret not configured", ErrInvalidToken)
	}
	if strings.TrimSpace(userID) == "" {
		return "", time.Time{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	now := s.now()
	expires := now.Add(s.lifetime)
	claims := Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.Make().String(),
			Issuer:    sessionIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expires, nil
}

func (s *SessionTokens) Validate(token string) (*Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	if len(s.secret) == 0 {
		return nil, fmt.Errorf("%w: jwt secret not configured", ErrInvalidToken)
	}

	claims := &Claims{}
	parsedToken, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithLeeway(5*time.Second),
		jwt.WithTimeFunc(s.now),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsedToken.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing session id", ErrInvalidToken)
	}
	return claims, nil
}

// NeedsRenewal reports whether the token is old enough to be re-issued on activity.
func (s *SessionTokens) NeedsRenewal(claims *Claims) bool {
	if claims == nil || claims.IssuedAt == nil {
		return true
	}
	return s.now().Sub(claims.IssuedAt.Time) >= RenewInterval
}

var _ TokenValidator = (*SessionTokens)(nil)
