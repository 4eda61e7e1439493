package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	menusport "menuCms/internal/modules/menus/application/port"
	menus "menuCms/internal/modules/menus/domain"
	"menuCms/internal/modules/staff/application/port"
	"menuCms/internal/modules/staff/domain"
	"menuCms/internal/shared/auth"
)

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	UserID    string
	Name      string
}

// AuthService handles staff login, logout and password changes.
type AuthService struct {
	users    port.UserStore
	tokens   *auth.SessionTokens
	activity menusport.ActivityLogger
	now      func() time.Time
	cost     int
	// dummyHash keeps unknown-user logins as slow as wrong-password ones.
	dummyHash []byte
}

// NewAuthService wires the service; activity may be nil. cost 0 means bcrypt.DefaultCost.
func NewAuthService(users port.UserStore, tokens *auth.SessionTokens, activity menusport.ActivityLogger, cost int) *AuthService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("menucms-dummy-password"), cost)
	return &AuthService{
		users:     users,
		tokens:    tokens,
		activity:  activity,
		now:       time.Now,
		cost:      cost,
		dummyHash: dummy,
	}
}

// WithClock replaces the activity log time source.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *AuthService) Login(ctx context.Context, username, password, ip string) (*Session, error) {
	username = domain.NormalizeUsername(username)
	if username == "" || password == "" {
		return nil, domain.ErrMissingCredentials
	}

	user, err := s.users.Find(ctx, username)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		s.logActivity(ctx, "", menus.ActivityLoginFailed, map[string]string{"username": username}, ip)
		slog.Info("login failed", slog.String("username", username), slog.String("ip", ip))
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logActivity(ctx, "", menus.ActivityLoginFailed, map[string]string{"username": username}, ip)
		slog.Info("login failed", slog.String("username", username), slog.String("ip", ip))
		return nil, domain.ErrInvalidCredentials
	}

	token, expires, err := s.tokens.Issue(user.Username, user.DisplayName())
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, user.Username, menus.ActivityLogin, map[string]string{"username": user.Username}, ip)
	slog.Info("login succeeded", slog.String("username", user.Username), slog.String("ip", ip))
	return &Session{Token: token, ExpiresAt: expires, UserID: user.Username, Name: user.DisplayName()}, nil
}

// Logout only records the event; the caller drops the session cookie.
func (s *AuthService) Logout(ctx context.Context, userID, ip string) {
	s.logActivity(ctx, userID, menus.ActivityLogout, nil, ip)
}

// ChangePassword verifies the current password and stores a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next, confirmation, ip string) error {
	if err := domain.ValidateNewPassword(next, confirmation); err != nil {
		return err
	}
	user, err := s.users.Find(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return domain.ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	if err := s.users.Save(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	s.logActivity(ctx, user.Username, menus.ActivityPasswordChanged, nil, ip)
	slog.Info("password changed", slog.String("username", user.Username))
	return nil
}

func (s *AuthService) logActivity(ctx context.Context, user, action string, details map[string]string, ip string) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Append(ctx, menus.NewActivityEntry(s.now(), user, action, details, ip)); err != nil {
		slog.Warn("activity log append failed", slog.String("action", action), slog.Any("error", err))
	}
}
