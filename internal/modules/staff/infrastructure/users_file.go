package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"menuCms/internal/modules/staff/application/port"
	"menuCms/internal/modules/staff/domain"
	"menuCms/internal/shared/fsutil"
)

// UsersFileName is the account file inside the data directory.
const UsersFileName = "users.json"

// DefaultAdminPassword is used when no initial admin password is configured.
const DefaultAdminPassword = "admin123"

// UsersFile stores accounts as {"username": {"name", "password", "role"}}.
type UsersFile struct {
	dir  string
	path string
	mu   sync.Mutex
}

func NewUsersFile(dataDir string) *UsersFile {
	return &UsersFile{dir: dataDir, path: filepath.Join(dataDir, UsersFileName)}
}

func (f *UsersFile) Path() string { return f.path }

// EnsureDefaultAdmin creates the users file with a single admin account on first run.
func (f *UsersFile) EnsureDefaultAdmin(ctx context.Context, password string, cost int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := os.Stat(f.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat users file: %w", err)
	}

	usingDefault := password == ""
	if usingDefault {
		password = DefaultAdminPassword
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	users := map[string]domain.User{
		domain.DefaultAdminUsername: {
			Name:         domain.DefaultAdminName,
			PasswordHash: string(hash),
			Role:         domain.RoleAdmin,
		},
	}
	if err := f.writeLocked(users); err != nil {
		return err
	}
	if usingDefault {
		slog.Warn("created default admin account with the built-in password; change it after the first login", slog.String("username", domain.DefaultAdminUsername), slog.String("path", f.path))
	} else {
		slog.Info("created admin account", slog.String("username", domain.DefaultAdminUsername), slog.String("path", f.path))
	}
	return nil
}

func (f *UsersFile) Find(ctx context.Context, username string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	users, err := f.readLocked()
	if err != nil {
		return domain.User{}, err
	}
	user, ok := users[username]
	if !ok {
		return domain.User{}, fmt.Errorf("%w: %q", domain.ErrUserNotFound, username)
	}
	user.Username = username
	return user, nil
}

// Save inserts or replaces the account, keeping the other accounts untouched.
func (f *UsersFile) Save(ctx context.Context, user domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user.Username == "" {
		return fmt.Errorf("save user: empty username")
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	users, err := f.readLocked()
	if err != nil {
		return err
	}
	users[user.Username] = user
	return f.writeLocked(users)
}

func (f *UsersFile) readLocked() (map[string]domain.User, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]domain.User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	users := map[string]domain.User{}
	if len(bytes.TrimSpace(data)) == 0 {
		return users, nil
	}
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decode users file: %w", err)
	}
	return users, nil
}

func (f *UsersFile) writeLocked(users map[string]domain.User) error {
	if err := fsutil.EnsureDir(f.dir, 0o700); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(users); err != nil {
		return fmt.Errorf("encode users file: %w", err)
	}
	return fsutil.WriteFileAtomic(f.path, buf.Bytes(), 0o600)
}

var _ port.UserStore = (*UsersFile)(nil)
