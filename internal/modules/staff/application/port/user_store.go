package port

import (
	"context"

	"menuCms/internal/modules/staff/domain"
)

// UserStore persists staff accounts.
type UserStore interface {
	// Find returns domain.ErrUserNotFound for unknown usernames.
	Find(ctx context.Context, username string) (domain.User, error)
	Save(ctx context.Context, user domain.User) error
}
