package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"menuCms/internal/modules/menus/domain"
)

// ActivityFileName is the activity log inside the data directory.
const ActivityFileName = "activity.log"

// ActivityLog appends one JSON line per event. Every append takes an exclusive advisory
// lock on the file so several processes can share it.
type ActivityLog struct {
	dir  string
	path string
	mu   sync.Mutex
}

func NewActivityLog(dataDir string) *ActivityLog {
	return &ActivityLog{dir: dataDir, path: filepath.Join(dataDir, ActivityFileName)}
}

// Path returns the log location.
func (l *ActivityLog) Path() string { return l.path }

func (l *ActivityLog) Append(ctx context.Context, entry domain.ActivityEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entry); err != nil {
		return fmt.Errorf("encode activity entry: %w", err)
	}
	if err := ensureDataDir(l.dir); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open activity log: %w", err)
	}
	defer f.Close()

	if err := lockFile(f); err != nil {
		return fmt.Errorf("lock activity log: %w", err)
	}
	defer func() { _ = unlockFile(f) }()

	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("append activity log: %w", err)
	}
	return nil
}
