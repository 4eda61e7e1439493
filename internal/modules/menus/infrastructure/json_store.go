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

	"menuCms/internal/modules/menus/domain"
	"menuCms/internal/shared/fsutil"
)

// MenusFileName is the document file inside the data directory.
const MenusFileName = "menus.json"

// JSONStore keeps every restaurant-week in one JSON file. Reads always hit the disk;
// writes replace the file through a temp file and rename.
type JSONStore struct {
	dir  string
	path string
}

func NewJSONStore(dataDir string) *JSONStore {
	return &JSONStore{dir: dataDir, path: filepath.Join(dataDir, MenusFileName)}
}

// Path returns the document location.
func (s *JSONStore) Path() string { return s.path }

// LoadAll returns the whole document, or an empty one when nothing was saved yet.
func (s *JSONStore) LoadAll(ctx context.Context) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ensureDataDir(s.dir); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStore, s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.Document{}, nil
	}
	doc := domain.Document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrStore, s.path, err)
	}
	return doc, nil
}

// SaveAll serializes the document and atomically replaces the file.
func (s *JSONStore) SaveAll(ctx context.Context, doc domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil {
		doc = domain.Document{}
	}
	if err := ensureDataDir(s.dir); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("%w: encode document: %v", domain.ErrStore, err)
	}

	if err := fsutil.WriteFileAtomic(s.path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	slog.Debug("menu document saved", slog.String("path", s.path), slog.Int("bytes", buf.Len()))
	return nil
}

// ensureDataDir creates the data directory with owner-only permissions.
func ensureDataDir(dir string) error {
	if err := fsutil.EnsureDir(dir, 0o700); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	return nil
}
