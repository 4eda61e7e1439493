package infrastructure

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"menuCms/internal/modules/restaurants/domain"
)

type catalogFile struct {
	Restaurants []domain.Restaurant `yaml:"restaurants"`
}

// LoadCatalog reads the restaurant catalog from a YAML file. An empty path or a missing
// file falls back to the built-in restaurants.
func LoadCatalog(path string) (*domain.Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return domain.NewCatalog(domain.DefaultRestaurants())
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("restaurant catalog file missing, using defaults", slog.String("path", path))
		return domain.NewCatalog(domain.DefaultRestaurants())
	}
	if err != nil {
		return nil, fmt.Errorf("read restaurant catalog: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse restaurant catalog %s: %w", path, err)
	}
	catalog, err := domain.NewCatalog(file.Restaurants)
	if err != nil {
		return nil, fmt.Errorf("restaurant catalog %s: %w", path, err)
	}
	slog.Info("restaurant catalog loaded", slog.String("path", path), slog.Int("restaurants", len(file.Restaurants)))
	return catalog, nil
}
