package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRestaurant is returned when an id does not match any configured restaurant.
var ErrUnknownRestaurant = errors.New("unknown restaurant")

// Restaurant is a static catalog entry configured at process start.
type Restaurant struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Slug  string `json:"slug" yaml:"slug"`
	Color string `json:"color" yaml:"color"`
}

// Catalog is the immutable, ordered set of restaurants served by the process.
type Catalog struct {
	items []Restaurant
	byID  map[string]Restaurant
}

// DefaultRestaurants returns the built-in catalog used when no catalog file is configured.
func DefaultRestaurants() []Restaurant {
	return []Restaurant{
		{ID: "bufet", Name: "Bufet v Hlubokáně", Slug: "bufet-v-hlubokane", Color: "#c8860a"},
		{ID: "caffe", Name: "Nejen Caffé u Páji", Slug: "caffe-u-paji", Color: "#7c6145"},
	}
}

// NewCatalog validates the entries and builds a lookup-able catalog.
// Ids are trimmed and lower-cased; a missing slug falls back to the id.
func NewCatalog(entries []Restaurant) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, errors.New("restaurant catalog is empty")
	}
	catalog := &Catalog{
		items: make([]Restaurant, 0, len(entries)),
		byID:  make(map[string]Restaurant, len(entries)),
	}
	for i, entry := range entries {
		resto, ok := NormalizeRestaurant(entry)
		if !ok {
			return nil, fmt.Errorf("restaurant #%d: id and name are required", i+1)
		}
		if _, dup := catalog.byID[resto.ID]; dup {
			return nil, fmt.Errorf("restaurant %q configured twice", resto.ID)
		}
		catalog.items = append(catalog.items, resto)
		catalog.byID[resto.ID] = resto
	}
	return catalog, nil
}

// NormalizeRestaurant trims the entry and reports false when required fields are missing.
func NormalizeRestaurant(raw Restaurant) (Restaurant, bool) {
	resto := Restaurant{
		ID:    strings.ToLower(strings.TrimSpace(raw.ID)),
		Name:  strings.TrimSpace(raw.Name),
		Slug:  strings.TrimSpace(raw.Slug),
		Color: strings.TrimSpace(raw.Color),
	}
	if resto.ID == "" || resto.Name == "" {
		return Restaurant{}, false
	}
	if resto.Slug == "" {
		resto.Slug = resto.ID
	}
	return resto, true
}

// Lookup resolves a restaurant by id.
func (c *Catalog) Lookup(id string) (Restaurant, error) {
	key := strings.ToLower(strings.TrimSpace(id))
	if key == "" {
		return Restaurant{}, fmt.Errorf("%w: missing restaurant id", ErrUnknownRestaurant)
	}
	resto, ok := c.byID[key]
	if !ok {
		return Restaurant{}, fmt.Errorf("%w: %q", ErrUnknownRestaurant, key)
	}
	return resto, nil
}

// Has reports whether the id is configured.
func (c *Catalog) Has(id string) bool {
	_, err := c.Lookup(id)
	return err == nil
}

// All returns the restaurants in configuration order.
func (c *Catalog) All() []Restaurant {
	out := make([]Restaurant, len(c.items))
	copy(out, c.items)
	return out
}
