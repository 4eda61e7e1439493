package domain

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	restaurants "menuCms/internal/modules/restaurants/domain"
)

// Status is the visibility state of a week menu.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	// StatusNotAvailable is only emitted by the public API for hidden past weeks.
	StatusNotAvailable Status = "not_available"
)

// Category groups dishes within a day.
type Category string

const (
	CategorySoup    Category = "soup"
	CategoryMain    Category = "main"
	CategoryDessert Category = "dessert"
)

// DefaultClosedNote is the note placed on default-closed days.
const DefaultClosedNote = "Zavřeno"

// Settings carries the configurable parts of the menu model.
type Settings struct {
	// Categories lists the accepted dish categories in display order.
	Categories []Category
	// CategoryLabels maps categories to editor labels.
	CategoryLabels map[Category]string
	// ClosedDays are closed in a freshly created week.
	ClosedDays []restaurants.DayOfWeek
	// ClosedNote is the note placed on default-closed days.
	ClosedNote string
	// Currency is appended to formatted prices.
	Currency string
}

// DefaultSettings returns soup/main/dessert, weekends closed and prices in Kč.
func DefaultSettings() Settings {
	return Settings{
		Categories: []Category{CategorySoup, CategoryMain, CategoryDessert},
		CategoryLabels: map[Category]string{
			CategorySoup:    "Polévka",
			CategoryMain:    "Hlavní jídlo",
			CategoryDessert: "Dezert",
		},
		ClosedDays: []restaurants.DayOfWeek{restaurants.Saturday, restaurants.Sunday},
		ClosedNote: DefaultClosedNote,
		Currency:   "Kč",
	}
}

func (s Settings) isClosedDay(day restaurants.DayOfWeek) bool {
	for _, closed := range s.ClosedDays {
		if closed == day {
			return true
		}
	}
	return false
}

// Price is a non-negative amount in whole currency units.
type Price int

// Dish is one menu item. It has no identity beyond its position in the day's list.
// PriceText keeps a stored price that is not a plain whole number, such as "1.250 Kč"
// or "dle váhy"; when set it is served instead of Price.
type Dish struct {
	Category   Category `json:"category"`
	Name       string   `json:"name"`
	Price      Price    `json:"price"`
	PriceText  string   `json:"-"`
	GlutenFree bool     `json:"glutenFree"`
	Vegetarian bool     `json:"vegetarian"`
}

type storedDish struct {
	Category   Category        `json:"category"`
	Name       string          `json:"name"`
	Price      json.RawMessage `json:"price"`
	GlutenFree bool            `json:"glutenFree"`
	Vegetarian bool            `json:"vegetarian"`
}

// MarshalJSON writes the price as a number, or as the kept text.
func (d Dish) MarshalJSON() ([]byte, error) {
	price := []byte(strconv.Itoa(int(d.Price)))
	if d.PriceText != "" {
		quoted, err := marshalUnescaped(d.PriceText)
		if err != nil {
			return nil, err
		}
		price = quoted
	}
	return marshalUnescaped(storedDish{
		Category:   d.Category,
		Name:       d.Name,
		Price:      price,
		GlutenFree: d.GlutenFree,
		Vegetarian: d.Vegetarian,
	})
}

// UnmarshalJSON never fails on the price; see decodeStoredPrice.
func (d *Dish) UnmarshalJSON(data []byte) error {
	var stored storedDish
	if err := json.Unmarshal(data, &stored); err != nil {
		return err
	}
	*d = Dish{
		Category:   stored.Category,
		Name:       stored.Name,
		GlutenFree: stored.GlutenFree,
		Vegetarian: stored.Vegetarian,
	}
	d.Price, d.PriceText = decodeStoredPrice(stored.Price)
	return nil
}

// DisplayPrice renders the price for the public menu.
func (d Dish) DisplayPrice(currency string) string {
	if d.PriceText != "" {
		return FormatPriceText(d.PriceText, currency)
	}
	return FormatPrice(int(d.Price), currency)
}

func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// DayMenu is the content of one weekday.
type DayMenu struct {
	Date       Date   `json:"date"`
	DayName    string `json:"dayName"`
	Closed     bool   `json:"closed"`
	ClosedNote string `json:"closedNote"`
	Dishes     []Dish `json:"dishes"`
}

// WeekMenu is the editable menu of one restaurant for one week.
type WeekMenu struct {
	WeekStart    Date                            `json:"weekStart"`
	Status       Status                          `json:"status"`
	LastModified *time.Time                      `json:"lastModified,omitempty"`
	ModifiedBy   string                          `json:"modifiedBy,omitempty"`
	PublishedAt  *time.Time                      `json:"publishedAt,omitempty"`
	Days         [restaurants.DaysInWeek]DayMenu `json:"days"`
}

// NewEmptyWeek creates the default week for weekStart (normalized to its Monday).
func NewEmptyWeek(weekStart Date, settings Settings) WeekMenu {
	start := WeekStartOf(weekStart)
	week := WeekMenu{WeekStart: start, Status: StatusDraft}
	for i := range week.Days {
		day := restaurants.DayOfWeek(i)
		closed := settings.isClosedDay(day)
		note := ""
		if closed {
			note = settings.ClosedNote
		}
		week.Days[i] = DayMenu{
			Date:       start.AddDays(i),
			DayName:    day.Name(),
			Closed:     closed,
			ClosedNote: note,
			Dishes:     []Dish{},
		}
	}
	return week
}

// HasContent reports whether any day carries at least one named dish.
func (w WeekMenu) HasContent() bool {
	for _, day := range w.Days {
		for _, dish := range day.Dishes {
			if strings.TrimSpace(dish.Name) != "" {
				return true
			}
		}
	}
	return false
}

// DiffersFromDefaults reports whether the week holds anything an editor entered:
// a named dish, or a closed flag or closed note other than what NewEmptyWeek sets.
func (w WeekMenu) DiffersFromDefaults(settings Settings) bool {
	if w.HasContent() {
		return true
	}
	blank := NewEmptyWeek(w.WeekStart, settings)
	for i, day := range w.Days {
		if day.Closed != blank.Days[i].Closed {
			return true
		}
		if day.Closed && day.ClosedNote != blank.Days[i].ClosedNote {
			return true
		}
	}
	return false
}

// IsPublished reports whether the week has been published.
func (w WeekMenu) IsPublished() bool {
	return w.Status == StatusPublished
}

// Normalize repairs derived fields of a stored week: the Monday key, day dates, day names,
// status and nil dish lists.
func (w *WeekMenu) Normalize(weekStart Date) {
	w.WeekStart = WeekStartOf(weekStart)
	if w.Status != StatusPublished {
		w.Status = StatusDraft
	}
	for i := range w.Days {
		w.Days[i].Date = w.WeekStart.AddDays(i)
		w.Days[i].DayName = restaurants.DayOfWeek(i).Name()
		if w.Days[i].Dishes == nil {
			w.Days[i].Dishes = []Dish{}
		}
	}
}

// Publish moves the week to published and stamps PublishedAt.
func (w *WeekMenu) Publish(at time.Time) {
	stamp := at
	w.Status = StatusPublished
	w.PublishedAt = &stamp
}

// Touch stamps the modification metadata.
func (w *WeekMenu) Touch(at time.Time, user string) {
	stamp := at
	w.LastModified = &stamp
	w.ModifiedBy = user
}

// Document is the persisted shape: restaurant id -> week-start ISO -> week menu.
type Document map[string]map[string]WeekMenu

// Week returns the stored week, if any.
func (d Document) Week(restaurantID string, weekStart Date) (WeekMenu, bool) {
	weeks, ok := d[restaurantID]
	if !ok {
		return WeekMenu{}, false
	}
	week, ok := weeks[WeekStartOf(weekStart).String()]
	return week, ok
}

// Put stores the week under its Monday key.
func (d Document) Put(restaurantID string, week WeekMenu) {
	if d[restaurantID] == nil {
		d[restaurantID] = make(map[string]WeekMenu)
	}
	d[restaurantID][WeekStartOf(week.WeekStart).String()] = week
}

// WeekKeys returns the stored week keys of a restaurant, newest first, capped at limit
// (limit <= 0 means no cap).
func (d Document) WeekKeys(restaurantID string, limit int) []string {
	weeks := d[restaurantID]
	keys := make([]string, 0, len(weeks))
	for key := range weeks {
		keys = append(keys, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}
