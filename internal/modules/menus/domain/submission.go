package domain

import (
	"math"
	"sort"
	"strconv"
	"strings"

	restaurants "menuCms/internal/modules/restaurants/domain"
	"menuCms/internal/shared/normalization"
)

// DishSubmission is one dish row as posted by the editor. Values stay loosely typed
// until BuildWeekMenuFromSubmission validates them.
type DishSubmission struct {
	Name       string `json:"name"`
	Price      any    `json:"price"`
	GlutenFree any    `json:"glutenFree"`
	Vegetarian any    `json:"vegetarian"`
}

// DaySubmission is one day of the editor form; Dishes are grouped by category key.
type DaySubmission struct {
	Closed     any                         `json:"closed"`
	ClosedNote string                      `json:"closedNote"`
	Dishes     map[string][]DishSubmission `json:"dishes"`
}

// Submission is the day-indexed editor payload ("0" = Monday .. "6" = Sunday).
type Submission struct {
	Days map[string]DaySubmission `json:"days"`
}

// BuildWeekMenuFromSubmission validates a submission against a fresh default week.
// Out-of-range day keys, unnamed dishes and unknown categories are dropped silently;
// any price problem rejects the whole submission with ValidationErrors.
func BuildWeekMenuFromSubmission(weekStart Date, submission Submission, settings Settings) (WeekMenu, error) {
	week := NewEmptyWeek(weekStart, settings)
	var errs ValidationErrors

	for _, idx := range sortedDayIndices(submission.Days) {
		raw := submission.Days[strconv.Itoa(idx)]
		day := restaurants.DayOfWeek(idx)

		week.Days[idx].Closed = normalization.AsBool(raw.Closed)
		week.Days[idx].ClosedNote = raw.ClosedNote

		dishes := make([]Dish, 0)
		for _, category := range settings.Categories {
			for _, rawDish := range raw.Dishes[string(category)] {
				name := strings.TrimSpace(rawDish.Name)
				if name == "" {
					continue
				}
				price, problem := parseSubmittedPrice(rawDish.Price)
				if problem != "" {
					errs = append(errs, ValidationError{
						Day:     day.Name(),
						DayIdx:  idx,
						Dish:    name,
						Field:   "price",
						Message: problem,
					})
					continue
				}
				dishes = append(dishes, Dish{
					Category:   category,
					Name:       name,
					Price:      price,
					GlutenFree: normalization.AsBool(rawDish.GlutenFree),
					Vegetarian: normalization.AsBool(rawDish.Vegetarian),
				})
			}
		}
		week.Days[idx].Dishes = dishes
	}

	if len(errs) > 0 {
		return WeekMenu{}, errs
	}
	return week, nil
}

func parseSubmittedPrice(raw any) (Price, string) {
	text := normalization.AsText(raw)
	if text == "" {
		return 0, "price is required"
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, "price must be a number"
	}
	if value < 0 {
		return 0, "price cannot be negative"
	}
	return Price(value), ""
}

// sortedDayIndices returns the canonical day keys ("0".."6") in ascending order.
func sortedDayIndices(days map[string]DaySubmission) []int {
	indices := make([]int, 0, len(days))
	for key := range days {
		idx, err := strconv.Atoi(key)
		if err != nil || strconv.Itoa(idx) != key || !restaurants.DayOfWeek(idx).Valid() {
			continue
		}
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}
