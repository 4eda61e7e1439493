package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"menuCms/internal/modules/menus/domain"
	"menuCms/internal/shared/normalization"
)

// days[0][closed], days[0][closedNote], days[0][dishes][main][1][price]
var dayFieldPattern = regexp.MustCompile(`^days\[(\d+)\]\[(\w+)\](?:\[(\w+)\]\[(\d+)\]\[(\w+)\])?$`)

// submitRequest is the save/publish payload in either encoding.
type submitRequest struct {
	RestaurantID string
	WeekStart    string
	Action       string
	Submission   domain.Submission
}

type indexedDish struct {
	index int
	dish  domain.DishSubmission
}

// parseSubmissionForm turns the editor's bracketed form keys into a submission.
// Dishes keep the order of their row index, not the order of the keys.
func parseSubmissionForm(form url.Values) submitRequest {
	req := submitRequest{
		RestaurantID: strings.TrimSpace(form.Get("restaurant")),
		WeekStart:    strings.TrimSpace(firstValue(form, "week_start", "weekStart", "week")),
		Action:       strings.TrimSpace(form.Get("action")),
	}

	days := map[string]domain.DaySubmission{}
	rows := map[string]map[string]map[int]*domain.DishSubmission{}
	for key, values := range form {
		match := dayFieldPattern.FindStringSubmatch(key)
		if match == nil || len(values) == 0 {
			continue
		}
		dayKey, field := match[1], match[2]
		value := values[len(values)-1]
		day := days[dayKey]
		switch {
		case field == "closed" && match[3] == "":
			day.Closed = value
		case field == "closedNote" && match[3] == "":
			day.ClosedNote = value
		case field == "dishes" && match[3] != "":
			category := match[3]
			row, err := strconv.Atoi(match[4])
			if err != nil {
				continue
			}
			if rows[dayKey] == nil {
				rows[dayKey] = map[string]map[int]*domain.DishSubmission{}
			}
			if rows[dayKey][category] == nil {
				rows[dayKey][category] = map[int]*domain.DishSubmission{}
			}
			dish := rows[dayKey][category][row]
			if dish == nil {
				dish = &domain.DishSubmission{}
				rows[dayKey][category][row] = dish
			}
			switch match[5] {
			case "name":
				dish.Name = value
			case "price":
				dish.Price = value
			case "glutenFree":
				dish.GlutenFree = value
			case "vegetarian":
				dish.Vegetarian = value
			}
		}
		days[dayKey] = day
	}

	for dayKey, categories := range rows {
		day := days[dayKey]
		day.Dishes = make(map[string][]domain.DishSubmission, len(categories))
		for category, byRow := range categories {
			ordered := make([]indexedDish, 0, len(byRow))
			for idx, dish := range byRow {
				ordered = append(ordered, indexedDish{index: idx, dish: *dish})
			}
			sort.Slice(ordered, func(i, j int) bool { return ordered[i].index < ordered[j].index })
			dishes := make([]domain.DishSubmission, 0, len(ordered))
			for _, item := range ordered {
				dishes = append(dishes, item.dish)
			}
			day.Dishes[category] = dishes
		}
		days[dayKey] = day
	}

	req.Submission = domain.Submission{Days: days}
	return req
}

// jsonSubmit accepts days either as an object keyed "0".."6" or as a 7-element array.
type jsonSubmit struct {
	Restaurant   string          `json:"restaurant"`
	WeekStart    string          `json:"week_start"`
	WeekStartAlt string          `json:"weekStart"`
	Action       string          `json:"action"`
	Days         json.RawMessage `json:"days"`
}

func parseSubmissionJSON(body []byte) (submitRequest, error) {
	var raw jsonSubmit
	if err := json.Unmarshal(body, &raw); err != nil {
		return submitRequest{}, fmt.Errorf("%w: malformed JSON body: %v", domain.ErrValidation, err)
	}
	req := submitRequest{
		RestaurantID: strings.TrimSpace(raw.Restaurant),
		WeekStart:    strings.TrimSpace(firstNonEmpty(raw.WeekStart, raw.WeekStartAlt)),
		Action:       strings.TrimSpace(raw.Action),
	}
	days := map[string]domain.DaySubmission{}
	trimmed := bytes.TrimSpace(raw.Days)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
	case trimmed[0] == '[':
		var list []domain.DaySubmission
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return submitRequest{}, fmt.Errorf("%w: malformed days: %v", domain.ErrValidation, err)
		}
		for idx, day := range list {
			days[strconv.Itoa(idx)] = day
		}
	default:
		if err := json.Unmarshal(trimmed, &days); err != nil {
			return submitRequest{}, fmt.Errorf("%w: malformed days: %v", domain.ErrValidation, err)
		}
	}
	req.Submission = domain.Submission{Days: days}
	return req, nil
}

// copyParams reads restaurant/source_week/target_week from the query or the form.
func copyParams(values url.Values) (restaurantID, source, target string) {
	return strings.TrimSpace(values.Get("restaurant")),
		strings.TrimSpace(values.Get("source_week")),
		strings.TrimSpace(values.Get("target_week"))
}

func firstValue(values url.Values, keys ...string) string {
	for _, key := range keys {
		if v := values.Get(key); strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// isPreview accepts "1"/"true" like the editor's preview links.
func isPreview(raw string) bool {
	return normalization.AsBool(raw)
}
