package domain

import (
	"encoding/json"
	"strconv"
	"strings"

	restaurants "menuCms/internal/modules/restaurants/domain"
)

// PublicDish is a dish as served to the static pages.
type PublicDish struct {
	Name       string `json:"name"`
	Price      string `json:"price"`
	Number     string `json:"number,omitempty"`
	GlutenFree bool   `json:"glutenFree,omitempty"`
	Vegetarian bool   `json:"vegetarian,omitempty"`
}

// PublicDay is one weekday of the public menu. A closed day carries only the note.
type PublicDay struct {
	Closed     bool
	ClosedNote string
	Soup       []PublicDish
	Main       []PublicDish
	Dessert    []PublicDish
}

func (d PublicDay) MarshalJSON() ([]byte, error) {
	if d.Closed {
		return json.Marshal(struct {
			Closed     bool   `json:"closed"`
			ClosedNote string `json:"closedNote"`
		}{Closed: true, ClosedNote: d.ClosedNote})
	}
	return json.Marshal(struct {
		Closed  bool         `json:"closed"`
		Soup    []PublicDish `json:"soup"`
		Main    []PublicDish `json:"main"`
		Dessert []PublicDish `json:"dessert"`
	}{
		Soup:    nonNilDishes(d.Soup),
		Main:    nonNilDishes(d.Main),
		Dessert: nonNilDishes(d.Dessert),
	})
}

// PublishedWeekdays is the number of days served publicly (Monday..Friday).
const PublishedWeekdays = int(restaurants.Saturday)

// TransformForFrontend projects a week into the public shape: Monday..Friday only,
// dishes grouped per category in stored order, main dishes numbered from 1.
func TransformForFrontend(week WeekMenu, settings Settings) []PublicDay {
	result := make([]PublicDay, 0, PublishedWeekdays)
	for idx := 0; idx < PublishedWeekdays; idx++ {
		day := week.Days[idx]
		if day.Closed {
			result = append(result, PublicDay{Closed: true, ClosedNote: day.ClosedNote})
			continue
		}

		out := PublicDay{
			Soup:    []PublicDish{},
			Main:    []PublicDish{},
			Dessert: []PublicDish{},
		}
		number := 1
		for _, dish := range day.Dishes {
			name := strings.TrimSpace(dish.Name)
			if name == "" {
				continue
			}
			category := dish.Category
			if category == "" {
				category = CategoryMain
			}
			item := PublicDish{
				Name:       name,
				Price:      dish.DisplayPrice(settings.Currency),
				GlutenFree: dish.GlutenFree,
				Vegetarian: dish.Vegetarian,
			}
			switch category {
			case CategorySoup:
				out.Soup = append(out.Soup, item)
			case CategoryMain:
				item.Number = strconv.Itoa(number)
				number++
				out.Main = append(out.Main, item)
			case CategoryDessert:
				out.Dessert = append(out.Dessert, item)
			}
		}
		result = append(result, out)
	}
	return result
}

func nonNilDishes(items []PublicDish) []PublicDish {
	if items == nil {
		return []PublicDish{}
	}
	return items
}
