package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"menuCms/internal/modules/menus/domain"
	restaurants "menuCms/internal/modules/restaurants/domain"
)

// ErrMissingRestaurant is returned when the public API is called without a restaurant.
var ErrMissingRestaurant = errors.New("missing restaurant parameter")

// PublicQuery is a public menu read.
type PublicQuery struct {
	RestaurantID string
	// Week is any ISO date inside the wanted week; empty means the current week.
	Week    string
	Preview bool
}

// PublicMenu is the payload served to the static front-end pages.
type PublicMenu struct {
	Restaurant   restaurants.Restaurant `json:"restaurant"`
	Week         string                 `json:"week"`
	WeekRange    string                 `json:"weekRange"`
	Status       domain.Status          `json:"status"`
	LastModified *time.Time             `json:"lastModified"`
	Menu         []domain.PublicDay     `json:"menu"`
}

// PublicMenuService serves read-only menus.
type PublicMenuService struct {
	menus *MenuService
}

func NewPublicMenuService(menus *MenuService) *PublicMenuService {
	return &PublicMenuService{menus: menus}
}

// Read resolves the week and applies the visibility policy: an unpublished week that lies
// strictly in the past is reported as not_available unless preview is requested, while
// current and future drafts are served with status "draft".
func (s *PublicMenuService) Read(ctx context.Context, query PublicQuery) (*PublicMenu, error) {
	if strings.TrimSpace(query.RestaurantID) == "" {
		return nil, ErrMissingRestaurant
	}
	resto, err := s.menus.Catalog().Lookup(query.RestaurantID)
	if err != nil {
		return nil, err
	}

	clock := s.menus.Clock()
	weekStart := clock.CurrentWeekStart()
	if strings.TrimSpace(query.Week) != "" {
		day, err := domain.ParseDate(query.Week)
		if err != nil {
			return nil, err
		}
		weekStart = domain.WeekStartOf(day)
	}

	week, err := s.menus.GetWeekMenu(ctx, resto.ID, weekStart)
	if err != nil {
		return nil, err
	}

	out := &PublicMenu{
		Restaurant: resto,
		Week:       weekStart.String(),
		WeekRange:  domain.FormatWeekRange(weekStart),
	}
	if !query.Preview && !week.IsPublished() && domain.IsPastWeek(weekStart, clock.Today()) {
		out.Status = domain.StatusNotAvailable
		out.Menu = []domain.PublicDay{}
		return out, nil
	}

	out.Status = week.Status
	out.LastModified = week.LastModified
	out.Menu = domain.TransformForFrontend(week, s.menus.Settings())
	return out, nil
}
