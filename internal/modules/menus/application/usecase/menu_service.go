package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"menuCms/internal/modules/menus/application/port"
	"menuCms/internal/modules/menus/domain"
	restaurants "menuCms/internal/modules/restaurants/domain"
)

// DefaultAvailableWeeks is how many stored weeks the editor lists by default.
const DefaultAvailableWeeks = 10

const (
	ActionSave    = "save"
	ActionPublish = "publish"
)

// Actor is the request-scoped identity performing an operation.
type Actor struct {
	UserID string
	Name   string
	IP     string
}

func (a Actor) user() string {
	if strings.TrimSpace(a.UserID) == "" {
		return "system"
	}
	return a.UserID
}

// SubmitInput is one save/publish request from the editor.
type SubmitInput struct {
	RestaurantID string
	WeekStart    string
	Action       string
	Submission   domain.Submission
}

// SubmitOutput reports the stored week and a user-facing confirmation.
type SubmitOutput struct {
	RestaurantID string
	Week         domain.WeekMenu
	Message      string
}

// MenuService implements the week menu operations on top of the menu document.
type MenuService struct {
	store    port.MenuStore
	activity port.ActivityLogger
	events   port.EventPublisher
	catalog  *restaurants.Catalog
	settings domain.Settings
	clock    domain.Clock
}

// NewMenuService wires the service. activity and events may be nil.
func NewMenuService(store port.MenuStore, activity port.ActivityLogger, events port.EventPublisher, catalog *restaurants.Catalog, settings domain.Settings, clock domain.Clock) *MenuService {
	return &MenuService{
		store:    store,
		activity: activity,
		events:   events,
		catalog:  catalog,
		settings: settings,
		clock:    clock,
	}
}

// Settings exposes the menu model configuration.
func (s *MenuService) Settings() domain.Settings { return s.settings }

// Clock exposes the service clock.
func (s *MenuService) Clock() domain.Clock { return s.clock }

// Catalog exposes the restaurant catalog.
func (s *MenuService) Catalog() *restaurants.Catalog { return s.catalog }

// GetWeekMenu returns the stored week or a freshly defaulted one; absence is not an error.
func (s *MenuService) GetWeekMenu(ctx context.Context, restaurantID string, weekStart domain.Date) (domain.WeekMenu, error) {
	resto, err := s.catalog.Lookup(restaurantID)
	if err != nil {
		return domain.WeekMenu{}, err
	}
	doc, err := s.store.LoadAll(ctx)
	if err != nil {
		return domain.WeekMenu{}, err
	}
	return s.weekFrom(doc, resto.ID, weekStart), nil
}

// SaveWeekMenu stamps modification metadata and persists the week under its Monday key.
func (s *MenuService) SaveWeekMenu(ctx context.Context, restaurantID string, weekStart domain.Date, week domain.WeekMenu, actor Actor) (domain.WeekMenu, error) {
	resto, err := s.catalog.Lookup(restaurantID)
	if err != nil {
		return domain.WeekMenu{}, err
	}
	doc, err := s.store.LoadAll(ctx)
	if err != nil {
		return domain.WeekMenu{}, err
	}
	return s.persist(ctx, doc, resto.ID, weekStart, week, actor)
}

// SubmitWeekMenu validates an editor submission and saves it as draft or publishes it.
// Saving an already published week keeps it published; there is no unpublish.
func (s *MenuService) SubmitWeekMenu(ctx context.Context, input SubmitInput, actor Actor) (*SubmitOutput, error) {
	resto, err := s.catalog.Lookup(input.RestaurantID)
	if err != nil {
		return nil, err
	}
	weekStart, err := domain.ParseDate(input.WeekStart)
	if err != nil {
		return nil, err
	}
	weekStart = domain.WeekStartOf(weekStart)

	action := strings.ToLower(strings.TrimSpace(input.Action))
	if action == "" {
		action = ActionSave
	}
	if action != ActionSave && action != ActionPublish {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAction, input.Action)
	}

	week, err := domain.BuildWeekMenuFromSubmission(weekStart, input.Submission, s.settings)
	if err != nil {
		slog.Info("menu submission rejected", slog.String("restaurant", resto.ID), slog.String("week", weekStart.String()), slog.Any("error", err))
		return nil, err
	}

	doc, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	message := "Menu saved as draft."
	now := s.clock.Now()
	switch {
	case action == ActionPublish:
		week.Publish(now)
		message = "Menu published."
	default:
		if existing, ok := doc.Week(resto.ID, weekStart); ok && existing.IsPublished() {
			week.Status = domain.StatusPublished
			week.PublishedAt = existing.PublishedAt
			message = "Menu saved; it stays published."
		}
	}

	saved, err := s.persist(ctx, doc, resto.ID, weekStart, week, actor)
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, actor, domain.ActivityMenuSaved, map[string]string{
		"restaurant": resto.ID,
		"week":       weekStart.String(),
		"action":     action,
	})
	eventAction := domain.ActionSaved
	if action == ActionPublish {
		eventAction = domain.ActionPublished
	}
	s.emit(ctx, domain.BuildMenuMessage(eventAction, resto.ID, saved, actor.user(), now))

	slog.Info("menu submitted", slog.String("restaurant", resto.ID), slog.String("week", weekStart.String()), slog.String("action", action), slog.String("status", string(saved.Status)), slog.String("user", actor.user()))
	return &SubmitOutput{RestaurantID: resto.ID, Week: saved, Message: message}, nil
}

// PublishWeekMenu publishes an already stored week.
func (s *MenuService) PublishWeekMenu(ctx context.Context, restaurantID string, weekStart domain.Date, actor Actor) (domain.WeekMenu, error) {
	resto, err := s.catalog.Lookup(restaurantID)
	if err != nil {
		return domain.WeekMenu{}, err
	}
	doc, err := s.store.LoadAll(ctx)
	if err != nil {
		return domain.WeekMenu{}, err
	}
	week, ok := doc.Week(resto.ID, weekStart)
	if !ok {
		return domain.WeekMenu{}, fmt.Errorf("%w: %s %s", domain.ErrMenuNotFound, resto.ID, domain.WeekStartOf(weekStart))
	}
	week.Normalize(weekStart)
	now := s.clock.Now()
	week.Publish(now)

	saved, err := s.persist(ctx, doc, resto.ID, weekStart, week, actor)
	if err != nil {
		return domain.WeekMenu{}, err
	}
	s.logActivity(ctx, actor, domain.ActivityMenuPublished, map[string]string{
		"restaurant": resto.ID,
		"week":       saved.WeekStart.String(),
	})
	s.emit(ctx, domain.BuildMenuMessage(domain.ActionPublished, resto.ID, saved, actor.user(), now))
	return saved, nil
}

// CopyWeekMenu overwrites the target week with the per-day content of the source week.
// Dates are not copied and the copy is always a draft. The target is replaced wholesale.
func (s *MenuService) CopyWeekMenu(ctx context.Context, restaurantID string, source, target domain.Date, actor Actor) (domain.WeekMenu, error) {
	resto, err := s.catalog.Lookup(restaurantID)
	if err != nil {
		return domain.WeekMenu{}, err
	}
	source = domain.WeekStartOf(source)
	target = domain.WeekStartOf(target)
	if source == target {
		return domain.WeekMenu{}, fmt.Errorf("%w: source and target week are the same", domain.ErrInvalidWeek)
	}

	doc, err := s.store.LoadAll(ctx)
	if err != nil {
		return domain.WeekMenu{}, err
	}
	sourceWeek, ok := doc.Week(resto.ID, source)
	if !ok || !sourceWeek.DiffersFromDefaults(s.settings) {
		return domain.WeekMenu{}, fmt.Errorf("%w: %s %s", domain.ErrEmptySource, resto.ID, source)
	}

	copied := domain.NewEmptyWeek(target, s.settings)
	for i := range copied.Days {
		from := sourceWeek.Days[i]
		copied.Days[i].Closed = from.Closed
		copied.Days[i].ClosedNote = from.ClosedNote
		dishes := make([]domain.Dish, len(from.Dishes))
		copy(dishes, from.Dishes)
		copied.Days[i].Dishes = dishes
	}
	copied.Status = domain.StatusDraft

	saved, err := s.persist(ctx, doc, resto.ID, target, copied, actor)
	if err != nil {
		return domain.WeekMenu{}, err
	}
	s.logActivity(ctx, actor, domain.ActivityMenuCopied, map[string]string{
		"restaurant": resto.ID,
		"source":     source.String(),
		"target":     target.String(),
	})
	s.emit(ctx, domain.BuildMenuMessage(domain.ActionCopied, resto.ID, saved, actor.user(), s.clock.Now()))
	slog.Info("menu copied", slog.String("restaurant", resto.ID), slog.String("source", source.String()), slog.String("target", target.String()), slog.String("user", actor.user()))
	return saved, nil
}

// AvailableWeeks lists stored week keys of a restaurant, newest first.
func (s *MenuService) AvailableWeeks(ctx context.Context, restaurantID string, limit int) ([]string, error) {
	resto, err := s.catalog.Lookup(restaurantID)
	if err != nil {
		return nil, err
	}
	doc, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultAvailableWeeks
	}
	return doc.WeekKeys(resto.ID, limit), nil
}

func (s *MenuService) weekFrom(doc domain.Document, restaurantID string, weekStart domain.Date) domain.WeekMenu {
	week, ok := doc.Week(restaurantID, weekStart)
	if !ok {
		return domain.NewEmptyWeek(weekStart, s.settings)
	}
	week.Normalize(weekStart)
	return week
}

func (s *MenuService) persist(ctx context.Context, doc domain.Document, restaurantID string, weekStart domain.Date, week domain.WeekMenu, actor Actor) (domain.WeekMenu, error) {
	if doc == nil {
		doc = domain.Document{}
	}
	week.Normalize(weekStart)
	week.Touch(s.clock.Now(), actor.user())
	doc.Put(restaurantID, week)
	if err := s.store.SaveAll(ctx, doc); err != nil {
		slog.Error("menu save failed", slog.String("restaurant", restaurantID), slog.String("week", week.WeekStart.String()), slog.Any("error", err))
		if !errors.Is(err, domain.ErrStore) {
			err = fmt.Errorf("%w: %v", domain.ErrStore, err)
		}
		return domain.WeekMenu{}, err
	}
	return week, nil
}

func (s *MenuService) logActivity(ctx context.Context, actor Actor, action string, details map[string]string) {
	if s.activity == nil {
		return
	}
	entry := domain.NewActivityEntry(s.clock.Now(), actor.UserID, action, details, actor.IP)
	if err := s.activity.Append(ctx, entry); err != nil {
		slog.Warn("activity log append failed", slog.String("action", action), slog.Any("error", err))
	}
}

func (s *MenuService) emit(ctx context.Context, msg *domain.Message) {
	if s.events == nil || msg == nil {
		return
	}
	if err := s.events.Publish(ctx, msg); err != nil {
		slog.Warn("menu event publish failed", slog.String("topic", msg.Topic), slog.String("resourceId", msg.ResourceID), slog.Any("error", err))
	}
}
