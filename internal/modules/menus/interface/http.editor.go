package transport

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"menuCms/internal/modules/menus/application/usecase"
	"menuCms/internal/modules/menus/domain"
	restaurants "menuCms/internal/modules/restaurants/domain"
	"menuCms/internal/shared/auth"
	"menuCms/internal/shared/httputil"
)

// EditorPath is where form posts redirect back to.
const EditorPath = "/cms/menu"

const maxBodyBytes = 1 << 20

// EditorHandlers serves the authenticated menu editor endpoints.
type EditorHandlers struct {
	menus  *usecase.MenuService
	errors *httputil.ErrorMapper
}

func NewEditorHandlers(menus *usecase.MenuService) *EditorHandlers {
	return &EditorHandlers{menus: menus, errors: editorErrors()}
}

type editorUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type categoryView struct {
	ID    domain.Category `json:"id"`
	Label string          `json:"label"`
}

// EditorView is everything the editor page needs to render one restaurant-week.
type EditorView struct {
	User           editorUser               `json:"user"`
	Restaurants    []restaurants.Restaurant `json:"restaurants"`
	Restaurant     restaurants.Restaurant   `json:"restaurant"`
	WeekStart      string                   `json:"weekStart"`
	WeekRange      string                   `json:"weekRange"`
	PreviousWeek   string                   `json:"previousWeek"`
	NextWeek       string                   `json:"nextWeek"`
	CurrentWeek    string                   `json:"currentWeek"`
	IsCurrentWeek  bool                     `json:"isCurrentWeek"`
	IsFutureWeek   bool                     `json:"isFutureWeek"`
	IsPastWeek     bool                     `json:"isPastWeek"`
	Categories     []categoryView           `json:"categories"`
	Currency       string                   `json:"currency"`
	Menu           domain.WeekMenu          `json:"menu"`
	AvailableWeeks []string                 `json:"availableWeeks"`
	CSRFToken      string                   `json:"csrfToken"`
	CSRFField      string                   `json:"csrfField"`
	Flash          *httputil.Flash          `json:"flash,omitempty"`
}

// View handles GET /cms/menu?restaurant=&week=.
func (h *EditorHandlers) View(c echo.Context) error {
	ctx := c.Request().Context()
	catalog := h.menus.Catalog()

	restaurantID := strings.TrimSpace(c.QueryParam("restaurant"))
	if restaurantID == "" {
		if all := catalog.All(); len(all) > 0 {
			restaurantID = all[0].ID
		}
	}
	resto, err := catalog.Lookup(restaurantID)
	if err != nil {
		return h.fail(c, err)
	}

	clock := h.menus.Clock()
	today := clock.Today()
	weekStart := clock.CurrentWeekStart()
	if raw := strings.TrimSpace(c.QueryParam("week")); raw != "" {
		day, err := domain.ParseDate(raw)
		if err != nil {
			return h.fail(c, err)
		}
		weekStart = domain.WeekStartOf(day)
	}

	week, err := h.menus.GetWeekMenu(ctx, resto.ID, weekStart)
	if err != nil {
		return h.fail(c, err)
	}
	available, err := h.menus.AvailableWeeks(ctx, resto.ID, usecase.DefaultAvailableWeeks)
	if err != nil {
		return h.fail(c, err)
	}

	settings := h.menus.Settings()
	categories := make([]categoryView, 0, len(settings.Categories))
	for _, cat := range settings.Categories {
		label := settings.CategoryLabels[cat]
		if label == "" {
			label = string(cat)
		}
		categories = append(categories, categoryView{ID: cat, Label: label})
	}

	actor := actorFrom(c)
	return c.JSON(http.StatusOK, EditorView{
		User:           editorUser{ID: actor.UserID, Name: actor.Name},
		Restaurants:    catalog.All(),
		Restaurant:     resto,
		WeekStart:      weekStart.String(),
		WeekRange:      domain.FormatWeekRange(weekStart),
		PreviousWeek:   domain.PreviousWeekStart(weekStart).String(),
		NextWeek:       domain.NextWeekStart(weekStart).String(),
		CurrentWeek:    clock.CurrentWeekStart().String(),
		IsCurrentWeek:  domain.IsCurrentWeek(weekStart, today),
		IsFutureWeek:   domain.IsFutureWeek(weekStart, today),
		IsPastWeek:     domain.IsPastWeek(weekStart, today),
		Categories:     categories,
		Currency:       settings.Currency,
		Menu:           week,
		AvailableWeeks: available,
		CSRFToken:      httputil.CSRFToken(c),
		CSRFField:      httputil.CSRFFormField,
		Flash:          httputil.PopFlash(c),
	})
}

// Restaurants handles GET /cms/restaurants.
func (h *EditorHandlers) Restaurants(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"restaurants": h.menus.Catalog().All()})
}

// Submit handles POST /cms/menu with action "save" or "publish".
func (h *EditorHandlers) Submit(c echo.Context) error {
	req, err := readSubmitRequest(c)
	if err != nil {
		return h.respond(c, "", "", err, "")
	}
	out, err := h.menus.SubmitWeekMenu(c.Request().Context(), usecase.SubmitInput{
		RestaurantID: req.RestaurantID,
		WeekStart:    req.WeekStart,
		Action:       req.Action,
		Submission:   req.Submission,
	}, actorFrom(c))
	if err != nil {
		return h.respond(c, req.RestaurantID, req.WeekStart, err, "")
	}
	if httputil.WantsJSON(c.Request()) {
		return c.JSON(http.StatusOK, httputil.Result{Success: true, Message: out.Message, Data: out.Week})
	}
	return h.respond(c, out.RestaurantID, out.Week.WeekStart.String(), nil, out.Message)
}

// Publish handles POST /cms/menu/publish for an already stored week.
func (h *EditorHandlers) Publish(c echo.Context) error {
	restaurantID := strings.TrimSpace(c.FormValue("restaurant"))
	rawWeek := strings.TrimSpace(firstNonEmpty(c.FormValue("week_start"), c.FormValue("week")))
	if restaurantID == "" || rawWeek == "" {
		return h.respond(c, restaurantID, rawWeek, errMissingParameters, "")
	}
	weekStart, err := domain.ParseDate(rawWeek)
	if err != nil {
		return h.respond(c, restaurantID, "", err, "")
	}
	week, err := h.menus.PublishWeekMenu(c.Request().Context(), restaurantID, weekStart, actorFrom(c))
	if err != nil {
		return h.respond(c, restaurantID, rawWeek, err, "")
	}
	if httputil.WantsJSON(c.Request()) {
		return c.JSON(http.StatusOK, httputil.Result{Success: true, Message: "Menu published.", Data: week})
	}
	return h.respond(c, restaurantID, week.WeekStart.String(), nil, "Menu published.")
}

// Copy handles GET or POST /cms/menu/copy?restaurant=&source_week=&target_week=.
func (h *EditorHandlers) Copy(c echo.Context) error {
	values := c.QueryParams()
	if c.Request().Method == http.MethodPost {
		if form, err := c.FormParams(); err == nil {
			values = form
		}
	}
	restaurantID, rawSource, rawTarget := copyParams(values)
	if restaurantID == "" || rawSource == "" || rawTarget == "" {
		return h.respond(c, restaurantID, rawTarget, errMissingParameters, "")
	}
	source, err := domain.ParseDate(rawSource)
	if err != nil {
		return h.respond(c, restaurantID, "", err, "")
	}
	target, err := domain.ParseDate(rawTarget)
	if err != nil {
		return h.respond(c, restaurantID, "", err, "")
	}

	week, err := h.menus.CopyWeekMenu(c.Request().Context(), restaurantID, source, target, actorFrom(c))
	if err != nil {
		return h.respond(c, restaurantID, rawTarget, err, "")
	}
	if httputil.WantsJSON(c.Request()) {
		return c.JSON(http.StatusOK, httputil.Result{Success: true, Message: "Menu copied.", Data: week})
	}
	return h.respond(c, restaurantID, week.WeekStart.String(), nil, "Menu copied from the selected week.")
}

// respond finishes an editor write: JSON for scripts, flash and redirect for forms.
func (h *EditorHandlers) respond(c echo.Context, restaurantID, week string, err error, message string) error {
	if err == nil {
		httputil.SetFlash(c, httputil.FlashSuccess, message)
		return httputil.Redirect(c, editorLocation(restaurantID, week))
	}

	info := h.errors.Map(err)
	if info.Internal() {
		slog.Error("menu editor request failed", slog.String("path", c.Path()), slog.String("restaurant", restaurantID), slog.String("week", week), slog.Any("error", err))
	} else {
		slog.Info("menu editor request rejected", slog.String("path", c.Path()), slog.String("restaurant", restaurantID), slog.String("week", week), slog.Any("error", err))
	}
	if httputil.WantsJSON(c.Request()) {
		result := httputil.Result{Success: false, Error: info.Message}
		if details := validationDetails(err); len(details) > 0 {
			result.Errors = details
		}
		return c.JSON(info.Status, result)
	}
	httputil.SetFlash(c, httputil.FlashError, info.Message)
	if errors.Is(err, restaurants.ErrUnknownRestaurant) {
		restaurantID = ""
	}
	if errors.Is(err, domain.ErrInvalidWeek) {
		week = ""
	}
	return httputil.Redirect(c, editorLocation(restaurantID, week))
}

// fail answers read endpoints, which have no redirect fallback.
func (h *EditorHandlers) fail(c echo.Context, err error) error {
	info := h.errors.Map(err)
	if info.Internal() {
		slog.Error("menu editor read failed", slog.String("path", c.Path()), slog.Any("error", err))
	}
	return c.JSON(info.Status, httputil.Result{Success: false, Error: info.Message})
}

func readSubmitRequest(c echo.Context) (submitRequest, error) {
	r := c.Request()
	if strings.HasPrefix(strings.ToLower(r.Header.Get(echo.HeaderContentType)), echo.MIMEApplicationJSON) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			return submitRequest{}, err
		}
		return parseSubmissionJSON(body)
	}
	form, err := c.FormParams()
	if err != nil {
		return submitRequest{}, errMissingParameters
	}
	return parseSubmissionForm(form), nil
}

func editorLocation(restaurantID, week string) string {
	values := url.Values{}
	if restaurantID != "" {
		values.Set("restaurant", strings.ToLower(restaurantID))
	}
	if week != "" {
		values.Set("week", week)
	}
	if len(values) == 0 {
		return EditorPath
	}
	return EditorPath + "?" + values.Encode()
}

// actorFrom builds the acting user from the session left by auth.RequireSession.
func actorFrom(c echo.Context) usecase.Actor {
	actor := usecase.Actor{IP: c.RealIP()}
	if claims, ok := auth.ClaimsFromContext(c); ok {
		actor.UserID = claims.UserID()
		actor.Name = claims.DisplayName()
	}
	return actor
}
