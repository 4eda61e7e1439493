package transport

import (
	"errors"
	"net/http"

	"menuCms/internal/modules/menus/application/usecase"
	"menuCms/internal/modules/menus/domain"
	restaurants "menuCms/internal/modules/restaurants/domain"
	"menuCms/internal/shared/httputil"
)

var errMissingParameters = errors.New("missing parameters")

// publicErrors keeps the messages the static pages already know.
func publicErrors() *httputil.ErrorMapper {
	return httputil.NewErrorMapper().
		WithMapping(usecase.ErrMissingRestaurant, http.StatusBadRequest, "Missing restaurant parameter").
		WithMapping(restaurants.ErrUnknownRestaurant, http.StatusBadRequest, "Invalid restaurant").
		WithMapping(domain.ErrInvalidWeek, http.StatusBadRequest, "Invalid date format. Use Y-m-d").
		WithMapping(domain.ErrStore, http.StatusInternalServerError, "Menu data is unavailable")
}

func editorErrors() *httputil.ErrorMapper {
	return httputil.NewErrorMapper().
		WithMapping(errMissingParameters, http.StatusBadRequest, "Missing parameters.").
		WithMapping(restaurants.ErrUnknownRestaurant, http.StatusBadRequest, "Invalid restaurant.").
		WithMapping(domain.ErrInvalidWeek, http.StatusBadRequest, "").
		WithMapping(domain.ErrInvalidAction, http.StatusBadRequest, "").
		WithMapping(domain.ErrValidation, http.StatusBadRequest, "").
		WithMapping(domain.ErrEmptySource, http.StatusBadRequest, "The source week has no menu to copy.").
		WithMapping(domain.ErrMenuNotFound, http.StatusNotFound, "No menu is stored for this week.").
		WithMapping(domain.ErrStore, http.StatusInternalServerError, "Could not save the menu. Check write permissions.")
}

// validationDetails exposes per-field problems to script clients.
func validationDetails(err error) domain.ValidationErrors {
	var details domain.ValidationErrors
	if errors.As(err, &details) {
		return details
	}
	return nil
}
