package domain

import (
	"errors"
	"strings"
)

var (
	// ErrValidation marks a rejected submission; the concrete value is a ValidationErrors list.
	ErrValidation = errors.New("menu validation failed")
	// ErrInvalidWeek is returned for malformed week/date parameters.
	ErrInvalidWeek = errors.New("invalid week date")
	// ErrStore wraps failures of the backing menu document.
	ErrStore = errors.New("menu store failure")
	// ErrEmptySource is returned when copying from a week that has no content.
	ErrEmptySource = errors.New("source menu is empty")
	// ErrMenuNotFound is returned by operations that require a stored week.
	ErrMenuNotFound = errors.New("menu not found")
	// ErrInvalidAction is returned for unknown edit actions.
	ErrInvalidAction = errors.New("invalid menu action")
)

// ValidationError describes one rejected field of a submission.
type ValidationError struct {
	Day     string `json:"day"`
	DayIdx  int    `json:"dayIndex"`
	Dish    string `json:"dish,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	var b strings.Builder
	if e.Day != "" {
		b.WriteString(e.Day)
		b.WriteString(": ")
	}
	if e.Dish != "" {
		b.WriteString(e.Dish)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// ValidationErrors collects every problem found in one submission.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return "errors: " + strings.Join(parts, "; ")
}

// Is lets callers match any validation failure with errors.Is(err, ErrValidation).
func (errs ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}
