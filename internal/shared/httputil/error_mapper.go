package httputil

import (
	"context"
	"errors"
	"net/http"
)

// HTTPErrorInfo is the status and user-facing message chosen for an error.
type HTTPErrorInfo struct {
	Status  int
	Message string
}

// Internal reports whether the error is a server fault worth logging at error level.
func (i HTTPErrorInfo) Internal() bool {
	return i.Status >= http.StatusInternalServerError
}

type errorRule struct {
	target  error
	status  int
	message string
}

// ErrorMapper translates sentinel errors into HTTP answers. Rules match with errors.Is
// in registration order; context errors always come first.
type ErrorMapper struct {
	rules    []errorRule
	fallback HTTPErrorInfo
}

func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{
		rules: []errorRule{
			{target: context.DeadlineExceeded, status: http.StatusGatewayTimeout, message: "request timeout"},
			{target: context.Canceled, status: http.StatusServiceUnavailable, message: "request cancelled"},
		},
		fallback: HTTPErrorInfo{Status: http.StatusInternalServerError, Message: "internal server error"},
	}
}

// WithMapping adds a rule. An empty message shows the error text itself, which suits
// errors that already carry user-readable detail such as validation failures.
func (m *ErrorMapper) WithMapping(err error, status int, message string) *ErrorMapper {
	m.rules = append(m.rules, errorRule{target: err, status: status, message: message})
	return m
}

// WithDefault replaces the answer for unmatched errors.
func (m *ErrorMapper) WithDefault(status int, message string) *ErrorMapper {
	m.fallback = HTTPErrorInfo{Status: status, Message: message}
	return m
}

func (m *ErrorMapper) Map(err error) HTTPErrorInfo {
	if err == nil {
		return HTTPErrorInfo{Status: http.StatusOK}
	}
	for _, rule := range m.rules {
		if !errors.Is(err, rule.target) {
			continue
		}
		info := HTTPErrorInfo{Status: rule.status, Message: rule.message}
		if info.Message == "" {
			info.Message = err.Error()
		}
		return info
	}
	return m.fallback
}
