package normalization

import (
	"encoding/json"
	"testing"
)

func TestAsText(t *testing.T) {
	cases := []struct {
		name     string
		input    any
		expected string
	}{
		{name: "trimmed string", input: "  120 ", expected: "120"},
		{name: "json float", input: float64(89.5), expected: "89.5"},
		{name: "whole float", input: float64(100), expected: "100"},
		{name: "int", input: 42, expected: "42"},
		{name: "json number", input: json.Number("7"), expected: "7"},
		{name: "nil", input: nil, expected: ""},
		{name: "unsupported", input: []string{"x"}, expected: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AsText(tc.input); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestAsBool(t *testing.T) {
	truthy := []any{true, "1", "on", " TRUE ", "yes", float64(1), 1}
	for _, value := range truthy {
		if !AsBool(value) {
			t.Fatalf("expected %#v to be true", value)
		}
	}
	falsy := []any{false, "0", "", "off", nil, float64(0), "maybe"}
	for _, value := range falsy {
		if AsBool(value) {
			t.Fatalf("expected %#v to be false", value)
		}
	}
}

func TestAsInt(t *testing.T) {
	if got := AsInt(" 12 "); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
	if got := AsInt(float64(3.9)); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := AsInt("abc"); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
