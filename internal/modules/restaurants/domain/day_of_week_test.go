package domain

import (
	"testing"
)

func TestNormalizeClosedDays(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []DayOfWeek
	}{
		{
			name:     "mixed casing, indices and czech names",
			input:    []string{"saturday", " 6 ", "Pátek"},
			expected: []DayOfWeek{Saturday, Sunday, Friday},
		},
		{
			name:     "invalid entries filtered",
			input:    []string{"", "holiday", "7", "-1"},
			expected: nil,
		},
		{
			name:     "duplicates collapse",
			input:    []string{"5", "Saturday", "sobota"},
			expected: []DayOfWeek{Saturday},
		},
		{
			name:     "nil input returns nil",
			input:    nil,
			expected: nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := NormalizeClosedDays(test.input)
			if len(result) != len(test.expected) {
				t.Fatalf("expected %d items, got %d (%v)", len(test.expected), len(result), result)
			}
			for i := range result {
				if result[i] != test.expected[i] {
					t.Fatalf("expected %v at position %d, got %v", test.expected[i], i, result[i])
				}
			}
		})
	}
}

func TestDayOfWeekName(t *testing.T) {
	if got := Monday.Name(); got != "Pondělí" {
		t.Fatalf("expected Pondělí, got %q", got)
	}
	if got := Sunday.Name(); got != "Neděle" {
		t.Fatalf("expected Neděle, got %q", got)
	}
	if got := DayOfWeek(9).Name(); got != "" {
		t.Fatalf("expected empty name for invalid day, got %q", got)
	}
	if !Saturday.IsWeekend() || Friday.IsWeekend() {
		t.Fatal("weekend detection mismatch")
	}
}
