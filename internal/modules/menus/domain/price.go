package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FormatPrice renders a whole-unit amount with space-grouped thousands and the
// currency suffix, e.g. 1250 -> "1 250 Kč".
func FormatPrice(amount int, currency string) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	digits := strconv.Itoa(amount)
	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if currency != "" {
		b.WriteByte(' ')
		b.WriteString(currency)
	}
	return b.String()
}

// FormatPriceText formats a textual price. Text that already carries the currency marker
// is returned unchanged, numeric text is grouped like FormatPrice and anything else just
// gets the suffix.
func FormatPriceText(raw, currency string) string {
	trimmed := strings.TrimSpace(raw)
	if currency != "" && strings.Contains(trimmed, currency) {
		return trimmed
	}
	if value, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return FormatPrice(int(math.Round(value)), currency)
	}
	if currency == "" {
		return trimmed
	}
	return trimmed + " " + currency
}

// decodeStoredPrice reads a persisted price. Whole non-negative numbers, bare or quoted,
// become a Price; anything else is kept verbatim as text so that a single odd entry
// never breaks loading the document.
func decodeStoredPrice(raw json.RawMessage) (Price, string) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, ""
	}
	text := string(trimmed)
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return 0, string(trimmed)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return 0, ""
		}
	}
	if amount, ok := wholeAmount(text); ok {
		return amount, ""
	}
	return 0, text
}

func wholeAmount(text string) (Price, bool) {
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || value < 0 || value != math.Trunc(value) || value > math.MaxInt32 {
		return 0, false
	}
	return Price(value), true
}
