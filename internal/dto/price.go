package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Price column shape: decimal(10,2).
const (
	PriceMaxDigits     = 10
	PriceDecimalPlaces = 2
)

// ParsePrice reads a JSON number or numeric string into a decimal and checks
// it fits the price column. The returned message is empty on success.
func ParsePrice(raw json.RawMessage) (decimal.Decimal, string) {
	raw = bytes.TrimSpace(raw)
	text := string(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, "A valid number is required."
		}
		text = strings.TrimSpace(s)
	}

	if text == "" {
		return decimal.Zero, "A valid number is required."
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, "A valid number is required."
	}
	if msg := checkPrecision(d); msg != "" {
		return decimal.Zero, msg
	}
	return d, ""
}

// checkPrecision counts digits the way a fixed-point column does: trailing
// zeros after the point count as decimal places.
func checkPrecision(d decimal.Decimal) string {
	exponent := int(d.Exponent())
	digits := len(strings.TrimLeft(d.Coefficient().String(), "-"))

	var total, whole, places int
	switch {
	case exponent >= 0:
		total = digits + exponent
		whole = total
	case digits > -exponent:
		total = digits
		places = -exponent
		whole = total - places
	default:
		total = -exponent
		places = total
	}

	switch {
	case total > PriceMaxDigits:
		return fmt.Sprintf("Ensure that there are no more than %d digits in total.", PriceMaxDigits)
	case places > PriceDecimalPlaces:
		return fmt.Sprintf("Ensure that there are no more than %d decimal places.", PriceDecimalPlaces)
	case whole > PriceMaxDigits-PriceDecimalPlaces:
		return fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", PriceMaxDigits-PriceDecimalPlaces)
	}
	return ""
}

// FormatPrice renders a price with exactly two decimals.
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(PriceDecimalPlaces)
}
