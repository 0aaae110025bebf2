package cli

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/emoji-ledger/internal/common"
)

var nonAmountChars = regexp.MustCompile(`[^0-9.]`)

// SanitizeAmount strips everything but digits and dots, the way the amount
// keypad accepts input.
func SanitizeAmount(input string) string {
	return nonAmountChars.ReplaceAllString(input, "")
}

// ParseAmount turns user input such as "$1,250.5" into a positive amount
// with at most two decimals.
func ParseAmount(input string) (float64, error) {
	if strings.TrimSpace(input) == "" {
		return 0, common.NewValidationError("amount", "is required")
	}
	sanitized := SanitizeAmount(input)
	if sanitized == "" || sanitized == "." {
		return 0, common.NewValidationError("amount", "is not a number")
	}

	whole, frac, hasDot := strings.Cut(sanitized, ".")
	if hasDot && strings.Contains(frac, ".") {
		return 0, common.NewValidationError("amount", "has more than one decimal point")
	}
	if len(frac) > 2 {
		return 0, common.NewValidationError("amount", "has more than two decimals")
	}
	if whole == "" {
		sanitized = "0" + sanitized
	}

	amount, err := decimal.NewFromString(strings.TrimSuffix(sanitized, "."))
	if err != nil {
		return 0, common.NewValidationError("amount", "is not a number")
	}
	if !amount.IsPositive() {
		return 0, common.NewValidationError("amount", "must be greater than zero")
	}
	return amount.InexactFloat64(), nil
}

// FormatMoney renders an amount with two decimals and thousands separators,
// for example -$1,234.50.
func FormatMoney(amount float64) string {
	return formatMoney(decimal.NewFromFloat(amount), 2)
}

// FormatWholeMoney renders an amount rounded to whole units.
func FormatWholeMoney(amount float64) string {
	return formatMoney(decimal.NewFromFloat(amount), 0)
}

func formatMoney(d decimal.Decimal, places int32) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	fixed := d.StringFixed(places)
	whole, frac, _ := strings.Cut(fixed, ".")
	if whole == "0" && frac == strings.Repeat("0", len(frac)) {
		sign = ""
	}

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := sign + "$" + b.String()
	if frac != "" {
		out += "." + frac
	}
	return out
}
