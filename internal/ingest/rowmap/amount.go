package rowmap

import (
	"errors"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ErrUnparseableAmount is returned when stripping leaves nothing numeric.
var ErrUnparseableAmount = errors.New("unparseable amount")

var symbolCurrencies = map[rune]string{
	'₹': "INR",
	'$': "USD",
	'€': "EUR",
	'£': "GBP",
	'¥': "JPY",
}

// Alphabetic prefixes stripped from amounts; "INR 299.00" style.
var codePrefixes = []string{"INR", "USD", "EUR", "GBP", "RS.", "RS"}

// ParseAmount parses a statement amount string into a decimal, also
// reporting a currency code when a symbol or code prefix reveals one.
// Commas, whitespace and parentheses are stripped; parentheses do NOT
// negate, matching the upstream importers this feeds.
func ParseAmount(s string) (decimal.Decimal, string, error) {
	currency := ""
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if code, ok := symbolCurrencies[r]; ok {
			if currency == "" && validCurrency(code) {
				currency = code
			}
			continue
		}
		switch r {
		case ',', '(', ')', ' ', '\t', ' ':
			continue
		case '−': // unicode minus, some exports use it
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	for _, p := range codePrefixes {
		trimmed := strings.TrimPrefix(strings.ToUpper(cleaned), p)
		if len(trimmed) != len(cleaned) {
			if currency == "" && validCurrency(p) {
				currency = p
			}
			cleaned = cleaned[len(cleaned)-len(trimmed):]
			break
		}
	}

	if cleaned == "" {
		return decimal.Zero, currency, ErrUnparseableAmount
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, currency, ErrUnparseableAmount
	}
	return d, currency, nil
}

func validCurrency(code string) bool {
	return money.GetCurrency(code) != nil
}
