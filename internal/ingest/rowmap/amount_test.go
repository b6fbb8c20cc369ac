package rowmap

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in       string
		want     string
		currency string
	}{
		{"1234.56", "1234.56", ""},
		{"-120.00", "-120", ""},
		{"1,23,456.78", "123456.78", ""},
		{"INR 299.00", "299", "INR"},
		{"inr 299.00", "299", "INR"},
		{"₹1,500", "1500", "INR"},
		{"$42.50", "42.5", "USD"},
		{"(500.00)", "500", ""}, // parens stripped, not negated
		{"  50000 ", "50000", ""},
		{"−50", "-50", ""}, // unicode minus
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, cur, err := ParseAmount(tc.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s", got)
			assert.Equal(t, tc.currency, cur)
		})
	}

	t.Run("failures", func(t *testing.T) {
		for _, in := range []string{"", "   ", "abc", "INR", "--5"} {
			_, _, err := ParseAmount(in)
			assert.ErrorIs(t, err, ErrUnparseableAmount, "input %q", in)
		}
	})
}
