package narration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolverCascade(t *testing.T) {
	r := NewResolver()

	t.Run("known merchant wins over everything", func(t *testing.T) {
		got := r.Resolve("POS 402913 SWIGGY INSTAMART BANGALORE IN")

		assert.Equal(t, "Swiggy Instamart", got.Merchant)
	})

	t.Run("structured transfer name extracted and title cased", func(t *testing.T) {
		got := r.Resolve("IMPS-503214567890-RAMESH TRADERS-HDFC")

		assert.Equal(t, "Ramesh Traders", got.Merchant)
	})

	t.Run("transfer name re-checked against merchant table", func(t *testing.T) {
		got := r.Resolve("UPI-918273645509-zomato ltd-ICIC")

		assert.Equal(t, "Zomato", got.Merchant)
	})

	t.Run("deposit refund", func(t *testing.T) {
		got := r.Resolve("DEP TFR VISA-IN-RMT:882140MYNTRA")

		assert.Equal(t, "Myntra", got.Merchant)
	})

	t.Run("atm marker", func(t *testing.T) {
		got := r.Resolve("ATM WDL 558812 UNKNOWN SITE")

		assert.Equal(t, "ATM Withdrawal", got.Merchant)
		assert.Equal(t, TypeATM, got.Type)
	})

	t.Run("cash deposit marker", func(t *testing.T) {
		got := r.Resolve("CASH DEPOSIT 99213 BRANCH")

		assert.Equal(t, "Cash Deposit", got.Merchant)
		assert.Equal(t, TypeCashDeposit, got.Type)
	})

	t.Run("slash split keeps first meaningful segment", func(t *testing.T) {
		got := r.Resolve("REF9912|TFR|Corner Bakery|919912345678")

		assert.Equal(t, "Corner Bakery", got.Merchant)
	})

	t.Run("cleanup fallback strips codes and digits", func(t *testing.T) {
		got := r.Resolve("WDL 084121 LOCAL VEG MART 42")

		assert.Equal(t, "Local Veg Mart", got.Merchant)
	})

	t.Run("cleanup fallback truncates long residue", func(t *testing.T) {
		got := r.Resolve(strings.Repeat("VERYLONGNAME ", 8))

		assert.True(t, strings.HasSuffix(got.CleanDescription, "..."))
		assert.LessOrEqual(t, len(got.CleanDescription), 64)
	})

	t.Run("empty narration", func(t *testing.T) {
		got := r.Resolve("   ")

		assert.Equal(t, "Unknown", got.Merchant)
		assert.Equal(t, "Imported transaction", got.CleanDescription)
	})

	t.Run("bank parser result is authoritative", func(t *testing.T) {
		got := r.Resolve("WDL TFR UPI/DR/931523643407/SHAIK YA/SBIN/skya smeen1/Paym")

		assert.Equal(t, TypeUPI, got.Type)
		assert.Equal(t, "SHAIK YA", got.Merchant)
	})
}

func TestMerchantTable(t *testing.T) {
	table := NewMerchantTable(defaultMerchants)

	t.Run("priority follows entry order", func(t *testing.T) {
		name, ok := table.Lookup("payment to swiggy instamart bangalore")
		assert.True(t, ok)
		assert.Equal(t, "Swiggy Instamart", name)
	})

	t.Run("plain alias", func(t *testing.T) {
		name, ok := table.Lookup("NETFLIX.COM SUBSCRIPTION")
		assert.True(t, ok)
		assert.Equal(t, "Netflix", name)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := table.Lookup("corner tea stall")
		assert.False(t, ok)
	})

	t.Run("loose lookup tolerates one edit", func(t *testing.T) {
		name, ok := table.LookupLoose("flipkar")
		assert.True(t, ok)
		assert.Equal(t, "Flipkart", name)
	})
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Ramesh Traders", titleCase("RAMESH TRADERS"))
	assert.Equal(t, "Corner Bakery", titleCase("corner bakery"))
	assert.Equal(t, "", titleCase("  "))
}
