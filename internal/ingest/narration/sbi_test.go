package narration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSBI(t *testing.T) {
	t.Run("UPI debit with app tag", func(t *testing.T) {
		got := ParseSBI("WDL TFR UPI/DR/931523643407/SHAIK YA/SBIN/skya smeen1/Paym... AT 04413 PBB NELLORE")

		assert.Equal(t, "SHAIK YA", got.Merchant)
		assert.Equal(t, TypeUPI, got.Type)
		assert.Equal(t, "UPI Transfer to SHAIK YA", got.CleanDescription)
		assert.Equal(t, "931523643407", got.Meta["utr"])
		assert.Equal(t, "SBIN", got.Meta["bank"])
		assert.Equal(t, "DR", got.Meta["mode"])
		assert.Equal(t, "Paym", got.Meta["app"])
	})

	t.Run("UPI credit", func(t *testing.T) {
		got := ParseSBI("DEP TFR UPI/CR/402914563812/RAVI KUMAR/HDFC/ravi.k@okhdfc")

		assert.Equal(t, "RAVI KUMAR", got.Merchant)
		assert.Equal(t, TypeUPI, got.Type)
		assert.Equal(t, "UPI Transfer from RAVI KUMAR", got.CleanDescription)
		assert.Equal(t, "CR", got.Meta["mode"])
	})

	t.Run("ATM cash withdrawal with location", func(t *testing.T) {
		got := ParseSBI("ATM WDL ATM CASH 1957 SP OFFICE DARGAMITTA, NELLORE")

		assert.Equal(t, "ATM Withdrawal", got.Merchant)
		assert.Equal(t, TypeATM, got.Type)
		assert.Equal(t, "ATM Cash Withdrawal at OFFICE DARGAMITTA, NELLORE", got.CleanDescription)
		assert.Equal(t, "1957 SP", got.Meta["atmId"])
		assert.Equal(t, "OFFICE DARGAMITTA, NELLORE", got.Meta["location"])
	})

	t.Run("POS purchase", func(t *testing.T) {
		got := ParseSBI("POS ATM PURCH OTHPG 3155010693 17Pho*PHONEPE RECHARGE BANGALORE")

		assert.Equal(t, TypePOS, got.Type)
		assert.Equal(t, "PHONEPE RECHARGE", got.Merchant)
		assert.Equal(t, "3155010693", got.Meta["ref"])
		assert.Equal(t, "OTHPG", got.Meta["gateway"])
		assert.Equal(t, "BANGALORE", got.Meta["location"])
	})

	t.Run("internet banking with branch suffix", func(t *testing.T) {
		got := ParseSBI("WDL TFR INB Amazon Seller Services Pv AT 04413 PBB NELLORE")

		assert.Equal(t, TypeINB, got.Type)
		assert.Equal(t, "Amazon Seller Services Pv", got.Merchant)
		assert.Equal(t, "Internet Banking Transfer to Amazon Seller Services Pv", got.CleanDescription)
	})

	t.Run("cash deposit self at branch", func(t *testing.T) {
		got := ParseSBI("CASH DEPOSIT SELF AT PBB NELLORE")

		assert.Equal(t, TypeCashDeposit, got.Type)
		assert.Equal(t, "Cash Deposit", got.Merchant)
		assert.Equal(t, "self", got.Meta["mode"])
		assert.Equal(t, "PBB NELLORE", got.Meta["branch"])
	})

	t.Run("cash deposit machine", func(t *testing.T) {
		got := ParseSBI("CEMTEX DEP 3301245098712")

		assert.Equal(t, TypeCashDeposit, got.Type)
		assert.Equal(t, "machine", got.Meta["mode"])
		assert.Equal(t, "3301245098712", got.Meta["ref"])
	})

	t.Run("NEFT structured", func(t *testing.T) {
		got := ParseSBI("NEFT/SBIN324067812345/ACME SUPPLIES/HDFC0000123")

		assert.Equal(t, TypeTransfer, got.Type)
		assert.Equal(t, "ACME SUPPLIES", got.Merchant)
		assert.Equal(t, "NEFT", got.Meta["channel"])
		assert.Equal(t, "SBIN324067812345", got.Meta["ref"])
	})

	t.Run("person transfer with location", func(t *testing.T) {
		got := ParseSBI("WDL TFR 0010604296427 OF Mr HASSAN MOHIDDIN AT 04413 PBB NELLORE")

		assert.Equal(t, TypeTransfer, got.Type)
		assert.Equal(t, "HASSAN MOHIDDIN", got.Merchant)
		assert.Equal(t, "Transfer to HASSAN MOHIDDIN", got.CleanDescription)
		assert.Equal(t, "04413 PBB NELLORE", got.Meta["location"])
	})

	t.Run("unknown passthrough", func(t *testing.T) {
		got := ParseSBI("SOME RANDOM STRING 123")

		assert.Equal(t, "Unknown", got.Merchant)
		assert.Equal(t, TypeUnknown, got.Type)
		assert.Equal(t, "SOME RANDOM STRING 123", got.CleanDescription)
	})
}
