package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rupeehub/ledgerline/internal/ingest/detector"
)

func TestDelimitedRows(t *testing.T) {
	t.Run("comma separated", func(t *testing.T) {
		data := []byte("Date,Description,Amount\n15/02/2024,Coffee,-120.00\n16/02/2024,Salary,50000\n")

		rows, err := Rows(detector.KindCSV, data)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Coffee", rows[0]["Description"])
		assert.Equal(t, "-120.00", rows[0]["Amount"])
	})

	t.Run("tab separated", func(t *testing.T) {
		data := []byte("Date\tNarration\tWithdrawal\tDeposit\n15/02/2024\tUPI/DR/12/X\t100\t\n")

		rows, err := Rows(detector.KindCSV, data)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "UPI/DR/12/X", rows[0]["Narration"])
	})

	t.Run("pipe separated", func(t *testing.T) {
		data := []byte("date|details|amount\n1/1/24|Chai|−50\n")

		rows, err := Rows(detector.KindText, data)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Chai", rows[0]["details"])
	})

	t.Run("semicolon separated", func(t *testing.T) {
		data := []byte("date;description;amount\n15/02/2024;Lidl;-4,50\n")

		rows, err := Rows(detector.KindCSV, data)
		require.NoError(t, err)
		require.Len(t, rows, 1)
	})

	t.Run("delimiter with most fields wins", func(t *testing.T) {
		// One comma but three semicolons.
		data := []byte("date;desc, extra;amount;balance\n1/1/24;a, b;5;10\n")

		rows, err := Rows(detector.KindCSV, data)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "a, b", rows[0]["desc, extra"])
	})

	t.Run("space-run text falls back to columns", func(t *testing.T) {
		data := []byte("Date          Description        Amount\n15/02/2024    ATM WDL CASH       -500\n")

		rows, err := Rows(detector.KindText, data)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "ATM WDL CASH", rows[0]["Description"])
	})

	t.Run("blank lines are skipped", func(t *testing.T) {
		data := []byte("date,amount\n\n1/1/24,5\n\n\n2/1/24,6\n")

		rows, err := Rows(detector.KindCSV, data)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("empty file yields no rows and no error", func(t *testing.T) {
		rows, err := Rows(detector.KindCSV, nil)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("BOM stripped from header", func(t *testing.T) {
		data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("date,amount\n1/1/24,5\n")...)

		rows, err := Rows(detector.KindCSV, data)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "5", rows[0]["amount"])
	})
}

func TestJSONRows(t *testing.T) {
	t.Run("top-level array", func(t *testing.T) {
		rows, err := Rows(detector.KindJSON, []byte(`[{"date":"2024-01-01","amount":-42.5},{"date":"2024-01-02","amount":10}]`))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, -42.5, rows[0]["amount"])
	})

	t.Run("wrapped transactions array", func(t *testing.T) {
		rows, err := Rows(detector.KindJSON, []byte(`{"transactions":[{"date":"2024-01-01"}],"count":1}`))
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("non-object entries dropped silently", func(t *testing.T) {
		rows, err := Rows(detector.KindJSON, []byte(`[{"date":"2024-01-01"},"junk",42,null]`))
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("malformed JSON is a format error", func(t *testing.T) {
		_, err := Rows(detector.KindJSON, []byte(`{"transactions": [`))
		assert.ErrorIs(t, err, ErrMalformedJSON)
	})

	t.Run("array of scalars is rejected", func(t *testing.T) {
		_, err := Rows(detector.KindJSON, []byte(`[1,2,3]`))
		assert.ErrorIs(t, err, ErrNoObjects)
	})

	t.Run("object without transactions field is rejected", func(t *testing.T) {
		_, err := Rows(detector.KindJSON, []byte(`{"rows":[]}`))
		assert.ErrorIs(t, err, ErrNoObjects)
	})
}

func TestUnsupportedKind(t *testing.T) {
	_, err := Rows(detector.KindUnknown, []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}
