// Package rowmap shapes raw extracted rows into typed mapped rows: canonical
// date, signed decimal amount, description, merchant and payment method.
// Column matching is case and punctuation insensitive, so "Transaction Date",
// "transaction_date" and "TxnDate" all resolve to the same field.
package rowmap

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rupeehub/ledgerline/internal/ingest/extractor"
)

// MappedRow is one normalized source record. Amount is signed: negative for
// money out, positive for money in.
type MappedRow struct {
	Date          time.Time
	Amount        decimal.Decimal
	Currency      string
	Description   string
	Merchant      string
	PaymentMethod string
	Status        string
	Raw           extractor.RawRow
}

// Alias candidates per canonical field, in priority order. The first alias
// present in the row wins for its field.
var (
	dateAliases = []string{
		"date", "transactiondate", "txndate", "valuedate", "postingdate",
		"transdate", "time", "timestamp",
	}
	descriptionAliases = []string{
		"description", "desc", "originaldescription", "particulars",
		"narration", "details", "transactiondetails", "remarks", "memo",
		"notes",
	}
	merchantAliases = []string{
		"merchant", "merchantname", "payee", "product", "merchantcategory",
		"seller", "vendor",
	}
	amountAliases = []string{
		"amount", "transactionamount", "txnamount", "amountinr", "value",
		"amt",
	}
	debitAliases = []string{
		"debit", "debitamount", "withdrawal", "withdrawalamt", "dr",
		"dramount", "outflow",
	}
	creditAliases = []string{
		"credit", "creditamount", "deposit", "depositamt", "cr", "cramount",
		"inflow",
	}
	statusAliases = []string{"status", "state", "transactionstatus"}
	methodAliases = []string{
		"paymentmethod", "mode", "paymentmode", "paymenttype", "method",
	}
)

// canonicalKey lowercases a header and strips every non-alphanumeric rune.
func canonicalKey(header string) string {
	var b strings.Builder
	b.Grow(len(header))
	for _, r := range strings.ToLower(header) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// lookup indexes a raw row by canonical key. First header wins on collision.
type lookup map[string]string

func newLookup(row extractor.RawRow) lookup {
	l := make(lookup, len(row))
	for k, v := range row {
		ck := canonicalKey(k)
		if ck == "" {
			continue
		}
		if _, dup := l[ck]; dup {
			continue
		}
		l[ck] = stringify(v)
	}
	return l
}

func (l lookup) first(aliases []string) (string, bool) {
	for _, a := range aliases {
		if v, ok := l[a]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	case float64:
		return decimal.NewFromFloat(t).String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(t)
	}
}

// Map resolves one raw row into a MappedRow. A row without a parseable date
// returns (nil, false): the caller drops it but counts the drop.
func Map(row extractor.RawRow, defaultCurrency string) (*MappedRow, bool) {
	l := newLookup(row)

	dateStr, ok := l.first(dateAliases)
	if !ok {
		return nil, false
	}
	date, err := ParseDate(dateStr)
	if err != nil {
		return nil, false
	}

	m := &MappedRow{
		Date:     date,
		Currency: defaultCurrency,
		Raw:      row,
	}

	if v, ok := l.first(descriptionAliases); ok {
		m.Description = v
	}
	if v, ok := l.first(merchantAliases); ok {
		m.Merchant = v
	}
	if v, ok := l.first(methodAliases); ok {
		m.PaymentMethod = v
	}
	if v, ok := l.first(statusAliases); ok {
		m.Status = v
	}

	m.Amount = resolveAmount(l, m)
	return m, true
}

// resolveAmount prefers split withdrawal/deposit columns over a direct
// amount field: statements that carry both tend to put running balances or
// stale figures in "amount".
func resolveAmount(l lookup, m *MappedRow) decimal.Decimal {
	debit := parseOptionalAmount(l, debitAliases, m)
	credit := parseOptionalAmount(l, creditAliases, m)

	if !debit.IsZero() || !credit.IsZero() {
		return credit.Sub(debit)
	}

	if raw, ok := l.first(amountAliases); ok {
		amt, cur, err := ParseAmount(raw)
		if err == nil {
			if cur != "" {
				m.Currency = cur
			}
			return amt
		}
	}
	return decimal.Zero
}

func parseOptionalAmount(l lookup, aliases []string, m *MappedRow) decimal.Decimal {
	raw, ok := l.first(aliases)
	if !ok {
		return decimal.Zero
	}
	amt, cur, err := ParseAmount(raw)
	if err != nil {
		return decimal.Zero
	}
	if cur != "" {
		m.Currency = cur
	}
	return amt.Abs()
}

// ApplyStatusSigns fixes the sign convention of expense-style exports such as
// Google Pay, where every amount is positive and a status column says what
// happened. Cancelled rows zero out, refunded rows stay positive, everything
// else is an expense and goes negative. The pass only runs when every
// non-zero amount in the batch is positive.
func ApplyStatusSigns(rows []*MappedRow) {
	sawStatus := false
	for _, r := range rows {
		if r.Status != "" {
			sawStatus = true
		}
		if r.Amount.IsNegative() {
			return
		}
	}
	if !sawStatus {
		return
	}
	for _, r := range rows {
		switch strings.ToLower(strings.TrimSpace(r.Status)) {
		case "cancelled":
			r.Amount = decimal.Zero
		case "refunded":
			// money came back, keep positive
		default:
			r.Amount = r.Amount.Abs().Neg()
		}
	}
}
