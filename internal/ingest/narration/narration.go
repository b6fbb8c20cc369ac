// Package narration resolves noisy bank statement narration text into a
// readable description, a merchant name, a channel type tag and structured
// metadata. A bank-specific parser runs first; when it recognizes the
// narration its output is authoritative. Otherwise an ordered cascade of
// generic pattern rules takes over, first match wins.
package narration

import "strings"

// Channel type tags carried on a resolved narration.
const (
	TypeUPI         = "upi"
	TypePOS         = "pos"
	TypeATM         = "atm"
	TypeINB         = "inb"
	TypeCashDeposit = "cash_deposit"
	TypeTransfer    = "transfer"
	TypeUnknown     = "unknown"
)

// Result is the resolved form of one narration line. Meta holds
// parser-specific fields such as utr, bank, mode, app, ref, location,
// gateway, atmId and branch. Immutable once returned.
type Result struct {
	Merchant         string
	CleanDescription string
	Type             string
	Meta             map[string]string
}

// Rule is one generic cascade step. It returns nil when the narration does
// not match its pattern, letting the resolver move on to the next rule.
type Rule func(raw string) *Result

// Resolver runs the bank-specific parser and the generic rule cascade.
type Resolver struct {
	merchants *MerchantTable
	rules     []Rule
}

// NewResolver builds a resolver with the default merchant table and the
// full rule cascade in priority order.
func NewResolver() *Resolver {
	table := NewMerchantTable(defaultMerchants)
	r := &Resolver{merchants: table}
	r.rules = []Rule{
		r.knownMerchantRule,
		r.transferPatternRule,
		r.posPurchaseRule,
		r.depositRefundRule,
		r.atmWithdrawalRule,
		r.cashDepositRule,
		r.internetBankingRule,
		r.slashSplitRule,
		r.cleanupFallbackRule,
	}
	return r
}

// Resolve parses one narration line. The bank-specific parser wins when it
// recognizes the text; the generic cascade always produces something, so the
// result is never nil.
func (r *Resolver) Resolve(raw string) Result {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Result{Merchant: "Unknown", CleanDescription: "Imported transaction", Type: TypeUnknown}
	}

	if res := ParseSBI(raw); res.Type != TypeUnknown {
		return res
	}

	for _, rule := range r.rules {
		if res := rule(raw); res != nil {
			if res.Merchant == "" {
				res.Merchant = "Unknown"
			}
			if res.Type == "" {
				res.Type = TypeUnknown
			}
			return *res
		}
	}

	// cleanupFallbackRule always matches; unreachable in practice.
	return Result{Merchant: "Unknown", CleanDescription: raw, Type: TypeUnknown}
}

// titleCase uppercases the first letter of each space-separated word and
// lowercases the rest. strings.Title is deprecated and case-folds runes we
// never see in narration text, so a simple ASCII version is enough.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if w[0] >= 'a' && w[0] <= 'z' {
			words[i] = string(w[0]-32) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
