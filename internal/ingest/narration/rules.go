package narration

import (
	"regexp"
	"strings"
)

var (
	transferPattern      = regexp.MustCompile(`(?i)(UPI|IMPS|NEFT)[/-](?:(DR|CR)[/-])?(\d+)[/-]([^/]+)[/-]`)
	posPurchasePattern   = regexp.MustCompile(`(?i)POS\s+ATM\s+PURCH\s+(\w+)\s+(\d+)\s+(.+)`)
	depositRefundPattern = regexp.MustCompile(`(?i)DEP\s+TFR\s+VISA-IN-RMT:\d+([A-Za-z]+)`)
	atmMarkerPattern     = regexp.MustCompile(`(?i)ATM\s+WDL`)
	cashDepositPattern   = regexp.MustCompile(`(?i)CASH\s+DEPOSIT`)
	cemtexPattern        = regexp.MustCompile(`(?i)CEMTEX\s+DEP`)
	inbMarkerPattern     = regexp.MustCompile(`(?i)\bINB\b`)
	trailingJunk         = regexp.MustCompile(`[0-9._\-\s]+$`)
	leadingJunk          = regexp.MustCompile(`^[\d*]+`)
	trailingNumericID    = regexp.MustCompile(`\s+\d+$`)
	branchSuffix         = regexp.MustCompile(`(?i)\s+AT\s+\d+.*$`)
	digitRun             = regexp.MustCompile(`\d+`)
	nonAlpha             = regexp.MustCompile(`[^A-Za-z\s]`)
	emailLike            = regexp.MustCompile(`^[a-z0-9._]+@[a-z]+$`)
	channelToken         = regexp.MustCompile(`(?i)\b(UPI|NEFT|IMPS|RTGS|POS|ATM|WDL|TFR|DEP|INB|PURCH|PURCHASE|OTHPG|SBIPG|DBTPG|CEMTEX|DR|CR|MB|IB|ME)\b`)
	inbStripTokens       = regexp.MustCompile(`(?i)\b(INB|WDL|TFR)\b`)
)

// Tokens that mark a slash segment as noise rather than a merchant name.
var noiseTokens = map[string]struct{}{
	"upi": {}, "neft": {}, "imps": {}, "rtgs": {}, "pos": {}, "atm": {},
	"wdl": {}, "tfr": {}, "dep": {}, "inb": {}, "dr": {}, "cr": {},
	"sbin": {}, "hdfc": {}, "icic": {}, "utib": {}, "kkbk": {}, "ybl": {},
	"okaxis": {}, "oksbi": {}, "okhdfcbank": {}, "okicici": {}, "paytm": {},
	"payment": {}, "paym": {},
}

// Rule 1: curated alias scan over the whole lowercased narration.
func (r *Resolver) knownMerchantRule(raw string) *Result {
	name, ok := r.merchants.Lookup(raw)
	if !ok {
		return nil
	}
	return &Result{Merchant: name, CleanDescription: name}
}

// Rule 2: UPI/IMPS/NEFT structured narration. The name segment sits between
// the numeric reference and the next delimiter.
func (r *Resolver) transferPatternRule(raw string) *Result {
	m := transferPattern.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	name := trailingJunk.ReplaceAllString(strings.TrimSpace(m[4]), "")
	if name == "" {
		return nil
	}
	if known, ok := r.merchants.LookupLoose(name); ok {
		name = known
	} else {
		name = titleCase(name)
	}
	return &Result{Merchant: name, CleanDescription: name}
}

// Rule 3: POS card purchase. Merchant token follows the gateway and numeric
// reference; strip leading digits and asterisk prefixes and any trailing
// numeric terminal id.
func (r *Resolver) posPurchaseRule(raw string) *Result {
	m := posPurchasePattern.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	merchant := strings.TrimSpace(m[3])
	merchant = leadingJunk.ReplaceAllString(merchant, "")
	if i := strings.IndexByte(merchant, '*'); i >= 0 {
		merchant = merchant[i+1:]
	}
	merchant = trailingNumericID.ReplaceAllString(strings.TrimSpace(merchant), "")
	if merchant == "" {
		return nil
	}
	if known, ok := r.merchants.LookupLoose(merchant); ok {
		merchant = known
	} else {
		merchant = titleCase(merchant)
	}
	return &Result{Merchant: merchant, CleanDescription: merchant, Type: TypePOS}
}

// Rule 4: inbound card remittance refund.
func (r *Resolver) depositRefundRule(raw string) *Result {
	m := depositRefundPattern.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	merchant := titleCase(m[1])
	return &Result{Merchant: merchant, CleanDescription: merchant + " Refund"}
}

// Rule 5: bare ATM withdrawal marker.
func (r *Resolver) atmWithdrawalRule(raw string) *Result {
	if !atmMarkerPattern.MatchString(raw) {
		return nil
	}
	return &Result{Merchant: "ATM Withdrawal", CleanDescription: "ATM Withdrawal", Type: TypeATM}
}

// Rule 6: cash deposit markers.
func (r *Resolver) cashDepositRule(raw string) *Result {
	if cashDepositPattern.MatchString(raw) {
		return &Result{Merchant: "Cash Deposit", CleanDescription: "Cash Deposit", Type: TypeCashDeposit}
	}
	if !cemtexPattern.MatchString(raw) {
		return nil
	}
	rest := cemtexPattern.ReplaceAllString(raw, "")
	rest = strings.TrimSpace(digitRun.ReplaceAllString(rest, " "))
	if known, ok := r.merchants.LookupLoose(rest); ok {
		return &Result{Merchant: known, CleanDescription: known, Type: TypeCashDeposit}
	}
	return &Result{Merchant: "Cash Deposit", CleanDescription: "Cash Deposit", Type: TypeCashDeposit}
}

// Rule 7: internet banking. Strip the channel tokens and any trailing
// branch suffix, then see what name is left.
func (r *Resolver) internetBankingRule(raw string) *Result {
	if !inbMarkerPattern.MatchString(raw) {
		return nil
	}
	rest := inbStripTokens.ReplaceAllString(raw, "")
	rest = branchSuffix.ReplaceAllString(rest, "")
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return &Result{Merchant: "Unknown", CleanDescription: "Internet Banking Transfer", Type: TypeINB}
	}
	if known, ok := r.merchants.LookupLoose(rest); ok {
		return &Result{Merchant: known, CleanDescription: known, Type: TypeINB}
	}
	name := titleCase(rest)
	return &Result{Merchant: name, CleanDescription: name, Type: TypeINB}
}

// Rule 8: slash-delimited narration. Split, discard noise segments, keep
// the first one that still looks like a name.
func (r *Resolver) slashSplitRule(raw string) *Result {
	if !strings.ContainsAny(raw, "/|>") {
		return nil
	}
	segments := strings.FieldsFunc(raw, func(c rune) bool {
		return c == '/' || c == '|' || c == '>'
	})
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if len(seg) < 3 {
			continue
		}
		low := strings.ToLower(seg)
		if _, noisy := noiseTokens[low]; noisy {
			continue
		}
		if emailLike.MatchString(low) {
			continue
		}
		stripped := channelToken.ReplaceAllString(seg, "")
		stripped = digitRun.ReplaceAllString(stripped, "")
		residue := strings.Join(strings.Fields(stripped), " ")
		if residue == "" {
			continue
		}
		// Short alpha residue next to digits is a reference code, not a name.
		if len(residue) <= 4 && digitRun.MatchString(seg) {
			continue
		}
		name := titleCase(strings.TrimSpace(nonAlpha.ReplaceAllString(seg, " ")))
		if name == "" {
			continue
		}
		return &Result{Merchant: name, CleanDescription: name}
	}
	return nil
}

// Rule 9: aggressive cleanup, always succeeds.
func (r *Resolver) cleanupFallbackRule(raw string) *Result {
	text := channelToken.ReplaceAllString(raw, " ")
	text = digitRun.ReplaceAllString(text, " ")
	text = nonAlpha.ReplaceAllString(text, " ")
	text = strings.Join(strings.Fields(text), " ")

	switch {
	case text == "":
		return &Result{Merchant: "Unknown", CleanDescription: "Imported transaction"}
	case len(text) > 64:
		return &Result{Merchant: "Unknown", CleanDescription: titleCase(text[:61]) + "..."}
	default:
		name := titleCase(text)
		return &Result{Merchant: name, CleanDescription: name}
	}
}
