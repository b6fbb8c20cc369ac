package narration

import (
	"regexp"
	"strings"
)

// SBI statement narration patterns. SBI packs the channel, a reference and
// the counterparty into one slash or space delimited line; each state below
// recognizes one layout.
var (
	sbiUPIPattern      = regexp.MustCompile(`UPI/([A-Z]+)/(\d+)/([^/]+)/([^/]+)/([^/]+)`)
	sbiPOSRefPattern   = regexp.MustCompile(`\b(\d{10,})\b`)
	sbiPOSGateway      = regexp.MustCompile(`\b(OTHPG|SBIPG|DBTPG)\b`)
	sbiPOSStrip        = regexp.MustCompile(`\b(POS|ATM|PURCH|OTHPG|SBIPG|DBTPG)\b`)
	sbiATMStrip        = regexp.MustCompile(`ATM WDL|ATM CASH`)
	sbiATMIDPattern    = regexp.MustCompile(`^(\d+\s*[A-Z]*)`)
	sbiINBStrip        = regexp.MustCompile(`\b(WDL|TFR|INB)\b`)
	sbiBranchTail      = regexp.MustCompile(`\bAT \d+.*`)
	sbiNEFTPattern     = regexp.MustCompile(`(?:NEFT|RTGS)/([^/]+)/([^/]+)/([^/]+)`)
	sbiCashLocPattern  = regexp.MustCompile(`AT (.*)`)
	sbiPersonPattern   = regexp.MustCompile(`(?:OF|of)\s+(?:Mr|Mrs|Ms|Miss|MR|MRS|MS)?\s*\.?\s*([A-Z][A-Z\s]+)`)
	sbiPersonTailNoise = regexp.MustCompile(`\s+(?:MO|AT|M)\s*$`)
	sbiPlacePattern    = regexp.MustCompile(`\bAT\s+(\d{4,}\s+.*)`)
	sbiMerchantPrefix1 = regexp.MustCompile(`^\d+[^*]*\*`)
	sbiMerchantPrefix2 = regexp.MustCompile(`^\d+`)
	sbiMerchantPrefix3 = regexp.MustCompile(`^[A-Za-z0-9]+[*_]`)
	trailingNonAlnum   = regexp.MustCompile(`[^A-Za-z0-9]+$`)
)

// ParseSBI parses one SBI narration line. Unrecognized narrations come back
// with type "unknown", merchant "Unknown" and the raw text untouched as the
// description, so callers can fall through to the generic cascade.
func ParseSBI(text string) Result {
	text = strings.TrimSpace(text)

	if res, ok := parseSBIUPI(text); ok {
		return res
	}
	if res, ok := parseSBIPOS(text); ok {
		return res
	}
	if res, ok := parseSBIATM(text); ok {
		return res
	}
	if res, ok := parseSBIINB(text); ok {
		return res
	}
	if res, ok := parseSBICash(text); ok {
		return res
	}
	if res, ok := parseSBINEFT(text); ok {
		return res
	}
	if res, ok := parseSBITransfer(text); ok {
		return res
	}

	return Result{Merchant: "Unknown", CleanDescription: text, Type: TypeUnknown}
}

// WDL TFR UPI/DR/931523643407/SHAIK YA/SBIN/skya smeen1/Paym... AT 04413 PBB NELLORE
func parseSBIUPI(text string) (Result, bool) {
	m := sbiUPIPattern.FindStringSubmatch(text)
	if m == nil {
		return Result{}, false
	}
	mode := m[1]
	merchant := strings.TrimSpace(m[3])
	meta := map[string]string{
		"utr":  m[2],
		"bank": strings.TrimSpace(m[4]),
		"mode": mode,
	}
	if parts := strings.Split(text, "/"); len(parts) > 6 {
		app := strings.Fields(parts[len(parts)-1])[0]
		meta["app"] = trailingNonAlnum.ReplaceAllString(app, "")
	}

	desc := "UPI Transfer to " + merchant
	if mode == "CR" {
		desc = "UPI Transfer from " + merchant
	}
	return Result{Merchant: merchant, CleanDescription: desc, Type: TypeUPI, Meta: meta}, true
}

// POS ATM PURCH OTHPG 3155010693 17Pho*PHONEPE RECHARGE BANGALORE
func parseSBIPOS(text string) (Result, bool) {
	if !strings.Contains(text, "POS") || !strings.Contains(text, "PURCH") {
		return Result{}, false
	}
	meta := map[string]string{}
	if g := sbiPOSGateway.FindString(text); g != "" {
		meta["gateway"] = g
	}
	if ref := sbiPOSRefPattern.FindString(text); ref != "" {
		meta["ref"] = ref
	}

	clean := sbiPOSStrip.ReplaceAllString(text, "")
	if meta["ref"] != "" {
		clean = strings.Replace(clean, meta["ref"], "", 1)
	}

	words := strings.Fields(clean)
	if len(words) == 0 {
		return Result{Merchant: "Unknown", CleanDescription: "Card Purchase", Type: TypePOS, Meta: meta}, true
	}

	meta["location"] = words[len(words)-1]
	merchant := strings.Join(words[:len(words)-1], " ")
	merchant = sbiMerchantPrefix1.ReplaceAllString(merchant, "")
	merchant = sbiMerchantPrefix2.ReplaceAllString(merchant, "")
	merchant = sbiMerchantPrefix3.ReplaceAllString(merchant, "")
	merchant = strings.TrimSpace(merchant)
	if merchant == "" {
		merchant = meta["location"]
		delete(meta, "location")
	}

	desc := "Card Purchase at " + merchant
	return Result{Merchant: merchant, CleanDescription: desc, Type: TypePOS, Meta: meta}, true
}

// ATM WDL ATM CASH 1957 SP OFFICE DARGAMITTA, NELLORE
func parseSBIATM(text string) (Result, bool) {
	if !strings.Contains(text, "ATM WDL") {
		return Result{}, false
	}
	clean := strings.TrimSpace(sbiATMStrip.ReplaceAllString(text, ""))

	meta := map[string]string{}
	location := clean
	if id := sbiATMIDPattern.FindString(clean); id != "" {
		meta["atmId"] = strings.TrimSpace(id)
		location = strings.TrimSpace(strings.Replace(clean, id, "", 1))
	}

	desc := "ATM Cash Withdrawal"
	if location != "" {
		meta["location"] = location
		desc = "ATM Cash Withdrawal at " + location
	}
	return Result{Merchant: "ATM Withdrawal", CleanDescription: desc, Type: TypeATM, Meta: meta}, true
}

// WDL TFR INB Amazon Seller Services Pv... [FOR purpose] [AT branch]
func parseSBIINB(text string) (Result, bool) {
	if !strings.Contains(text, "INB") {
		return Result{}, false
	}
	clean := strings.TrimSpace(sbiINBStrip.ReplaceAllString(text, ""))
	clean = strings.TrimSpace(sbiBranchTail.ReplaceAllString(clean, ""))

	meta := map[string]string{}
	if i := strings.Index(strings.ToUpper(clean), " FOR "); i >= 0 {
		meta["purpose"] = strings.TrimSpace(clean[i+5:])
		clean = strings.TrimSpace(clean[:i])
	}

	merchant := clean
	desc := "Internet Banking Transfer"
	if merchant != "" {
		desc = "Internet Banking Transfer to " + merchant
	} else {
		merchant = "Unknown"
	}
	if p := meta["purpose"]; p != "" {
		desc += " for " + p
	}
	return Result{Merchant: merchant, CleanDescription: desc, Type: TypeINB, Meta: meta}, true
}

// CASH DEPOSIT SELF AT <branch> / CEMTEX DEP <machine ref>
func parseSBICash(text string) (Result, bool) {
	isDeposit := strings.Contains(text, "CASH DEPOSIT")
	isCemtex := strings.Contains(text, "CEMTEX")
	if !isDeposit && !isCemtex {
		return Result{}, false
	}

	meta := map[string]string{}
	desc := "Cash Deposit"
	if isDeposit {
		meta["mode"] = "self"
		if m := sbiCashLocPattern.FindStringSubmatch(text); m != nil {
			meta["branch"] = strings.TrimSpace(m[1])
			desc = "Cash Deposit at " + meta["branch"]
		}
	} else {
		meta["mode"] = "machine"
		if ref := sbiPOSRefPattern.FindString(text); ref != "" {
			meta["ref"] = ref
		}
	}
	return Result{Merchant: "Cash Deposit", CleanDescription: desc, Type: TypeCashDeposit, Meta: meta}, true
}

// NEFT/ref/name/bank or RTGS/ref/name/bank
func parseSBINEFT(text string) (Result, bool) {
	m := sbiNEFTPattern.FindStringSubmatch(text)
	if m == nil {
		return Result{}, false
	}
	channel := "NEFT"
	if strings.Contains(text, "RTGS") {
		channel = "RTGS"
	}
	merchant := strings.TrimSpace(m[2])
	meta := map[string]string{
		"channel": channel,
		"ref":     strings.TrimSpace(m[1]),
		"bank":    strings.TrimSpace(m[3]),
	}
	desc := channel + " Transfer to " + merchant
	if strings.Contains(text, "DEP") || strings.Contains(text, "CR") {
		desc = channel + " Transfer from " + merchant
	}
	return Result{Merchant: merchant, CleanDescription: desc, Type: TypeTransfer, Meta: meta}, true
}

// DEP TFR ... OF Mr MEERA MOHIDDIN MO / WDL TFR 0010604296427 OF Mr HASSAN MOHIDDIN AT 04413 PBB NELLORE
func parseSBITransfer(text string) (Result, bool) {
	if !strings.Contains(text, "TFR") || strings.Contains(text, "UPI") || strings.Contains(text, "INB") {
		return Result{}, false
	}

	m := sbiPersonPattern.FindStringSubmatch(text)
	if m == nil {
		// No counterparty name; let the generic cascade clean it up.
		return Result{}, false
	}
	merchant := strings.TrimSpace(sbiPersonTailNoise.ReplaceAllString(strings.TrimSpace(m[1]), ""))
	if merchant == "" {
		return Result{}, false
	}

	meta := map[string]string{}
	if loc := sbiPlacePattern.FindStringSubmatch(text); loc != nil {
		meta["location"] = strings.TrimSpace(loc[1])
	}

	desc := "Transfer to " + merchant
	if strings.Contains(text, "DEP") {
		desc = "Transfer from " + merchant
	}
	return Result{Merchant: merchant, CleanDescription: desc, Type: TypeTransfer, Meta: meta}, true
}
