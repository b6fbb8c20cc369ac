package classify

import (
	"context"
	"regexp"
	"strings"
	"sync"
)

// categoryKeywords maps each category to the tokens that imply it. Category
// order matters: earlier categories win when keywords from several match.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"Food & Dining", []string{
		"swiggy", "zomato", "food", "restaurant", "cafe", "pizza", "burger",
		"mcdonalds", "kfc", "dominos", "subway", "starbucks",
	}},
	{"Transportation", []string{
		"uber", "ola", "rapido", "fuel", "petrol", "diesel", "transport",
		"irctc", "railway", "metro",
	}},
	{"Shopping", []string{
		"amazon", "flipkart", "myntra", "ajio", "shopping", "retail", "mall",
		"store",
	}},
	{"Groceries", []string{
		"blinkit", "zepto", "bigbasket", "grofers", "grocery", "supermarket",
		"dmart", "reliance fresh",
	}},
	{"Entertainment", []string{
		"netflix", "spotify", "youtube", "prime", "hotstar", "movie",
		"entertainment", "disney",
	}},
	{"Utilities", []string{
		"electricity", "water", "gas", "bill", "recharge", "jio", "airtel",
		"vodafone", "utility",
	}},
	{"Health & Wellness", []string{
		"pharmacy", "medical", "health", "hospital", "clinic", "apollo",
	}},
	{"Financial", []string{
		"emi", "loan", "insurance", "investment", "mutual fund", "sip",
	}},
	{"Cash", []string{"atm", "cash", "withdrawal"}},
	{"Transfer", []string{"upi", "neft", "imps", "rtgs", "transfer"}},
}

// KeywordClassifier is the deterministic local fallback. Keywords of four
// characters or fewer match on word boundaries only, so "sip" cannot fire
// inside "dissipate"; longer keywords match as substrings.
type KeywordClassifier struct {
	once       sync.Once
	boundaries map[string]*regexp.Regexp
}

// NewKeywordClassifier returns the table-driven matcher.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

func (k *KeywordClassifier) compile() {
	k.boundaries = make(map[string]*regexp.Regexp)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if len(kw) <= 4 {
				k.boundaries[kw] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
			}
		}
	}
}

// Classify never fails; descriptions with no keyword hit are simply absent
// from the result.
func (k *KeywordClassifier) Classify(_ context.Context, descriptions []string) (map[string]string, error) {
	k.once.Do(k.compile)

	out := make(map[string]string, len(descriptions))
	for _, d := range descriptions {
		if cat, ok := k.match(strings.ToLower(d)); ok {
			out[d] = cat
		}
	}
	return out, nil
}

// MatchText classifies free text, typically description plus merchant.
func (k *KeywordClassifier) MatchText(text string) (string, bool) {
	k.once.Do(k.compile)
	return k.match(strings.ToLower(text))
}

func (k *KeywordClassifier) match(lower string) (string, bool) {
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if re, short := k.boundaries[kw]; short {
				if re.MatchString(lower) {
					return c.category, true
				}
			} else if strings.Contains(lower, kw) {
				return c.category, true
			}
		}
	}
	return "", false
}
