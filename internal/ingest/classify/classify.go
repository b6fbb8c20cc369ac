// Package classify assigns spending categories to transaction descriptions.
// A remote batch classifier does the real work; a deterministic keyword
// matcher stands in whenever the remote call fails, so classification can
// never fail an import.
package classify

import (
	"context"
	"regexp"
)

// Uncategorized is the category carried by rows nothing could classify.
const Uncategorized = "Uncategorized"

// Classifier maps distinct description strings to category names. A missing
// key in the result means no confident prediction for that description.
type Classifier interface {
	Classify(ctx context.Context, descriptions []string) (map[string]string, error)
}

// Placeholder substitutions applied when grouping near-duplicate
// descriptions, most specific first.
var groupingPatterns = []struct {
	re          *regexp.Regexp
	placeholder string
}{
	{regexp.MustCompile(`(?i)\border\s*#?\d+\b`), "ORDER"},
	{regexp.MustCompile(`(?i)\b(txn|ref|utr)[:\s]*\d+\b`), "TXNID"},
	{regexp.MustCompile(`(?i)\bupi[/-]\d+\b`), "UPIREF"},
	{regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`), "DATE"},
	{regexp.MustCompile(`(?i)(?:inr|rs\.?|₹|\$)\s*[\d,]+(?:\.\d+)?`), "AMT"},
	{regexp.MustCompile(`\b\d{5,}\b`), "NUM"},
}

// GroupKey collapses the variable parts of a description so that
// "Order #1234 Amazon" and "Order #9876 Amazon" share one remote lookup.
func GroupKey(description string) string {
	for _, p := range groupingPatterns {
		description = p.re.ReplaceAllString(description, p.placeholder)
	}
	return description
}

// Distinct returns the original descriptions to send to the classifier, one
// representative per group key, preserving first-seen order. The remote API
// is called with real descriptions, never the normalized keys.
func Distinct(descriptions []string) []string {
	seen := make(map[string]struct{}, len(descriptions))
	out := make([]string, 0, len(descriptions))
	for _, d := range descriptions {
		key := GroupKey(d)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, d)
	}
	return out
}

// Spread extends a per-representative result to every description whose
// group key matches a classified representative.
func Spread(descriptions []string, classified map[string]string) map[string]string {
	byKey := make(map[string]string, len(classified))
	for desc, cat := range classified {
		byKey[GroupKey(desc)] = cat
	}
	out := make(map[string]string, len(descriptions))
	for _, d := range descriptions {
		if cat, ok := classified[d]; ok {
			out[d] = cat
		} else if cat, ok := byKey[GroupKey(d)]; ok {
			out[d] = cat
		}
	}
	return out
}
