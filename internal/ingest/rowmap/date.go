package rowmap

import (
	"errors"
	"strings"
	"time"
)

// ErrUnparseableDate is returned when no known layout matches.
var ErrUnparseableDate = errors.New("unparseable date")

// Day-first layouts tried in order, slash then dash, with and without time.
var dayFirstLayouts = []string{
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"2/1/06 15:04:05",
	"2/1/06 15:04",
	"2/1/06",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"2-1-2006",
	"2-1-06 15:04:05",
	"2-1-06 15:04",
	"2-1-06",
}

// Layouts for the generic fallback, tried on the raw string and on the
// string with its first space swapped for a "T".
var fallbackLayouts = []string{
	"2 Jan 2006, 15:04",
	"2 Jan 2006",
	"Jan 2, 2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate parses a statement date. Day-first numeric forms are tried
// first, then a long form like "2 Jan 2006, 15:04", then ISO-ish fallbacks.
// Two-digit years land in the 2000s.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrUnparseableDate
	}

	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return fixCentury(t), nil
		}
	}

	// Banks write "Sept"; Go's time package only knows "Sep".
	norm := strings.ReplaceAll(s, "Sept", "Sep")
	candidates := []string{norm}
	if i := strings.IndexByte(norm, ' '); i >= 0 {
		candidates = append(candidates, norm[:i]+"T"+norm[i+1:])
	}

	for _, c := range candidates {
		for _, layout := range fallbackLayouts {
			if t, err := time.Parse(layout, c); err == nil {
				return fixCentury(t), nil
			}
		}
	}
	return time.Time{}, ErrUnparseableDate
}

// fixCentury maps two-digit years that Go parsed into 00xx onto 20xx.
// time.Parse with an "06" layout already pivots to 19xx/20xx; this covers
// layouts where the text had a bare short year against a "2006" layout.
func fixCentury(t time.Time) time.Time {
	if t.Year() < 100 {
		return t.AddDate(2000, 0, 0)
	}
	return t
}
