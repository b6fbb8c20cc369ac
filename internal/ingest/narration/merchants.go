package narration

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// merchantEntry pairs an official display name with its narration aliases.
// Earlier entries win when aliases overlap ("swiggy instamart" must beat
// "swiggy"), so order matters.
type merchantEntry struct {
	Name    string
	Aliases []string
}

var defaultMerchants = []merchantEntry{
	{"Swiggy Instamart", []string{"swiggy instamart", "instamart"}},
	{"Swiggy", []string{"swiggy"}},
	{"Zomato", []string{"zomato", "zomatofo"}},
	{"Uber", []string{"uber", "uber india"}},
	{"Ola", []string{"olacabs", "ola cabs"}},
	{"Rapido", []string{"rapido"}},
	{"Blinkit", []string{"blinkit", "grofers"}},
	{"Zepto", []string{"zepto"}},
	{"BigBasket", []string{"bigbasket", "big basket"}},
	{"Amazon", []string{"amazon", "amzn"}},
	{"Flipkart", []string{"flipkart"}},
	{"Myntra", []string{"myntra"}},
	{"Ajio", []string{"ajio"}},
	{"Netflix", []string{"netflix"}},
	{"Spotify", []string{"spotify"}},
	{"Youtube", []string{"youtube", "google oct"}},
	{"Apple", []string{"apple.com", "itunes"}},
	{"Google", []string{"google"}},
	{"Jio", []string{"reliance jio", "jio recharge"}},
	{"Airtel", []string{"airtel"}},
	{"Vodafone", []string{"vodafone"}},
	{"Mcdonalds", []string{"mcdonalds", "mcdonald"}},
	{"Starbucks", []string{"starbucks"}},
	{"KFC", []string{"kfc"}},
	{"Burger King", []string{"burger king"}},
	{"Domino's", []string{"dominos", "domino's"}},
	{"Pizza Hut", []string{"pizza hut"}},
	{"Subway", []string{"subway"}},
}

// MerchantTable matches narration text against the known merchant aliases
// in one pass with an Aho-Corasick automaton, plus a Levenshtein assist for
// near-miss lookups of extracted name segments.
type MerchantTable struct {
	matcher *ahocorasick.Matcher
	aliases []string
	names   []string
}

// NewMerchantTable builds the automaton over every alias. Alias order
// follows entry order so that the lowest hit index is the highest priority.
func NewMerchantTable(entries []merchantEntry) *MerchantTable {
	t := &MerchantTable{}
	for _, e := range entries {
		for _, a := range e.Aliases {
			t.aliases = append(t.aliases, strings.ToLower(a))
			t.names = append(t.names, e.Name)
		}
	}
	t.matcher = ahocorasick.NewStringMatcher(t.aliases)
	return t
}

// Lookup scans the whole narration for any known alias and returns the
// official name of the earliest-listed merchant that appears.
func (t *MerchantTable) Lookup(text string) (string, bool) {
	hits := t.matcher.Match([]byte(strings.ToLower(text)))
	if len(hits) == 0 {
		return "", false
	}
	best := hits[0]
	for _, h := range hits[1:] {
		if h < best {
			best = h
		}
	}
	return t.names[best], true
}

// LookupLoose resolves a short extracted name segment: exact alias scan
// first, then a fuzzy pass that tolerates one edit against longer aliases,
// catching truncated segments like "swigy" or "zomatof".
func (t *MerchantTable) LookupLoose(segment string) (string, bool) {
	if name, ok := t.Lookup(segment); ok {
		return name, true
	}
	seg := strings.ToLower(strings.TrimSpace(segment))
	if len(seg) < 4 {
		return "", false
	}
	for i, alias := range t.aliases {
		if len(alias) < 5 {
			continue
		}
		if d := fuzzy.RankMatchNormalizedFold(seg, alias); d >= 0 && d <= 1 {
			return t.names[i], true
		}
	}
	return "", false
}
