package classify

import (
	"context"
	"log/slog"
)

// FallbackClassifier tries the primary classifier and silently downgrades to
// the fallback on any error. Classification must never fail an import.
type FallbackClassifier struct {
	primary  Classifier
	fallback Classifier
	logger   *slog.Logger
}

// NewFallbackClassifier composes remote-first, keyword-second.
func NewFallbackClassifier(primary, fallback Classifier, logger *slog.Logger) *FallbackClassifier {
	return &FallbackClassifier{primary: primary, fallback: fallback, logger: logger}
}

func (f *FallbackClassifier) Classify(ctx context.Context, descriptions []string) (map[string]string, error) {
	result, err := f.primary.Classify(ctx, descriptions)
	if err == nil {
		return result, nil
	}
	f.logger.Warn("remote classification failed, using keyword fallback",
		slog.Int("descriptions", len(descriptions)),
		slog.String("error", err.Error()))
	return f.fallback.Classify(ctx, descriptions)
}

// EnrichFunc expands a description into the text the keyword matcher should
// scan, typically description plus merchant name.
type EnrichFunc func(description string) string

type enrichedKeyword struct {
	keyword *KeywordClassifier
	enrich  EnrichFunc
}

// NewEnrichedKeyword wraps the keyword matcher so it scans enriched text
// while still keying results by the original description.
func NewEnrichedKeyword(keyword *KeywordClassifier, enrich EnrichFunc) Classifier {
	return &enrichedKeyword{keyword: keyword, enrich: enrich}
}

func (e *enrichedKeyword) Classify(_ context.Context, descriptions []string) (map[string]string, error) {
	out := make(map[string]string, len(descriptions))
	for _, d := range descriptions {
		text := d
		if e.enrich != nil {
			text = e.enrich(d)
		}
		if cat, ok := e.keyword.MatchText(text); ok {
			out[d] = cat
		}
	}
	return out, nil
}
