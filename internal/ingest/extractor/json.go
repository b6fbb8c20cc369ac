package extractor

import (
	"encoding/json"
	"fmt"
)

// jsonRows accepts either a top-level array of objects or an object wrapping
// a "transactions" array. Entries that are not plain objects are dropped
// silently; a file with zero object entries is an error.
func jsonRows(data []byte) ([]RawRow, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	var entries []any
	switch v := parsed.(type) {
	case []any:
		entries = v
	case map[string]any:
		wrapped, ok := v["transactions"].([]any)
		if !ok {
			return nil, ErrNoObjects
		}
		entries = wrapped
	default:
		return nil, ErrNoObjects
	}

	rows := make([]RawRow, 0, len(entries))
	for _, e := range entries {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		rows = append(rows, RawRow(obj))
	}
	if len(rows) == 0 {
		return nil, ErrNoObjects
	}
	return rows, nil
}
