// Package extractor turns statement files of any supported kind into an
// ordered sequence of raw header→value rows. It owns delimiter sniffing for
// delimited text, header repair for spreadsheets and array unwrapping for
// JSON exports. Rows come out untyped; the rowmap package gives them shape.
package extractor

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/rupeehub/ledgerline/internal/ingest/detector"
)

// RawRow is one source record as extracted, keyed by the original header
// text. Values are loosely typed because JSON exports carry numbers and
// booleans alongside strings.
type RawRow map[string]any

var (
	// ErrMalformedJSON means the file claimed to be JSON but did not parse.
	ErrMalformedJSON = errors.New("malformed JSON")
	// ErrNoObjects means a JSON file parsed but contained no object-shaped entries.
	ErrNoObjects = errors.New("no object entries in JSON")
	// ErrUnsupportedKind means the detector produced a kind we cannot extract.
	ErrUnsupportedKind = errors.New("unsupported file kind")
)

// Rows extracts raw rows from file content of the given kind.
// An empty file or sheet yields an empty slice and no error; the caller is
// responsible for turning zero rows into a user-facing failure.
func Rows(kind detector.Kind, data []byte) ([]RawRow, error) {
	switch kind {
	case detector.KindCSV, detector.KindText:
		return delimitedRows(normalizeBytes(data))
	case detector.KindExcel:
		return excelRows(data)
	case detector.KindJSON:
		return jsonRows(normalizeBytes(data))
	case detector.KindPDF:
		return pdfRows(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
}

// normalizeBytes strips a UTF-8 BOM and re-decodes Latin-1 exports, which
// some banks still produce.
func normalizeBytes(data []byte) []byte {
	data = stripUTF8BOM(data)
	if utf8.Valid(data) {
		return data
	}
	return decodeLatin1(data)
}

func stripUTF8BOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

func decodeLatin1(data []byte) []byte {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return []byte(string(runes))
}
