// Package fingerprint derives the deterministic content hash used as the
// sole deduplication key for imported transactions, and tracks seen hashes
// across a batch.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Fields is the canonical six-field composite a fingerprint hashes over.
// Currency is intentionally absent: existing stored hashes were computed
// without it and re-keying them is not worth the collision risk it covers.
type Fields struct {
	Date          time.Time
	Amount        decimal.Decimal
	Merchant      string
	Description   string
	PaymentMethod string
	Reference     string
}

// Compute returns the hex SHA-256 over the normalized composite. The date
// contributes second precision, the amount two decimals, and string fields
// are uppercased and trimmed, so formatting variants of the same
// transaction always collide.
func Compute(f Fields) string {
	datePart := f.Date.Format("2006-01-02T15:04:05")
	if len(datePart) > 19 {
		datePart = datePart[:19]
	}

	composite := strings.Join([]string{
		datePart,
		f.Amount.StringFixed(2),
		norm(f.Merchant),
		norm(f.Description),
		norm(f.PaymentMethod),
		norm(f.Reference),
	}, "|")

	sum := sha256.Sum256([]byte(composite))
	return hex.EncodeToString(sum[:])
}

func norm(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Dedup decides keep-or-skip per row against two sets: fingerprints the
// destination store already holds, and fingerprints accepted earlier in the
// same batch. Not safe for concurrent use; one import owns it exclusively.
type Dedup struct {
	known   map[string]struct{}
	inBatch map[string]struct{}
}

// NewDedup seeds the known set with store-supplied fingerprints.
func NewDedup(known []string) *Dedup {
	d := &Dedup{
		known:   make(map[string]struct{}, len(known)),
		inBatch: make(map[string]struct{}),
	}
	for _, fp := range known {
		d.known[fp] = struct{}{}
	}
	return d
}

// Accept reports whether the fingerprint is new, and records it in the
// in-batch set when it is. The record-before-next-row ordering is what stops
// two identical rows in one file from both passing.
func (d *Dedup) Accept(fp string) bool {
	if _, dup := d.known[fp]; dup {
		return false
	}
	if _, dup := d.inBatch[fp]; dup {
		return false
	}
	d.inBatch[fp] = struct{}{}
	return true
}

// Seen reports the count of fingerprints accepted in this batch.
func (d *Dedup) Seen() int {
	return len(d.inBatch)
}
