// Package metrics exposes Prometheus counters for the import pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline counters. A nil *Metrics is valid and records
// nothing, so wiring stays optional in tests.
type Metrics struct {
	ImportsTotal      prometheus.Counter
	ImportFailures    prometheus.Counter
	RowsImported      prometheus.Counter
	RowsSkipped       *prometheus.CounterVec
	ClassifyFallbacks prometheus.Counter
}

// New registers the pipeline counters on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ImportsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerline_imports_total",
			Help: "Completed statement imports.",
		}),
		ImportFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerline_import_failures_total",
			Help: "Statement imports that ended in an error.",
		}),
		RowsImported: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerline_rows_imported_total",
			Help: "Transaction rows inserted into the store.",
		}),
		RowsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledgerline_rows_skipped_total",
			Help: "Rows dropped during import, by reason.",
		}, []string{"reason"}),
		ClassifyFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerline_classify_fallbacks_total",
			Help: "Imports classified by the local keyword matcher.",
		}),
	}
}

// CountImport records one finished import.
func (m *Metrics) CountImport(inserted, dupes, zero, noDate int) {
	if m == nil {
		return
	}
	m.ImportsTotal.Inc()
	m.RowsImported.Add(float64(inserted))
	m.RowsSkipped.WithLabelValues("duplicate").Add(float64(dupes))
	m.RowsSkipped.WithLabelValues("zero_amount").Add(float64(zero))
	m.RowsSkipped.WithLabelValues("no_date").Add(float64(noDate))
}

// CountFailure records one failed import.
func (m *Metrics) CountFailure() {
	if m == nil {
		return
	}
	m.ImportFailures.Inc()
}

// CountClassifyFallback records one remote classification failure that was
// served by the keyword matcher instead.
func (m *Metrics) CountClassifyFallback() {
	if m == nil {
		return
	}
	m.ClassifyFallbacks.Inc()
}
