package survgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems.
//
// Data-quality events that are deliberately not errors (unresolved category
// tokens, fields left missing for lack of neighbors) are surfaced here so
// callers can still count them.
type MetricsCollector interface {
	// RecordIngest is called after each ingestion.
	// rows is the number of data rows parsed, err is nil if successful.
	RecordIngest(rows int, duration time.Duration, err error)

	// RecordUnresolvedCategory is called for every raw token that resolved
	// to no factor level and was recorded as missing.
	RecordUnresolvedCategory(column string)

	// RecordImputePass is called after each KNN imputation pass.
	// filled is the number of fields imputed in that pass.
	RecordImputePass(pass, filled int, duration time.Duration)

	// RecordInsufficientNeighbors is called for every field left missing
	// because fewer than k qualifying neighbors existed.
	RecordInsufficientNeighbors(column string)

	// RecordSplit is called after each train/test split.
	RecordSplit(train, test int)

	// RecordExport is called after each export operation.
	RecordExport(rows int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordIngest(int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordUnresolvedCategory(string)          {}
func (NoopMetricsCollector) RecordImputePass(int, int, time.Duration) {}
func (NoopMetricsCollector) RecordInsufficientNeighbors(string)       {}
func (NoopMetricsCollector) RecordSplit(int, int)                     {}
func (NoopMetricsCollector) RecordExport(int, time.Duration, error)   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	IngestCount           atomic.Int64
	IngestRows            atomic.Int64
	IngestErrors          atomic.Int64
	UnresolvedCategories  atomic.Int64
	ImputePasses          atomic.Int64
	ImputedFields         atomic.Int64
	InsufficientNeighbors atomic.Int64
	SplitCount            atomic.Int64
	ExportCount           atomic.Int64
	ExportErrors          atomic.Int64
}

// RecordIngest implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIngest(rows int, _ time.Duration, err error) {
	b.IngestCount.Add(1)
	b.IngestRows.Add(int64(rows))
	if err != nil {
		b.IngestErrors.Add(1)
	}
}

// RecordUnresolvedCategory implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUnresolvedCategory(string) {
	b.UnresolvedCategories.Add(1)
}

// RecordImputePass implements MetricsCollector.
func (b *BasicMetricsCollector) RecordImputePass(_, filled int, _ time.Duration) {
	b.ImputePasses.Add(1)
	b.ImputedFields.Add(int64(filled))
}

// RecordInsufficientNeighbors implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsufficientNeighbors(string) {
	b.InsufficientNeighbors.Add(1)
}

// RecordSplit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSplit(int, int) {
	b.SplitCount.Add(1)
}

// RecordExport implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExport(_ int, _ time.Duration, err error) {
	b.ExportCount.Add(1)
	if err != nil {
		b.ExportErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		IngestCount:           b.IngestCount.Load(),
		IngestRows:            b.IngestRows.Load(),
		IngestErrors:          b.IngestErrors.Load(),
		UnresolvedCategories:  b.UnresolvedCategories.Load(),
		ImputePasses:          b.ImputePasses.Load(),
		ImputedFields:         b.ImputedFields.Load(),
		InsufficientNeighbors: b.InsufficientNeighbors.Load(),
		SplitCount:            b.SplitCount.Load(),
		ExportCount:           b.ExportCount.Load(),
		ExportErrors:          b.ExportErrors.Load(),
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	IngestCount           int64
	IngestRows            int64
	IngestErrors          int64
	UnresolvedCategories  int64
	ImputePasses          int64
	ImputedFields         int64
	InsufficientNeighbors int64
	SplitCount            int64
	ExportCount           int64
	ExportErrors          int64
}
