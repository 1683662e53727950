package inventory

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"d42inventory/internal/domain"
	"d42inventory/internal/logging"
)

// SkippedRecord is a record left out of the inventory
type SkippedRecord struct {
	Index  int    `json:"index"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Report summarizes one build
type Report struct {
	Total     int             `json:"total"`
	Processed int             `json:"processed"`
	Skipped   []SkippedRecord `json:"skipped,omitempty"`
}

// SkippedIDs returns the identifiers of skipped records, in input order
func (r Report) SkippedIDs() []string {
	ids := make([]string, 0, len(r.Skipped))
	for _, s := range r.Skipped {
		ids = append(ids, s.ID)
	}
	return ids
}

// BuilderOption configures a Builder
type BuilderOption func(*Builder)

// WithWorkers normalizes records on up to n goroutines. The fold still
// runs in input order.
func WithWorkers(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithLogger sets the logger used for skip warnings
func WithLogger(l *logging.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = l
	}
}

// Builder runs normalize and fold over a whole device collection
type Builder struct {
	workers int
	logger  *logging.Logger
}

// NewBuilder creates a sequential builder unless WithWorkers says otherwise
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{workers: 1}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type normalized struct {
	device NormalizedDevice
	err    error
}

// Build returns the inventory for records. Invalid records are skipped and
// listed in the report; the only error is context cancellation.
func (b *Builder) Build(ctx context.Context, records []domain.DeviceRecord) (*Document, Report, error) {
	results, err := b.normalizeAll(ctx, records)
	if err != nil {
		return nil, Report{}, err
	}

	report := Report{Total: len(records)}
	agg := NewAggregator()
	for i, r := range results {
		if r.err != nil {
			var mf *MissingFieldError
			if errors.As(r.err, &mf) {
				mf.Index = i
			}
			skip := SkippedRecord{Index: i, ID: identifierOf(r.err, i), Reason: r.err.Error()}
			report.Skipped = append(report.Skipped, skip)
			b.logger.Debugf("skipping record %d: %v", i, r.err)
			continue
		}
		agg.Fold(r.device)
		report.Processed++
	}

	if len(report.Skipped) > 0 {
		b.logger.Warnf("skipped %d of %d device records: %v", len(report.Skipped), report.Total, report.SkippedIDs())
	}
	b.logger.Debugf("built inventory with %d hosts", report.Processed)
	return agg.Finish(), report, nil
}

func (b *Builder) normalizeAll(ctx context.Context, records []domain.DeviceRecord) ([]normalized, error) {
	results := make([]normalized, len(records))

	if b.workers <= 1 {
		for i := range records {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i].device, results[i].err = Normalize(records[i])
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i].device, results[i].err = Normalize(records[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func identifierOf(err error, index int) string {
	var mf *MissingFieldError
	if errors.As(err, &mf) {
		return mf.Identifier()
	}
	return (&MissingFieldError{Index: index}).Identifier()
}

// Build is a convenience wrapper for a sequential build without a context
func Build(records []domain.DeviceRecord) (*Document, Report) {
	doc, report, _ := NewBuilder().Build(context.Background(), records)
	return doc, report
}
