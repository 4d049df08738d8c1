// Package pipeline runs one generation: draw specimens, build the fixture
// set, publish each table to a blob store and optionally load the specimens
// into the SQL catalog.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"frogdata/internal/blob"
	"frogdata/internal/catalog"
	"frogdata/internal/fixtures"
	"frogdata/internal/metrics"
	"frogdata/internal/specimen"
)

const csvContentType = "text/csv"

// CatalogLoader receives the generated specimens of a run.
type CatalogLoader interface {
	Load(ctx context.Context, runID string, records []catalog.Record) error
}

// Published describes one fixture written to the blob store.
type Published struct {
	Dataset string
	Rows    int
	Info    blob.Info
}

// Report summarizes a completed run.
type Report struct {
	RunID      string
	Seed       uint64
	Specimens  int
	Published  []Published
	Defects    []fixtures.Defect
	Catalogued int
	StartedAt  time.Time
	Duration   time.Duration
}

// Option customizes a Runner.
type Option func(*Runner)

// WithCatalog loads every run into loader.
func WithCatalog(loader CatalogLoader) Option { return func(r *Runner) { r.catalog = loader } }

// WithMetrics records run outcomes on rec.
func WithMetrics(rec *metrics.Recorder) Option { return func(r *Runner) { r.metrics = rec } }

// WithLogger sets the logger. Nil keeps the no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRunID overrides run identifier generation.
func WithRunID(fn func() string) Option { return func(r *Runner) { r.newRunID = fn } }

// WithClock overrides the time source.
func WithClock(fn func() time.Time) Option { return func(r *Runner) { r.now = fn } }

// WithGenerator overrides the specimen generator options.
func WithGenerator(opts specimen.Options) Option { return func(r *Runner) { r.generator = opts } }

// WithFixtures overrides the fixture layout.
func WithFixtures(opts fixtures.Options) Option { return func(r *Runner) { r.fixtures = opts } }

// Runner executes generation runs against a blob store.
type Runner struct {
	store     blob.Store
	catalog   CatalogLoader
	metrics   *metrics.Recorder
	logger    *zap.Logger
	generator specimen.Options
	fixtures  fixtures.Options
	newRunID  func() string
	now       func() time.Time
}

// NewRunner constructs a Runner publishing to store.
func NewRunner(store blob.Store, opts ...Option) (*Runner, error) {
	if store == nil {
		return nil, errors.New("pipeline: blob store required")
	}
	r := &Runner{
		store:     store,
		logger:    zap.NewNop(),
		generator: specimen.Options{},
		fixtures:  fixtures.DefaultOptions(),
		newRunID:  uuid.NewString,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run performs one generation and publishes the four fixtures in order.
func (r *Runner) Run(ctx context.Context) (report Report, err error) {
	started := r.now()
	report = Report{RunID: r.newRunID(), StartedAt: started}
	logger := r.logger.With(zap.String("run_id", report.RunID))
	defer func() {
		report.Duration = r.now().Sub(started)
		if r.metrics != nil {
			r.metrics.ObserveRun(err == nil, r.now())
		}
		if err != nil {
			logger.Error("run failed", zap.Error(err))
			return
		}
		logger.Info("run complete",
			zap.Int("datasets", len(report.Published)),
			zap.Int("defects", len(report.Defects)),
			zap.Duration("duration", report.Duration))
	}()

	gen := specimen.NewGenerator(r.generator)
	report.Seed = gen.Options().Seed
	specimens := gen.Generate()
	report.Specimens = len(specimens)
	logger.Debug("generated specimens", zap.Int("count", len(specimens)), zap.Uint64("seed", report.Seed))

	set, err := fixtures.Build(specimens, r.fixtures)
	if err != nil {
		return report, err
	}
	report.Defects = set.Defects

	for _, table := range set.Tables() {
		published, err := r.publish(ctx, report, table)
		if err != nil {
			return report, err
		}
		report.Published = append(report.Published, published)
		logger.Info("published fixture",
			zap.String("dataset", table.Name),
			zap.String("key", published.Info.Key),
			zap.Int("rows", published.Rows),
			zap.Int64("bytes", published.Info.Size))
	}
	for _, d := range set.Defects {
		if r.metrics != nil {
			r.metrics.ObserveDefect(d.Dataset, string(d.Kind))
		}
		logger.Debug("injected defect",
			zap.String("dataset", d.Dataset),
			zap.String("kind", string(d.Kind)),
			zap.String("identifier", d.Identifier))
	}

	if r.catalog != nil {
		records := catalogRecords(specimens, r.fixtures)
		if err := r.catalog.Load(ctx, report.RunID, records); err != nil {
			return report, fmt.Errorf("load catalog: %w", err)
		}
		report.Catalogued = len(records)
		logger.Info("loaded catalog", zap.Int("rows", len(records)))
	}
	return report, nil
}

func (r *Runner) publish(ctx context.Context, report Report, table fixtures.Table) (Published, error) {
	start := r.now()
	payload, err := table.Encode()
	if err != nil {
		return Published{}, err
	}
	info, err := r.store.Put(ctx, table.File(), bytes.NewReader(payload), blob.PutOptions{
		ContentType: csvContentType,
		Metadata: map[string]string{
			"run_id":  report.RunID,
			"dataset": table.Name,
			"rows":    strconv.Itoa(table.Len()),
			"seed":    strconv.FormatUint(report.Seed, 10),
		},
	})
	if err != nil {
		return Published{}, fmt.Errorf("publish %s: %w", table.Name, err)
	}
	if info.Size == 0 {
		info.Size = int64(len(payload))
	}
	if r.metrics != nil {
		r.metrics.ObservePublish(table.Name, table.Len(), int64(len(payload)), r.now().Sub(start))
	}
	return Published{Dataset: table.Name, Rows: table.Len(), Info: info}, nil
}

// catalogRecords pairs every specimen with its arrival date. Only the
// new-arrivals tail carries one.
func catalogRecords(specimens []specimen.Specimen, opts fixtures.Options) []catalog.Record {
	start := opts.ArrivalStart
	if start.IsZero() {
		start = fixtures.DefaultArrivalStart
	}
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	tail := len(specimens) - opts.NewArrivals
	records := make([]catalog.Record, len(specimens))
	for i, s := range specimens {
		records[i] = catalog.Record{Specimen: s}
		if i >= tail {
			arrival := day.AddDate(0, 0, i-tail)
			records[i].ArrivalDate = &arrival
		}
	}
	return records
}
