// Command frogdata-gen generates the frog specimen fixtures and publishes them
// to the configured blob store. It takes no flags; ambient settings come from
// FROGDATA_* environment variables.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"frogdata/internal/blob"
	"frogdata/internal/catalog"
	"frogdata/internal/config"
	"frogdata/internal/logging"
	"frogdata/internal/metrics"
	"frogdata/internal/pipeline"
)

var exitFunc = os.Exit

func main() {
	code := cli(context.Background(), os.LookupEnv, os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(ctx context.Context, lookup config.LookupFunc, stdout, stderr io.Writer) int {
	cfg, err := config.Load(lookup)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "frogdata-gen: %v\n", err)
		return 2
	}
	logger, err := logging.New(stderr, cfg.Log)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "frogdata-gen: %v\n", err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, cfg, logger, stdout); err != nil {
		logger.Error("frogdata-gen failed", zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger, stdout io.Writer) (err error) {
	store, err := blob.Open(ctx, cfg.Blob)
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}
	rec := metrics.NewRecorder()
	opts := []pipeline.Option{pipeline.WithLogger(logger), pipeline.WithMetrics(rec)}

	if cfg.Catalog.Enabled() {
		cat, openErr := catalog.Open(ctx, cfg.Catalog)
		if openErr != nil {
			return fmt.Errorf("open catalog: %w", openErr)
		}
		defer func() {
			if closeErr := cat.Close(); closeErr != nil {
				err = errors.Join(err, fmt.Errorf("close catalog: %w", closeErr))
			}
		}()
		opts = append(opts, pipeline.WithCatalog(cat))
	}

	runner, err := pipeline.NewRunner(store, opts...)
	if err != nil {
		return err
	}
	report, runErr := runner.Run(ctx)
	if cfg.MetricsTextfile != "" {
		if err := rec.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Warn("metrics textfile not written", zap.String("path", cfg.MetricsTextfile), zap.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}
	for _, p := range report.Published {
		location := p.Info.URL
		if location == "" {
			location = p.Info.Key
		}
		if _, err := fmt.Fprintf(stdout, "%s\t%d rows\t%s\n", p.Dataset, p.Rows, location); err != nil {
			return err
		}
	}
	return nil
}
