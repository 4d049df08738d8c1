package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"frogdata/internal/catalog"
	"frogdata/internal/config"
)

func envLookup(env map[string]string) config.LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

var fixtureFiles = []string{"frog_full_data.csv", "frog_new_arrivals.csv", "frog_baseline.csv", "frog_baseline_update.csv"}

func TestCLIWritesFixtures(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	code := cli(context.Background(), envLookup(map[string]string{config.EnvBlobFSRoot: dir}), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d; stderr=%s", code, stderr.String())
	}
	for _, name := range fixtureFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 4 || !strings.HasPrefix(lines[0], "frog_full_data\t77 rows\tfile://") {
		t.Fatalf("unexpected summary %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "run complete") {
		t.Fatalf("expected run log on stderr, got %q", stderr.String())
	}
}

func TestCLIWithCatalogAndMetrics(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "catalog", "frogs.db")
	promPath := filepath.Join(dir, "frogdata.prom")
	var stdout, stderr bytes.Buffer
	code := cli(context.Background(), envLookup(map[string]string{
		config.EnvBlobDriver:      "memory",
		config.EnvCatalogDriver:   "sqlite",
		config.EnvCatalogDSN:      dbPath,
		config.EnvMetricsTextfile: promPath,
		config.EnvLogFormat:       "json",
	}), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d; stderr=%s", code, stderr.String())
	}
	prom, err := os.ReadFile(promPath)
	if err != nil {
		t.Fatalf("read metrics textfile: %v", err)
	}
	if !strings.Contains(string(prom), `frogdata_runs_total{status="success"} 1`) {
		t.Fatalf("metrics textfile missing run counter:\n%s", prom)
	}

	ctx := context.Background()
	cat, err := catalog.Open(ctx, catalog.Config{Driver: catalog.DriverSQLite, DSN: dbPath})
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	defer func() { _ = cat.Close() }()
	if n, err := cat.Count(ctx); err != nil || n != 100 {
		t.Fatalf("catalog count = %d err=%v, want 100", n, err)
	}
	if !strings.Contains(stderr.String(), `"msg":"loaded catalog"`) {
		t.Fatalf("expected json catalog log, got %q", stderr.String())
	}
}

func TestCLIInvalidConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := cli(context.Background(), envLookup(map[string]string{config.EnvBlobDriver: "gcs"}), &stdout, &stderr)
	if code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), config.EnvBlobDriver) {
		t.Fatalf("expected stderr to name the variable, got %q", stderr.String())
	}
}

func TestCLIBlobOpenFailure(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	var stdout, stderr bytes.Buffer
	code := cli(context.Background(), envLookup(map[string]string{config.EnvBlobFSRoot: filepath.Join(file, "out")}), &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "open blob store") {
		t.Fatalf("expected blob error on stderr, got %q", stderr.String())
	}
}

func TestMainUsesEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvBlobFSRoot, dir)
	t.Setenv(config.EnvLogLevel, "error")
	origExit := exitFunc
	defer func() { exitFunc = origExit }()
	exitCode := -1
	exitFunc = func(code int) { exitCode = code }
	main()
	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}
	if _, err := os.Stat(filepath.Join(dir, "frog_baseline_update.csv")); err != nil {
		t.Fatalf("expected baseline update fixture: %v", err)
	}
}
