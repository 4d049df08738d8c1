// Package config reads the generator's ambient settings from the environment.
// Generation constants are not configurable.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"frogdata/internal/blob"
	"frogdata/internal/catalog"
	"frogdata/internal/logging"
)

// Environment variable names.
const (
	EnvBlobDriver      = "FROGDATA_BLOB_DRIVER"
	EnvBlobFSRoot      = "FROGDATA_BLOB_FS_ROOT"
	EnvS3Bucket        = "FROGDATA_BLOB_S3_BUCKET"
	EnvS3Region        = "FROGDATA_BLOB_S3_REGION"
	EnvS3Endpoint      = "FROGDATA_BLOB_S3_ENDPOINT"
	EnvS3PathStyle     = "FROGDATA_BLOB_S3_PATH_STYLE"
	EnvS3Prefix        = "FROGDATA_BLOB_S3_PREFIX"
	EnvCatalogDriver   = "FROGDATA_CATALOG_DRIVER"
	EnvCatalogDSN      = "FROGDATA_CATALOG_DSN"
	EnvMetricsTextfile = "FROGDATA_METRICS_TEXTFILE"
	EnvLogLevel        = "FROGDATA_LOG_LEVEL"
	EnvLogFormat       = "FROGDATA_LOG_FORMAT"
)

// ErrInvalid marks a configuration value that failed validation.
var ErrInvalid = errors.New("invalid configuration")

// LookupFunc resolves an environment variable.
type LookupFunc func(key string) (string, bool)

// Config is the resolved ambient configuration.
type Config struct {
	Blob            blob.Config
	Catalog         catalog.Config
	MetricsTextfile string
	Log             logging.Options
}

// FromEnv loads configuration from the process environment.
func FromEnv() (Config, error) { return Load(os.LookupEnv) }

// Load resolves configuration through lookup. Unset variables take defaults.
func Load(lookup LookupFunc) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := Config{
		Blob: blob.Config{
			Driver: blob.Driver(strings.ToLower(get(EnvBlobDriver, string(blob.DriverFilesystem)))),
			FSRoot: get(EnvBlobFSRoot, "."),
			S3: blob.S3Config{
				Bucket:   get(EnvS3Bucket, ""),
				Region:   get(EnvS3Region, "us-east-1"),
				Endpoint: get(EnvS3Endpoint, ""),
				Prefix:   get(EnvS3Prefix, ""),
			},
		},
		Catalog: catalog.Config{
			Driver: catalog.Driver(strings.ToLower(get(EnvCatalogDriver, string(catalog.DriverNone)))),
			DSN:    get(EnvCatalogDSN, ""),
		},
		MetricsTextfile: get(EnvMetricsTextfile, ""),
		Log: logging.Options{
			Level:  get(EnvLogLevel, "info"),
			Format: strings.ToLower(get(EnvLogFormat, logging.FormatConsole)),
		},
	}

	if raw := get(EnvS3PathStyle, ""); raw != "" {
		pathStyle, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, invalid(EnvS3PathStyle, raw)
		}
		cfg.Blob.S3.PathStyle = pathStyle
	}

	switch cfg.Blob.Driver {
	case blob.DriverFilesystem, blob.DriverMemory:
	case blob.DriverS3:
		if cfg.Blob.S3.Bucket == "" {
			return Config{}, fmt.Errorf("%w: %s is required for the s3 driver", ErrInvalid, EnvS3Bucket)
		}
	default:
		return Config{}, invalid(EnvBlobDriver, string(cfg.Blob.Driver))
	}

	switch cfg.Catalog.Driver {
	case catalog.DriverNone, catalog.DriverSQLite, catalog.DriverPostgres:
	default:
		return Config{}, invalid(EnvCatalogDriver, string(cfg.Catalog.Driver))
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return Config{}, invalid(EnvLogLevel, cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		return Config{}, invalid(EnvLogFormat, cfg.Log.Format)
	}
	return cfg, nil
}

func invalid(key, value string) error {
	return fmt.Errorf("%w: %s=%q", ErrInvalid, key, value)
}
