package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
)

// Config holds all run settings, populated from environment variables. Every
// field has a default, so the ETL runs without any environment set.
type Config struct {
	InputPath  string `validate:"required"`
	OutputPath string `validate:"required"`
	LogLevel   string `validate:"oneof=debug info warn error"`
	LogFormat  string `validate:"oneof=json text"`

	// Projection and solar geometry.
	UTMZone             int           `validate:"min=1,max=60"`
	UTMBand             string        `validate:"len=1,alpha"`
	UTCOffset           time.Duration `validate:"min=-14h,max=14h"`
	ObserverElevation   float64       `validate:"gte=-500,lte=9000"`
	ProjectionCacheSize int           `validate:"gte=0"`

	// Optional Pushgateway export of run metrics.
	MetricsPushURL     string        `validate:"omitempty,url"`
	MetricsJobName     string        `validate:"required"`
	MetricsPushTimeout time.Duration `validate:"gt=0"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	utmZone, err := parseInt("UTM_ZONE", "39")
	if err != nil {
		return nil, err
	}

	utcOffset, err := parseDuration("LOCAL_UTC_OFFSET", "4h30m")
	if err != nil {
		return nil, err
	}

	elevation, err := parseFloat("OBSERVER_ELEVATION", "1189")
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseInt("PROJECTION_CACHE_SIZE", "1000")
	if err != nil {
		return nil, err
	}

	pushTimeout, err := parseDuration("METRICS_PUSH_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		InputPath:  sharedcfg.EnvOrDefault("ACCIDENT_FILE_PATH", "data/accidents.tsv"),
		OutputPath: sharedcfg.EnvOrDefault("GEOJSON_FILE_PATH", "output/out.geojson"),
		LogLevel:   strings.ToLower(sharedcfg.EnvOrDefault("LOG_LEVEL", "info")),
		LogFormat:  strings.ToLower(sharedcfg.EnvOrDefault("LOG_FORMAT", "json")),

		UTMZone:             utmZone,
		UTMBand:             strings.ToUpper(sharedcfg.EnvOrDefault("UTM_BAND", "S")),
		UTCOffset:           utcOffset,
		ObserverElevation:   elevation,
		ProjectionCacheSize: cacheSize,

		MetricsPushURL:     sharedcfg.EnvOrDefault("METRICS_PUSHGATEWAY_URL", ""),
		MetricsJobName:     sharedcfg.EnvOrDefault("METRICS_JOB_NAME", "accident_etl"),
		MetricsPushTimeout: pushTimeout,
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if strings.ContainsAny(cfg.UTMBand, "IO") || cfg.UTMBand < "C" || cfg.UTMBand > "X" {
		return nil, fmt.Errorf("invalid UTM_BAND %q", cfg.UTMBand)
	}

	return cfg, nil
}

func parseInt(key, def string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(sharedcfg.EnvOrDefault(key, def)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseFloat(key, def string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(sharedcfg.EnvOrDefault(key, def)), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	v, err := time.ParseDuration(strings.TrimSpace(sharedcfg.EnvOrDefault(key, def)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
