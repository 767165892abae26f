package observability

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config controls the process-wide telemetry setup.
type Config struct {
	Environment    string `envconfig:"ENVIRONMENT" default:"local"`
	ServiceVersion string `envconfig:"SERVICE_VERSION" default:"dev"`
	// OTLPEndpoint is host:port of an OTLP/HTTP collector. Empty uses the exporter default.
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure bool   `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"LOG_FORMAT" default:"json"`
}

// ConfigFromEnv reads Config from the process environment.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("observability config: %w", err)
	}
	cfg.OTLPEndpoint = strings.TrimSpace(cfg.OTLPEndpoint)
	return cfg, nil
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q: %w", raw, err)
	}
	return level, nil
}
