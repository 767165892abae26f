package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", " collector:4318 ")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "collector:4318", cfg.OTLPEndpoint)
	assert.False(t, cfg.OTLPInsecure)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestNewLoggerWritesJSONAtConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, Config{Environment: "test", LogLevel: "warn", LogFormat: "json"})
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "sessions", 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "test", entry["environment"])
	assert.EqualValues(t, 2, entry["sessions"])
}

func TestNewLoggerRejectsUnknownSettings(t *testing.T) {
	_, err := newLogger(&bytes.Buffer{}, Config{LogLevel: "loud"})
	require.Error(t, err)
	_, err = newLogger(&bytes.Buffer{}, Config{LogLevel: "info", LogFormat: "xml"})
	require.Error(t, err)
}

func TestNilInstrumentsFallBack(t *testing.T) {
	var instruments *Instruments
	assert.NotNil(t, instruments.Tracer("storefront"))
	counter, err := instruments.Meter("storefront").Int64Counter("checkouts")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)
}
