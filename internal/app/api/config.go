package api

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.temporal.io/sdk/client"

	platformpostgres "github.com/Apurer/storefront-api/internal/platform/postgres"
	platformredis "github.com/Apurer/storefront-api/internal/platform/redis"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	PostgresDSN             string        `envconfig:"POSTGRES_DSN"`
	PostgresMaxOpenConns    int           `envconfig:"POSTGRES_MAX_OPEN_CONNS" default:"20"`
	PostgresMaxIdleConns    int           `envconfig:"POSTGRES_MAX_IDLE_CONNS" default:"5"`
	PostgresConnMaxLifetime time.Duration `envconfig:"POSTGRES_CONN_MAX_LIFETIME" default:"30m"`

	Redis platformredis.Config

	CartTTL    time.Duration `envconfig:"CART_TTL" default:"24h"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	// SessionPurgeInterval enables an in-process purge loop when positive.
	SessionPurgeInterval time.Duration `envconfig:"SESSION_PURGE_INTERVAL" default:"0"`

	KafkaBrokers    []string `envconfig:"KAFKA_BROKERS"`
	KafkaOrderTopic string   `envconfig:"KAFKA_ORDER_TOPIC" default:"order_events"`

	TemporalAddress   string `envconfig:"TEMPORAL_ADDRESS"`
	TemporalNamespace string `envconfig:"TEMPORAL_NAMESPACE"`
	TemporalDisabled  bool   `envconfig:"TEMPORAL_DISABLED" default:"false"`

	SeedDemoData bool `envconfig:"SEED_DEMO_DATA" default:"true"`
}

// LoadConfig reads an optional .env file and the process environment, applies
// defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not loaded (%v), using process environment", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}
	return cfg.normalize()
}

func (c Config) normalize() (Config, error) {
	c.PostgresDSN = strings.TrimSpace(c.PostgresDSN)
	c.Redis.URL = strings.TrimSpace(c.Redis.URL)
	if c.TemporalAddress == "" {
		c.TemporalAddress = client.DefaultHostPort
	}
	if c.TemporalNamespace == "" {
		c.TemporalNamespace = client.DefaultNamespace
	}
	if c.KafkaOrderTopic == "" {
		c.KafkaOrderTopic = "order_events"
	}
	brokers := c.KafkaBrokers[:0]
	for _, b := range c.KafkaBrokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	c.KafkaBrokers = brokers
	switch {
	case c.CartTTL <= 0:
		return Config{}, fmt.Errorf("CART_TTL must be positive")
	case c.SessionTTL <= 0:
		return Config{}, fmt.Errorf("SESSION_TTL must be positive")
	case c.SessionPurgeInterval < 0:
		return Config{}, fmt.Errorf("SESSION_PURGE_INTERVAL must not be negative")
	}
	return c, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Postgres returns the pool settings for platform/postgres.
func (c Config) Postgres() platformpostgres.Config {
	return platformpostgres.Config{
		DSN:             c.PostgresDSN,
		MaxOpenConns:    c.PostgresMaxOpenConns,
		MaxIdleConns:    c.PostgresMaxIdleConns,
		ConnMaxLifetime: c.PostgresConnMaxLifetime,
	}
}
