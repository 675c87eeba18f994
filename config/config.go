package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
	// AutoMigrate applies pending migrations on start.
	AutoMigrate bool `yaml:"auto_migrate"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL              string `yaml:"url"`
	QueueGroup       string `yaml:"queue_group"`
	SubscribersCount int    `yaml:"subscribers_count"`
	JetStream        bool   `yaml:"jetstream"`
	StreamName       string `yaml:"stream_name"`
}

// HTTPConfig holds the REST API configuration.
type HTTPConfig struct {
	Address         string        `yaml:"address"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	RateLimit       float64       `yaml:"rate_limit"`
	RateBurst       int           `yaml:"rate_burst"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	ServiceName      string `yaml:"service_name"`
	Version          string `yaml:"version"`
	Environment      string `yaml:"environment"`
	LogLevel         string `yaml:"log_level"`
	MetricsNamespace string `yaml:"metrics_namespace"`
}

// LoadConfig loads the configuration from a YAML file, then applies
// environment overrides. A .env file in the working directory is read first.
// Without the YAML file the configuration comes from the environment alone.
func LoadConfig(filename string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(filename)
	if err != nil {
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if cfg.NATS.URL == "" {
		return nil, fmt.Errorf("NATS_URL environment variable not set")
	}

	cfg.setDefaults()
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("AUTO_MIGRATE"); v != "" {
		cfg.Postgres.AutoMigrate = v == "true"
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("NATS_QUEUE_GROUP"); v != "" {
		cfg.NATS.QueueGroup = v
	}
	if v := os.Getenv("NATS_JETSTREAM"); v != "" {
		cfg.NATS.JetStream = v == "true"
	}
	if v := os.Getenv("NATS_STREAM_NAME"); v != "" {
		cfg.NATS.StreamName = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid HTTP_RATE_LIMIT value: %v", err)
		}
		cfg.HTTP.RateLimit = f
	}
	if v := os.Getenv("HTTP_RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HTTP_RATE_BURST value: %v", err)
		}
		cfg.HTTP.RateBurst = n
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("SERVICE_VERSION"); v != "" {
		cfg.Observability.Version = v
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.NATS.QueueGroup == "" {
		c.NATS.QueueGroup = "ulti-bot"
	}
	if c.NATS.SubscribersCount <= 0 {
		c.NATS.SubscribersCount = 1
	}
	if c.NATS.JetStream && c.NATS.StreamName == "" {
		c.NATS.StreamName = "ULTI"
	}
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":3000"
	}
	if c.HTTP.RateLimit <= 0 {
		c.HTTP.RateLimit = 10
	}
	if c.HTTP.RateBurst <= 0 {
		c.HTTP.RateBurst = 20
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		c.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = "ulti-bot"
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = "development"
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
	if c.Observability.MetricsNamespace == "" {
		c.Observability.MetricsNamespace = "ulti"
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
