package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Redis     RedisConfig     `yaml:"redis"`
	ShipTrack ShipTrackConfig `yaml:"shiptrack"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int32  `yaml:"max_conns"`
}

// ConnString builds a pgx connection string, defaulting sslmode to "disable".
func (d DatabaseConfig) ConnString() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.Username, d.Password, d.Host, d.Port, d.DBName, sslMode)
}

type KafkaConfig struct {
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"`
	SessionEventsTopicName string `yaml:"session_events_topic_name"`
}

func (k KafkaConfig) Enabled() bool { return k.Host != "" }

func (k KafkaConfig) Brokers() []string {
	return []string{fmt.Sprintf("%s:%d", k.Host, k.Port)}
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type ShipTrackConfig struct {
	HTTPAddr      string `yaml:"http_addr"`
	AuditHTTPAddr string `yaml:"audit_http_addr"`

	// StorageBackend selects the key-value store for credentials and sessions:
	// "memory" (default) | "redis" | "postgres".
	StorageBackend string `yaml:"storage_backend"`

	CatalogPath     string `yaml:"catalog_path"`
	ValidateCatalog *bool  `yaml:"validate_catalog"`
	SeedDemoUsers   *bool  `yaml:"seed_demo_users"`

	SessionCookieName string `yaml:"session_cookie_name"`
	SessionTTLSeconds int    `yaml:"session_ttl_seconds"`

	APIRateLimitPerMinute int `yaml:"api_rate_limit_per_minute"`

	MapPadding float64 `yaml:"map_padding"`

	KafkaConsumerGroup string `yaml:"kafka_consumer_group"`

	// PurgeIntervalSeconds is how often the audit worker drops expired Postgres entries.
	PurgeIntervalSeconds int `yaml:"purge_interval_seconds"`
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return &config, nil
}

// BoolOr returns *b, or def when the option is not set.
func BoolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
