// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Riot      RiotConfig      `mapstructure:"riot"`
	Reconcile ReconcileConfig `mapstructure:"reconcile"`
	Wager     WagerConfig     `mapstructure:"wager"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ServerConfig holds the HTTP API configuration.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// RiotConfig holds Riot API access configuration. PlatformURL serves
// platform-routed endpoints (spectator, summoner, league), RegionURL serves
// region-routed ones (account, match).
type RiotConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	PlatformURL string        `mapstructure:"platform_url"`
	RegionURL   string        `mapstructure:"region_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MatchWindow int           `mapstructure:"match_window"`
}

// ReconcileConfig holds settlement loop configuration.
type ReconcileConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	Concurrency int           `mapstructure:"concurrency"`
}

// WagerConfig holds wager and balance configuration.
type WagerConfig struct {
	InitialCoins int64 `mapstructure:"initial_coins"`
}

// RedisConfig holds the optional odds-quote cache configuration.
// An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	QuoteTTL time.Duration `mapstructure:"quote_ttl"`
}

// KafkaConfig holds the optional settlement event publisher configuration.
// Empty Brokers disables publishing.
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// MetricsConfig holds the metrics/health endpoint configuration.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Enable environment variable override
	// e.g. RIOT_API_KEY, DATABASE_HOST, RECONCILE_INTERVAL
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional - env vars can provide all config)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "riftbook")
	v.SetDefault("database.name", "riftbook")
	v.SetDefault("database.pool_size", 20)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	v.SetDefault("riot.platform_url", "https://euw1.api.riotgames.com")
	v.SetDefault("riot.region_url", "https://europe.api.riotgames.com")
	v.SetDefault("riot.timeout", "10s")
	v.SetDefault("riot.match_window", 5)

	v.SetDefault("reconcile.interval", "60s")
	v.SetDefault("reconcile.concurrency", 4)

	v.SetDefault("wager.initial_coins", 10000)

	v.SetDefault("redis.quote_ttl", "15s")

	v.SetDefault("kafka.topic", "wager.settlements")

	v.SetDefault("metrics.addr", ":9090")
}
