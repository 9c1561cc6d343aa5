package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Redis      RedisConfig      `mapstructure:"redis"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Ingest     IngestConfig     `mapstructure:"ingest"`
	Listing    ListingConfig    `mapstructure:"listing"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	// Driver is "postgres" or "memory".
	Driver       string         `mapstructure:"driver"`
	Postgres     PostgresConfig `mapstructure:"postgres"`
	MaxOpenConns int            `mapstructure:"max_open_conns"`
	MaxIdleConns int            `mapstructure:"max_idle_conns"`
	AutoMigrate  bool           `mapstructure:"auto_migrate"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN renders the lib/pq connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type AuthConfig struct {
	// Mode is "jwt" (locally issued tokens) or "keycloak".
	Mode       string         `mapstructure:"mode"`
	JWT        JWTConfig      `mapstructure:"jwt"`
	Keycloak   KeycloakConfig `mapstructure:"keycloak"`
	BcryptCost int            `mapstructure:"bcrypt_cost"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type KeycloakConfig struct {
	URL          string `mapstructure:"url"`
	Realm        string `mapstructure:"realm"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

type RedisConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	AlertStream  string `mapstructure:"alert_stream"`
	StreamMaxLen int64  `mapstructure:"stream_max_len"`
}

// Addr is host:port for go-redis.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type RateLimitConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	SimulateLimit int           `mapstructure:"simulate_limit"`
	Window        time.Duration `mapstructure:"window"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
}

type MonitoringConfig struct {
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	MetricsPath    string `mapstructure:"metrics_path"`
}

type IngestConfig struct {
	Thresholds ThresholdConfig  `mapstructure:"thresholds"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	// SensorSelection is "random" or "first".
	SensorSelection string `mapstructure:"sensor_selection"`
}

type ThresholdConfig struct {
	TemperatureMin float64 `mapstructure:"temperature_min"`
	TemperatureMax float64 `mapstructure:"temperature_max"`
	HumidityMin    float64 `mapstructure:"humidity_min"`
	HumidityMax    float64 `mapstructure:"humidity_max"`
	WeightMin      float64 `mapstructure:"weight_min"`
	WeightMax      float64 `mapstructure:"weight_max"`
}

type SimulationConfig struct {
	TemperatureMin float64 `mapstructure:"temperature_min"`
	TemperatureMax float64 `mapstructure:"temperature_max"`
	HumidityMin    float64 `mapstructure:"humidity_min"`
	HumidityMax    float64 `mapstructure:"humidity_max"`
	WeightMin      float64 `mapstructure:"weight_min"`
	WeightMax      float64 `mapstructure:"weight_max"`
}

type ListingConfig struct {
	AlertsLimit   int `mapstructure:"alerts_limit"`
	ReadingsLimit int `mapstructure:"readings_limit"`
	WorkflowLimit int `mapstructure:"workflow_limit"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	return LoadWith(viper.New(), "./config")
}

// LoadWith reads configuration into v, looking for config.yaml in the given paths.
func LoadWith(v *viper.Viper, paths ...string) (*Config, error) {
	v.SetEnvPrefix("APIARY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Database defaults
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "apiary")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.dbname", "apiary")
	v.SetDefault("database.postgres.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.auto_migrate", true)

	// Auth defaults
	v.SetDefault("auth.mode", "jwt")
	v.SetDefault("auth.jwt.secret", "")
	v.SetDefault("auth.jwt.issuer", "apiary")
	v.SetDefault("auth.jwt.ttl", "12h")
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("auth.keycloak.url", "")
	v.SetDefault("auth.keycloak.realm", "apiary")
	v.SetDefault("auth.keycloak.client_id", "")
	v.SetDefault("auth.keycloak.client_secret", "")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.alert_stream", "apiary:alerts")
	v.SetDefault("redis.stream_max_len", 10000)

	// Rate limit defaults
	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.simulate_limit", 30)
	v.SetDefault("ratelimit.window", "1m")
	v.SetDefault("ratelimit.key_prefix", "apiary:rl")

	// Monitoring defaults
	v.SetDefault("monitoring.metrics_enabled", true)
	v.SetDefault("monitoring.metrics_path", "/metrics")

	// Ingest defaults
	v.SetDefault("ingest.thresholds.temperature_min", 15.0)
	v.SetDefault("ingest.thresholds.temperature_max", 40.0)
	v.SetDefault("ingest.thresholds.humidity_min", 30.0)
	v.SetDefault("ingest.thresholds.humidity_max", 80.0)
	v.SetDefault("ingest.thresholds.weight_min", 15.0)
	v.SetDefault("ingest.thresholds.weight_max", 45.0)
	v.SetDefault("ingest.simulation.temperature_min", 25.0)
	v.SetDefault("ingest.simulation.temperature_max", 45.0)
	v.SetDefault("ingest.simulation.humidity_min", 20.0)
	v.SetDefault("ingest.simulation.humidity_max", 60.0)
	v.SetDefault("ingest.simulation.weight_min", 10.0)
	v.SetDefault("ingest.simulation.weight_max", 51.0)
	v.SetDefault("ingest.sensor_selection", "random")

	// Listing defaults
	v.SetDefault("listing.alerts_limit", 5)
	v.SetDefault("listing.readings_limit", 60)
	v.SetDefault("listing.workflow_limit", 10)
}

func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case "postgres":
		if config.Database.Postgres.Host == "" {
			return fmt.Errorf("postgres host is required")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown database driver %q", config.Database.Driver)
	}

	switch config.Auth.Mode {
	case "jwt":
		if len(config.Auth.JWT.Secret) < 16 {
			return fmt.Errorf("jwt secret must be at least 16 characters")
		}
	case "keycloak":
		if config.Auth.Keycloak.URL == "" {
			return fmt.Errorf("keycloak URL is required")
		}
	default:
		return fmt.Errorf("unknown auth mode %q", config.Auth.Mode)
	}

	switch config.Ingest.SensorSelection {
	case "random", "first":
	default:
		return fmt.Errorf("unknown sensor selection %q", config.Ingest.SensorSelection)
	}

	t := config.Ingest.Thresholds
	if t.TemperatureMin >= t.TemperatureMax || t.HumidityMin >= t.HumidityMax || t.WeightMin >= t.WeightMax {
		return fmt.Errorf("threshold minimums must be below maximums")
	}
	if config.RateLimit.Enabled && !config.Redis.Enabled {
		return fmt.Errorf("rate limiting requires redis")
	}
	return nil
}
