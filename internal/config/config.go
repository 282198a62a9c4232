package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	HealthStore HealthStoreConfig
	Remote      RemoteConfig
	State       StateConfig
	Logging     LoggingConfig
}

// ServerConfig holds the control-surface server configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
}

// HealthStoreConfig holds the local health-sample store connection settings
type HealthStoreConfig struct {
	URL             string
	MaxConns        int
	ConnMaxLifetime time.Duration
}

// RemoteConfig holds the remote sync API settings
type RemoteConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StateConfig holds the persisted local state settings
type StateConfig struct {
	Dir string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)

	v.SetDefault("healthstore.maxconns", 10)
	v.SetDefault("healthstore.connmaxlifetime", 5*time.Minute)

	v.SetDefault("remote.timeout", 30*time.Second)

	v.SetDefault("state.dir", "./data/state")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")

	v.BindEnv("healthstore.url", "HEALTH_STORE_URL")

	v.BindEnv("remote.baseurl", "REMOTE_API_BASE_URL")
	v.BindEnv("remote.timeout", "REMOTE_API_TIMEOUT")

	v.BindEnv("state.dir", "STATE_DIR")

	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HealthStore.URL == "" {
		return fmt.Errorf("healthstore.url is required")
	}

	if c.Remote.BaseURL == "" {
		return fmt.Errorf("remote.baseurl is required")
	}

	if c.State.Dir == "" {
		return fmt.Errorf("state.dir is required")
	}

	return nil
}
