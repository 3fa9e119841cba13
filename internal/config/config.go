package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultQuotaBytes mirrors the 5 MB limit browsers put on local storage
const DefaultQuotaBytes = 5 * 1024 * 1024

// Config holds the application configuration
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Recognizer RecognizerConfig `yaml:"recognizer,omitempty"`
	MQTT       MQTTConfig       `yaml:"mqtt,omitempty"`
	Archive    ArchiveConfig    `yaml:"archive,omitempty"`
	LogLevel   string           `yaml:"log_level,omitempty"` // debug, info, warn or error
}

// StorageConfig selects the durable medium
type StorageConfig struct {
	Driver     string      `yaml:"driver,omitempty"`      // sqlite (default), redis or memory
	Path       string      `yaml:"path,omitempty"`        // SQLite file
	QuotaBytes int64       `yaml:"quota_bytes,omitempty"` // 0 uses the default, negative disables
	Redis      RedisConfig `yaml:"redis,omitempty"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	URL      string `yaml:"url,omitempty"` // e.g., "redis://localhost:6379/0", overrides addr
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

// RecognizerConfig configures photo recognition
type RecognizerConfig struct {
	Mode           string        `yaml:"mode,omitempty"` // auto (default), vision or simulated
	Endpoint       string        `yaml:"endpoint,omitempty"`
	APIKey         string        `yaml:"api_key,omitempty"`
	Timeout        time.Duration `yaml:"timeout,omitempty"`
	SimulatedDelay time.Duration `yaml:"simulated_delay,omitempty"`
}

// MQTTConfig holds MQTT broker settings for publishing daily summaries
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // host:port
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"`
}

// ArchiveConfig holds S3 settings for the photo archive
type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Bucket  string `yaml:"bucket"`
	Region  string `yaml:"region,omitempty"`
	Prefix  string `yaml:"prefix,omitempty"`
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// Validate checks enumerated fields
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "", "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("unknown storage driver %q (use sqlite, redis or memory)", c.Storage.Driver)
	}
	switch c.Recognizer.Mode {
	case "", "auto", "vision", "simulated":
	default:
		return fmt.Errorf("unknown recognizer mode %q (use auto, vision or simulated)", c.Recognizer.Mode)
	}
	return nil
}

// GetDriver returns the storage driver, defaulting to sqlite
func (c *Config) GetDriver() string {
	if c.Storage.Driver == "" {
		return "sqlite"
	}
	return c.Storage.Driver
}

// GetDBPath returns the SQLite path, defaulting to ./kcaltrack.db
func (c *Config) GetDBPath() string {
	if c.Storage.Path == "" {
		return "kcaltrack.db"
	}
	return c.Storage.Path
}

// GetQuotaBytes returns the storage quota; 0 means unlimited
func (c *Config) GetQuotaBytes() int64 {
	switch {
	case c.Storage.QuotaBytes < 0:
		return 0
	case c.Storage.QuotaBytes == 0:
		return DefaultQuotaBytes
	default:
		return c.Storage.QuotaBytes
	}
}

// GetRedisPrefix returns the key prefix for the Redis medium
func (c *Config) GetRedisPrefix() string {
	if c.Storage.Redis.Prefix == "" {
		return "kcaltrack:"
	}
	return c.Storage.Redis.Prefix
}

// GetRecognizerMode returns the recognizer mode, defaulting to auto
func (c *Config) GetRecognizerMode() string {
	if c.Recognizer.Mode == "" {
		return "auto"
	}
	return c.Recognizer.Mode
}

// GetRecognizerTimeout returns the recognition timeout with a default of 30s
func (c *Config) GetRecognizerTimeout() time.Duration {
	if c.Recognizer.Timeout <= 0 {
		return 30 * time.Second
	}
	return c.Recognizer.Timeout
}

// GetSimulatedDelay returns the simulated recognizer delay with a default of 1.5s
func (c *Config) GetSimulatedDelay() time.Duration {
	if c.Recognizer.SimulatedDelay <= 0 {
		return 1500 * time.Millisecond
	}
	return c.Recognizer.SimulatedDelay
}

// GetTopicPrefix returns the MQTT topic prefix, defaulting to kcaltrack
func (c *Config) GetTopicPrefix() string {
	if c.MQTT.TopicPrefix == "" {
		return "kcaltrack"
	}
	return c.MQTT.TopicPrefix
}

// GetArchivePrefix returns the S3 key prefix for archived photos
func (c *Config) GetArchivePrefix() string {
	if c.Archive.Prefix == "" {
		return "photos/"
	}
	return c.Archive.Prefix
}
