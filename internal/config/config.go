package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all ipcmond configuration.
type Config struct {
	Server    ServerConfig
	IPC       IPCConfig
	Monitor   MonitorConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8090" yaml:"port"`
	Host string `envconfig:"HOST" default:"0.0.0.0" yaml:"host"`
}

// IPCConfig holds the targeting and paging configuration of the IPC
// subsystem. The allow-list is a fixed table loaded once at startup;
// runtime mutation is out of scope.
type IPCConfig struct {
	TargetDevice string   `envconfig:"IPC_TARGET_DEVICE" default:"Motorola Nexus 6 shamu" yaml:"target_device"`
	AllowedUIDs  []uint32 `envconfig:"IPC_ALLOWED_UIDS" default:"1000,1001" yaml:"allowed_uids"`
	PageSize     uint32   `envconfig:"IPC_PAGE_SIZE" default:"16384" yaml:"page_size"`
	PagesMapped  uint32   `envconfig:"IPC_PAGES_MAPPED" default:"64" yaml:"pages_mapped"`
	Enforced     bool     `envconfig:"IPC_UID_ENFORCED" default:"true" yaml:"uid_enforced"`
}

// MonitorConfig holds transaction-monitor configuration.
type MonitorConfig struct {
	// SamplePeriod is the tick interval of the uptime sampler.
	SamplePeriod time.Duration `envconfig:"MONITOR_SAMPLE_PERIOD" default:"1s" yaml:"sample_period"`
	// ResetAll zeroes every counter on re-initialization instead of the
	// legacy four-counter subset.
	ResetAll bool `envconfig:"MONITOR_RESET_ALL" default:"false" yaml:"reset_all"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" yaml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" yaml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" yaml:"enabled"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile loads configuration from the environment, then overlays the
// YAML file at path.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8090",
			Host: "0.0.0.0",
		},
		IPC: IPCConfig{
			TargetDevice: "Motorola Nexus 6 shamu",
			AllowedUIDs:  []uint32{1000, 1001},
			PageSize:     16384,
			PagesMapped:  64,
			Enforced:     true,
		},
		Monitor: MonitorConfig{
			SamplePeriod: time.Second,
			ResetAll:     false,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// Validate rejects configurations the IPC core cannot represent.
func (c *Config) Validate() error {
	if c.IPC.PageSize == 0 || c.IPC.PageSize&(c.IPC.PageSize-1) != 0 {
		return fmt.Errorf("ipc page size must be a power of two, got %d", c.IPC.PageSize)
	}
	if c.IPC.PagesMapped == 0 {
		return fmt.Errorf("ipc region must map at least one page")
	}
	if len(c.IPC.AllowedUIDs) == 0 {
		return fmt.Errorf("ipc allow-list must not be empty")
	}
	if len(c.IPC.AllowedUIDs) > 8 {
		return fmt.Errorf("ipc allow-list holds at most 8 entries, got %d", len(c.IPC.AllowedUIDs))
	}
	if c.Monitor.SamplePeriod <= 0 {
		return fmt.Errorf("monitor sample period must be positive")
	}
	return nil
}
