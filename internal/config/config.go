package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/n8henrie/knapsack/internal/knapsack"
	"github.com/n8henrie/knapsack/internal/storage"
)

const (
	defaultPort           = "8080"
	defaultMaxItems       = 10
	defaultSubsetMaxItems = 20
	defaultStoragePath    = "data/knapsack.db"
	defaultLogLevel       = "info"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
)

// Config aggregates runtime configuration resolved from multiple sources.
type Config struct {
	Port                 string
	Strategy             knapsack.Strategy
	MaxItems             int
	SubsetMaxItems       int
	StorageDriver        string
	StoragePath          string
	LogLevel             string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
}

// fileConfig mirrors the YAML file. Pointer fields distinguish "absent" from zero.
type fileConfig struct {
	Port                 string        `mapstructure:"port"`
	Strategy             string        `mapstructure:"strategy"`
	MaxItems             *int          `mapstructure:"max_items"`
	SubsetMaxItems       *int          `mapstructure:"subset_max_items"`
	LogLevel             string        `mapstructure:"log_level"`
	Storage              fileStorage   `mapstructure:"storage"`
	ShutdownGracePeriod  time.Duration `mapstructure:"shutdown_grace_period"`
	ReadHeaderTimeout    time.Duration `mapstructure:"read_header_timeout"`
	WriteTimeout         time.Duration `mapstructure:"write_timeout"`
	IdleTimeout          time.Duration `mapstructure:"idle_timeout"`
	EnableRequestLogging *bool         `mapstructure:"enable_request_logging"`
	RateLimit            fileRateLimit `mapstructure:"rate_limit"`
}

type fileStorage struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

type fileRateLimit struct {
	RPS   *float64 `mapstructure:"rps"`
	Burst *int     `mapstructure:"burst"`
}

// CLIOverrides holds command-line flag overrides. Nil fields are not set.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	Strategy       *string
	MaxItems       *int
	SubsetMaxItems *int
	StorageDriver  *string
	StoragePath    *string
	LogLevel       *string
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	applyEnvConfig(&cfg)

	if overrides != nil && overrides.ConfigFile != "" {
		fileCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyFileConfig(&cfg, fileCfg)
	}

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		Strategy:             knapsack.StrategyPermutation,
		MaxItems:             defaultMaxItems,
		SubsetMaxItems:       defaultSubsetMaxItems,
		StorageDriver:        storage.DriverMemory,
		StoragePath:          defaultStoragePath,
		LogLevel:             defaultLogLevel,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile reads a YAML file and decodes it into fileConfig. Unknown keys
// are rejected so that typos surface at startup.
func loadFromFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	var fileCfg fileConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      &fileCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("build decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode YAML: %w", err)
	}

	return &fileCfg, nil
}

// applyFileConfig applies values present in the YAML file.
func applyFileConfig(cfg *Config, fileCfg *fileConfig) {
	if fileCfg.Port != "" {
		cfg.Port = fileCfg.Port
	}
	if fileCfg.Strategy != "" {
		cfg.Strategy = knapsack.Strategy(fileCfg.Strategy)
	}
	if fileCfg.MaxItems != nil {
		cfg.MaxItems = *fileCfg.MaxItems
	}
	if fileCfg.SubsetMaxItems != nil {
		cfg.SubsetMaxItems = *fileCfg.SubsetMaxItems
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.Storage.Driver != "" {
		cfg.StorageDriver = fileCfg.Storage.Driver
	}
	if fileCfg.Storage.Path != "" {
		cfg.StoragePath = fileCfg.Storage.Path
	}
	if fileCfg.ShutdownGracePeriod > 0 {
		cfg.ShutdownGracePeriod = fileCfg.ShutdownGracePeriod
	}
	if fileCfg.ReadHeaderTimeout > 0 {
		cfg.ReadHeaderTimeout = fileCfg.ReadHeaderTimeout
	}
	if fileCfg.WriteTimeout > 0 {
		cfg.WriteTimeout = fileCfg.WriteTimeout
	}
	if fileCfg.IdleTimeout > 0 {
		cfg.IdleTimeout = fileCfg.IdleTimeout
	}
	if fileCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *fileCfg.EnableRequestLogging
	}
	if fileCfg.RateLimit.RPS != nil {
		cfg.RateLimitRPS = *fileCfg.RateLimit.RPS
	}
	if fileCfg.RateLimit.Burst != nil {
		cfg.RateLimitBurst = *fileCfg.RateLimit.Burst
	}
}

// applyEnvConfig applies environment variable configuration. Unparseable
// numeric values are ignored.
func applyEnvConfig(cfg *Config) {
	if port := env("PORT"); port != "" {
		cfg.Port = port
	}

	if strategy := env("KNAPSACK_STRATEGY"); strategy != "" {
		cfg.Strategy = knapsack.Strategy(strategy)
	}

	if raw := env("KNAPSACK_MAX_ITEMS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.MaxItems = value
		}
	}

	if raw := env("KNAPSACK_SUBSET_MAX_ITEMS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.SubsetMaxItems = value
		}
	}

	if driver := env("STORAGE_DRIVER"); driver != "" {
		cfg.StorageDriver = driver
	}

	if path := env("STORAGE_PATH"); path != "" {
		cfg.StoragePath = path
	}

	if level := env("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	if rps := env("RATE_LIMIT_RPS"); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := env("RATE_LIMIT_BURST"); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}
	if overrides.Strategy != nil && *overrides.Strategy != "" {
		cfg.Strategy = knapsack.Strategy(*overrides.Strategy)
	}
	if overrides.MaxItems != nil && *overrides.MaxItems >= 0 {
		cfg.MaxItems = *overrides.MaxItems
	}
	if overrides.SubsetMaxItems != nil && *overrides.SubsetMaxItems >= 0 {
		cfg.SubsetMaxItems = *overrides.SubsetMaxItems
	}
	if overrides.StorageDriver != nil && *overrides.StorageDriver != "" {
		cfg.StorageDriver = *overrides.StorageDriver
	}
	if overrides.StoragePath != nil && *overrides.StoragePath != "" {
		cfg.StoragePath = *overrides.StoragePath
	}
	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}
	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}
	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}
}

// validateConfig validates the final configuration and normalises the
// strategy and storage driver names.
func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.Port) == "" {
		return fmt.Errorf("port cannot be empty")
	}

	strategy, err := knapsack.ParseStrategy(string(cfg.Strategy))
	if err != nil {
		return err
	}
	cfg.Strategy = strategy

	if cfg.MaxItems < 0 {
		return fmt.Errorf("max items must be >= 0")
	}
	if cfg.SubsetMaxItems < 0 {
		return fmt.Errorf("subset max items must be >= 0")
	}

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	if !slices.Contains(storage.Drivers(), cfg.StorageDriver) {
		return fmt.Errorf("%w: %q", storage.ErrUnknownDriver, cfg.StorageDriver)
	}
	if cfg.StorageDriver == storage.DriverSQLite && strings.TrimSpace(cfg.StoragePath) == "" {
		return fmt.Errorf("storage path is required for the sqlite driver")
	}

	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
