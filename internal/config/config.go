// Package config loads coordinator and worker configuration with viper,
// supporting a YAML file plus FRAKT_-prefixed environment overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// CoordinatorConfig is the coordinator process's configuration.
type CoordinatorConfig struct {
	Addr              string        `mapstructure:"addr"`
	Workers           int           `mapstructure:"workers"`
	Output            string        `mapstructure:"output"`
	PlannerExhaustion string        `mapstructure:"planner_exhaustion"`
	Metrics           MetricsConfig `mapstructure:"metrics"`
	Log               LogConfig     `mapstructure:"log"`
	Audit             AuditConfig   `mapstructure:"audit"`
}

// WorkerConfig is the worker process's configuration.
type WorkerConfig struct {
	Name        string    `mapstructure:"name"`
	Coordinator string    `mapstructure:"coordinator"`
	Reconnect   bool      `mapstructure:"reconnect"`
	MaxRetries  int       `mapstructure:"max_retries"`
	Log         LogConfig `mapstructure:"log"`
}

// MetricsConfig configures the Prometheus metrics HTTP endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level string        `mapstructure:"level"`
	File  LogFileConfig `mapstructure:"file"`
}

// LogFileConfig configures rotated file output alongside stderr.
type LogFileConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// AuditConfig configures the optional Kafka render-event sink.
type AuditConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// LoadCoordinator reads coordinator configuration from path (if non-empty)
// layered under defaults and FRAKT_ environment overrides.
func LoadCoordinator(path string) (*CoordinatorConfig, error) {
	v := newViper(path)
	setCoordinatorDefaults(v)

	if err := readIfPresent(v, path); err != nil {
		return nil, err
	}

	var cfg CoordinatorConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling coordinator config: %w", err)
	}

	if cfg.PlannerExhaustion != "close" && cfg.PlannerExhaustion != "wrap" {
		return nil, fmt.Errorf("config: planner_exhaustion must be 'close' or 'wrap', got %q", cfg.PlannerExhaustion)
	}
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("config: workers must be positive, got %d", cfg.Workers)
	}

	return &cfg, nil
}

// LoadWorker reads worker configuration from path (if non-empty) layered
// under defaults and FRAKT_ environment overrides.
func LoadWorker(path string) (*WorkerConfig, error) {
	v := newViper(path)
	setWorkerDefaults(v)

	if err := readIfPresent(v, path); err != nil {
		return nil, err
	}

	var cfg WorkerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling worker config: %w", err)
	}
	return &cfg, nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	}
	v.SetEnvPrefix("frakt")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func readIfPresent(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	return nil
}

func setCoordinatorDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8787")
	v.SetDefault("workers", 16)
	v.SetDefault("output", "fractal.png")
	v.SetDefault("planner_exhaustion", "close")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file.enabled", false)
	v.SetDefault("log.file.max_size_mb", 100)
	v.SetDefault("log.file.max_age_days", 30)
	v.SetDefault("log.file.max_backups", 5)
	v.SetDefault("log.file.compress", true)
	v.SetDefault("audit.enabled", false)
	v.SetDefault("audit.topic", "frakt.render-events")
}

func setWorkerDefaults(v *viper.Viper) {
	v.SetDefault("coordinator", "localhost:8787")
	v.SetDefault("reconnect", false)
	v.SetDefault("max_retries", 3)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file.enabled", false)
	v.SetDefault("log.file.max_size_mb", 100)
	v.SetDefault("log.file.max_age_days", 30)
	v.SetDefault("log.file.max_backups", 5)
	v.SetDefault("log.file.compress", true)
}
