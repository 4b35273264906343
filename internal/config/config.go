package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vnykmshr/gopool/pkg/common/validation"
)

// MaxFibCount is the largest fan-out whose terms all fit in a uint64.
const MaxFibCount = 93

// EnvPrefix prefixes every environment override, e.g. GOPOOL_POOL_WORKERS.
const EnvPrefix = "GOPOOL"

// Config is the top-level configuration of the gopool command.
type Config struct {
	Pool    PoolConfig    `yaml:"pool" json:"pool"`
	Fib     FibConfig     `yaml:"fib" json:"fib"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
	Log     LogConfig     `yaml:"log" json:"log"`
}

// PoolConfig sizes the worker pool. Zero workers means one per CPU.
type PoolConfig struct {
	Name    string `yaml:"name" json:"name"`
	Workers int    `yaml:"workers" json:"workers"`
}

// FibConfig controls the fibonacci fan-out.
type FibConfig struct {
	Count int `yaml:"count" json:"count"`
}

// MetricsConfig enables the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Pool:    PoolConfig{Name: "gopool"},
		Fib:     FibConfig{Count: 10},
		Metrics: MetricsConfig{Addr: ":9090"},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path on top of Default, choosing the decoder by extension,
// then applies environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := ApplyEnvOverrides(&cfg, os.LookupEnv); err != nil {
		return cfg, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format: %s", ext)
	}

	return nil
}

// ApplyEnvOverrides sets fields from GOPOOL_<SECTION>_<FIELD> variables
// found through lookup.
func ApplyEnvOverrides(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"POOL_NAME":    &cfg.Pool.Name,
		"METRICS_ADDR": &cfg.Metrics.Addr,
		"LOG_LEVEL":    &cfg.Log.Level,
		"LOG_FORMAT":   &cfg.Log.Format,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + "_" + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"POOL_WORKERS": &cfg.Pool.Workers,
		"FIB_COUNT":    &cfg.Fib.Count,
	}
	for key, dst := range ints {
		v, ok := lookup(EnvPrefix + "_" + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s_%s: invalid integer value %q", EnvPrefix, key, v)
		}
		*dst = n
	}

	if v, ok := lookup(EnvPrefix + "_METRICS_ENABLED"); ok {
		enabled, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s_METRICS_ENABLED: invalid boolean value %q", EnvPrefix, v)
		}
		cfg.Metrics.Enabled = enabled
	}

	return nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validation.ValidateNotEmpty("config", "pool.name", c.Pool.Name); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative("config", "pool.workers", float64(c.Pool.Workers)); err != nil {
		return err
	}
	if err := validation.ValidatePositive("config", "fib.count", c.Fib.Count); err != nil {
		return err
	}
	if err := validation.ValidateRange("config", "fib.count", c.Fib.Count, 1, MaxFibCount); err != nil {
		return err
	}
	if c.Metrics.Enabled {
		if err := validation.ValidateNotEmpty("config", "metrics.addr", c.Metrics.Addr); err != nil {
			return err
		}
	}
	if err := validation.ValidateOneOf("config", "log.level", c.Log.Level, "debug", "info", "warn", "error"); err != nil {
		return err
	}
	return validation.ValidateOneOf("config", "log.format", c.Log.Format, "text", "json")
}

// NewLogger builds the slog logger described by c, writing to w.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
