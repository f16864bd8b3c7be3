// Package config loads abacus settings from defaults, an optional YAML
// file and ABACUS_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultHistoryFile is used when history.file is not configured.
const DefaultHistoryFile = "abacus_history.csv"

// PluginsConfig controls plugin discovery.
type PluginsConfig struct {
	Dir   string `mapstructure:"dir" yaml:"dir"`                                       // Plugin directory. Empty disables discovery.
	Watch bool   `mapstructure:"watch" yaml:"watch"`                                   // Reload plugins when the directory changes (repl only).
	Mode  string `mapstructure:"mode" yaml:"mode" validate:"oneof=failfast collect"` // Failure mode for discovery.
}

// HistoryConfig controls where history is kept.
type HistoryConfig struct {
	File     string `mapstructure:"file" yaml:"file" validate:"required"` // History file; the extension picks the format.
	AutoSave bool   `mapstructure:"autosave" yaml:"autosave"`             // Save after every calculation.
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
}

// Config wraps the entire abacus configuration.
type Config struct {
	Plugins PluginsConfig `mapstructure:"plugins" yaml:"plugins"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Plugins: PluginsConfig{Mode: "failfast"},
		History: HistoryConfig{File: DefaultHistoryFile, AutoSave: true},
		Log:     LogConfig{Level: "info"},
	}
}

// envBindings maps config keys to the environment variables that can set them.
var envBindings = map[string][]string{
	"plugins.dir":      {"ABACUS_PLUGIN_DIR"},
	"plugins.watch":    {"ABACUS_PLUGIN_WATCH"},
	"plugins.mode":     {"ABACUS_PLUGIN_MODE"},
	"history.file":     {"ABACUS_HISTORY_FILE"},
	"history.autosave": {"ABACUS_HISTORY_AUTOSAVE"},
	"log.level":        {"ABACUS_LOG_LEVEL"},
}

// Load builds the configuration. An empty filePath skips the config file;
// a non-empty one must exist. Environment variables override file values.
// The result is validated.
func Load(filePath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if err := bindEnvs(v); err != nil {
		return nil, fmt.Errorf("binding environment: %w", err)
	}

	if filePath != "" {
		if _, err := os.Stat(filePath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", filePath, err)
		}
		v.SetConfigFile(filePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", filePath, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads environment variables from the given files, or from
// .env when none are given. Missing files are ignored and variables that
// are already set are never overridden.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("plugins.dir", d.Plugins.Dir)
	v.SetDefault("plugins.watch", d.Plugins.Watch)
	v.SetDefault("plugins.mode", d.Plugins.Mode)
	v.SetDefault("history.file", d.History.File)
	v.SetDefault("history.autosave", d.History.AutoSave)
	v.SetDefault("log.level", d.Log.Level)
}

func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		inputs := slices.Insert(envs, 0, key)
		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) normalize() {
	c.Plugins.Mode = strings.ToLower(strings.TrimSpace(c.Plugins.Mode))
	if c.Plugins.Mode == "collectall" {
		c.Plugins.Mode = "collect"
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.History.File = strings.TrimSpace(c.History.File)
}

// SlogLevel maps Log.Level to a slog.Level. Unknown values map to Info.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
