// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/lapwatch/internal/model"
)

// Defaults.
const (
	DefaultTheme       = "dark"
	DefaultRefreshMs   = 10
	DefaultChartWidth  = 800
	DefaultChartHeight = 400
	DefaultLogLevel    = "info"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Stopwatch StopwatchConfig `toml:"stopwatch"`
	Chart     ChartConfig     `toml:"chart"`
	Log       LogConfig       `toml:"log"`
}

// StopwatchConfig maps display settings.
type StopwatchConfig struct {
	RefreshMs *int    `toml:"refresh-ms"`
	Theme     *string `toml:"theme"`
}

// ChartConfig maps chart export settings.
type ChartConfig struct {
	Width  *int `toml:"width"`
	Height *int `toml:"height"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Default returns the built-in settings.
func Default() model.Config {
	return model.Config{
		Theme:           DefaultTheme,
		RefreshInterval: DefaultRefreshMs * time.Millisecond,
		ChartWidth:      DefaultChartWidth,
		ChartHeight:     DefaultChartHeight,
		LogLevel:        DefaultLogLevel,
	}
}

// Validate checks settings after flags and file values are merged.
func Validate(cfg model.Config) error {
	if cfg.RefreshInterval < time.Millisecond || cfg.RefreshInterval > time.Second {
		return fmt.Errorf("--refresh-ms must be between 1 and 1000")
	}
	switch strings.ToLower(cfg.Theme) {
	case "dark", "light":
	default:
		return fmt.Errorf("--theme must be dark or light")
	}
	if cfg.ChartWidth < 100 || cfg.ChartHeight < 100 {
		return fmt.Errorf("chart width and height must be >= 100")
	}
	return nil
}
