package main

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ha1tch/pie-toolkit/pkg/pie"
)

// Config holds persistent viewer settings
type Config struct {
	TotalDuration time.Duration `yaml:"total_duration"`
	FPS           int           `yaml:"fps"`
	LabelReveal   string        `yaml:"label_reveal"` // "end" or "slice"
	LabelSlots    int           `yaml:"label_slots,omitempty"`
	Clamp         bool          `yaml:"clamp,omitempty"`
	LogFile       string        `yaml:"log_file,omitempty"`
	LastFile      string        `yaml:"last_file,omitempty"`
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		TotalDuration: pie.DefaultTotalDuration,
		FPS:           20,
		LabelReveal:   "end",
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pieview.yaml"
	}
	return filepath.Join(home, ".pieview.yaml")
}

// LoadConfig loads configuration from path. A missing file gives the
// defaults; fields left out keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}
	if cfg.FPS <= 0 || cfg.FPS > 120 {
		cfg.FPS = DefaultConfig().FPS
	}
	if cfg.TotalDuration <= 0 {
		cfg.TotalDuration = pie.DefaultTotalDuration
	}
	if cfg.LabelReveal != "slice" {
		cfg.LabelReveal = "end"
	}
	return cfg, nil
}

// SaveConfig writes configuration to path
func SaveConfig(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append([]byte("# pieview configuration\n"), data...), 0644)
}

// ChartOptions converts the settings into chart options.
func (c Config) ChartOptions(log *zap.Logger) pie.Options {
	opts := pie.DefaultOptions()
	opts.TotalDuration = c.TotalDuration
	if c.LabelReveal == "slice" {
		opts.LabelReveal = pie.RevealPerSlice
	}
	opts.LabelSlots = c.LabelSlots
	opts.ClampOverflow = c.Clamp
	opts.Logger = log
	return opts
}

// newLogger logs to the configured file, or nowhere: the terminal
// belongs to the viewer.
func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	return config.Build()
}
