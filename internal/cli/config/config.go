package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"eperf/internal/cli/command"
	appErr "eperf/pkg/errors"
	"eperf/pkg/utils/logger"

	"gopkg.in/yaml.v3"
)

const (
	DefaultScriptDir      = "."
	DefaultElevateCommand = "sudo"
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = "console"
	DefaultLogOutput      = "stderr"
)

// Config holds dispatcher configuration.
type Config struct {
	ScriptDir      string        `yaml:"scriptDir"`
	ElevateCommand *string       `yaml:"elevateCommand"`
	Timeout        time.Duration `yaml:"timeout"`
	StrictExit     bool          `yaml:"strictExit"`
	Color          *bool         `yaml:"color"`
	Log            logger.Config `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	applyDefaults(&cfg)
	return cfg
}

// Load reads path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return cfg, appErr.Wrapf(err, appErr.ConfigInvalid, "read config file failed: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, appErr.Wrapf(err, appErr.ConfigInvalid, "parse config file failed: %v", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values that defaults cannot repair.
func (c Config) Validate() error {
	if c.Timeout < 0 {
		return appErr.Newf(appErr.ConfigInvalid, "timeout must not be negative: %s", c.Timeout)
	}
	if _, err := c.ElevateTokens(); err != nil {
		return appErr.Wrapf(err, appErr.ConfigInvalid, "invalid elevateCommand: %v", err)
	}
	return nil
}

// ElevateTokens splits the elevation command into argv tokens.
func (c Config) ElevateTokens() ([]string, error) {
	if c.ElevateCommand == nil {
		return command.SplitCommand(DefaultElevateCommand)
	}
	return command.SplitCommand(*c.ElevateCommand)
}

// ColorEnabled reports whether styled output was requested.
func (c Config) ColorEnabled() bool {
	return c.Color == nil || *c.Color
}

func applyDefaults(cfg *Config) {
	if cfg.ScriptDir == "" {
		cfg.ScriptDir = DefaultScriptDir
	}
	if cfg.ElevateCommand == nil {
		value := DefaultElevateCommand
		cfg.ElevateCommand = &value
	}
	if cfg.Color == nil {
		value := true
		cfg.Color = &value
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Log.OutputPath == "" {
		cfg.Log.OutputPath = DefaultLogOutput
	}
}
