// Package config manages mesos-style configuration.
//
// The style lists (rules, roots, exclusions, extensions) are fixed and live in
// style.go. Only the invoker and output settings are loaded through Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Color modes accepted by output.color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the application configuration.
type Config struct {
	Linter LinterConfig `mapstructure:"linter"`
	Output OutputConfig `mapstructure:"output"`

	// Source is the config file that was read, empty when none was found.
	Source string `mapstructure:"-"`
}

// LinterConfig locates the cpplint script and the interpreter that runs it.
type LinterConfig struct {
	Python string `mapstructure:"python"`
	Script string `mapstructure:"script"`
}

// OutputConfig controls terminal output.
type OutputConfig struct {
	Color   string `mapstructure:"color"`
	Verbose bool   `mapstructure:"verbose"`
}

// Defaults for the loaded settings.
const (
	DefaultPython = "python"
	DefaultColor  = ColorAuto
)

// DefaultScript is where the bundled cpplint lives relative to the source root.
var DefaultScript = filepath.Join("support", "cpplint.py")

// NewViper returns a Viper instance with defaults and environment binding set
// up but no config file read.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("linter.python", DefaultPython)
	v.SetDefault("linter.script", DefaultScript)
	v.SetDefault("output.color", DefaultColor)
	v.SetDefault("output.verbose", false)

	// MESOS_STYLE_LINTER_SCRIPT and friends override file settings
	v.SetEnvPrefix("MESOS_STYLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load loads configuration from files and environment variables.
// When file is empty it searches, in order:
// 1. /etc/mesos-style/mesos-style.{toml,yaml,yml}
// 2. $XDG_CONFIG_HOME/mesos-style/ (or ~/.config/mesos-style/)
// 3. ./mesos-style.{toml,yaml,yml}
//
// A missing config file is not an error; an explicitly named one is.
func Load(file string) (*Config, error) {
	v := NewViper()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("mesos-style")
		v.AddConfigPath("/etc/mesos-style/")
		v.AddConfigPath(getXDGConfigPath())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return LoadWithViper(v)
}

// LoadWithViper loads configuration using a provided Viper instance.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Source = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the invoker cannot work with.
func (c *Config) Validate() error {
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid output.color %q: want %s, %s or %s",
			c.Output.Color, ColorAuto, ColorAlways, ColorNever)
	}
	if c.Linter.Python == "" {
		return errors.New("linter.python must not be empty")
	}
	if c.Linter.Script == "" {
		return errors.New("linter.script must not be empty")
	}
	return nil
}

// getXDGConfigPath returns the XDG config directory for mesos-style.
func getXDGConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "mesos-style")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if we can't get home
		return "."
	}

	return filepath.Join(homeDir, ".config", "mesos-style")
}
