package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	ckerrors "github.com/Aman-CERP/checkignore/internal/errors"
	"github.com/Aman-CERP/checkignore/internal/gitignore"
	"github.com/Aman-CERP/checkignore/internal/rules"
)

// CurrentVersion is the only config schema version understood.
const CurrentVersion = 1

// Config represents the optional checkignore configuration file.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Rules   RulesConfig   `yaml:"rules" json:"rules"`
	Scan    ScanConfig    `yaml:"scan" json:"scan"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Watch   WatchConfig   `yaml:"watch" json:"watch"`
}

// RulesConfig configures how the rule file is found.
type RulesConfig struct {
	// FileName is looked up in the working directory when --ignore is absent.
	FileName string `yaml:"file_name" json:"file_name"`
}

// ScanConfig configures traversal and matching.
type ScanConfig struct {
	FollowSymlinks bool `yaml:"follow_symlinks" json:"follow_symlinks"`
	// Workers bounds parallel matching. 0 means one per CPU.
	Workers int `yaml:"workers" json:"workers"`
}

// LoggingConfig configures the stderr log level.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// WatchConfig configures the watch subcommand.
type WatchConfig struct {
	Debounce string `yaml:"debounce" json:"debounce"`
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Rules: RulesConfig{
			FileName: rules.DefaultFileName,
		},
		Scan: ScanConfig{
			FollowSymlinks: false,
			Workers:        0,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
		Watch: WatchConfig{
			Debounce: "300ms",
		},
	}
}

// Load returns the defaults merged with the YAML file at path.
// An empty path means no config file. Environment variables are not read.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		msg := fmt.Sprintf("failed to read config file %s", path)
		if errors.Is(err, fs.ErrNotExist) {
			msg = fmt.Sprintf("config file not found: %s", path)
		}
		return ckerrors.ConfigError(ckerrors.ErrCodeConfigInvalid, msg, err).
			WithDetail("path", path)
	}

	// Use a temporary struct for parsing to detect type errors
	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return ckerrors.ConfigError(ckerrors.ErrCodeConfigInvalid,
			fmt.Sprintf("failed to parse config file %s", path), err).
			WithDetail("path", path)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}
	if other.Rules.FileName != "" {
		c.Rules.FileName = other.Rules.FileName
	}
	if other.Scan.FollowSymlinks {
		c.Scan.FollowSymlinks = true
	}
	if other.Scan.Workers != 0 {
		c.Scan.Workers = other.Scan.Workers
	}
	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Watch.Debounce != "" {
		c.Watch.Debounce = other.Watch.Debounce
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return invalid("unsupported config version %d (expected %d)", c.Version, CurrentVersion)
	}
	if strings.TrimSpace(c.Rules.FileName) == "" {
		return invalid("rules.file_name must not be empty")
	}
	if c.Scan.Workers < 0 {
		return invalid("scan.workers must be non-negative, got %d", c.Scan.Workers)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return invalid("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level)
	}

	if _, err := c.DebounceDuration(); err != nil {
		return err
	}
	return nil
}

// DebounceDuration parses watch.debounce.
func (c *Config) DebounceDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0, invalid("watch.debounce is not a duration: %q", c.Watch.Debounce)
	}
	if d <= 0 {
		return 0, invalid("watch.debounce must be positive, got %s", c.Watch.Debounce)
	}
	return d, nil
}

func invalid(format string, args ...any) error {
	return ckerrors.ConfigError(ckerrors.ErrCodeConfigInvalid, fmt.Sprintf(format, args...), nil).
		WithSuggestion("Fix the value in the file passed with --config")
}

// Options is the resolved configuration of one run. It is built once from the
// flags, the working directory and the config file, then passed down.
type Options struct {
	Mode           gitignore.Mode
	TargetDir      string // absolute, symlinks resolved where possible
	RulesPath      string
	Cwd            string
	Workers        int
	FollowSymlinks bool
}

// Resolve builds run Options. ignoreFile overrides the rules file name looked
// up in cwd; target may be relative to cwd.
func (c *Config) Resolve(mode gitignore.Mode, target, ignoreFile, cwd string) Options {
	rulesPath := ignoreFile
	if rulesPath == "" {
		rulesPath = rules.DefaultPath(cwd, c.Rules.FileName)
	}

	return Options{
		Mode:           mode,
		TargetDir:      resolveDir(target, cwd),
		RulesPath:      rulesPath,
		Cwd:            cwd,
		Workers:        c.Scan.Workers,
		FollowSymlinks: c.Scan.FollowSymlinks,
	}
}

// resolveDir makes dir absolute against cwd. Symlinks are resolved when the
// directory exists; otherwise the cleaned path is kept and the walker reports
// the error.
func resolveDir(dir, cwd string) string {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(cwd, dir)
	}
	dir = filepath.Clean(dir)
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		return resolved
	}
	return dir
}
