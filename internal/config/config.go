// Package config loads settings shared by the smartscript command line tool
// and language server.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds the complete smartscript configuration
type Config struct {
	BaseDir   string          `yaml:"-" toml:"-"` // directory of the loaded file, for relative paths
	Document  DocumentConfig  `yaml:"document" toml:"document"`
	Workspace WorkspaceConfig `yaml:"workspace" toml:"workspace"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
	Tree      TreeConfig      `yaml:"tree" toml:"tree"`
	REPL      REPLConfig      `yaml:"repl" toml:"repl"`
	Watch     WatchConfig     `yaml:"watch" toml:"watch"`
}

// DocumentConfig selects the document used when none is given
type DocumentConfig struct {
	Default string `yaml:"default" toml:"default"` // path; empty means the built-in sample
}

// WorkspaceConfig controls directory scanning for check and the LSP
type WorkspaceConfig struct {
	Extensions []string `yaml:"extensions" toml:"extensions"`
	MaxDepth   int      `yaml:"max_depth" toml:"max_depth"`
	Workers    int      `yaml:"workers" toml:"workers"` // 0 means GOMAXPROCS
}

// LoggingConfig holds slog settings
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // text or json
	File   string `yaml:"file" toml:"file"`     // empty logs to stderr
}

// TreeConfig holds defaults for the tree command
type TreeConfig struct {
	Format string `yaml:"format" toml:"format"` // yaml or json
}

// REPLConfig holds interactive shell settings
type REPLConfig struct {
	Prompt      string `yaml:"prompt" toml:"prompt"`
	HistoryFile string `yaml:"history_file" toml:"history_file"`
}

// WatchConfig holds settings for the watch command
type WatchConfig struct {
	Debounce Duration `yaml:"debounce" toml:"debounce"`
}

// Duration wraps time.Duration for YAML and TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// FileNames lists the config files looked up by Find, in priority order.
var FileNames = []string{"smartscript.yaml", "smartscript.yml", "smartscript.toml"}

// Defaults returns the configuration used when no file is present.
func Defaults() *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			Extensions: []string{"sscr", "smartscript"},
			MaxDepth:   5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Tree: TreeConfig{
			Format: "yaml",
		},
		REPL: REPLConfig{
			Prompt:      "smartscript> ",
			HistoryFile: ".smartscript_history",
		},
		Watch: WatchConfig{
			Debounce: Duration{200 * time.Millisecond},
		},
	}
}

// Load reads the config file at path on top of Defaults. The format is
// chosen by extension: .yaml and .yml are YAML, anything else is TOML.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	//nolint:gosec // path is chosen by the user
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Defaults()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, cfg)
	default:
		err = toml.Unmarshal(content, cfg)
	}

	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	cfg.BaseDir = filepath.Dir(absPath)

	return cfg, nil
}

// Find returns the first config file from FileNames present in dir.
func Find(dir string) (string, bool) {
	for _, name := range FileNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}

	return "", false
}

// LoadOrDefault loads path when given, otherwise the config file found in
// dir, otherwise Defaults. The result is validated.
func LoadOrDefault(path, dir string) (*Config, error) {
	if path == "" {
		found, ok := Find(dir)
		if !ok {
			cfg := Defaults()
			cfg.BaseDir = dir
			return cfg, nil
		}

		path = found
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Workspace.Extensions) == 0 {
		errs = append(errs, errors.New("workspace.extensions must not be empty"))
	}

	if c.Workspace.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("workspace.max_depth must not be negative, got %d", c.Workspace.MaxDepth))
	}

	if c.Workspace.Workers < 0 {
		errs = append(errs, fmt.Errorf("workspace.workers must not be negative, got %d", c.Workspace.Workers))
	}

	if _, err := c.Logging.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format))
	}

	switch c.Tree.Format {
	case "yaml", "json":
	default:
		errs = append(errs, fmt.Errorf("tree.format must be yaml or json, got %q", c.Tree.Format))
	}

	if c.Watch.Debounce.Duration < 0 {
		errs = append(errs, errors.New("watch.debounce must not be negative"))
	}

	return errors.Join(errs...)
}

// SlogLevel converts the configured level name to a slog.Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("logging.level: %w", err)
	}

	return level, nil
}

// ResolvePath makes a relative path absolute against the config directory.
// Empty paths stay empty.
func (c *Config) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || c.BaseDir == "" {
		return path
	}

	return filepath.Join(c.BaseDir, path)
}
