package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the environment variable prefix.
const DefaultEnvPrefix = "LOCKFS_"

// LegacyEnvPrefix is the prefix the Flet desktop host uses for the
// storage directories.
const LegacyEnvPrefix = "FLET_APP_STORAGE_"

// DefaultTransientSubdir is the transient root relative to the persistent
// root when none is configured.
const DefaultTransientSubdir = "temp"

// Config holds resolved configuration.
type Config struct {
	PersistentDir string `koanf:"persistent_dir"`
	TransientDir  string `koanf:"transient_dir"`
	KeyPassphrase string `koanf:"key_passphrase"`
	UseKeyring    bool   `koanf:"use_keyring"`
	Journal       string `koanf:"journal"`
	Log           Log    `koanf:"log"`
}

// Log holds logging switches.
type Log struct {
	Verbose bool `koanf:"verbose"`
	Debug   bool `koanf:"debug"`
}

// Loader loads configuration from multiple sources.
type Loader struct {
	k        *koanf.Koanf
	filePath string
	flags    map[string]any
}

// Option configures the Loader.
type Option func(*Loader)

// WithConfigFile sets the YAML configuration file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithFlags sets values that override every other source. Keys use the
// dotted form, e.g. "log.verbose".
func WithFlags(values map[string]any) Option {
	return func(l *Loader) {
		l.flags = values
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k: koanf.New("."),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load is a shorthand for NewLoader(opts...).Load().
func Load(opts ...Option) (Config, error) {
	return NewLoader(opts...).Load()
}

// Load reads all sources and returns the resolved configuration with
// absolute storage directories.
func (l *Loader) Load() (Config, error) {
	var cfg Config

	if l.filePath != "" {
		if err := l.k.Load(file.Provider(l.filePath), yaml.Parser()); err != nil {
			return cfg, fmt.Errorf("load config file %s: %w", l.filePath, err)
		}
	}

	if err := l.loadLegacyEnv(); err != nil {
		return cfg, err
	}
	if err := l.loadEnv(); err != nil {
		return cfg, err
	}

	if len(l.flags) > 0 {
		if err := l.k.Load(mapProvider(unflatten(l.flags)), nil); err != nil {
			return cfg, fmt.Errorf("load flags: %w", err)
		}
	}

	if err := l.k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.resolve(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadEnv maps LOCKFS_PERSISTENT_DIR -> persistent_dir and
// LOCKFS_LOG_VERBOSE -> log.verbose.
func (l *Loader) loadEnv() error {
	transform := func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, DefaultEnvPrefix))
		if rest, ok := strings.CutPrefix(s, "log_"); ok {
			return "log." + rest
		}
		return s
	}
	if err := l.k.Load(env.Provider(DefaultEnvPrefix, ".", transform), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

func (l *Loader) loadLegacyEnv() error {
	transform := func(s string) string {
		switch strings.TrimPrefix(s, LegacyEnvPrefix) {
		case "DATA":
			return "persistent_dir"
		case "TEMP":
			return "transient_dir"
		}
		return ""
	}
	if err := l.k.Load(env.Provider(LegacyEnvPrefix, ".", transform), nil); err != nil {
		return fmt.Errorf("load legacy env: %w", err)
	}
	return nil
}

func (c *Config) resolve() error {
	if c.PersistentDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		c.PersistentDir = wd
	}
	persistent, err := filepath.Abs(c.PersistentDir)
	if err != nil {
		return fmt.Errorf("failed to resolve persistent dir: %w", err)
	}
	c.PersistentDir = persistent

	if c.TransientDir == "" {
		c.TransientDir = filepath.Join(c.PersistentDir, DefaultTransientSubdir)
	}
	transient, err := filepath.Abs(c.TransientDir)
	if err != nil {
		return fmt.Errorf("failed to resolve transient dir: %w", err)
	}
	c.TransientDir = transient

	if c.Journal != "" {
		journal, err := filepath.Abs(c.Journal)
		if err != nil {
			return fmt.Errorf("failed to resolve journal path: %w", err)
		}
		c.Journal = journal
	}
	return nil
}

// unflatten turns {"log.verbose": true} into {"log": {"verbose": true}}.
func unflatten(flat map[string]any) map[string]any {
	out := make(map[string]any)
	for key, v := range flat {
		parts := strings.Split(key, ".")
		m := out
		for _, p := range parts[:len(parts)-1] {
			next, ok := m[p].(map[string]any)
			if !ok {
				next = make(map[string]any)
				m[p] = next
			}
			m = next
		}
		m[parts[len(parts)-1]] = v
	}
	return out
}
