// Package config loads the iroquiz YAML configuration.
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
)

// Environment variables consulted when no flag is given.
const (
	EnvConfig = "IROQUIZ_CONFIG"
	EnvDB     = "IROQUIZ_DB"
)

// Defaults applied when a field is unset.
const (
	DefaultHTTPTimeout = 15 * time.Second
	DefaultCacheTTL    = 10 * time.Minute
)

// DatasetRef is one entry in the dataset picker.
type DatasetRef struct {
	Label  string `yaml:"label"`
	Source string `yaml:"source"`
}

// Config is the on-disk configuration.
type Config struct {
	Datasets       []DatasetRef `yaml:"datasets"`
	DefaultDataset string       `yaml:"default_dataset"`
	HTTP           struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"http"`
	Cache struct {
		TTL string `yaml:"ttl"`
	} `yaml:"cache"`
	Store struct {
		Path string `yaml:"path"`
	} `yaml:"store"`
	Log struct {
		Dir   string `yaml:"dir"`
		Debug bool   `yaml:"debug"`
	} `yaml:"log"`

	// Path is the file the config was read from, "" for defaults.
	Path string `yaml:"-"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, cfg.validate()
}

// Resolve finds and loads the config file. An explicit path must exist;
// otherwise IROQUIZ_CONFIG and the XDG locations are tried and a missing
// file yields the defaults.
func Resolve(explicit string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return Load(p)
	}

	for _, p := range searchPaths() {
		cfg, err := Load(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return Config{}, nil
}

func searchPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "iroquiz", "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "iroquiz", "config.yaml"))
	}
	return paths
}

func (c Config) validate() error {
	for i, d := range c.Datasets {
		if strings.TrimSpace(d.Source) == "" {
			return fmt.Errorf("config %s: datasets[%d] has no source", c.Path, i)
		}
	}
	for name, raw := range map[string]string{"http.timeout": c.HTTP.Timeout, "cache.ttl": c.Cache.TTL} {
		if raw == "" {
			continue
		}
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("config %s: %s: %w", c.Path, name, err)
		}
	}
	return nil
}

// HTTPTimeout is the per-load timeout.
func (c Config) HTTPTimeout() time.Duration {
	return Duration(c.HTTP.Timeout, DefaultHTTPTimeout)
}

// CacheTTL is how long loaded datasets are reused.
func (c Config) CacheTTL() time.Duration {
	return Duration(c.Cache.TTL, DefaultCacheTTL)
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// Catalog returns the configured datasets. Entries without a label are
// labeled with their source.
func (c Config) Catalog() []DatasetRef {
	out := make([]DatasetRef, 0, len(c.Datasets))
	for _, d := range c.Datasets {
		d.Source = strings.TrimSpace(d.Source)
		if d.Label == "" {
			d.Label = d.Source
		}
		out = append(out, d)
	}
	return out
}

// StartSource picks the dataset to load at startup. flag wins, then
// default_dataset (a label or a source), then the first catalog entry.
func (c Config) StartSource(flag string) string {
	if flag != "" {
		return flag
	}
	catalog := c.Catalog()
	if c.DefaultDataset != "" {
		for _, d := range catalog {
			if d.Label == c.DefaultDataset {
				return d.Source
			}
		}
		return c.DefaultDataset
	}
	if len(catalog) > 0 {
		return catalog[0].Source
	}
	return ""
}

// DBPath resolves the dataset library location: flag, then store.path,
// then IROQUIZ_DB, then $XDG_DATA_HOME/iroquiz/iroquiz.db. The parent
// directory is created.
func (c Config) DBPath(flag string) (string, error) {
	switch {
	case flag != "":
		return flag, ensureDir(flag)
	case c.Store.Path != "":
		return c.Store.Path, ensureDir(c.Store.Path)
	}
	return DefaultDBPath()
}

// DefaultDBPath returns the default SQLite path, honoring IROQUIZ_DB.
func DefaultDBPath() (string, error) {
	if p := os.Getenv(EnvDB); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "iroquiz", "iroquiz.db")
	return p, ensureDir(p)
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
