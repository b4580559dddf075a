package config

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SourceConfig describes one annotated-documents source. Exactly one of
// Path and URL is expected; URL wins when both are set.
type SourceConfig struct {
	// ID is an internal identifier used for de-dup and logging.
	ID string `yaml:"id" json:"id"`
	// Path is a local YAML file.
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
	// URL is fetched over HTTP with conditional requests.
	URL string `yaml:"url,omitempty" json:"url,omitempty"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// controlling how often sources are reloaded while serving.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// DefaultReferenceDate (YYYY-MM-DD) replaces a missing or malformed
	// document reference date.
	DefaultReferenceDate string `yaml:"default_reference_date" json:"default_reference_date"`

	// LogLevel is one of DEBUG, INFO, ERROR. LogJSON selects JSON output.
	LogLevel string `yaml:"log_level" json:"log_level"`
	LogJSON  bool   `yaml:"log_json" json:"log_json"`

	// ResolveWorkers bounds how many events are resolved concurrently.
	ResolveWorkers int `yaml:"resolve_workers" json:"resolve_workers"`

	// TokenCacheSize is the number of (token, reference date) resolutions
	// kept in memory.
	TokenCacheSize int `yaml:"token_cache_size" json:"token_cache_size"`

	// CacheDir stores fetched remote sources for conditional requests.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	Sources []SourceConfig `yaml:"sources" json:"sources"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

const (
	defaultListen         = "127.0.0.1:8080"
	defaultRefreshCron    = "*/15 * * * *"
	defaultLogLevel       = "INFO"
	defaultResolveWorkers = 4
	defaultTokenCacheSize = 1024
	defaultCacheDir       = "./var/source-cache"
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:         defaultListen,
		RefreshCron:    defaultRefreshCron,
		LogLevel:       defaultLogLevel,
		ResolveWorkers: defaultResolveWorkers,
		TokenCacheSize: defaultTokenCacheSize,
		CacheDir:       defaultCacheDir,
		Sources:        []SourceConfig{},
	}
}

// Normalize fills in missing/zero values with defaults so that partially
// filled configs still behave.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.RefreshCron == "" {
		c.RefreshCron = defaultRefreshCron
	}
	switch c.LogLevel {
	case "DEBUG", "INFO", "ERROR":
	default:
		c.LogLevel = defaultLogLevel
	}
	if c.ResolveWorkers <= 0 {
		c.ResolveWorkers = defaultResolveWorkers
	}
	if c.TokenCacheSize <= 0 {
		c.TokenCacheSize = defaultTokenCacheSize
	}
	if c.CacheDir == "" {
		c.CacheDir = defaultCacheDir
	}
	if c.Sources == nil {
		c.Sources = []SourceConfig{}
	}
	for i := range c.Sources {
		if c.Sources[i].ID != "" {
			continue
		}
		if c.Sources[i].URL != "" {
			c.Sources[i].ID = c.Sources[i].URL
		} else {
			c.Sources[i].ID = c.Sources[i].Path
		}
	}
}

// Load loads configuration from the given YAML path.
//
// A missing file is created with the defaults (0600) and the defaults are
// returned. An existing file is decoded and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "decode config %s", path)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically through a temp file in the same
// directory, leaving the final file at 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "create config dir")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}

	tmp, err := os.CreateTemp(dir, ".timeliner-config-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp config")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write temp config")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "sync temp config")
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return errors.Wrap(os.Rename(tmpName, path), "replace config")
}

func (c *Config) Save(path string) error {
	return Save(path, c)
}
