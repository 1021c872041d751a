// Package config resolves client settings from defaults, a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mediashelf/mediashelf/internal/logging"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL   = "http://127.0.0.1:8765/api"
	DefaultTimeout  = 30 * time.Second
	DefaultPageSize = 50
	EnvPrefix       = "MEDIASHELF_"
)

// Config holds everything the CLI needs to talk to the backend
type Config struct {
	APIURL   string         `yaml:"api_url"`
	Timeout  time.Duration  `yaml:"timeout"`
	PageSize int            `yaml:"page_size"`
	Yes      bool           `yaml:"yes"`
	Log      logging.Config `yaml:"log"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		APIURL:   DefaultAPIURL,
		Timeout:  DefaultTimeout,
		PageSize: DefaultPageSize,
		Log:      logging.DefaultConfig(),
	}
}

// Load applies the YAML file at path (if any) and then the environment on top of the defaults.
// A missing file is an error only when path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return cfg, err
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "API_URL"); ok && v != "" {
		c.APIURL = v
	}
	if v, ok := lookup(EnvPrefix + "TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sTIMEOUT: %w", EnvPrefix, err)
		}
		c.Timeout = d
	}
	if v, ok := lookup(EnvPrefix + "PAGE_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sPAGE_SIZE: %w", EnvPrefix, err)
		}
		c.PageSize = n
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_FORMAT"); ok && v != "" {
		c.Log.Format = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_FILE"); ok {
		c.Log.File = v
	}
	return nil
}

// Validate checks ranges the backend enforces
func (c Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("api url must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.PageSize < 1 || c.PageSize > 200 {
		return fmt.Errorf("page size must be between 1 and 200, got %d", c.PageSize)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}
