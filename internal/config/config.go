package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/chronoforge/internal/constants"
	"github.com/julianstephens/chronoforge/internal/utils"
)

// Config models config.yaml.
type Config struct {
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	Timezone string        `yaml:"timezone"`
	Debug    bool          `yaml:"debug"`
	Cache    struct {
		Backend string `yaml:"backend"`
		Dir     string `yaml:"dir"`
	} `yaml:"cache"`
	Reminders struct {
		Path string `yaml:"path"`
	} `yaml:"reminders"`
}

// Default returns the configuration used when no file is present. Paths
// are filled in relative to configDir.
func Default(configDir string) *Config {
	cfg := &Config{
		BaseURL:  constants.DefaultBaseURL,
		Timeout:  constants.DefaultTimeout,
		Timezone: "Local",
	}
	cfg.Cache.Backend = constants.CacheBackendFile
	cfg.Cache.Dir = configDir
	cfg.Reminders.Path = filepath.Join(configDir, constants.RemindersFileName)
	return cfg
}

// Path returns the config file location inside configDir.
func Path(configDir string) string {
	return filepath.Join(configDir, constants.ConfigFileName)
}

// Load reads config.yaml from configDir. A missing file yields the defaults.
// The returned config has been validated.
func Load(configDir string) (*Config, error) {
	data, err := os.ReadFile(Path(configDir))
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default(configDir)
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}
	return FromYAML(data, configDir)
}

// FromYAML decodes data over the defaults for configDir and validates it.
func FromYAML(data []byte, configDir string) (*Config, error) {
	cfg := Default(configDir)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	var err error
	if cfg.Cache.Dir, err = utils.ExpandHome(cfg.Cache.Dir); err != nil {
		return nil, err
	}
	if cfg.Reminders.Path, err = utils.ExpandHome(cfg.Reminders.Path); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures the config is usable.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("config.base_url is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config.timeout must be positive")
	}
	switch c.Cache.Backend {
	case constants.CacheBackendFile, constants.CacheBackendSQLite:
	default:
		return fmt.Errorf("config.cache.backend must be %q or %q", constants.CacheBackendFile, constants.CacheBackendSQLite)
	}
	if _, err := utils.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config.timezone %q is invalid: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the configured timezone.
func (c *Config) Location() *time.Location {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
