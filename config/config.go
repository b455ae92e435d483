package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/xplshn/tracerr2"
	"gopkg.in/yaml.v2"
)

// Config represents the server configuration
type Config struct {
	Root         string        `yaml:"root" toml:"root"`                   // Directory files are served from
	Listen       string        `yaml:"listen" toml:"listen"`               // TCP listen address (e.g., "127.0.0.1:7878")
	Workers      int           `yaml:"workers" toml:"workers"`             // Connections handled in parallel
	ReadTimeout  time.Duration `yaml:"read_timeout" toml:"read_timeout"`   // Deadline for receiving the request line
	WriteTimeout time.Duration `yaml:"write_timeout" toml:"write_timeout"` // Deadline for writing the response
	RateLimit    float64       `yaml:"rate_limit" toml:"rate_limit"`       // Requests per second per client IP, 0 disables
	RateBurst    int           `yaml:"rate_burst" toml:"rate_burst"`       // Burst allowed on top of RateLimit
	LogDir       string        `yaml:"log_dir" toml:"log_dir"`             // Log file directory, empty logs to stdout only
}

const (
	DefaultRoot   = "public"
	DefaultListen = "127.0.0.1:7878"
)

// Default returns the configuration used when no config file exists
func Default() *Config {
	return &Config{
		Root:         DefaultRoot,
		Listen:       DefaultListen,
		Workers:      1, // one connection at a time
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		RateLimit:    0, // throttling is opt-in
		RateBurst:    20,
		LogDir:       "logs",
	}
}

// LoadConfig loads the config from file or creates a default one
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := Default()
		if err := Save(configPath, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, tracerr.Wrapf(err, "failed to read config %s", configPath)
	}

	cfg := Default()
	if isTOML(configPath) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, tracerr.Wrapf(err, "failed to decode toml config %s", configPath)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, tracerr.Wrapf(err, "failed to unmarshal config %s", configPath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, tracerr.Wrapf(err, "invalid config %s", configPath)
	}
	return cfg, nil
}

// Save writes cfg to configPath, creating parent directories as needed
func Save(configPath string, cfg *Config) error {
	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return tracerr.Wrapf(err, "failed to create config directory %s", dir)
		}
	}

	var data []byte
	if isTOML(configPath) {
		var sb strings.Builder
		if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
			return tracerr.Wrapf(err, "failed to encode toml config")
		}
		data = []byte(sb.String())
	} else {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return tracerr.Wrapf(err, "failed to marshal config")
		}
		data = out
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return tracerr.Wrapf(err, "failed to write config to %s", configPath)
	}
	return nil
}

// Validate reports the first setting the server cannot run with
func (c *Config) Validate() error {
	switch {
	case c.Listen == "":
		return errors.New("listen address is empty")
	case c.Workers < 1:
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	case c.ReadTimeout < 0 || c.WriteTimeout < 0:
		return errors.New("timeouts must not be negative")
	case c.RateLimit < 0 || c.RateBurst < 0:
		return errors.New("rate_limit and rate_burst must not be negative")
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
