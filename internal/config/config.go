// Package config loads client configuration from an optional YAML file
// (~/.avanto/config.yaml) overlaid with AVANTO_-prefixed environment
// variables. The backend base URL is the one required setting.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	envPrefix      = "AVANTO_"
	envProd        = "production"
	envDev         = "development"
	defaultPerPage = 10
)

type Config struct {
	// Env selects the runtime mode: "development" (default) or "production".
	Env string `koanf:"env"`

	API struct {
		// URL is the backend base endpoint, e.g. https://api.example.fi.
		// Required in production; a development build without it only
		// warns, so local tooling keeps working.
		URL string `koanf:"url"`
		// Debug enables request logging on the API client.
		Debug bool `koanf:"debug"`
		// PerPage is the history page size forwarded to the backend.
		PerPage int `koanf:"perpage"`
	} `koanf:"api"`
}

// IsProduction reports whether the production configuration rules apply.
func (c *Config) IsProduction() bool {
	return c.Env == envProd
}

// DefaultPath returns the default config file location (~/.avanto/config.yaml).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "get home dir")
	}
	return filepath.Join(home, ".avanto", "config.yaml"), nil
}

// Load builds the configuration: defaults, then the YAML file at path (if it
// exists), then environment variables. A missing API URL is an error in
// production and a stderr warning otherwise.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "read config %s", path)
			}
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			// AVANTO_API_URL -> api.url
			key = strings.TrimPrefix(key, envPrefix)
			return strings.ReplaceAll(strings.ToLower(key), "_", "."), value
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables")
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if cfg.Env == "" {
		cfg.Env = envDev
	}
	if cfg.Env != envDev && cfg.Env != envProd {
		return nil, errors.Errorf("unknown env %q (want %s or %s)", cfg.Env, envDev, envProd)
	}
	if cfg.API.PerPage <= 0 {
		cfg.API.PerPage = defaultPerPage
	}

	if cfg.API.URL == "" {
		if cfg.IsProduction() {
			return nil, errors.New("AVANTO_API_URL must be set in production")
		}
		fmt.Fprintln(os.Stderr, "warning: AVANTO_API_URL is not set; API calls will fail")
	}

	return cfg, nil
}
