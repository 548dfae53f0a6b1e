// Package config loads the field catalogs the search bar suggests from.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sentinel errors so callers can detect exact failure modes using
// errors.Is().
var (
	ErrConfigParse       = errors.New("invalid config content")
	ErrNoCatalogs        = errors.New("no catalogs found in config file")
	ErrCatalogNotFound   = errors.New("catalog not found")
	ErrNoFields          = errors.New("catalog has no fields")
	ErrUnknownExpression = errors.New("unknown expression")
	ErrUnknownAsset      = errors.New("unknown asset kind")
	ErrUnknownValidator  = errors.New("unknown validator")
)

const (
	// EnvConfigPath is the environment variable used to override the config path
	EnvConfigPath = "SECLOG_CONFIG"

	// DefaultConfigDir is the directory under the user's home where the config
	// file is expected when no explicit path or env var is provided.
	DefaultConfigDir = ".seclog"

	// DefaultConfigFile is the config filename to look for in the default dir.
	DefaultConfigFile = "catalog.yaml"

	// DefaultCatalog is the name of the built-in catalog.
	DefaultCatalog = "security"
)

// Config is the content of a catalog file.
type Config struct {
	Catalogs map[string]Catalog `json:"catalogs" yaml:"catalogs"`
}

// ResolvePath returns the config file to load: configPath when set, then
// the SECLOG_CONFIG env var, then $HOME/.seclog/catalog.yaml when it
// exists. An empty string means no file.
func ResolvePath(configPath string) string {
	if strings.TrimSpace(configPath) != "" {
		return configPath
	}
	if envPath := strings.TrimSpace(os.Getenv(EnvConfigPath)); envPath != "" {
		return envPath
	}
	if home, err := os.UserHomeDir(); err == nil {
		defaultPath := filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
		if _, err := os.Stat(defaultPath); err == nil {
			return defaultPath
		}
	}
	return ""
}

// LoadConfig reads a JSON or YAML catalog file. Without any file to load
// the built-in configuration is returned.
func LoadConfig(configPath string) (*Config, error) {
	configPath = ResolvePath(configPath)
	if configPath == "" {
		return Default(), nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at path: %s", configPath)
	}

	data, err := os.ReadFile(configPath) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("%w: parsing JSON %s: %v", ErrConfigParse, configPath, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("%w: parsing YAML %s: %v", ErrConfigParse, configPath, err)
		}
	default:
		// Try JSON then YAML as a fallback
		if err := json.Unmarshal(data, &config); err == nil {
			break
		}
		if err := yaml.Unmarshal(data, &config); err == nil {
			break
		}
		return nil, fmt.Errorf("%w: unsupported or invalid config format for file: %s", ErrConfigParse, configPath)
	}

	if len(config.Catalogs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCatalogs, configPath)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// validate builds every catalog once so mistakes are reported at load time.
func (c *Config) validate() error {
	var problems []string
	for _, name := range c.Names() {
		if _, err := c.Catalogs[name].Fields(); err != nil {
			problems = append(problems, fmt.Sprintf("catalog '%s': %v", name, err))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid catalog configuration:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

// Names returns the catalog names sorted.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Catalogs))
	for name := range c.Catalogs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Catalog returns the catalog called name. An empty name picks the only
// catalog, or the default one when there are several.
func (c *Config) Catalog(name string) (Catalog, error) {
	if name == "" {
		if len(c.Catalogs) == 1 {
			for _, cat := range c.Catalogs {
				return cat, nil
			}
		}
		name = DefaultCatalog
	}
	cat, ok := c.Catalogs[name]
	if !ok {
		return Catalog{}, fmt.Errorf("%w: %s", ErrCatalogNotFound, name)
	}
	return cat, nil
}

// Save writes the config to path, YAML unless the extension is .json.
func (c *Config) Save(path string) error {
	var data []byte
	var err error
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
