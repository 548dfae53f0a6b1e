// Package asset holds the values the search bar suggests from: hosts,
// services, ports and users seen in the environment. The cache is created
// by the host at startup and handed to the builder, never looked up
// globally.
package asset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for asset files that are neither JSON
// nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported asset file format")

// Kind names one list of the cache.
type Kind string

const (
	Hosts    Kind = "hosts"
	Services Kind = "services"
	Ports    Kind = "ports"
	Users    Kind = "users"
)

// Kinds lists every kind of asset.
var Kinds = []Kind{Hosts, Services, Ports, Users}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Set is the content of an asset file.
type Set struct {
	Hosts    []string `json:"hosts,omitempty" yaml:"hosts,omitempty"`
	Services []string `json:"services,omitempty" yaml:"services,omitempty"`
	Ports    []string `json:"ports,omitempty" yaml:"ports,omitempty"`
	Users    []string `json:"users,omitempty" yaml:"users,omitempty"`
}

func (s Set) values(k Kind) []string {
	switch k {
	case Hosts:
		return s.Hosts
	case Services:
		return s.Services
	case Ports:
		return s.Ports
	case Users:
		return s.Users
	}
	return nil
}

// Count returns the number of values over every kind.
func (s Set) Count() int {
	return len(s.Hosts) + len(s.Services) + len(s.Ports) + len(s.Users)
}

// Cache is safe for concurrent use: the watcher replaces its content
// while the interface reads it.
type Cache struct {
	mu  sync.RWMutex
	set Set
}

// NewCache returns a cache holding set.
func NewCache(set Set) *Cache {
	return &Cache{set: set}
}

// Values returns a copy of the values of kind.
func (c *Cache) Values(kind Kind) []string {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.set.values(kind)...)
}

// Replace swaps the whole content of the cache.
func (c *Cache) Replace(set Set) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set = set
}

// Snapshot returns the current content.
func (c *Cache) Snapshot() Set {
	if c == nil {
		return Set{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.set
}

// Load reads an asset file, JSON or YAML according to its extension.
func Load(path string) (Set, error) {
	var set Set

	unmarshal := yaml.Unmarshal
	switch filepath.Ext(path) {
	case ".json":
		unmarshal = json.Unmarshal
	case ".yaml", ".yml":
	default:
		return set, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return set, fmt.Errorf("reading asset file %s: %w", path, err)
	}
	if err := unmarshal(data, &set); err != nil {
		return set, fmt.Errorf("parsing asset file %s: %w", path, err)
	}
	return set, nil
}

// Save writes set to path as YAML.
func Save(path string, set Set) error {
	data, err := yaml.Marshal(set)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
