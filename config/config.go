package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config is the static wiring description: which buses exist and which
// mediators bind to them.
type Config struct {
	Buses     map[string]BusConfig      `json:"buses" yaml:"buses" toml:"buses"`
	Mediators map[string]MediatorConfig `json:"mediators" yaml:"mediators" toml:"mediators"`
}

// Normalize fills Name from map keys, layers each entry over its defaults,
// and validates every mediator.
func (c *Config) Normalize() error {
	for name, loaded := range c.Buses {
		bus := DefaultBusConfig(name)
		bus.Merge(&loaded)
		c.Buses[name] = bus
	}

	names := make([]string, 0, len(c.Mediators))
	for name := range c.Mediators {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		loaded := c.Mediators[name]
		med := DefaultMediatorConfig(name)
		med.Merge(&loaded)

		if med.Bus != "" {
			if _, exists := c.Buses[med.Bus]; !exists {
				return fmt.Errorf("%w: mediator %s references unknown bus %s", ErrInvalidConfig, name, med.Bus)
			}
		}
		if err := med.Validate(); err != nil {
			return fmt.Errorf("mediator %s: %w", name, err)
		}
		c.Mediators[name] = med
	}

	return nil
}

// Load reads a configuration file, choosing the decoder from its extension,
// and returns the normalized result.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported config format: %q", ErrInvalidConfig, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Buses == nil {
		cfg.Buses = make(map[string]BusConfig)
	}
	if cfg.Mediators == nil {
		cfg.Mediators = make(map[string]MediatorConfig)
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
