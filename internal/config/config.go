package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load shared assumptions from a separate YAML holding one `scenario:` block.
	// Base overrides BaseFile, and every entry in Scenarios overrides both.
	BaseFile  string              `yaml:"base_file,omitempty"`
	Base      Scenario            `yaml:"base,omitempty"`
	Scenarios map[string]Scenario `yaml:"scenarios"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	for k, sc := range c.Scenarios {
		c.Scenarios[k] = sc.WithCurrencyDefaults()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	base := c.Base
	if c.BaseFile != "" {
		basePath := c.BaseFile
		if !filepath.IsAbs(basePath) {
			// Prefer paths relative to the config file, falling back to the working directory.
			cand := filepath.Join(filepath.Dir(path), basePath)
			if _, err := os.Stat(cand); err == nil {
				basePath = cand
			}
		}
		loaded, err := loadScenarioFile(basePath)
		if err != nil {
			return nil, err
		}
		base = Merge(loaded, c.Base)
	}

	for k, sc := range c.Scenarios {
		c.Scenarios[k] = Merge(base, sc)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if len(c.Scenarios) == 0 {
		return errors.New("scenarios: at least one scenario is required")
	}
	st := State{Scenarios: c.Scenarios}
	for _, k := range st.Keys() {
		if err := c.Scenarios[k].Validate(); err != nil {
			return fmt.Errorf("scenario %q invalid: %w", k, err)
		}
	}
	return nil
}

// State returns the configured scenarios as a persistable state.
func (c *Config) State() State {
	return State{SchemaVersion: CurrentSchemaVersion, Scenarios: c.Scenarios}.Clone()
}

type scenarioFileWrapper struct {
	Scenario Scenario `yaml:"scenario"`
}

func loadScenarioFile(path string) (Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, err
	}
	var w scenarioFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return Scenario{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.Scenario, nil
}

// Write renders cfg as YAML.
func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

// DefaultConfig is a config file holding the default scenarios.
func DefaultConfig() *Config {
	return &Config{Scenarios: DefaultState().Scenarios}
}
