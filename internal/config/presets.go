package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bfortuner/prompt-playground/internal/prompt"
)

// ErrPresetNotFound is returned when a preset name is not present in the library
var ErrPresetNotFound = errors.New("preset not found")

const (
	defaultModel       = "gpt-3.5-turbo-instruct"
	defaultMaxTokens   = 256
	defaultTemperature = 0.7
)

// LoadPresetsConfig reads the preset library from PROMPTS_CONFIG_PATH
// (falling back to configs/prompts.yaml), applies defaults and validates it.
func LoadPresetsConfig() (*PresetsConfig, error) {
	path := os.Getenv("PROMPTS_CONFIG_PATH")
	if path == "" {
		path = "configs/prompts.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg PresetsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *PresetsConfig) {
	def := &cfg.Presets.DefaultModel
	if def.Model == "" {
		def.Model = defaultModel
	}
	if def.MaxTokens == 0 {
		def.MaxTokens = defaultMaxTokens
	}
	if def.Temperature == nil {
		t := defaultTemperature
		def.Temperature = &t
	}

	// Merge the default model into each preset's override. An explicit
	// temperature of 0.0 is a real setting and must not inherit.
	for i := range cfg.Presets.Entries {
		entry := &cfg.Presets.Entries[i]
		if entry.Model == nil {
			m := *def
			entry.Model = &m
			continue
		}
		if entry.Model.Model == "" {
			entry.Model.Model = def.Model
		}
		if entry.Model.MaxTokens == 0 {
			entry.Model.MaxTokens = def.MaxTokens
		}
		if entry.Model.Temperature == nil {
			t := *def.Temperature
			entry.Model.Temperature = &t
		}
		if entry.Model.Stop == nil {
			entry.Model.Stop = def.Stop
		}
	}
}

func (c *PresetsConfig) Validate() error {
	if len(c.Presets.Entries) == 0 {
		return errors.New("no presets configured")
	}

	if c.Presets.DefaultModel.MaxTokens < 0 {
		return errors.New("negative max_tokens in default model")
	}
	if t := c.Presets.DefaultModel.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("invalid temperature %f in default model", *t)
	}

	seen := make(map[string]bool)
	for _, entry := range c.Presets.Entries {
		if entry.Name == "" {
			return errors.New("preset missing name")
		}
		if entry.Template == "" {
			return fmt.Errorf("preset %s missing template", entry.Name)
		}
		if seen[entry.Name] {
			return fmt.Errorf("duplicate preset name: %s", entry.Name)
		}
		seen[entry.Name] = true

		if entry.Model != nil {
			if entry.Model.MaxTokens < 0 {
				return fmt.Errorf("negative max_tokens for preset %s", entry.Name)
			}
			if t := entry.Model.Temperature; t != nil && (*t < 0 || *t > 2) {
				return fmt.Errorf("invalid temperature %f for preset %s", *t, entry.Name)
			}
		}
	}

	return nil
}

// Find returns the preset with the given name, or ErrPresetNotFound.
func (c *PresetsConfig) Find(name string) (*PresetConfiguration, error) {
	for i := range c.Presets.Entries {
		if c.Presets.Entries[i].Name == name {
			return &c.Presets.Entries[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
}

// Names lists preset names in configuration order.
func (c *PresetsConfig) Names() []string {
	names := make([]string, 0, len(c.Presets.Entries))
	for _, entry := range c.Presets.Entries {
		names = append(names, entry.Name)
	}
	return names
}

// Placeholders returns the input keys a preset's template expects.
func (p *PresetConfiguration) Placeholders() []string {
	return prompt.Placeholders(p.Template)
}
