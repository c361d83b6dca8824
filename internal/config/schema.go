package config

import "github.com/bfortuner/prompt-playground/internal/models"

// PresetsConfig is the root of the prompt preset configuration file
type PresetsConfig struct {
	Presets Presets `yaml:"presets"`
}

// Presets groups the default model parameters and the preset library
type Presets struct {
	DefaultModel ModelConfig           `yaml:"default_model"`
	Entries      []PresetConfiguration `yaml:"entries"`
}

// PresetConfiguration defines a single named prompt preset
type PresetConfiguration struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Template    string       `yaml:"template"`
	Model       *ModelConfig `yaml:"model,omitempty"`
}

// ModelConfig contains model invocation parameters for a preset.
// Temperature is a pointer so an explicit 0.0 survives the defaults
// merge.
type ModelConfig struct {
	Model       string   `yaml:"model"`
	MaxTokens   int      `yaml:"max_tokens"`
	Temperature *float64 `yaml:"temperature"`
	Stop        []string `yaml:"stop,omitempty"`
	BestOf      int      `yaml:"best_of,omitempty"`
	Retry       bool     `yaml:"retry"`
}

// Params converts a ModelConfig into the request-level parameter struct
func (m ModelConfig) Params() models.ModelParams {
	temperature := 0.0
	if m.Temperature != nil {
		temperature = *m.Temperature
	}

	return models.ModelParams{
		Model:       m.Model,
		MaxTokens:   m.MaxTokens,
		Temperature: temperature,
		Stop:        m.Stop,
		BestOf:      m.BestOf,
		Retry:       m.Retry,
	}
}
