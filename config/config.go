package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// EffectsConfig holds the startup values for the output chain. All
// scalar parameters are normalized 0-1 and clamped on apply.
type EffectsConfig struct {
	DistortionEnabled bool    `json:"distortionEnabled"`
	Drive             float64 `json:"drive"`
	Mix               float64 `json:"mix"`
	FilterEnabled     bool    `json:"filterEnabled"`
	Cutoff            float64 `json:"cutoff"`
	Resonance         float64 `json:"resonance"`
}

// Config is the main configuration structure.
type Config struct {
	MIDIInput       string        `json:"midiInput,omitempty"` // substring of the input port name
	ClockSync       bool          `json:"clockSync"`
	SampleRate      int           `json:"sampleRate,omitempty"`
	FramesPerBuffer int           `json:"framesPerBuffer,omitempty"`
	MappingFile     string        `json:"mappingFile,omitempty"`
	AutomationFile  string        `json:"automationFile,omitempty"`
	Effects         EffectsConfig `json:"effects"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ClockSync:       true,
		SampleRate:      48000,
		FramesPerBuffer: 512,
		Effects: EffectsConfig{
			Drive:     0.5,
			Mix:       0.5,
			Cutoff:    1.0,
			Resonance: 0.0,
		},
	}
}

// Dir returns the config directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "regroove"), nil
}

// Path returns the full path to config.json.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := Path()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
