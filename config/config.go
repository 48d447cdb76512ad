package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// KitEntry assigns a sample file to a sampler slot at startup.
type KitEntry struct {
	Slot int    `yaml:"slot"`
	Path string `yaml:"path"`
}

// Config is the main configuration structure.
type Config struct {
	MIDI struct {
		Input  string `yaml:"input"`
		Output string `yaml:"output"`
	} `yaml:"midi"`
	Audio struct {
		SampleRate int `yaml:"sample_rate"`
		Buffer     int `yaml:"buffer"`
	} `yaml:"audio"`
	Sequencer struct {
		Steps   int     `yaml:"steps"`
		Samples int     `yaml:"samples"`
		BPM     float64 `yaml:"bpm"`
	} `yaml:"sequencer"`
	Kit []KitEntry `yaml:"kit"`
}

// Default returns a config with sensible defaults: the Push 1 user port
// and an 8x8 grid at 125 bpm.
func Default() *Config {
	c := &Config{}
	c.MIDI.Input = "Ableton Push User Port"
	c.MIDI.Output = "Ableton Push User Port"
	c.Audio.SampleRate = 44100
	c.Audio.Buffer = 256
	c.Sequencer.Steps = 8
	c.Sequencer.Samples = 8
	c.Sequencer.BPM = 125
	return c
}

// Load reads the config from disk, or returns defaults if the file does
// not exist. Values absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}
	return cfg, nil
}
