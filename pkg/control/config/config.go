// Package config loads the off-RT engine configuration: sample rate,
// track/FX/extension limits, and ring/page capacities. Marshaling
// follows the same yaml.v3 round-trip idiom used for project/song
// documents elsewhere in this ecosystem: yaml.Marshal/yaml.Unmarshal
// onto a single flat config document.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EngineConfig is the off-RT configuration document for one engine
// instance.
type EngineConfig struct {
	SampleRate float64 `yaml:"sample_rate"`
	BlockFrames int    `yaml:"block_frames"`

	MaxTracks     int `yaml:"max_tracks"`
	MaxFxPerTrack int `yaml:"max_fx_per_track"`
	MaxExtensions int `yaml:"max_extensions"`

	CommandRingCapacity int `yaml:"command_ring_capacity"`
	ParamPageCapacity   int `yaml:"param_page_capacity"`

	Transport TransportConfig `yaml:"transport"`
}

// TransportConfig seeds the initial transport bridge state.
type TransportConfig struct {
	Bpm             float64 `yaml:"bpm"`
	TimeSigNum      int32   `yaml:"time_sig_numerator"`
	TimeSigDenom    int32   `yaml:"time_sig_denominator"`
	PulsesPerQuarter int32  `yaml:"pulses_per_quarter"`
}

// Default returns the documented baseline defaults: max tracks 4, max
// FX per track 8, max extensions 8, ring capacity 1024, param page
// capacity 1024.
func Default() EngineConfig {
	return EngineConfig{
		SampleRate:          48000,
		BlockFrames:         256,
		MaxTracks:           4,
		MaxFxPerTrack:       8,
		MaxExtensions:       8,
		CommandRingCapacity: 1024,
		ParamPageCapacity:   1024,
		Transport: TransportConfig{
			Bpm:              120,
			TimeSigNum:       4,
			TimeSigDenom:     4,
			PulsesPerQuarter: 96,
		},
	}
}

// Load reads and parses an EngineConfig from a YAML file, starting
// from Default() so unspecified fields keep their documented defaults.
func Load(path string) (EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return EngineConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return EngineConfig{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return EngineConfig{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Marshal serializes cfg back to YAML, the round-trip counterpart to
// Load.
func (c EngineConfig) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate reports configuration failures as a plain error rather than
// a panic: configuration failures are off-RT and reported, never
// exceptions in RT-adjacent APIs.
func (c EngineConfig) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %v", c.SampleRate)
	}
	if c.BlockFrames <= 0 {
		return fmt.Errorf("block_frames must be positive, got %v", c.BlockFrames)
	}
	if c.MaxTracks <= 0 {
		return fmt.Errorf("max_tracks must be positive, got %v", c.MaxTracks)
	}
	if c.MaxFxPerTrack <= 0 {
		return fmt.Errorf("max_fx_per_track must be positive, got %v", c.MaxFxPerTrack)
	}
	if c.MaxExtensions <= 0 || c.MaxExtensions > 8 {
		return fmt.Errorf("max_extensions must be in [1,8], got %v", c.MaxExtensions)
	}
	if c.CommandRingCapacity <= 0 {
		return fmt.Errorf("command_ring_capacity must be positive, got %v", c.CommandRingCapacity)
	}
	if c.ParamPageCapacity <= 0 {
		return fmt.Errorf("param_page_capacity must be positive, got %v", c.ParamPageCapacity)
	}
	if c.Transport.Bpm <= 0 {
		return fmt.Errorf("transport.bpm must be positive, got %v", c.Transport.Bpm)
	}
	if c.Transport.TimeSigNum <= 0 || c.Transport.TimeSigDenom <= 0 {
		return fmt.Errorf("transport time signature must be positive, got %d/%d", c.Transport.TimeSigNum, c.Transport.TimeSigDenom)
	}
	return nil
}
