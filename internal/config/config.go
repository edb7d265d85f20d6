// Package config loads, validates and watches the engine
// configuration file.
package config

// BackendKind selects the synthesis backend implementation.
type BackendKind string

const (
	// BackendKindMock is the deterministic built-in backend.
	BackendKindMock BackendKind = "mock"
)

// Config holds the main configuration for the engine daemon.
type Config struct {
	Version string       `json:"version" yaml:"version"`
	Server  ServerConfig `json:"server"  yaml:"server"`
	Engine  EngineConfig `json:"engine"  yaml:"engine"`
	Presets PresetConfig `json:"presets" yaml:"presets"`
	Log     LogConfig    `json:"log"     yaml:"log"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// EngineConfig holds synthesis settings.
type EngineConfig struct {
	// Backend names the synthesis backend implementation.
	Backend BackendKind `json:"backend" yaml:"backend"`
	// EnableCancellable exposes disconnect-driven cancellation. Off
	// by default; requires a backend with cooperative cancellation.
	EnableCancellable bool `json:"enable_cancellable,omitempty" yaml:"enable_cancellable,omitempty"`
	// PauseLength fixes the inserted-silence duration in seconds. Nil
	// leaves it to the backend's mora timing.
	PauseLength *float64 `json:"pause_length,omitempty" yaml:"pause_length,omitempty"`
	// Upspeak overrides the interrogative contour parameters.
	Upspeak *UpspeakConfig `json:"upspeak,omitempty" yaml:"upspeak,omitempty"`
}

// UpspeakConfig mirrors query.UpspeakConfig in file form.
type UpspeakConfig struct {
	VowelLength float64 `json:"vowel_length" yaml:"vowel_length"`
	PitchRise   float64 `json:"pitch_rise"   yaml:"pitch_rise"`
	MaxPitch    float64 `json:"max_pitch"    yaml:"max_pitch"`
}

// PresetConfig locates the preset store.
type PresetConfig struct {
	Path string `json:"path" yaml:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `json:"level,omitempty"   yaml:"level,omitempty"`
	ToFile bool   `json:"to_file,omitempty" yaml:"to_file,omitempty"`
	File   string `json:"file,omitempty"    yaml:"file,omitempty"`
}
