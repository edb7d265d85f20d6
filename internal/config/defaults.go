package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultHost returns the default HTTP listen address.
func DefaultHost() string { return "127.0.0.1" }

// DefaultPort returns the conventional engine port.
func DefaultPort() int { return 50021 }

// DefaultConfigPath returns the default path for the engine config directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "voicevox-engine", "config")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "voicevox-engine")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "voicevox-engine")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "voicevox-engine")
		}
		return filepath.Join(home, ".config", "voicevox-engine")
	}
}

// DefaultPresetPath returns the default location of the preset store.
func DefaultPresetPath() string {
	return filepath.Join(DefaultConfigPath(), "presets.yaml")
}
