package config

import (
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.yaml.in/yaml/v3"

	"github.com/nmori/voicevox-engine/internal/xfs"
)

// LoadAndValidate loads the configuration and validates it against
// the JSON schema.
func LoadAndValidate(path, schemaPath string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read config: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: invalid YAML: %w", err)
	}

	schema, err := jsonschema.Compile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("config: failed to compile schema: %w", err)
	}

	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal into Config struct: %w", err)
	}
	applyDefaults(&config)

	return &config, nil
}

// applyDefaults fills the fields the file may omit.
func applyDefaults(c *Config) {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost()
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort()
	}
	if c.Engine.Backend == "" {
		c.Engine.Backend = BackendKindMock
	}
	if c.Presets.Path == "" {
		c.Presets.Path = DefaultPresetPath()
	} else {
		c.Presets.Path = xfs.ExpandTilde(c.Presets.Path)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.File == "" {
		c.Log.File = "logs/voicevox-engine.log"
	} else {
		c.Log.File = xfs.ExpandTilde(c.Log.File)
	}
}
