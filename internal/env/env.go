// Package env detects the runtime environment the daemon runs in.
package env

import (
	"os"

	"github.com/nmori/voicevox-engine/internal/envvar"
)

// Environment selects logging and diagnostics behavior.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// FromEnv reads the environment from VOICEVOX_ENGINE_ENV, defaulting
// to development.
func FromEnv() Environment {
	switch os.Getenv(envvar.Env) {
	case "production", "prod":
		return Production
	default:
		return Development
	}
}
