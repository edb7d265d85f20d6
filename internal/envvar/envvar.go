package envvar

const (
	// Env is the environment variable used to determine the environment
	Env = "VOICEVOX_ENGINE_ENV"

	// ServerHost is the environment variable used to determine the HTTP host
	ServerHost = "VOICEVOX_ENGINE_SERVER_HOST"

	// ServerPort is the environment variable used to determine the HTTP port
	ServerPort = "VOICEVOX_ENGINE_SERVER_PORT"
)
