package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"strconv"
	"syscall"

	"github.com/nmori/voicevox-engine/internal/config"
	"github.com/nmori/voicevox-engine/internal/engine"
	"github.com/nmori/voicevox-engine/internal/env"
	"github.com/nmori/voicevox-engine/internal/envvar"
	"github.com/nmori/voicevox-engine/internal/logger"
	"github.com/nmori/voicevox-engine/internal/preset"
	"github.com/nmori/voicevox-engine/internal/query"
	"github.com/nmori/voicevox-engine/internal/scheduler"
	serverhttp "github.com/nmori/voicevox-engine/internal/server/http"
)

func main() {
	var (
		flagHost       = flag.String("host", "", "HTTP host to listen on (overrides config)")
		flagPort       = flag.Int("port", 0, "HTTP port to listen on (overrides config)")
		flagConfigPath = flag.String("config", path.Join(config.DefaultConfigPath(), "config.yaml"), "Path to config file")
		flagSchemaPath = flag.String("schema", path.Join(config.DefaultConfigPath(), "voicevox-engine.v1.schema.json"), "Path to schema file")
	)
	flag.Parse()

	environment := env.FromEnv()

	watcher, err := config.NewWatcher(slog.Default(), *flagConfigPath, *flagSchemaPath, func(cfg *config.Config, err error) {
		if err != nil {
			slog.Error("Failed to reload config", "error", err)
			return
		}
		slog.Info("Config change applies on next restart", "version", cfg.Version)
	})
	if err != nil {
		slog.Error("Failed to create config watcher", "error", err)
		os.Exit(1)
	}
	cfg := watcher.Snapshot()

	log := logger.New(environment,
		logger.WithLevel(parseLevel(cfg.Log.Level)),
		logger.WithLogToFile(cfg.Log.ToFile),
		logger.WithLogFile(cfg.Log.File),
	)
	slog.SetDefault(log)

	slog.Info("Config loaded successfully", "config", *flagConfigPath, "schema", *flagSchemaPath)

	backend, err := newBackend(cfg.Engine.Backend)
	if err != nil {
		slog.Error("Failed to create backend", "error", err)
		os.Exit(1)
	}
	adapter := engine.NewAdapter(backend, log)

	presets, err := preset.NewManager(cfg.Presets.Path, log)
	if err != nil {
		slog.Error("Failed to load presets", "path", cfg.Presets.Path, "error", err)
		os.Exit(1)
	}
	go presets.Watch()

	var pipelineOpts []query.Option
	if cfg.Engine.PauseLength != nil {
		pipelineOpts = append(pipelineOpts, query.WithPauseLength(*cfg.Engine.PauseLength))
	}
	if up := cfg.Engine.Upspeak; up != nil {
		pipelineOpts = append(pipelineOpts, query.WithUpspeakConfig(query.UpspeakConfig{
			VowelLength: up.VowelLength,
			PitchRise:   up.PitchRise,
			MaxPitch:    up.MaxPitch,
		}))
	}
	pipeline := query.NewPipeline(adapter, presets, log, pipelineOpts...)

	var sched *scheduler.Scheduler
	if cfg.Engine.EnableCancellable {
		sched = scheduler.New(backend, log)
	}

	// Precedence: flag, environment variable, config file.
	host := cfg.Server.Host
	if v := os.Getenv(envvar.ServerHost); v != "" {
		host = v
	}
	if *flagHost != "" {
		host = *flagHost
	}
	port := cfg.Server.Port
	if v, err := strconv.Atoi(os.Getenv(envvar.ServerPort)); err == nil && v > 0 {
		port = v
	}
	if *flagPort != 0 {
		port = *flagPort
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := serverhttp.New(log, pipeline, backend, presets, sched)
	if err := srv.Start(ctx, host, port); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func newBackend(kind config.BackendKind) (engine.Synthesizer, error) {
	switch kind {
	case config.BackendKindMock, "":
		return engine.NewMock(), nil
	default:
		return nil, &unknownBackendError{kind: kind}
	}
}

type unknownBackendError struct {
	kind config.BackendKind
}

func (e *unknownBackendError) Error() string {
	return "unknown backend kind: " + string(e.kind)
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
