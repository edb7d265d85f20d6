// Package http exposes the engine over a plain HTTP API. Handlers are
// thin: they decode parameters, delegate to the query pipeline and
// translate failures to status codes. All synthesis logic lives below
// this layer.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nmori/voicevox-engine/internal/engine"
	"github.com/nmori/voicevox-engine/internal/preset"
	"github.com/nmori/voicevox-engine/internal/query"
	"github.com/nmori/voicevox-engine/internal/scheduler"
)

// Server serves the synthesis API on one listener.
type Server struct {
	log      *slog.Logger
	pipeline *query.Pipeline
	backend  engine.Synthesizer
	presets  *preset.Manager

	// scheduler is nil when cancellable synthesis is disabled; the
	// endpoint then reports 404.
	scheduler *scheduler.Scheduler

	httpServer *http.Server
}

// New wires the handlers to a pipeline and its collaborators. Pass a
// nil scheduler to leave cancellable synthesis disabled.
func New(log *slog.Logger, pipeline *query.Pipeline, backend engine.Synthesizer, presets *preset.Manager, sched *scheduler.Scheduler) *Server {
	return &Server{
		log:       log.With(slog.String("component", "http")),
		pipeline:  pipeline,
		backend:   backend,
		presets:   presets,
		scheduler: sched,
	}
}

// Handler returns the route table as a plain http.Handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /audio_query", s.handleAudioQuery)
	mux.HandleFunc("POST /audio_query_from_preset", s.handleAudioQueryFromPreset)
	mux.HandleFunc("POST /accent_phrases", s.handleAccentPhrases)
	mux.HandleFunc("POST /mora_data", s.handleMoraData)
	mux.HandleFunc("POST /mora_length", s.handleMoraLength)
	mux.HandleFunc("POST /mora_pitch", s.handleMoraPitch)

	mux.HandleFunc("POST /synthesis", s.handleSynthesis)
	mux.HandleFunc("POST /cancellable_synthesis", s.handleCancellableSynthesis)
	mux.HandleFunc("POST /multi_synthesis", s.handleMultiSynthesis)

	mux.HandleFunc("POST /sing_frame_audio_query", s.handleSingFrameAudioQuery)
	mux.HandleFunc("POST /sing_frame_volume", s.handleSingFrameVolume)
	mux.HandleFunc("POST /frame_synthesis", s.handleFrameSynthesis)

	mux.HandleFunc("POST /connect_waves", s.handleConnectWaves)
	mux.HandleFunc("POST /validate_kana", s.handleValidateKana)
	mux.HandleFunc("GET /version", s.handleVersion)

	mux.HandleFunc("GET /presets", s.handleGetPresets)
	mux.HandleFunc("POST /add_preset", s.handleAddPreset)
	mux.HandleFunc("POST /update_preset", s.handleUpdatePreset)
	mux.HandleFunc("POST /delete_preset", s.handleDeletePreset)

	return mux
}

// Start serves until ctx is cancelled, then drains with a 10 second
// grace period.
func (s *Server) Start(ctx context.Context, host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.log.Info("server started", slog.String("addr", addr))

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
