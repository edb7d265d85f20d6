package engine

import (
	"context"
	"log/slog"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/nmori/voicevox-engine/internal/model"
)

// Adapter wraps a Synthesizer with per-style initialization
// single-flight: concurrent callers for one style id share a single
// warm-up while distinct style ids proceed in parallel. Ordinary
// synthesis calls take no extra locking here.
type Adapter struct {
	Synthesizer

	group singleflight.Group
	log   *slog.Logger
}

// NewAdapter wraps a backend.
func NewAdapter(s Synthesizer, log *slog.Logger) *Adapter {
	return &Adapter{
		Synthesizer: s,
		log:         log.With(slog.String("component", "engine-adapter")),
	}
}

// EnsureStyle warms up the style if needed. Safe for concurrent use;
// at most one InitializeStyle call per style id is in flight.
func (a *Adapter) EnsureStyle(ctx context.Context, styleID model.StyleID) error {
	if a.Synthesizer.IsStyleInitialized(styleID) {
		return nil
	}

	key := strconv.Itoa(int(styleID))
	_, err, shared := a.group.Do(key, func() (any, error) {
		// A competing caller may have finished while we queued.
		if a.Synthesizer.IsStyleInitialized(styleID) {
			return nil, nil
		}
		a.log.Info("initializing style", slog.Int("style_id", int(styleID)))
		return nil, a.Synthesizer.InitializeStyle(ctx, styleID)
	})
	if err != nil {
		return err
	}
	if shared {
		a.log.Debug("style initialization shared with concurrent caller",
			slog.Int("style_id", int(styleID)))
	}
	return nil
}
