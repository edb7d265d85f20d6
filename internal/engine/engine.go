// Package engine defines the synthesis backend collaborator: the
// acoustic inference core that turns phrase structure into durations,
// pitches and waveforms. The engine layer above it treats every
// backend failure as opaque.
package engine

import (
	"context"

	"github.com/nmori/voicevox-engine/internal/model"
	"github.com/nmori/voicevox-engine/internal/wave"
)

// Synthesizer is the contract required from a synthesis backend.
// Implementations are injected where needed; there is no global
// registry lookup. All blocking calls accept a context and must
// honor its cancellation.
type Synthesizer interface {
	// AnalyzeText runs text analysis on raw text and returns the
	// accent-phrase structure.
	AnalyzeText(ctx context.Context, text string, styleID model.StyleID) ([]model.AccentPhrase, error)

	// UpdateLengthAndPitch recomputes mora durations and pitches.
	UpdateLengthAndPitch(ctx context.Context, phrases []model.AccentPhrase, styleID model.StyleID) ([]model.AccentPhrase, error)
	// UpdateLength recomputes mora durations only.
	UpdateLength(ctx context.Context, phrases []model.AccentPhrase, styleID model.StyleID) ([]model.AccentPhrase, error)
	// UpdatePitch recomputes mora pitches only.
	UpdatePitch(ctx context.Context, phrases []model.AccentPhrase, styleID model.StyleID) ([]model.AccentPhrase, error)

	// Render synthesizes a waveform from a query.
	Render(ctx context.Context, query *model.AudioQuery, styleID model.StyleID) (wave.Waveform, error)
	// RenderFrame synthesizes a waveform from a frame (singing) query.
	RenderFrame(ctx context.Context, query *model.FrameAudioQuery, styleID model.StyleID) (wave.Waveform, error)

	// SingFrameData derives per-frame phoneme spans, f0 and volume
	// from a score. The three results are always frame-aligned.
	SingFrameData(ctx context.Context, score *model.Score, styleID model.StyleID) ([]model.FramePhoneme, []float64, []float64, error)
	// SingVolume recomputes per-frame volume for given phonemes and f0.
	SingVolume(ctx context.Context, score *model.Score, phonemes []model.FramePhoneme, f0 []float64, styleID model.StyleID) ([]float64, error)

	// DefaultSamplingRate is the backend's native output rate.
	DefaultSamplingRate() int

	// InitializeStyle warms up synthesis for a style. Idempotent.
	InitializeStyle(ctx context.Context, styleID model.StyleID) error
	// IsStyleInitialized reports whether a style is warmed up.
	IsStyleInitialized(styleID model.StyleID) bool

	// SupportsCancellation reports whether in-flight render calls
	// abort when their context is cancelled.
	SupportsCancellation() bool

	// Version identifies the backend build.
	Version() string
}
