// Package query assembles synthesis-ready requests: it composes
// parsed phrase structure with preset and style parameters, validates
// batch invariants and drives the backend through query, segment and
// frame synthesis.
package query

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/nmori/voicevox-engine/internal/engine"
	"github.com/nmori/voicevox-engine/internal/kana"
	"github.com/nmori/voicevox-engine/internal/model"
	"github.com/nmori/voicevox-engine/internal/preset"
	"github.com/nmori/voicevox-engine/internal/wave"
)

// Default scale parameters of a freshly built query.
const (
	defaultSpeedScale        = 1
	defaultPitchScale        = 0
	defaultIntonationScale   = 1
	defaultVolumeScale       = 1
	defaultPrePhonemeLength  = 0.1
	defaultPostPhonemeLength = 0.1
	defaultPauseLengthScale  = 1
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithUpspeakConfig overrides the interrogative adjustment parameters.
func WithUpspeakConfig(cfg UpspeakConfig) Option {
	return func(p *Pipeline) { p.upspeak = cfg }
}

// WithPauseLength fixes the inserted-silence duration of built
// queries instead of leaving it to the backend's mora timing.
func WithPauseLength(seconds float64) Option {
	return func(p *Pipeline) { p.pauseLength = &seconds }
}

// Pipeline builds and executes synthesis requests against one
// resolved backend.
type Pipeline struct {
	backend *engine.Adapter
	presets *preset.Manager
	log     *slog.Logger

	upspeak     UpspeakConfig
	pauseLength *float64
}

// NewPipeline creates a pipeline bound to a backend and preset store.
func NewPipeline(backend *engine.Adapter, presets *preset.Manager, log *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		backend: backend,
		presets: presets,
		log:     log.With(slog.String("component", "query-pipeline")),
		upspeak: DefaultUpspeakConfig(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BuildQuery runs text analysis and assembles a query with default
// scale parameters. Backend failures propagate; nothing else fails.
func (p *Pipeline) BuildQuery(ctx context.Context, text string, styleID model.StyleID) (*model.AudioQuery, error) {
	phrases, err := p.backend.AnalyzeText(ctx, text, styleID)
	if err != nil {
		return nil, fmt.Errorf("analyze text: %w", err)
	}
	q := p.newQuery(phrases)
	return &q, nil
}

// BuildQueryFromPreset is BuildQuery with scale parameters copied
// from the preset with the given id. The preset also decides the
// style.
func (p *Pipeline) BuildQueryFromPreset(ctx context.Context, text string, presetID int) (*model.AudioQuery, error) {
	pr, err := p.presets.Get(presetID)
	if err != nil {
		return nil, err
	}

	phrases, err := p.backend.AnalyzeText(ctx, text, pr.StyleID)
	if err != nil {
		return nil, fmt.Errorf("analyze text: %w", err)
	}

	q := p.newQuery(phrases)
	q.SpeedScale = pr.SpeedScale
	q.PitchScale = pr.PitchScale
	q.IntonationScale = pr.IntonationScale
	q.VolumeScale = pr.VolumeScale
	q.PrePhonemeLength = pr.PrePhonemeLength
	q.PostPhonemeLength = pr.PostPhonemeLength
	return &q, nil
}

// BuildAccentPhrases produces phrase structure from raw text or, when
// isKana is set, from phonetic notation. Grammar errors propagate
// unmodified so callers can branch on their kind.
func (p *Pipeline) BuildAccentPhrases(ctx context.Context, text string, styleID model.StyleID, isKana bool) ([]model.AccentPhrase, error) {
	if !isKana {
		return p.backend.AnalyzeText(ctx, text, styleID)
	}
	phrases, err := kana.Parse(text)
	if err != nil {
		return nil, err
	}
	return p.backend.UpdateLengthAndPitch(ctx, phrases, styleID)
}

// UpdateMoraData recomputes durations and pitches via the backend.
func (p *Pipeline) UpdateMoraData(ctx context.Context, phrases []model.AccentPhrase, styleID model.StyleID) ([]model.AccentPhrase, error) {
	return p.backend.UpdateLengthAndPitch(ctx, phrases, styleID)
}

// UpdateMoraLength recomputes durations only.
func (p *Pipeline) UpdateMoraLength(ctx context.Context, phrases []model.AccentPhrase, styleID model.StyleID) ([]model.AccentPhrase, error) {
	return p.backend.UpdateLength(ctx, phrases, styleID)
}

// UpdateMoraPitch recomputes pitches only.
func (p *Pipeline) UpdateMoraPitch(ctx context.Context, phrases []model.AccentPhrase, styleID model.StyleID) ([]model.AccentPhrase, error) {
	return p.backend.UpdatePitch(ctx, phrases, styleID)
}

// Synthesize renders one query. With enableUpspeak, interrogative
// phrases get their pitch contour extended before rendering.
func (p *Pipeline) Synthesize(ctx context.Context, q *model.AudioQuery, styleID model.StyleID, enableUpspeak bool) (wave.Waveform, error) {
	if err := p.backend.EnsureStyle(ctx, styleID); err != nil {
		return wave.Waveform{}, fmt.Errorf("initialize style: %w", err)
	}

	rendered := q
	if enableUpspeak {
		adjusted := q.Copy()
		adjusted.AccentPhrases = applyUpspeak(adjusted.AccentPhrases, p.upspeak)
		rendered = &adjusted
	}

	w, err := p.backend.Render(ctx, rendered, styleID)
	if err != nil {
		return wave.Waveform{}, fmt.Errorf("render: %w", err)
	}
	return w, nil
}

// SynthesizeBatch renders every query independently and returns the
// waveforms in input order. All queries must agree on the sampling
// rate of the first.
func (p *Pipeline) SynthesizeBatch(ctx context.Context, queries []model.AudioQuery, styleID model.StyleID) ([]wave.Waveform, error) {
	if len(queries) == 0 {
		return nil, ErrEmptyBatch
	}

	rate := queries[0].OutputSamplingRate
	for i := range queries {
		if queries[i].OutputSamplingRate != rate {
			return nil, fmt.Errorf("%w: query %d has %d Hz, expected %d Hz",
				ErrInconsistentSamplingRate, i+1, queries[i].OutputSamplingRate, rate)
		}
	}

	if err := p.backend.EnsureStyle(ctx, styleID); err != nil {
		return nil, fmt.Errorf("initialize style: %w", err)
	}

	waves := make([]wave.Waveform, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i := range queries {
		g.Go(func() error {
			w, err := p.Synthesize(gctx, &queries[i], styleID, false)
			if err != nil {
				return fmt.Errorf("query %d: %w", i+1, err)
			}
			waves[i] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return waves, nil
}

// BuildFrameQuery derives a frame (singing) query from a score. The
// three frame arrays always come back length-aligned.
func (p *Pipeline) BuildFrameQuery(ctx context.Context, score *model.Score, styleID model.StyleID) (*model.FrameAudioQuery, error) {
	phonemes, f0, volume, err := p.backend.SingFrameData(ctx, score, styleID)
	if err != nil {
		return nil, fmt.Errorf("sing frame data: %w", err)
	}

	q := &model.FrameAudioQuery{
		F0:                 f0,
		Volume:             volume,
		Phonemes:           phonemes,
		VolumeScale:        defaultVolumeScale,
		OutputSamplingRate: p.backend.DefaultSamplingRate(),
		OutputStereo:       false,
	}
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("backend returned misaligned frame data: %w", err)
	}
	return q, nil
}

// FrameVolume recomputes per-frame volume for a score and existing
// frame data. Pure backend pass-through.
func (p *Pipeline) FrameVolume(ctx context.Context, score *model.Score, phonemes []model.FramePhoneme, f0 []float64, styleID model.StyleID) ([]float64, error) {
	return p.backend.SingVolume(ctx, score, phonemes, f0, styleID)
}

// SynthesizeFrame renders a frame query.
func (p *Pipeline) SynthesizeFrame(ctx context.Context, q *model.FrameAudioQuery, styleID model.StyleID) (wave.Waveform, error) {
	if err := q.Validate(); err != nil {
		return wave.Waveform{}, err
	}
	if err := p.backend.EnsureStyle(ctx, styleID); err != nil {
		return wave.Waveform{}, fmt.Errorf("initialize style: %w", err)
	}
	w, err := p.backend.RenderFrame(ctx, q, styleID)
	if err != nil {
		return wave.Waveform{}, fmt.Errorf("render frame: %w", err)
	}
	return w, nil
}

// newQuery wraps phrases in a query with default scale parameters and
// the canonical notation cached.
func (p *Pipeline) newQuery(phrases []model.AccentPhrase) model.AudioQuery {
	q := model.AudioQuery{
		AccentPhrases:      phrases,
		SpeedScale:         defaultSpeedScale,
		PitchScale:         defaultPitchScale,
		IntonationScale:    defaultIntonationScale,
		VolumeScale:        defaultVolumeScale,
		PrePhonemeLength:   defaultPrePhonemeLength,
		PostPhonemeLength:  defaultPostPhonemeLength,
		PauseLengthScale:   defaultPauseLengthScale,
		OutputSamplingRate: p.backend.DefaultSamplingRate(),
		OutputStereo:       false,
		Kana:               kana.Serialize(phrases),
	}
	if p.pauseLength != nil {
		v := *p.pauseLength
		q.PauseLength = &v
	}
	return q
}
