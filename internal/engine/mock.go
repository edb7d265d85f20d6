package engine

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/nmori/voicevox-engine/internal/kana"
	"github.com/nmori/voicevox-engine/internal/model"
	"github.com/nmori/voicevox-engine/internal/wave"
)

// Mock defaults.
const (
	mockSamplingRate    = 24000
	mockFrameHop        = 256
	mockConsonantLength = 0.05
	mockVowelLength     = 0.1
	mockBasePitch       = 5.5
)

// MockOption configures the mock backend.
type MockOption func(*Mock)

// WithRenderDelay makes every render call block for d before
// producing output, so cancellation can be exercised mid-call.
func WithRenderDelay(d time.Duration) MockOption {
	return func(m *Mock) { m.renderDelay = d }
}

// WithInitDelay makes style initialization take d.
func WithInitDelay(d time.Duration) MockOption {
	return func(m *Mock) { m.initDelay = d }
}

// WithoutCancellation disables cooperative cancellation support.
func WithoutCancellation() MockOption {
	return func(m *Mock) { m.cancellable = false }
}

// Mock is a deterministic synthesizer for tests and the daemon's
// --mock mode. Waveform content is a fixed-amplitude sine so output
// length and rate are exact while no acoustic model is involved.
type Mock struct {
	renderDelay time.Duration
	initDelay   time.Duration
	cancellable bool

	mu          sync.Mutex
	initialized map[model.StyleID]bool
	initCalls   map[model.StyleID]int
	activeInits map[model.StyleID]int
	maxPerStyle map[model.StyleID]int
	maxActive   int
}

// NewMock creates a mock backend.
func NewMock(opts ...MockOption) *Mock {
	m := &Mock{
		cancellable: true,
		initialized: make(map[model.StyleID]bool),
		initCalls:   make(map[model.StyleID]int),
		activeInits: make(map[model.StyleID]int),
		maxPerStyle: make(map[model.StyleID]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AnalyzeText fabricates accent phrases from raw text: notation input
// parses exactly, anything else becomes one phrase with a mora per
// rune. Durations and pitches come back filled, as a real analyzer's
// would.
func (m *Mock) AnalyzeText(ctx context.Context, text string, styleID model.StyleID) ([]model.AccentPhrase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	phrases, err := kana.Parse(text)
	if err != nil {
		runes := []rune(text)
		moras := make([]model.Mora, 0, len(runes))
		for _, r := range runes {
			mora := model.Mora{Text: string(r), Vowel: "a"}
			if c, v, ok := kana.LookupMora(string(r)); ok {
				mora.Vowel = v
				if c != "" {
					cc, cl := c, 0.0
					mora.Consonant = &cc
					mora.ConsonantLength = &cl
				}
			}
			moras = append(moras, mora)
		}
		if len(moras) == 0 {
			return nil, nil
		}
		phrases = []model.AccentPhrase{{Moras: moras, Accent: 1}}
	}
	return m.UpdateLengthAndPitch(ctx, phrases, styleID)
}

// UpdateLengthAndPitch fills deterministic durations and pitches.
func (m *Mock) UpdateLengthAndPitch(ctx context.Context, phrases []model.AccentPhrase, styleID model.StyleID) ([]model.AccentPhrase, error) {
	out, err := m.UpdateLength(ctx, phrases, styleID)
	if err != nil {
		return nil, err
	}
	return m.UpdatePitch(ctx, out, styleID)
}

// UpdateLength fills deterministic mora durations.
func (m *Mock) UpdateLength(ctx context.Context, phrases []model.AccentPhrase, styleID model.StyleID) ([]model.AccentPhrase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := model.CopyAccentPhrases(phrases)
	for i := range out {
		for j := range out[i].Moras {
			mora := &out[i].Moras[j]
			mora.VowelLength = mockVowelLength
			if mora.ConsonantLength != nil {
				*mora.ConsonantLength = mockConsonantLength
			}
		}
		if out[i].PauseMora != nil {
			out[i].PauseMora.VowelLength = mockVowelLength
		}
	}
	return out, nil
}

// UpdatePitch fills deterministic mora pitches. Unvoiced morae and
// silences keep the zero sentinel.
func (m *Mock) UpdatePitch(ctx context.Context, phrases []model.AccentPhrase, styleID model.StyleID) ([]model.AccentPhrase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := model.CopyAccentPhrases(phrases)
	for i := range out {
		for j := range out[i].Moras {
			mora := &out[i].Moras[j]
			if voiceless(mora.Vowel) {
				mora.Pitch = 0
				continue
			}
			// Slight decline after the nucleus keeps output stable
			// but non-flat.
			mora.Pitch = mockBasePitch + 0.01*float64(int(styleID)%7)
			if j+1 > out[i].Accent {
				mora.Pitch -= 0.2
			}
		}
	}
	return out, nil
}

// Render produces silence-padded audio whose length follows the
// query's mora durations and scale parameters.
func (m *Mock) Render(ctx context.Context, query *model.AudioQuery, styleID model.StyleID) (wave.Waveform, error) {
	if err := m.wait(ctx, m.renderDelay); err != nil {
		return wave.Waveform{}, err
	}

	rate := query.OutputSamplingRate
	if rate == 0 {
		rate = mockSamplingRate
	}
	speed := query.SpeedScale
	if speed == 0 {
		speed = 1
	}

	seconds := query.PrePhonemeLength + query.PostPhonemeLength
	for _, phrase := range query.AccentPhrases {
		for _, mora := range phrase.Moras {
			seconds += mora.VowelLength
			if mora.ConsonantLength != nil {
				seconds += *mora.ConsonantLength
			}
		}
		if phrase.PauseMora != nil {
			length := phrase.PauseMora.VowelLength
			if query.PauseLength != nil {
				length = *query.PauseLength
			}
			if query.PauseLengthScale != 0 {
				length *= query.PauseLengthScale
			}
			seconds += length
		}
	}
	seconds /= speed

	channels := 1
	if query.OutputStereo {
		channels = 2
	}
	return m.tone(rate, channels, seconds, query.VolumeScale), nil
}

// RenderFrame produces hop-size * frame-count samples at the query's
// rate.
func (m *Mock) RenderFrame(ctx context.Context, query *model.FrameAudioQuery, styleID model.StyleID) (wave.Waveform, error) {
	if err := query.Validate(); err != nil {
		return wave.Waveform{}, err
	}
	if err := m.wait(ctx, m.renderDelay); err != nil {
		return wave.Waveform{}, err
	}

	rate := query.OutputSamplingRate
	if rate == 0 {
		rate = mockSamplingRate
	}
	channels := 1
	if query.OutputStereo {
		channels = 2
	}
	seconds := float64(query.TotalFrames()*mockFrameHop) / mockSamplingRate
	return m.tone(rate, channels, seconds, query.VolumeScale), nil
}

// SingFrameData derives one phoneme span per note; f0 follows the
// note key (440 Hz at MIDI key 69), rests are silent.
func (m *Mock) SingFrameData(ctx context.Context, score *model.Score, styleID model.StyleID) ([]model.FramePhoneme, []float64, []float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}

	var (
		phonemes []model.FramePhoneme
		f0       []float64
		volume   []float64
	)
	for _, note := range score.Notes {
		phoneme := kana.PhonemePause
		if note.Key != nil {
			phoneme = "a"
			if _, v, ok := kana.LookupMora(note.Lyric); ok {
				phoneme = v
			}
		}
		phonemes = append(phonemes, model.FramePhoneme{Phoneme: phoneme, FrameLength: note.FrameLength})

		var hz, vol float64
		if note.Key != nil {
			hz = 440 * math.Pow(2, float64(*note.Key-69)/12)
			vol = 0.5
		}
		for i := 0; i < note.FrameLength; i++ {
			f0 = append(f0, hz)
			volume = append(volume, vol)
		}
	}
	return phonemes, f0, volume, nil
}

// SingVolume recomputes frame volume from f0: silent where unvoiced.
func (m *Mock) SingVolume(ctx context.Context, score *model.Score, phonemes []model.FramePhoneme, f0 []float64, styleID model.StyleID) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	volume := make([]float64, len(f0))
	for i, hz := range f0 {
		if hz > 0 {
			volume[i] = 0.5
		}
	}
	return volume, nil
}

// DefaultSamplingRate returns the mock's native rate.
func (m *Mock) DefaultSamplingRate() int { return mockSamplingRate }

// InitializeStyle marks the style warmed up after the configured
// delay. Concurrency bookkeeping backs the single-flight tests.
func (m *Mock) InitializeStyle(ctx context.Context, styleID model.StyleID) error {
	m.mu.Lock()
	m.initCalls[styleID]++
	m.activeInits[styleID]++
	if m.activeInits[styleID] > m.maxPerStyle[styleID] {
		m.maxPerStyle[styleID] = m.activeInits[styleID]
	}
	active := 0
	for _, n := range m.activeInits {
		if n > 0 {
			active++
		}
	}
	if active > m.maxActive {
		m.maxActive = active
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.activeInits[styleID]--
		m.mu.Unlock()
	}()

	if err := m.wait(ctx, m.initDelay); err != nil {
		return err
	}

	m.mu.Lock()
	m.initialized[styleID] = true
	m.mu.Unlock()
	return nil
}

// IsStyleInitialized reports warm-up state.
func (m *Mock) IsStyleInitialized(styleID model.StyleID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized[styleID]
}

// SupportsCancellation reports the configured cancellation support.
func (m *Mock) SupportsCancellation() bool { return m.cancellable }

// Version identifies the mock build.
func (m *Mock) Version() string { return "mock-0.1.0" }

// InitializeCalls returns how many warm-up calls a style received.
func (m *Mock) InitializeCalls(styleID model.StyleID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initCalls[styleID]
}

// MaxConcurrentStyleInits returns the peak number of styles that were
// initializing at once.
func (m *Mock) MaxConcurrentStyleInits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxActive
}

// MaxConcurrentInitsForStyle returns the peak number of simultaneous
// warm-up calls one style received. Under single-flight this never
// exceeds 1.
func (m *Mock) MaxConcurrentInitsForStyle(styleID model.StyleID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxPerStyle[styleID]
}

func (m *Mock) wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (m *Mock) tone(rate, channels int, seconds, volume float64) wave.Waveform {
	if seconds < 0 {
		seconds = 0
	}
	if volume == 0 {
		volume = 1
	}
	frames := int(math.Round(seconds * float64(rate)))
	samples := make([]float32, frames*channels)
	amp := 0.1 * volume
	for i := 0; i < frames; i++ {
		v := float32(amp * math.Sin(2*math.Pi*220*float64(i)/float64(rate)))
		for c := 0; c < channels; c++ {
			samples[i*channels+c] = v
		}
	}
	return wave.Waveform{SampleRate: rate, Channels: channels, Samples: samples}
}

func voiceless(vowel string) bool {
	switch vowel {
	case "A", "I", "U", "E", "O", "cl", kana.PhonemePause:
		return true
	}
	return false
}
