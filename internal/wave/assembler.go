// Package wave assembles synthesized waveform segments: gapless
// concatenation, WAV encoding/decoding and ZIP packaging of batch
// results.
package wave

import "fmt"

// Waveform is an ordered sample buffer with its sampling rate.
// Samples are interleaved when Channels > 1.
type Waveform struct {
	SampleRate int
	Channels   int
	Samples    []float32
}

// Duration returns the waveform length in frames (samples per
// channel).
func (w *Waveform) Duration() int {
	if w.Channels <= 1 {
		return len(w.Samples)
	}
	return len(w.Samples) / w.Channels
}

// Concatenate joins independently synthesized waveforms into one
// stream, in input order, with no gap or crossfade. All inputs must
// share one sampling rate and channel count.
func Concatenate(waves []Waveform) (Waveform, error) {
	if len(waves) == 0 {
		return Waveform{}, ErrNoWaveforms
	}

	rate := waves[0].SampleRate
	channels := waves[0].Channels
	total := 0
	for i, w := range waves {
		if w.SampleRate != rate {
			return Waveform{}, fmt.Errorf("%w: waveform %d has %d Hz, expected %d Hz",
				ErrSampleRateMismatch, i+1, w.SampleRate, rate)
		}
		if w.Channels != channels {
			return Waveform{}, fmt.Errorf("%w: waveform %d has %d channels, expected %d",
				ErrChannelMismatch, i+1, w.Channels, channels)
		}
		total += len(w.Samples)
	}

	out := Waveform{SampleRate: rate, Channels: channels, Samples: make([]float32, 0, total)}
	for _, w := range waves {
		out.Samples = append(out.Samples, w.Samples...)
	}
	return out, nil
}
