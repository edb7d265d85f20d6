package wave

import "errors"

// Error definitions for the wave package.
var (
	ErrNoWaveforms        = errors.New("no waveforms to assemble")
	ErrSampleRateMismatch = errors.New("waveforms carry different sampling rates")
	ErrChannelMismatch    = errors.New("waveforms carry different channel counts")
	ErrInvalidWAV         = errors.New("invalid WAV data")
)
