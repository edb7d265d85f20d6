package wave

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const pcmBitDepth = 16

// DecodeWAV parses a RIFF/WAVE byte stream into a Waveform.
func DecodeWAV(data []byte) (Waveform, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return Waveform{}, ErrInvalidWAV
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Waveform{}, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = pcmBitDepth
	}
	scale := float32(int(1) << (bitDepth - 1))
	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(v) / scale
	}

	return Waveform{
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
		Samples:    samples,
	}, nil
}

// EncodeWAV renders a Waveform as a 16-bit PCM RIFF/WAVE byte stream.
func EncodeWAV(w Waveform) ([]byte, error) {
	channels := w.Channels
	if channels == 0 {
		channels = 1
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			SampleRate:  w.SampleRate,
			NumChannels: channels,
		},
		SourceBitDepth: pcmBitDepth,
		Data:           make([]int, len(w.Samples)),
	}
	for i, s := range w.Samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		buf.Data[i] = int(s * 32767)
	}

	var out seekableBuffer
	enc := wav.NewEncoder(&out, w.SampleRate, pcmBitDepth, channels, 1)
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finalize wav: %w", err)
	}
	return out.Bytes(), nil
}

// DecodeBase64WAVs decodes a list of base64-encoded WAV blobs. Index
// information is preserved in errors so the caller can report which
// input was malformed.
func DecodeBase64WAVs(encoded []string) ([]Waveform, error) {
	waves := make([]Waveform, 0, len(encoded))
	for i, s := range encoded {
		data, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: input %d is not valid base64: %v", ErrInvalidWAV, i+1, err)
		}
		w, err := DecodeWAV(data)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i+1, err)
		}
		waves = append(waves, w)
	}
	return waves, nil
}

// seekableBuffer adapts an in-memory byte slice to io.WriteSeeker for
// the wav encoder, which rewinds to patch chunk sizes on Close.
type seekableBuffer struct {
	data []byte
	pos  int
}

func (b *seekableBuffer) Write(p []byte) (int, error) {
	if need := b.pos + len(p); need > len(b.data) {
		grown := make([]byte, need)
		copy(grown, b.data)
		b.data = grown
	}
	copy(b.data[b.pos:], p)
	b.pos += len(p)
	return len(p), nil
}

func (b *seekableBuffer) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(b.pos) + offset
	case io.SeekEnd:
		pos = int64(len(b.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if pos < 0 {
		return 0, fmt.Errorf("negative seek position %d", pos)
	}
	b.pos = int(pos)
	return pos, nil
}

func (b *seekableBuffer) Bytes() []byte { return b.data }
