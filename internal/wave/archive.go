package wave

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// PackageArchive packages independent waveforms into a ZIP archive.
// Entries keep input order under zero-padded 1-based names
// (001.wav, 002.wav, ...), so the archive is deterministic for a
// given input.
func PackageArchive(waves []Waveform) ([]byte, error) {
	if len(waves) == 0 {
		return nil, ErrNoWaveforms
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, w := range waves {
		data, err := EncodeWAV(w)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		f, err := zw.Create(fmt.Sprintf("%03d.wav", i+1))
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		if _, err := f.Write(data); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
