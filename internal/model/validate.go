package model

import "fmt"

// Validate checks the structural invariants of a single mora.
func (m *Mora) Validate() error {
	if m.Vowel == "" {
		return ErrMissingVowel
	}
	if (m.Consonant == nil) != (m.ConsonantLength == nil) {
		return ErrDanglingConsonant
	}
	return nil
}

// Validate checks the structural invariants of an accent phrase: at
// least one mora, accent nucleus inside [1, len(moras)], every mora
// valid.
func (p *AccentPhrase) Validate() error {
	if len(p.Moras) == 0 {
		return ErrEmptyMoras
	}
	if p.Accent < 1 || p.Accent > len(p.Moras) {
		return fmt.Errorf("%w: accent %d with %d morae", ErrAccentOutOfRange, p.Accent, len(p.Moras))
	}
	for i := range p.Moras {
		if err := p.Moras[i].Validate(); err != nil {
			return fmt.Errorf("mora %d: %w", i+1, err)
		}
	}
	if p.PauseMora != nil {
		if err := p.PauseMora.Validate(); err != nil {
			return fmt.Errorf("pause mora: %w", err)
		}
	}
	return nil
}

// Validate checks the frame-alignment invariant of a frame query.
func (q *FrameAudioQuery) Validate() error {
	total := q.TotalFrames()
	if len(q.F0) != total || len(q.Volume) != total {
		return fmt.Errorf("%w: f0=%d volume=%d frames=%d", ErrFrameMisaligned, len(q.F0), len(q.Volume), total)
	}
	return nil
}
