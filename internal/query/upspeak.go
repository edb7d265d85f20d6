package query

import (
	"github.com/nmori/voicevox-engine/internal/kana"
	"github.com/nmori/voicevox-engine/internal/model"
)

// UpspeakConfig parameterizes the interrogative pitch-contour
// adjustment: an interrogative phrase gains one short mora echoing
// its final vowel at a raised pitch.
type UpspeakConfig struct {
	// VowelLength is the duration of the appended contour mora.
	VowelLength float64
	// PitchRise is added to the final mora's pitch.
	PitchRise float64
	// MaxPitch caps the raised pitch.
	MaxPitch float64
}

// DefaultUpspeakConfig returns the stock adjustment parameters.
func DefaultUpspeakConfig() UpspeakConfig {
	return UpspeakConfig{
		VowelLength: 0.15,
		PitchRise:   0.3,
		MaxPitch:    6.5,
	}
}

// applyUpspeak returns a copy of phrases where every interrogative
// phrase ending in a voiced mora has the upspeak contour appended.
// Phrases ending unvoiced are left alone.
func applyUpspeak(phrases []model.AccentPhrase, cfg UpspeakConfig) []model.AccentPhrase {
	out := model.CopyAccentPhrases(phrases)
	for i := range out {
		phrase := &out[i]
		if !phrase.IsInterrogative || len(phrase.Moras) == 0 {
			continue
		}
		last := phrase.Moras[len(phrase.Moras)-1]
		if last.Pitch == 0 {
			continue
		}

		pitch := last.Pitch + cfg.PitchRise
		if pitch > cfg.MaxPitch {
			pitch = cfg.MaxPitch
		}
		text, ok := kana.VowelKana(last.Vowel)
		if !ok {
			text = last.Text
		}
		phrase.Moras = append(phrase.Moras, model.Mora{
			Text:        text,
			Vowel:       last.Vowel,
			VowelLength: cfg.VowelLength,
			Pitch:       pitch,
		})
	}
	return out
}
