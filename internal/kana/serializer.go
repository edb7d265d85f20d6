package kana

import (
	"strings"

	"github.com/nmori/voicevox-engine/internal/model"
)

// Serialize renders an accent-phrase sequence back into notation. It
// is total on structurally valid phrases and is the right inverse of
// Parse: serializing a parsed notation reproduces it.
func Serialize(phrases []model.AccentPhrase) string {
	var b strings.Builder
	for i, phrase := range phrases {
		for j, m := range phrase.Moras {
			if isUnvoicedVowel(m.Vowel) {
				b.WriteRune(UnvoiceMarker)
			}
			b.WriteString(m.Text)
			if j+1 == phrase.Accent {
				b.WriteRune(AccentMarker)
			}
		}
		if phrase.IsInterrogative {
			b.WriteRune(InterrogativeMark)
		}
		if i < len(phrases)-1 {
			if phrase.PauseMora != nil {
				b.WriteRune(PauseDelimiter)
			} else {
				b.WriteRune(LooseDelimiter)
			}
		}
	}
	return b.String()
}
