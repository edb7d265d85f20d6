package kana

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmori/voicevox-engine/internal/model"
)

func TestSerialize_RoundTrip(t *testing.T) {
	notations := []string{
		"コンニチワ'",
		"コンニチワ'/ヨロ'シク、ネ'？",
		"_デ'スト",
		"ア'/_シキ'？",
		"キョ'ツ、ア'ス？",
		"ヴァイオリン'",
		"ン'",
	}

	for _, s := range notations {
		t.Run(s, func(t *testing.T) {
			phrases, err := Parse(s)
			require.NoError(t, err)

			out := Serialize(phrases)
			assert.Equal(t, s, out, "serialization must reproduce the accepted notation")

			reparsed, err := Parse(out)
			require.NoError(t, err)
			assert.Equal(t, phrases, reparsed)
		})
	}
}

func TestSerialize_UnvoicedMarker(t *testing.T) {
	phrases := []model.AccentPhrase{{
		Moras: []model.Mora{
			{Text: "ス", Consonant: ptr("s"), ConsonantLength: ptr(0.0), Vowel: "U"},
			{Text: "キ", Consonant: ptr("k"), ConsonantLength: ptr(0.0), Vowel: "i", Pitch: 5.4},
		},
		Accent: 2,
	}}
	assert.Equal(t, "_スキ'", Serialize(phrases))
}

func TestSerialize_DelimiterChoice(t *testing.T) {
	pause := NewPauseMora()
	phrases := []model.AccentPhrase{
		{Moras: []model.Mora{{Text: "ア", Vowel: "a", Pitch: 5}}, Accent: 1, PauseMora: pause},
		{Moras: []model.Mora{{Text: "イ", Vowel: "i", Pitch: 5}}, Accent: 1},
		{Moras: []model.Mora{{Text: "ウ", Vowel: "u", Pitch: 5}}, Accent: 1, IsInterrogative: true},
	}
	assert.Equal(t, "ア'、イ'/ウ'？", Serialize(phrases))

	// The final phrase's pause mora never emits a delimiter.
	only := []model.AccentPhrase{
		{Moras: []model.Mora{{Text: "ア", Vowel: "a", Pitch: 5}}, Accent: 1, PauseMora: pause},
	}
	assert.Equal(t, "ア'", Serialize(only))
}

func ptr[T any](v T) *T { return &v }
