// Package model holds the value objects shared across the synthesis
// pipeline: morae, accent phrases, audio queries, scores and presets.
// Everything here is freely copyable; no instance is shared across a
// request boundary.
package model

// StyleID identifies a backend-selectable voice/synthesis configuration.
type StyleID int

// Mora is the smallest phonetic rhythmic unit. The vowel is always
// present; the consonant (and its length) is absent for vowel-only
// morae. Pitch is 0 exactly when the mora is unvoiced, in which case
// a voiceable vowel phoneme is upper-cased (a -> A, i -> I, ...).
type Mora struct {
	Text            string   `json:"text"`
	Consonant       *string  `json:"consonant"`
	ConsonantLength *float64 `json:"consonant_length"`
	Vowel           string   `json:"vowel"`
	VowelLength     float64  `json:"vowel_length"`
	Pitch           float64  `json:"pitch"`
}

// IsUnvoiced reports whether the mora carries no pitch.
func (m *Mora) IsUnvoiced() bool {
	return m.Pitch == 0
}

// Copy returns a deep copy of the mora.
func (m Mora) Copy() Mora {
	c := m
	if m.Consonant != nil {
		v := *m.Consonant
		c.Consonant = &v
	}
	if m.ConsonantLength != nil {
		v := *m.ConsonantLength
		c.ConsonantLength = &v
	}
	return c
}

// AccentPhrase is a prosodic grouping of morae sharing one pitch-accent
// nucleus. Accent is the 1-based index of the nucleus mora. PauseMora
// is only present when the phrase was separated from its successor by
// the paused delimiter.
type AccentPhrase struct {
	Moras           []Mora `json:"moras"`
	Accent          int    `json:"accent"`
	PauseMora       *Mora  `json:"pause_mora"`
	IsInterrogative bool   `json:"is_interrogative"`
}

// Copy returns a deep copy of the accent phrase.
func (p AccentPhrase) Copy() AccentPhrase {
	c := p
	c.Moras = make([]Mora, len(p.Moras))
	for i, m := range p.Moras {
		c.Moras[i] = m.Copy()
	}
	if p.PauseMora != nil {
		pm := p.PauseMora.Copy()
		c.PauseMora = &pm
	}
	return c
}

// CopyAccentPhrases deep-copies a phrase sequence.
func CopyAccentPhrases(phrases []AccentPhrase) []AccentPhrase {
	out := make([]AccentPhrase, len(phrases))
	for i, p := range phrases {
		out[i] = p.Copy()
	}
	return out
}

// AudioQuery is a synthesis-ready request: parsed phrase structure plus
// global scale parameters. Kana is derived from AccentPhrases (its
// canonical serialization) and is never an independent input.
type AudioQuery struct {
	AccentPhrases      []AccentPhrase `json:"accent_phrases"`
	SpeedScale         float64        `json:"speedScale"`
	PitchScale         float64        `json:"pitchScale"`
	IntonationScale    float64        `json:"intonationScale"`
	VolumeScale        float64        `json:"volumeScale"`
	PrePhonemeLength   float64        `json:"prePhonemeLength"`
	PostPhonemeLength  float64        `json:"postPhonemeLength"`
	PauseLength        *float64       `json:"pauseLength"`
	PauseLengthScale   float64        `json:"pauseLengthScale"`
	OutputSamplingRate int            `json:"outputSamplingRate"`
	OutputStereo       bool           `json:"outputStereo"`
	Kana               string         `json:"kana"`
}

// Copy returns a deep copy of the query.
func (q AudioQuery) Copy() AudioQuery {
	c := q
	c.AccentPhrases = CopyAccentPhrases(q.AccentPhrases)
	if q.PauseLength != nil {
		v := *q.PauseLength
		c.PauseLength = &v
	}
	return c
}

// FramePhoneme is one phoneme span of a frame query, measured in
// audio frames of the backend's hop size.
type FramePhoneme struct {
	Phoneme     string `json:"phoneme"`
	FrameLength int    `json:"frame_length"`
}

// FrameAudioQuery is a singing-synthesis request: per-frame f0 and
// volume arrays paired with phoneme spans. len(F0) == len(Volume) ==
// the summed frame length of Phonemes at all times.
type FrameAudioQuery struct {
	F0                 []float64      `json:"f0"`
	Volume             []float64      `json:"volume"`
	Phonemes           []FramePhoneme `json:"phonemes"`
	VolumeScale        float64        `json:"volumeScale"`
	OutputSamplingRate int            `json:"outputSamplingRate"`
	OutputStereo       bool           `json:"outputStereo"`
}

// TotalFrames returns the summed frame length of the phoneme spans.
func (q *FrameAudioQuery) TotalFrames() int {
	n := 0
	for _, p := range q.Phonemes {
		n += p.FrameLength
	}
	return n
}

// Note is one note of a score. Rest notes have a nil key and an empty
// lyric.
type Note struct {
	Key         *int   `json:"key"`
	FrameLength int    `json:"frame_length"`
	Lyric       string `json:"lyric"`
}

// Score is an ordered note sequence for singing synthesis.
type Score struct {
	Notes []Note `json:"notes"`
}

// Preset is a named bundle of a style id and scale parameters. Presets
// are looked up by ID and copied into queries; the pipeline never
// mutates one.
type Preset struct {
	ID                int     `json:"id"                yaml:"id"`
	Name              string  `json:"name"              yaml:"name"`
	SpeakerUUID       string  `json:"speaker_uuid"      yaml:"speaker_uuid"`
	StyleID           StyleID `json:"style_id"          yaml:"style_id"`
	SpeedScale        float64 `json:"speedScale"        yaml:"speedScale"`
	PitchScale        float64 `json:"pitchScale"        yaml:"pitchScale"`
	IntonationScale   float64 `json:"intonationScale"   yaml:"intonationScale"`
	VolumeScale       float64 `json:"volumeScale"       yaml:"volumeScale"`
	PrePhonemeLength  float64 `json:"prePhonemeLength"  yaml:"prePhonemeLength"`
	PostPhonemeLength float64 `json:"postPhonemeLength" yaml:"postPhonemeLength"`
}
