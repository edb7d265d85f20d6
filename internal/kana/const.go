package kana

// The notation alphabet. Exactly six token classes exist: katakana
// mora tokens, the unvoicing prefix, the accent marker, the two
// segment delimiters and the interrogative mark.
const (
	// UnvoiceMarker prefixes a mora to force it unvoiced.
	UnvoiceMarker = '_'
	// AccentMarker follows the accent-nucleus mora of a segment.
	AccentMarker = '\''
	// LooseDelimiter separates segments without inserting silence.
	LooseDelimiter = '/'
	// PauseDelimiter separates segments and appends one pause mora
	// to the preceding phrase.
	PauseDelimiter = '、'
	// InterrogativeMark ends an interrogative segment (full width).
	InterrogativeMark = '？'
)

// PhonemePause is the vowel phoneme of an inserted silence mora.
const PhonemePause = "pau"

// loopLimit bounds the parse loop per segment. A segment longer than
// this is certainly malformed input.
const loopLimit = 300
