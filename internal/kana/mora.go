package kana

import (
	"strings"

	"github.com/nmori/voicevox-engine/internal/model"
)

// moraEntry is one row of the mora inventory: katakana text plus its
// consonant (empty for vowel-only morae) and vowel phonemes.
type moraEntry struct {
	text      string
	consonant string
	vowel     string
}

// moraInventory is the katakana mora inventory recognized by the
// notation. Entry order is irrelevant: the parser does longest-match
// lookups against the derived table. The inventory follows the
// OpenJTalk phoneme set.
var moraInventory = []moraEntry{
	// Vowel-only morae.
	{"ア", "", "a"}, {"イ", "", "i"}, {"ウ", "", "u"}, {"エ", "", "e"}, {"オ", "", "o"},
	{"ヲ", "", "o"}, {"イェ", "y", "e"},
	// K rows.
	{"カ", "k", "a"}, {"キ", "k", "i"}, {"ク", "k", "u"}, {"ケ", "k", "e"}, {"コ", "k", "o"},
	{"キャ", "ky", "a"}, {"キュ", "ky", "u"}, {"キェ", "ky", "e"}, {"キョ", "ky", "o"},
	{"クヮ", "kw", "a"},
	// S rows.
	{"サ", "s", "a"}, {"シ", "sh", "i"}, {"ス", "s", "u"}, {"セ", "s", "e"}, {"ソ", "s", "o"},
	{"シャ", "sh", "a"}, {"シュ", "sh", "u"}, {"シェ", "sh", "e"}, {"ショ", "sh", "o"},
	{"スィ", "s", "i"},
	// T rows.
	{"タ", "t", "a"}, {"チ", "ch", "i"}, {"ツ", "ts", "u"}, {"テ", "t", "e"}, {"ト", "t", "o"},
	{"チャ", "ch", "a"}, {"チュ", "ch", "u"}, {"チェ", "ch", "e"}, {"チョ", "ch", "o"},
	{"ツァ", "ts", "a"}, {"ツィ", "ts", "i"}, {"ツェ", "ts", "e"}, {"ツォ", "ts", "o"},
	{"ティ", "t", "i"}, {"トゥ", "t", "u"}, {"テュ", "ty", "u"},
	// N rows.
	{"ナ", "n", "a"}, {"ニ", "n", "i"}, {"ヌ", "n", "u"}, {"ネ", "n", "e"}, {"ノ", "n", "o"},
	{"ニャ", "ny", "a"}, {"ニュ", "ny", "u"}, {"ニェ", "ny", "e"}, {"ニョ", "ny", "o"},
	// H rows.
	{"ハ", "h", "a"}, {"ヒ", "h", "i"}, {"フ", "f", "u"}, {"ヘ", "h", "e"}, {"ホ", "h", "o"},
	{"ヒャ", "hy", "a"}, {"ヒュ", "hy", "u"}, {"ヒェ", "hy", "e"}, {"ヒョ", "hy", "o"},
	{"ファ", "f", "a"}, {"フィ", "f", "i"}, {"フェ", "f", "e"}, {"フォ", "f", "o"},
	{"フュ", "fy", "u"},
	// M rows.
	{"マ", "m", "a"}, {"ミ", "m", "i"}, {"ム", "m", "u"}, {"メ", "m", "e"}, {"モ", "m", "o"},
	{"ミャ", "my", "a"}, {"ミュ", "my", "u"}, {"ミェ", "my", "e"}, {"ミョ", "my", "o"},
	// Y rows.
	{"ヤ", "y", "a"}, {"ユ", "y", "u"}, {"ヨ", "y", "o"},
	// R rows.
	{"ラ", "r", "a"}, {"リ", "r", "i"}, {"ル", "r", "u"}, {"レ", "r", "e"}, {"ロ", "r", "o"},
	{"リャ", "ry", "a"}, {"リュ", "ry", "u"}, {"リェ", "ry", "e"}, {"リョ", "ry", "o"},
	// W rows.
	{"ワ", "w", "a"}, {"ウィ", "w", "i"}, {"ウェ", "w", "e"}, {"ウォ", "w", "o"},
	// G rows.
	{"ガ", "g", "a"}, {"ギ", "g", "i"}, {"グ", "g", "u"}, {"ゲ", "g", "e"}, {"ゴ", "g", "o"},
	{"ギャ", "gy", "a"}, {"ギュ", "gy", "u"}, {"ギェ", "gy", "e"}, {"ギョ", "gy", "o"},
	{"グヮ", "gw", "a"},
	// Z rows.
	{"ザ", "z", "a"}, {"ジ", "j", "i"}, {"ズ", "z", "u"}, {"ゼ", "z", "e"}, {"ゾ", "z", "o"},
	{"ジャ", "j", "a"}, {"ジュ", "j", "u"}, {"ジェ", "j", "e"}, {"ジョ", "j", "o"},
	{"ズィ", "z", "i"},
	// D rows.
	{"ダ", "d", "a"}, {"ヂ", "j", "i"}, {"ヅ", "z", "u"}, {"デ", "d", "e"}, {"ド", "d", "o"},
	{"ディ", "d", "i"}, {"ドゥ", "d", "u"}, {"デュ", "dy", "u"},
	// B rows.
	{"バ", "b", "a"}, {"ビ", "b", "i"}, {"ブ", "b", "u"}, {"ベ", "b", "e"}, {"ボ", "b", "o"},
	{"ビャ", "by", "a"}, {"ビュ", "by", "u"}, {"ビェ", "by", "e"}, {"ビョ", "by", "o"},
	// P rows.
	{"パ", "p", "a"}, {"ピ", "p", "i"}, {"プ", "p", "u"}, {"ペ", "p", "e"}, {"ポ", "p", "o"},
	{"ピャ", "py", "a"}, {"ピュ", "py", "u"}, {"ピェ", "py", "e"}, {"ピョ", "py", "o"},
	// V rows.
	{"ヴ", "v", "u"}, {"ヴァ", "v", "a"}, {"ヴィ", "v", "i"}, {"ヴェ", "v", "e"}, {"ヴォ", "v", "o"},
	// Moraic nasal and geminate.
	{"ン", "", "N"}, {"ッ", "", "cl"},
}

// moraTable maps notation text (including unvoiced "_"-prefixed
// variants) to its inventory entry. maxTokenLen is the longest key
// length in runes.
var (
	moraTable   = map[string]moraEntry{}
	vowelToKana = map[string]string{
		"a": "ア", "i": "イ", "u": "ウ", "e": "エ", "o": "オ",
		"N": "ン", "cl": "ッ", PhonemePause: "、",
	}
)

func init() {
	for _, e := range moraInventory {
		moraTable[e.text] = e
		if isUnvoiceableVowel(e.vowel) {
			moraTable[string(UnvoiceMarker)+e.text] = moraEntry{
				text:      e.text,
				consonant: e.consonant,
				vowel:     strings.ToUpper(e.vowel),
			}
		}
	}
}

// isUnvoiceableVowel reports whether the vowel phoneme may be
// devoiced. Only the five plain vowels qualify.
func isUnvoiceableVowel(v string) bool {
	switch v {
	case "a", "i", "u", "e", "o":
		return true
	}
	return false
}

// isUnvoicedVowel reports whether the vowel phoneme is the devoiced
// (upper case) variant of a plain vowel.
func isUnvoicedVowel(v string) bool {
	switch v {
	case "A", "I", "U", "E", "O":
		return true
	}
	return false
}

// mora materializes a fresh model.Mora from an inventory entry.
// Durations are zero until a backend fills them in; pitch starts at
// the unvoiced sentinel.
func (e moraEntry) mora() model.Mora {
	m := model.Mora{
		Text:  e.text,
		Vowel: e.vowel,
	}
	if e.consonant != "" {
		c := e.consonant
		l := 0.0
		m.Consonant = &c
		m.ConsonantLength = &l
	}
	return m
}

// NewPauseMora returns the silence mora appended after a paused
// delimiter.
func NewPauseMora() *model.Mora {
	return &model.Mora{
		Text:  string(PauseDelimiter),
		Vowel: PhonemePause,
	}
}

// LookupMora resolves a katakana mora token to its consonant and
// vowel phonemes. The unvoicing prefix is honored.
func LookupMora(text string) (consonant, vowel string, ok bool) {
	e, ok := moraTable[text]
	if !ok {
		return "", "", false
	}
	return e.consonant, e.vowel, true
}

// VowelKana returns the katakana spelling of a vowel phoneme, used
// when a synthetic mora has to be given display text.
func VowelKana(vowel string) (string, bool) {
	text, ok := vowelToKana[strings.ToLower(vowel)]
	if !ok {
		// N and cl are not case-folded.
		text, ok = vowelToKana[vowel]
	}
	return text, ok
}
