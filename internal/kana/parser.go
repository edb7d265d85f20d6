// Package kana parses and serializes the AquesTalk-style phonetic
// notation. Parse and Serialize are pure inverses for every notation
// Parse accepts.
package kana

import (
	"github.com/nmori/voicevox-engine/internal/model"
)

// Parse converts a notation string into an accent-phrase sequence. It
// fails with a *GrammarError at the first invalid token. Durations and
// pitches of the produced morae are zero; a backend fills them in.
func Parse(notation string) ([]model.AccentPhrase, error) {
	runes := []rune(notation)
	if len(runes) == 0 {
		return nil, &GrammarError{Kind: KindEmptySegment, Position: 1}
	}

	var phrases []model.AccentPhrase
	segStart := 0
	for i := 0; i <= len(runes); i++ {
		if i != len(runes) && runes[i] != LooseDelimiter && runes[i] != PauseDelimiter {
			continue
		}

		seg := runes[segStart:i]
		if len(seg) == 0 {
			return nil, &GrammarError{Kind: KindEmptySegment, Position: len(phrases) + 1}
		}

		// The interrogative mark is only valid as the final rune of
		// a segment; anywhere else it is an unknown token.
		interrogative := false
		for j, r := range seg {
			if r != InterrogativeMark {
				continue
			}
			if j != len(seg)-1 {
				return nil, &GrammarError{
					Kind:     KindUnknownMoraToken,
					Text:     string(InterrogativeMark),
					Position: segStart + j,
				}
			}
			interrogative = true
			seg = seg[:len(seg)-1]
		}
		if len(seg) == 0 {
			return nil, &GrammarError{Kind: KindEmptySegment, Position: len(phrases) + 1}
		}

		phrase, err := parseSegment(seg, segStart)
		if err != nil {
			return nil, err
		}
		phrase.IsInterrogative = interrogative
		if i < len(runes) && runes[i] == PauseDelimiter {
			phrase.PauseMora = NewPauseMora()
		}
		phrases = append(phrases, phrase)
		segStart = i + 1
	}
	return phrases, nil
}

// parseSegment converts one delimiter-free segment into an accent
// phrase. base is the segment's rune offset in the whole notation,
// used for error positions.
func parseSegment(seg []rune, base int) (model.AccentPhrase, error) {
	var (
		moras  []model.Mora
		accent int
	)

	for i, guard := 0, 0; i < len(seg); guard++ {
		if guard > loopLimit {
			return model.AccentPhrase{}, &GrammarError{
				Kind:     KindUnknownMoraToken,
				Text:     string(seg[i:]),
				Position: base + i,
			}
		}

		if seg[i] == AccentMarker {
			if len(moras) == 0 {
				return model.AccentPhrase{}, &GrammarError{
					Kind:     KindAccentAtSegmentHead,
					Text:     string(seg),
					Position: base + i,
				}
			}
			if accent != 0 {
				return model.AccentPhrase{}, &GrammarError{
					Kind:     KindMultipleAccentNuclei,
					Text:     string(seg),
					Position: base + i,
				}
			}
			accent = len(moras)
			i++
			continue
		}

		// Longest match against the mora table, stopping at the next
		// accent marker.
		matched := 0
		var entry moraEntry
		stack := ""
		for j := i; j < len(seg); j++ {
			if seg[j] == AccentMarker {
				break
			}
			stack += string(seg[j])
			if e, ok := moraTable[stack]; ok {
				matched = j - i + 1
				entry = e
			}
		}
		if matched == 0 {
			return model.AccentPhrase{}, &GrammarError{
				Kind:     KindUnknownMoraToken,
				Text:     stack,
				Position: base + i,
			}
		}
		moras = append(moras, entry.mora())
		i += matched
	}

	if accent == 0 {
		return model.AccentPhrase{}, &GrammarError{
			Kind:     KindMissingAccentNucleus,
			Text:     string(seg),
			Position: base,
		}
	}
	return model.AccentPhrase{Moras: moras, Accent: accent}, nil
}
