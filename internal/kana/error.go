package kana

import "fmt"

// ErrorKind tags a GrammarError so callers can branch without string
// matching. The set is closed.
type ErrorKind string

const (
	// KindUnknownMoraToken marks a fragment that is not a valid mora
	// token. Text carries the fragment, Position its rune offset.
	KindUnknownMoraToken ErrorKind = "unknown_mora_token"
	// KindAccentAtSegmentHead marks an accent marker with no mora
	// before it.
	KindAccentAtSegmentHead ErrorKind = "accent_at_segment_head"
	// KindMultipleAccentNuclei marks a second accent marker within
	// one segment.
	KindMultipleAccentNuclei ErrorKind = "multiple_accent_nuclei"
	// KindMissingAccentNucleus marks a segment with no accent marker.
	KindMissingAccentNucleus ErrorKind = "missing_accent_nucleus"
	// KindEmptySegment marks an empty segment. Position is the
	// 1-based segment index.
	KindEmptySegment ErrorKind = "empty_segment"
)

// GrammarError reports the first invalid token of a notation string.
type GrammarError struct {
	Kind ErrorKind `json:"kind"`
	// Text is the offending fragment, or the whole segment for
	// accent-count errors.
	Text string `json:"text"`
	// Position is the rune offset of the offending fragment in the
	// notation, or the 1-based segment index for empty segments.
	Position int `json:"position"`
}

func (e *GrammarError) Error() string {
	switch e.Kind {
	case KindUnknownMoraToken:
		return fmt.Sprintf("unrecognized mora token %q at offset %d", e.Text, e.Position)
	case KindAccentAtSegmentHead:
		return fmt.Sprintf("accent marker cannot start a segment: %q", e.Text)
	case KindMultipleAccentNuclei:
		return fmt.Sprintf("segment has more than one accent marker: %q", e.Text)
	case KindMissingAccentNucleus:
		return fmt.Sprintf("segment has no accent marker: %q", e.Text)
	case KindEmptySegment:
		return fmt.Sprintf("segment %d is empty", e.Position)
	}
	return fmt.Sprintf("invalid notation: %q", e.Text)
}
