package model

import "errors"

// Error definitions for the model package.
var (
	ErrEmptyMoras        = errors.New("accent phrase has no morae")
	ErrAccentOutOfRange  = errors.New("accent index outside the mora range")
	ErrMissingVowel      = errors.New("mora has no vowel phoneme")
	ErrDanglingConsonant = errors.New("mora consonant and consonant length must be set together")
	ErrFrameMisaligned   = errors.New("frame arrays differ from the phoneme frame total")
)
