package audio

import (
	"errors"
	"unicode/utf8"
)

// MaxWordLength is the longest text, in characters, the speech endpoint accepts
const MaxWordLength = 100

var (
	ErrEmptyWord   = errors.New("empty")
	ErrWordTooLong = errors.New("too long")
)

// ValidateWord checks the endpoint's length policy. Length is counted in
// characters, not bytes.
func ValidateWord(word string) error {
	n := utf8.RuneCountInString(word)
	if n == 0 {
		return ErrEmptyWord
	}
	if n > MaxWordLength {
		return ErrWordTooLong
	}
	return nil
}
