// Package names normalizes and validates character names before they are
// persisted, so the unique index compares canonical forms.
package names

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrTooShort     = errors.New("name too short")
	ErrTooLong      = errors.New("name too long")
	ErrBadCharacter = errors.New("name contains a non-letter character")
)

// Normalize returns the canonical storage form of a character name:
// NFC-normalized, letters only, first letter upper-cased and the rest
// lowered. minLen and maxLen bound the rune count.
func Normalize(name string, minLen, maxLen int) (string, error) {
	name = norm.NFC.String(strings.TrimSpace(name))

	n := utf8.RuneCountInString(name)
	if n < minLen {
		return "", ErrTooShort
	}
	if n > maxLen {
		return "", ErrTooLong
	}
	for _, r := range name {
		if !unicode.IsLetter(r) {
			return "", ErrBadCharacter
		}
	}

	// Casers are stateful; build one per call so Normalize stays safe for
	// concurrent use.
	return cases.Title(language.Und).String(strings.ToLower(name)), nil
}
