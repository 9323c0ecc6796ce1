package timetable

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// normalizeText composes the text to NFC and collapses whitespace runs.
// OCR engines frequently emit decomposed diacritics ("u" + U+0308), which
// would otherwise never match the precomposed dictionary entries.
func normalizeText(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// normalizeFragments returns a copy of fragments with normalized text.
// Blank fragments are kept with empty text, since they still take part in
// row clustering.
func normalizeFragments(fragments []Fragment) []Fragment {
	out := make([]Fragment, len(fragments))
	for i, f := range fragments {
		out[i] = Fragment{Text: normalizeText(f.Text), Box: f.Box}
	}
	return out
}

// letterBefore reports whether the rune ending at byte offset i is a letter.
func letterBefore(s string, i int) bool {
	if i <= 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsLetter(r)
}

// letterAfter reports whether the rune starting at byte offset i is a letter.
func letterAfter(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r)
}
