package arabic

import (
	"strings"
	"unicode"
)

const tatweel = 'ـ'

// isTashkeel reports whether r is an Arabic combining mark (tashkeel).
// Covers the honorific range U+0610..U+061A, the harakat range
// U+064B..U+065F, and the Quranic annotation range U+06D6..U+06ED.
func isTashkeel(r rune) bool {
	return (r >= 0x0610 && r <= 0x061A) ||
		(r >= 0x064B && r <= 0x065F) ||
		(r >= 0x06D6 && r <= 0x06ED)
}

// punctuation replaced by a single space during normalization.
// Latin set plus the Arabic question mark, comma, and quote guillemets.
var punctuation = map[rune]bool{
	'.': true, ',': true, '/': true, '#': true, '!': true, '$': true,
	'%': true, '^': true, '&': true, '*': true, ';': true, ':': true,
	'{': true, '}': true, '=': true, '-': true, '_': true, '`': true,
	'~': true, '(': true, ')': true, '?': true, '"': true, '\'': true,
	'؟': true, '،': true, '؛': true, '«': true, '»': true,
	'‘': true, '’': true, '“': true, '”': true,
	'–': true, '—': true,
}

// foldLetter canonicalizes Arabic letter variants:
// alef with hamza (above or below) and alef with madda fold to bare alef,
// alef maksura folds to yeh, and waw/yeh with hamza fold to bare hamza.
func foldLetter(r rune) rune {
	switch r {
	case 'أ', 'إ', 'آ':
		return 'ا'
	case 'ى':
		return 'ي'
	case 'ؤ', 'ئ':
		return 'ء'
	}
	return r
}

// Normalize canonicalizes Arabic text for matching: tashkeel and tatweel are
// removed, letter variants are folded, punctuation becomes a single space,
// and whitespace runs are collapsed and trimmed.
//
// Empty input yields empty output.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))

	pendingSpace := false
	for _, r := range text {
		if isTashkeel(r) || r == tatweel {
			continue
		}
		if punctuation[r] || unicode.IsSpace(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(foldLetter(r))
	}

	return b.String()
}

// Tokenize normalizes text and splits it on whitespace.
// Returns nil for text that normalizes to nothing.
func Tokenize(text string) []string {
	norm := Normalize(text)
	if norm == "" {
		return nil
	}
	return strings.Fields(norm)
}
