package arabic

import "strings"

// Highlight wraps occurrences of the query's normalized tokens in
// <mark>...</mark> within display text. Matching tolerates tashkeel and
// tatweel interleaved in the text and folds letter variants, so a
// diacritic-free query still highlights fully vocalized verse.
//
// Empty text or query is returned unchanged.
func Highlight(text, query string) string {
	if text == "" || query == "" {
		return text
	}
	for _, token := range Tokenize(query) {
		text = markToken(text, []rune(token))
	}
	return text
}

// markToken wraps each non-overlapping occurrence of token in text.
// token must be in normalized form.
func markToken(text string, token []rune) string {
	if len(token) == 0 {
		return text
	}

	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text) + 13) // room for one <mark></mark> pair

	i := 0
	for i < len(runes) {
		end, ok := matchAt(runes, i, token)
		if !ok {
			b.WriteRune(runes[i])
			i++
			continue
		}
		b.WriteString("<mark>")
		b.WriteString(string(runes[i:end]))
		b.WriteString("</mark>")
		i = end
	}

	return b.String()
}

// matchAt attempts to match token at position start, skipping combining
// marks inside the match. Returns the exclusive end position on success.
func matchAt(runes []rune, start int, token []rune) (int, bool) {
	i := start
	for _, want := range token {
		// Combining marks between letters belong to the match span.
		for i < len(runes) && (isTashkeel(runes[i]) || runes[i] == tatweel) {
			if i == start {
				return 0, false // never start a match on a mark
			}
			i++
		}
		if i >= len(runes) || foldLetter(runes[i]) != want {
			return 0, false
		}
		i++
	}
	// Trailing marks on the last letter stay inside the span.
	for i < len(runes) && (isTashkeel(runes[i]) || runes[i] == tatweel) {
		i++
	}
	return i, true
}

// SplitHemistichs splits a verse line into its right and left hemistichs.
// Corpus lines separate hemistichs with a run of four or more spaces.
// Returns ok=false when the line has no such separator.
func SplitHemistichs(line string) (right, left string, ok bool) {
	idx := strings.Index(line, "    ")
	if idx < 0 {
		return line, "", false
	}
	right = strings.TrimSpace(line[:idx])
	left = strings.TrimSpace(line[idx:])
	if right == "" || left == "" {
		return line, "", false
	}
	return right, left, true
}
