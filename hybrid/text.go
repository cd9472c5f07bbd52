package hybrid

import (
	"github.com/poiesic/diwan/arabic"
)

// Particles to ignore when checking for verbatim matches. Spelled in
// normalized form (see arabic.Normalize).
var stopWords = map[string]bool{
	"في": true, "من": true, "علي": true, "عن": true, "الي": true,
	"يا": true, "ما": true, "لا": true, "ان": true, "او": true,
	"ثم": true, "قد": true, "لم": true, "لن": true, "هو": true,
	"هي": true,
}

// tokenizeAndFilter normalizes text, splits it into tokens, and removes
// particles that carry no matching signal.
func tokenizeAndFilter(text string) []string {
	tokens := arabic.Tokenize(arabic.Normalize(text))
	filtered := make([]string, 0, len(tokens))

	for _, token := range tokens {
		if !stopWords[token] {
			filtered = append(filtered, token)
		}
	}

	return filtered
}

// containsAllQueryWords checks if all query tokens (after filtering) appear
// in the verse text. Both sides are compared in normalized form, so tashkeel
// and letter variants do not break the match.
func containsAllQueryWords(text, query string) bool {
	queryWords := tokenizeAndFilter(query)
	if len(queryWords) == 0 {
		return false
	}

	textWords := tokenizeAndFilter(text)
	textWordSet := make(map[string]bool, len(textWords))
	for _, word := range textWords {
		textWordSet[word] = true
	}

	// Check if all query tokens exist in the text
	for _, qWord := range queryWords {
		if !textWordSet[qWord] {
			return false
		}
	}

	return true
}
