package arabic

import (
	_ "embed"
	"strings"
	"sync"
)

//go:embed boosted.txt
var boostedRaw string

// confusables maps visually or phonetically confusable letter pairs to one
// representative, making those substitutions free during distance
// computation. Covers common dialectal spelling variation in the corpus.
var confusables = map[rune]rune{
	'ش': 'غ',
	'ث': 'ت',
	'ه': 'ح',
	'ز': 'ذ',
	'ظ': 'ض',
	'ص': 'س',
}

// foldConfusables maps every confusable letter in token to its
// representative, returning the folded rune sequence.
func foldConfusables(token string) []rune {
	runes := []rune(token)
	for i, r := range runes {
		if rep, ok := confusables[r]; ok {
			runes[i] = rep
		}
	}
	return runes
}

// editDistance computes the Levenshtein distance between two rune sequences.
func editDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// Corrector snaps near-miss query tokens onto a curated boosted vocabulary.
// The vocabulary is read-only after construction; a Corrector is safe for
// concurrent use.
type Corrector struct {
	words  []string            // vocabulary in load order, for deterministic ties
	folded [][]rune            // confusable-folded form of each word
	exact  map[string]struct{} // exact-match short-circuit
}

// NewCorrector creates a Corrector over the given vocabulary.
// Words are normalized before loading; empty and duplicate entries are
// dropped. Iteration order follows the input order.
func NewCorrector(words []string) *Corrector {
	c := &Corrector{
		exact: make(map[string]struct{}, len(words)),
	}
	for _, w := range words {
		w = Normalize(w)
		if w == "" {
			continue
		}
		if _, dup := c.exact[w]; dup {
			continue
		}
		c.exact[w] = struct{}{}
		c.words = append(c.words, w)
		c.folded = append(c.folded, foldConfusables(w))
	}
	return c
}

var (
	defaultCorrector     *Corrector
	defaultCorrectorOnce sync.Once
)

// DefaultCorrector returns a Corrector over the embedded boosted vocabulary.
func DefaultCorrector() *Corrector {
	defaultCorrectorOnce.Do(func() {
		var words []string
		for line := range strings.Lines(boostedRaw) {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			words = append(words, line)
		}
		defaultCorrector = NewCorrector(words)
	})
	return defaultCorrector
}

// Correct returns the nearest vocabulary entry when token is within a folded
// edit distance of 1, and the token unchanged otherwise. Tokens already in
// the vocabulary are returned without any distance computation. Ties go to
// the entry loaded first.
func (c *Corrector) Correct(token string) string {
	if token == "" {
		return token
	}
	if _, ok := c.exact[token]; ok {
		return token
	}

	tok := foldConfusables(token)
	best := -1
	bestDist := 2
	for i, cand := range c.folded {
		if abs(len(cand)-len(tok)) > 1 {
			continue
		}
		d := editDistance(tok, cand)
		if d >= bestDist {
			continue
		}
		best = i
		bestDist = d
		if bestDist == 0 {
			break
		}
	}
	if best >= 0 {
		return c.words[best]
	}
	return token
}

// Len returns the vocabulary size.
func (c *Corrector) Len() int {
	return len(c.words)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
