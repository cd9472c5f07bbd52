// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package index

import (
	"sort"
	"strings"

	"github.com/poiesic/diwan/arabic"
	"github.com/poiesic/diwan/core"
)

// Field weights. Weight determines bucket scan order during candidate
// retrieval: higher-weight fields surface candidates first, which is the
// tie-break for deduplication.
const (
	titleWeight = 3
	lineWeight  = 1
)

// fieldIndex holds the token postings for one searchable field.
type fieldIndex struct {
	weight   int
	tokens   []string         // sorted unique tokens
	postings map[string][]int // token -> document positions, ascending
}

// Index is an immutable multi-field document index over a verse corpus.
// Build constructs it wholesale; there is no incremental update path.
// An Index is safe for concurrent reads.
type Index struct {
	docs      []*core.Verse
	titleNorm []string
	lineNorm  []string
	title     fieldIndex
	line      fieldIndex
}

// Build constructs an Index from verses in input order. The document key is
// the input position. Normalized title and line text is derived exactly once
// here, preferring the pre-cleaned corpus columns over the raw fields.
func Build(verses []*core.Verse) *Index {
	x := &Index{
		docs:      make([]*core.Verse, len(verses)),
		titleNorm: make([]string, len(verses)),
		lineNorm:  make([]string, len(verses)),
		title:     fieldIndex{weight: titleWeight, postings: make(map[string][]int)},
		line:      fieldIndex{weight: lineWeight, postings: make(map[string][]int)},
	}
	copy(x.docs, verses)

	for i, v := range x.docs {
		x.titleNorm[i] = arabic.Normalize(preferClean(v.TitleClean, v.TitleRaw))
		x.lineNorm[i] = arabic.Normalize(preferClean(v.LineClean, v.LineRaw))
		x.title.add(i, x.titleNorm[i])
		x.line.add(i, x.lineNorm[i])
	}

	x.title.finish()
	x.line.finish()
	return x
}

func preferClean(clean, raw string) string {
	if clean != "" {
		return clean
	}
	return raw
}

// add registers the tokens of one document's normalized field text.
// A document appears at most once in a token's posting list.
func (f *fieldIndex) add(idx int, norm string) {
	for _, tok := range strings.Fields(norm) {
		list := f.postings[tok]
		if n := len(list); n > 0 && list[n-1] == idx {
			continue
		}
		f.postings[tok] = append(f.postings[tok], idx)
	}
}

// finish builds the sorted token list once all documents are added.
func (f *fieldIndex) finish() {
	f.tokens = make([]string, 0, len(f.postings))
	for tok := range f.postings {
		f.tokens = append(f.tokens, tok)
	}
	sort.Strings(f.tokens)
}

// lookup emits document positions whose field contains a token matching q
// under forward-prefix semantics: an indexed token matches when q is a
// prefix of it, or it is a proper prefix of q. Extension matches come first
// in lexicographic token order, then prefix matches longest first. emit
// returns false to stop early.
func (f *fieldIndex) lookup(q string, emit func(idx int) bool) {
	if q == "" {
		return
	}

	// Indexed tokens extending q form a contiguous sorted range.
	start := sort.SearchStrings(f.tokens, q)
	for i := start; i < len(f.tokens) && strings.HasPrefix(f.tokens[i], q); i++ {
		for _, idx := range f.postings[f.tokens[i]] {
			if !emit(idx) {
				return
			}
		}
	}

	// Indexed tokens that are proper prefixes of q, longest first.
	runes := []rune(q)
	for n := len(runes) - 1; n > 0; n-- {
		for _, idx := range f.postings[string(runes[:n])] {
			if !emit(idx) {
				return
			}
		}
	}
}

// Candidates returns the deduplicated document positions matching any of the
// query tokens, capped at limit. The title bucket is drained before the line
// bucket, so higher-weight matches keep their first-seen position.
func (x *Index) Candidates(tokens []string, limit int) []int {
	if limit <= 0 || len(tokens) == 0 {
		return nil
	}

	seen := make(map[int]bool)
	out := make([]int, 0, limit)
	emit := func(idx int) bool {
		if !seen[idx] {
			seen[idx] = true
			out = append(out, idx)
		}
		return len(out) < limit
	}

	fields := []*fieldIndex{&x.title, &x.line}
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].weight > fields[j].weight
	})
	for _, f := range fields {
		for _, tok := range tokens {
			f.lookup(tok, emit)
			if len(out) >= limit {
				return out
			}
		}
	}
	return out
}

// Len returns the number of indexed documents.
func (x *Index) Len() int {
	return len(x.docs)
}

// Doc returns the verse at position idx. Callers must not mutate it.
func (x *Index) Doc(idx int) *core.Verse {
	return x.docs[idx]
}

// Docs returns the full indexed row set in insertion order.
// The returned slice is shared; callers must not mutate it.
func (x *Index) Docs() []*core.Verse {
	return x.docs
}

// TitleNorm returns the normalized title text of the document at idx.
func (x *Index) TitleNorm(idx int) string {
	return x.titleNorm[idx]
}

// LineNorm returns the normalized line text of the document at idx.
func (x *Index) LineNorm(idx int) string {
	return x.lineNorm[idx]
}
