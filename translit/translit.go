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


// Package translit maps Latin-script queries to Arabic using a static
// phrase and word table.
//
// Lookup precedence: the whole query as an exact phrase, then the longest
// spaced phrase contained in the query (replaced and re-mapped), then
// word-by-word. Text with no table entry passes through unchanged, so
// Arabic input is a no-op.
package translit

import (
	_ "embed"
	"sort"
	"strings"
	"sync"
)

//go:embed table.txt
var tableRaw string

// Mapper converts Latin-script tokens and phrases to Arabic.
// The table is read-only after construction; a Mapper is safe for
// concurrent use.
type Mapper struct {
	table      map[string]string
	phraseKeys []string // keys containing a space, longest first
}

// NewMapper creates a Mapper over a custom table. Keys are lowercased;
// empty keys and values are dropped.
func NewMapper(table map[string]string) *Mapper {
	m := &Mapper{table: make(map[string]string, len(table))}
	for k, v := range table {
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		m.table[k] = v
		if strings.Contains(k, " ") {
			m.phraseKeys = append(m.phraseKeys, k)
		}
	}
	// Longest phrase first so multi-word idioms win over their fragments.
	sort.Slice(m.phraseKeys, func(i, j int) bool {
		if len(m.phraseKeys[i]) != len(m.phraseKeys[j]) {
			return len(m.phraseKeys[i]) > len(m.phraseKeys[j])
		}
		return m.phraseKeys[i] < m.phraseKeys[j]
	})
	return m
}

var (
	defaultMapper     *Mapper
	defaultMapperOnce sync.Once
)

// DefaultMapper returns a Mapper over the embedded table.
func DefaultMapper() *Mapper {
	defaultMapperOnce.Do(func() {
		table := make(map[string]string)
		for line := range strings.Lines(tableRaw) {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			latin, arabic, ok := strings.Cut(line, "\t")
			if !ok {
				continue
			}
			table[latin] = arabic
		}
		defaultMapper = NewMapper(table)
	})
	return defaultMapper
}

// Map converts a Latin-script query to Arabic. Unknown tokens are left
// unchanged; surrounding whitespace is trimmed and runs are collapsed.
func (m *Mapper) Map(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	// Phrase replacement recursion is bounded by the phrase-table size:
	// every step consumes one Latin phrase occurrence.
	return m.mapQuery(q, len(m.phraseKeys)+1)
}

func (m *Mapper) mapQuery(q string, depth int) string {
	if q == "" {
		return q
	}

	if mapped, ok := m.table[q]; ok {
		return mapped
	}

	if depth > 0 {
		for _, key := range m.phraseKeys {
			if strings.Contains(q, key) {
				return m.mapQuery(strings.Replace(q, key, m.table[key], 1), depth-1)
			}
		}
	}

	fields := strings.Fields(q)
	for i, f := range fields {
		if mapped, ok := m.table[f]; ok {
			fields[i] = mapped
		}
	}
	return strings.Join(fields, " ")
}

// Len returns the number of table entries.
func (m *Mapper) Len() int {
	return len(m.table)
}
