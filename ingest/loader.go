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


package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/poiesic/diwan/core"
)

// Corpus export column positions. The file carries a header row which is
// skipped; rows are read positionally since the export order is stable.
const (
	colPoemID = iota
	colRowID
	colTitleRaw
	colLineRaw
	colSummary
	colTitleClean
	colLineClean
	colQafiya
	colBahr
	colWasl
	colHaraka
	colNaw3
	colShaks
	colSentiments
	colAmakin
	colAhdath
	colMawadi3
	colTasnif
	colConfidence
	colStatus
)

// minColumns is the minimum field count for a usable row. Rows shorter than
// this carry no line text and are dropped, matching the original export reader.
const minColumns = 7

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader parses the corpus CSV export into verses.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a corpus loader. A nil logger falls back to slog.Default().
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger: logger.With("component", "corpus-loader"),
	}
}

// Load reads the corpus CSV export and returns the verses it contains.
// Malformed or incomplete rows are skipped with a warning rather than
// failing the whole load.
func (l *Loader) Load(r io.Reader) ([]*core.Verse, error) {
	br := bufio.NewReader(r)

	// Strip the UTF-8 BOM some exports carry
	head, err := br.Peek(len(utf8BOM))
	if err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	// Header row
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, ErrMissingHeader
		}
		return nil, err
	}

	var verses []*core.Verse
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				l.logger.Warn("skipping malformed row", "row", row, "err", err)
				continue
			}
			return nil, err
		}

		if len(record) < minColumns {
			l.logger.Warn("skipping short row", "row", row, "fields", len(record))
			continue
		}

		verse := verseFromRecord(record)
		if err := core.ValidateVerse(verse); err != nil {
			l.logger.Warn("skipping invalid row", "row", row, "err", err)
			continue
		}

		verses = append(verses, verse)
	}

	l.logger.Info("corpus loaded", "verses", len(verses))
	return verses, nil
}

// verseFromRecord maps a corpus row onto a Verse. Metadata columns beyond the
// text fields are kept verbatim in the Meta map; empty values are omitted.
func verseFromRecord(record []string) *core.Verse {
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	verse := &core.Verse{
		PoemID:     field(colPoemID),
		RowID:      field(colRowID),
		TitleRaw:   field(colTitleRaw),
		LineRaw:    field(colLineRaw),
		Summary:    field(colSummary),
		TitleClean: field(colTitleClean),
		LineClean:  field(colLineClean),
	}

	meta := map[string]string{}
	for name, col := range map[string]int{
		core.MetaQafiya:     colQafiya,
		core.MetaBahr:       colBahr,
		core.MetaWasl:       colWasl,
		core.MetaHaraka:     colHaraka,
		core.MetaNaw3:       colNaw3,
		core.MetaShaks:      colShaks,
		core.MetaSentiments: colSentiments,
		core.MetaAmakin:     colAmakin,
		core.MetaAhdath:     colAhdath,
		core.MetaMawadi3:    colMawadi3,
		core.MetaTasnif:     colTasnif,
		core.MetaConfidence: colConfidence,
		core.MetaStatus:     colStatus,
	} {
		if v := field(col); v != "" {
			meta[name] = v
		}
	}
	if len(meta) > 0 {
		verse.Meta = meta
	}

	return verse
}
