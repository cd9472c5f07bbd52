package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Verse represents a single line of a poem in the corpus.
// Raw fields keep the display text with tashkeel and tatweel intact;
// the Clean fields hold pre-normalized text when the corpus supplies it.
type Verse struct {
	Id         ID
	PoemID     string // External poem key, opaque to this system
	RowID      string // Line sequence within the poem
	TitleRaw   string
	LineRaw    string
	Summary    string
	TitleClean string            // Pre-cleaned title column, preferred as normalization input
	LineClean  string            // Pre-cleaned line column, preferred as normalization input
	Meta       map[string]string // Free-form metadata fields, stored verbatim
	Vector     []float32         // Embedding vector for the line (populated by processors)
	InsertedAt time.Time         // When the verse was inserted into the database
	UpdatedAt  time.Time         // When the verse was last updated
}

// Key returns the external identity of the verse as "poem_id:row_id".
// This is used for generating deterministic IDs.
func (v *Verse) Key() string {
	return v.PoemID + ":" + v.RowID
}

// Metadata field names carried by the rich corpus export. Values are either
// plain strings or JSON-encoded arrays; see DecodeMetaList.
const (
	MetaQafiya     = "qafiya"     // rhyme letter
	MetaBahr       = "bahr"       // prosodic meter
	MetaWasl       = "wasl"       // rhyme connective
	MetaHaraka     = "haraka"     // rhyme vowel
	MetaNaw3       = "naw3"       // poem type
	MetaShaks      = "shaks"      // persons mentioned
	MetaSentiments = "sentiments" // sentiment labels
	MetaAmakin     = "amakin"     // places mentioned
	MetaAhdath     = "ahdath"     // events mentioned
	MetaMawadi3    = "mawadi3"    // subjects
	MetaTasnif     = "tasnif"     // category
	MetaConfidence = "confidence"
	MetaStatus     = "status"
)

// SearchResult represents a hybrid search result with the full verse and relevance score.
type SearchResult struct {
	Verse *Verse
	Score float32
}

// Checkpoint records the progress of a background processor so that
// interrupted runs can resume where they left off.
type Checkpoint struct {
	ProcessorType   string
	LastProcessedId ID
	UpdatedAt       time.Time
}
