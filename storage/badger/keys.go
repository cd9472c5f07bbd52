package badger

import (
	"fmt"

	"github.com/poiesic/diwan/core"
)

// Key prefixes for different data types
const (
	verseRecordPrefix = "verrec"
	versePoemPrefix   = "verpoem"
	verseKeyPrefix    = "verkey"
)

// makeVerseKey generates a key for a verse by ID.
func makeVerseKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", verseRecordPrefix, id))
}

// makeVerseTupleKey generates a composite key for verse lookup by (poem, row).
// Format: prefix:poemID\x00rowID
// The NUL separator keeps poem prefixes unambiguous since poem IDs
// never contain NUL bytes.
func makeVerseTupleKey(poemID, rowID string) []byte {
	prefix := verseKeyPrefix + ":"
	totalSize := len(prefix) + len(poemID) + 1 + len(rowID)
	buf := make([]byte, totalSize)
	offset := copy(buf, []byte(prefix))
	offset += copy(buf[offset:], []byte(poemID))
	buf[offset] = 0
	offset++
	copy(buf[offset:], []byte(rowID))
	return buf
}

// makePoemIndexKey generates a composite key for the poem index.
// Format: prefix:poemID\x00rowID
func makePoemIndexKey(poemID, rowID string) []byte {
	prefix := versePoemPrefix + ":"
	totalSize := len(prefix) + len(poemID) + 1 + len(rowID)
	buf := make([]byte, totalSize)
	offset := copy(buf, []byte(prefix))
	offset += copy(buf[offset:], []byte(poemID))
	buf[offset] = 0
	offset++
	copy(buf[offset:], []byte(rowID))
	return buf
}

// makePartialPoemIndexKey generates a partial key for poem scans.
// Format: prefix:poemID\x00
func makePartialPoemIndexKey(poemID string) []byte {
	prefix := versePoemPrefix + ":"
	totalSize := len(prefix) + len(poemID) + 1
	buf := make([]byte, totalSize)
	offset := copy(buf, []byte(prefix))
	offset += copy(buf[offset:], []byte(poemID))
	buf[offset] = 0
	return buf
}

// makeCheckpointKey generates a key for processor checkpoints.
func makeCheckpointKey(processorType string) []byte {
	return []byte(fmt.Sprintf("%s:chkpt", processorType))
}
