package storage

import (
	"context"

	"github.com/poiesic/diwan/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// FindSimilar finds verses similar to the given vector.
	// Returns verses with similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// VerseRepository provides operations for managing verses.
type VerseRepository interface {
	Repository
	// AddVerses adds one or more verses to storage.
	// Uses content-based IDs (IDFromContent of the poem/row key) for verses with ID=0.
	// Sets InsertedAt timestamp if not already set.
	// Returns the verses with generated IDs and timestamps populated.
	AddVerses(ctx context.Context, verses ...*core.Verse) ([]*core.Verse, error)

	// UpdateVerses updates existing verses.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any verse doesn't exist.
	UpdateVerses(ctx context.Context, verses ...*core.Verse) ([]*core.Verse, error)

	// DeleteVerses removes verses by their IDs.
	// Also removes associated indices.
	// Returns ErrNotFound if any verse doesn't exist.
	DeleteVerses(ctx context.Context, ids ...core.ID) error

	// GetVerse retrieves a single verse by ID.
	// Returns ErrNotFound if the verse doesn't exist.
	GetVerse(ctx context.Context, id core.ID) (*core.Verse, error)

	// GetVerses retrieves multiple verses by their IDs.
	// Returns only the verses that exist (no error for missing verses).
	GetVerses(ctx context.Context, ids ...core.ID) ([]*core.Verse, error)

	// FindVerseByKey finds a verse by its poem and row identifiers.
	// Returns ErrNotFound if no matching verse exists.
	FindVerseByKey(ctx context.Context, poemID, rowID string) (*core.Verse, error)

	// GetPoemVerses retrieves all verses of a poem, ordered by row.
	// Returns an empty slice if the poem has no verses.
	GetPoemVerses(ctx context.Context, poemID string) ([]*core.Verse, error)

	// AllVerses retrieves every verse in the corpus.
	// Used to build the in-memory search index at startup.
	AllVerses(ctx context.Context) ([]*core.Verse, error)
}

// CheckpointRepository persists processor progress markers.
type CheckpointRepository interface {
	// SaveCheckpoint persists a checkpoint for a processor type.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint retrieves the checkpoint for a processor type.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, processorType string) (*core.Checkpoint, error)
}
