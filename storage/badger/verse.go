package badger

import (
	"context"
	"slices"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/diwan/core"
	"github.com/poiesic/diwan/storage"
)

// VerseRepository implements storage.VerseRepository for BadgerDB.
type VerseRepository struct {
	backend *Backend
}

var _ storage.VerseRepository = (*VerseRepository)(nil)

// NewVerseRepository creates a new VerseRepository.
func NewVerseRepository(backend *Backend) (*VerseRepository, error) {
	return &VerseRepository{
		backend: backend,
	}, nil
}

// Close releases resources. VerseRepository has no resources to release.
func (r *VerseRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *VerseRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// WithTransaction delegates to the backend.
func (r *VerseRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddVerses adds one or more verses to storage.
func (r *VerseRepository) AddVerses(ctx context.Context, verses ...*core.Verse) ([]*core.Verse, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, verse := range verses {
			// Use content-based ID if not set
			if verse.Id == 0 {
				verse.Id = core.IDFromContent(verse.Key())
			}

			// Set timestamps
			verse.InsertedAt = time.Now().UTC()
			verse.UpdatedAt = verse.InsertedAt

			// Store primary record
			key := makeVerseKey(verse.Id)
			value := storage.MarshalVerse(verse)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Store tuple index
			tupleKey := makeVerseTupleKey(verse.PoemID, verse.RowID)
			if err := tx.Set(tupleKey, storage.MarshalID(verse.Id)); err != nil {
				return err
			}

			// Store poem index
			poemKey := makePoemIndexKey(verse.PoemID, verse.RowID)
			if err := tx.Set(poemKey, storage.MarshalID(verse.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return verses, err
}

// UpdateVerses updates existing verses.
func (r *VerseRepository) UpdateVerses(ctx context.Context, verses ...*core.Verse) ([]*core.Verse, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, verse := range verses {
			key := makeVerseKey(verse.Id)

			// Read old verse to detect changes
			old, err := readVerse(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			// Update timestamp
			verse.UpdatedAt = time.Now().UTC()

			// Store updated record
			value := storage.MarshalVerse(verse)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update indices if the poem/row identity changed
			if old.PoemID != verse.PoemID || old.RowID != verse.RowID {
				if err := tx.Delete(makeVerseTupleKey(old.PoemID, old.RowID)); err != nil {
					return err
				}
				if err := tx.Delete(makePoemIndexKey(old.PoemID, old.RowID)); err != nil {
					return err
				}
				if err := tx.Set(makeVerseTupleKey(verse.PoemID, verse.RowID), storage.MarshalID(verse.Id)); err != nil {
					return err
				}
				if err := tx.Set(makePoemIndexKey(verse.PoemID, verse.RowID), storage.MarshalID(verse.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return verses, err
}

// DeleteVerses removes verses by their IDs.
func (r *VerseRepository) DeleteVerses(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeVerseKey(id)

			// Read verse to get identifiers for index cleanup
			verse, err := readVerse(tx, key)
			if err != nil {
				return err
			}
			if verse == nil {
				return storage.ErrNotFound
			}

			// Delete from tuple index
			if err := tx.Delete(makeVerseTupleKey(verse.PoemID, verse.RowID)); err != nil {
				return err
			}

			// Delete from poem index
			if err := tx.Delete(makePoemIndexKey(verse.PoemID, verse.RowID)); err != nil {
				return err
			}

			// Delete primary record
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetVerse retrieves a single verse by ID.
func (r *VerseRepository) GetVerse(ctx context.Context, id core.ID) (*core.Verse, error) {
	var result *core.Verse
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeVerseKey(id)
		var err error
		result, err = readVerse(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetVerses retrieves multiple verses by their IDs.
func (r *VerseRepository) GetVerses(ctx context.Context, ids ...core.ID) ([]*core.Verse, error) {
	var result []*core.Verse
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeVerseKey(id)
			verse, err := readVerse(tx, key)
			if err != nil {
				return err
			}
			if verse != nil {
				result = append(result, verse)
			}
		}
		return nil
	}, false)
	return result, err
}

// FindVerseByKey finds a verse by its poem and row identifiers.
func (r *VerseRepository) FindVerseByKey(ctx context.Context, poemID, rowID string) (*core.Verse, error) {
	var result *core.Verse
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeVerseTupleKey(poemID, rowID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var id core.ID
		if err := item.Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return err
		}

		result, err = readVerse(tx, makeVerseKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetPoemVerses retrieves all verses of a poem, ordered by row.
func (r *VerseRepository) GetPoemVerses(ctx context.Context, poemID string) ([]*core.Verse, error) {
	var results []*core.Verse
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialPoemIndexKey(poemID)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			// Check if key still has our poem prefix
			if len(key) < len(startKey) {
				break
			}
			if slices.Compare(key[:len(startKey)], startKey) != 0 {
				break
			}

			// Read the verse ID from the index
			var verseID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				verseID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full verse
			verse, err := readVerse(tx, makeVerseKey(verseID))
			if err != nil {
				return err
			}
			if verse != nil {
				results = append(results, verse)
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Row IDs are strings; sort numerically when both sides parse so
	// row 10 lands after row 9 rather than after row 1.
	slices.SortStableFunc(results, func(a, b *core.Verse) int {
		return compareRows(a.RowID, b.RowID)
	})

	return results, nil
}

// AllVerses retrieves every verse in the corpus.
func (r *VerseRepository) AllVerses(ctx context.Context) ([]*core.Verse, error) {
	var results []*core.Verse
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(verseRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var verse *core.Verse
			err := iter.Item().Value(func(val []byte) error {
				var err error
				verse, err = storage.UnmarshalVerse(val)
				return err
			})
			if err != nil {
				return err
			}
			if verse != nil {
				results = append(results, verse)
			}
		}
		return nil
	}, false)

	return results, err
}

// Helper methods

// readVerse reads a verse from the transaction.
func readVerse(tx *badger.Txn, key []byte) (*core.Verse, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var verse *core.Verse
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		verse, unmarshalErr = storage.UnmarshalVerse(val)
		return unmarshalErr
	})
	return verse, err
}

// compareRows orders row identifiers numerically when both parse as
// integers, falling back to lexicographic comparison otherwise.
func compareRows(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na - nb
	}
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
