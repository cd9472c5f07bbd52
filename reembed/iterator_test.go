package reembed

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/diwan/core"
	"github.com/poiesic/diwan/storage"
	"github.com/poiesic/diwan/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (storage.VerseRepository, func()) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		backend.Close()
	}

	return repo, cleanup
}

func makeTestVerses(n int) []*core.Verse {
	verses := make([]*core.Verse, n)
	for i := 0; i < n; i++ {
		verses[i] = &core.Verse{
			PoemID:  "1",
			RowID:   fmt.Sprintf("%d", i+1),
			LineRaw: fmt.Sprintf("بيت رقم %d", i+1),
		}
	}
	return verses
}

func TestVerseIterator_Basic(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	added, err := repo.AddVerses(ctx, makeTestVerses(3)...)
	require.NoError(t, err)
	require.Len(t, added, 3)

	// Iterate all verses
	iter := NewVerseIterator(repo, 2) // Batch size of 2
	count := 0
	var ids []core.ID

	err = iter.ForEach(ctx, func(verses []*core.Verse) error {
		count += len(verses)
		for _, v := range verses {
			ids = append(ids, v.Id)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, count, "should iterate all 3 verses")
	assert.Len(t, ids, 3, "should have 3 IDs")
}

func TestVerseIterator_BatchSizes(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_, err := repo.AddVerses(ctx, makeTestVerses(10)...)
	require.NoError(t, err)

	tests := []struct {
		name          string
		batchSize     int
		expectedBatch int
	}{
		{"batch size 1", 1, 10},
		{"batch size 3", 3, 4}, // 3+3+3+1
		{"batch size 5", 5, 2}, // 5+5
		{"batch size 10", 10, 1},
		{"batch size 100", 100, 1}, // All in one batch
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iter := NewVerseIterator(repo, tt.batchSize)
			batchCount := 0
			totalVerses := 0

			err := iter.ForEach(ctx, func(verses []*core.Verse) error {
				batchCount++
				totalVerses += len(verses)
				assert.LessOrEqual(t, len(verses), tt.batchSize, "batch should not exceed batchSize")
				return nil
			})

			require.NoError(t, err)
			assert.Equal(t, tt.expectedBatch, batchCount, "batch count")
			assert.Equal(t, 10, totalVerses, "total verses")
		})
	}
}

func TestVerseIterator_EmptyDatabase(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	iter := NewVerseIterator(repo, 10)
	called := false

	err := iter.ForEach(ctx, func(verses []*core.Verse) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.False(t, called, "callback should not be called for empty database")
}

func TestVerseIterator_ErrorHandling(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_, err := repo.AddVerses(ctx, makeTestVerses(2)...)
	require.NoError(t, err)

	iter := NewVerseIterator(repo, 1)
	called := 0

	expectedErr := assert.AnError
	err = iter.ForEach(ctx, func(verses []*core.Verse) error {
		called++
		if called == 1 {
			return expectedErr
		}
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, expectedErr, err, "should return callback error")
	assert.Equal(t, 1, called, "should stop on first error")
}

func TestVerseIterator_ContextCancellation(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())

	_, err := repo.AddVerses(context.Background(), makeTestVerses(5)...)
	require.NoError(t, err)

	iter := NewVerseIterator(repo, 1)
	called := 0

	err = iter.ForEach(ctx, func(verses []*core.Verse) error {
		called++
		if called == 2 {
			cancel()
		}
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, called, "should process until context canceled")
}

func TestVerseIterator_InvalidBatchSize(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	// Zero batch size should be handled gracefully
	iter := NewVerseIterator(repo, 0)
	assert.Greater(t, iter.batchSize, 0, "should use default batch size for invalid input")

	// Negative batch size
	iter = NewVerseIterator(repo, -10)
	assert.Greater(t, iter.batchSize, 0, "should use default batch size for negative input")
}
