package badger

import (
	"context"
	"testing"

	"github.com/poiesic/diwan/core"
	"github.com/poiesic/diwan/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) storage.VerseRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func TestAddVerses_GeneratesContentIDs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	verses, err := repo.AddVerses(ctx,
		&core.Verse{PoemID: "7", RowID: "1", LineRaw: "يا ليل الصب متى غده"},
		&core.Verse{PoemID: "7", RowID: "2", LineRaw: "أقيامُ الساعة موعدُه"},
	)
	require.NoError(t, err)
	require.Len(t, verses, 2)

	// Content-based IDs are deterministic
	assert.Equal(t, core.IDFromContent("7:1"), verses[0].Id)
	assert.Equal(t, core.IDFromContent("7:2"), verses[1].Id)

	// Timestamps populated
	assert.False(t, verses[0].InsertedAt.IsZero())
	assert.Equal(t, verses[0].InsertedAt, verses[0].UpdatedAt)
}

func TestGetVerse(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	added, err := repo.AddVerses(ctx, &core.Verse{
		PoemID:  "7",
		RowID:   "1",
		LineRaw: "يا ليل الصب متى غده",
		Meta:    map[string]string{core.MetaQafiya: "د"},
	})
	require.NoError(t, err)

	got, err := repo.GetVerse(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "7", got.PoemID)
	assert.Equal(t, "يا ليل الصب متى غده", got.LineRaw)
	assert.Equal(t, "د", got.Meta[core.MetaQafiya])
}

func TestGetVerse_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetVerse(context.Background(), core.ID(12345))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetVerses_SkipsMissing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	added, err := repo.AddVerses(ctx, &core.Verse{PoemID: "7", RowID: "1", LineRaw: "a"})
	require.NoError(t, err)

	got, err := repo.GetVerses(ctx, added[0].Id, core.ID(999))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestUpdateVerses(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	added, err := repo.AddVerses(ctx, &core.Verse{PoemID: "7", RowID: "1", LineRaw: "قبل"})
	require.NoError(t, err)

	verse := added[0]
	verse.LineRaw = "بعد"
	verse.Vector = []float32{0.5, 0.5}

	_, err = repo.UpdateVerses(ctx, verse)
	require.NoError(t, err)

	got, err := repo.GetVerse(ctx, verse.Id)
	require.NoError(t, err)
	assert.Equal(t, "بعد", got.LineRaw)
	assert.Equal(t, []float32{0.5, 0.5}, got.Vector)
	assert.True(t, got.UpdatedAt.After(got.InsertedAt) || got.UpdatedAt.Equal(got.InsertedAt))
}

func TestUpdateVerses_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.UpdateVerses(context.Background(), &core.Verse{Id: core.ID(404), PoemID: "x", RowID: "1"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteVerses(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	added, err := repo.AddVerses(ctx, &core.Verse{PoemID: "7", RowID: "1", LineRaw: "a"})
	require.NoError(t, err)

	err = repo.DeleteVerses(ctx, added[0].Id)
	require.NoError(t, err)

	_, err = repo.GetVerse(ctx, added[0].Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Tuple index cleaned up as well
	_, err = repo.FindVerseByKey(ctx, "7", "1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteVerses_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.DeleteVerses(context.Background(), core.ID(404))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFindVerseByKey(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddVerses(ctx,
		&core.Verse{PoemID: "7", RowID: "1", LineRaw: "الأول"},
		&core.Verse{PoemID: "7", RowID: "2", LineRaw: "الثاني"},
	)
	require.NoError(t, err)

	got, err := repo.FindVerseByKey(ctx, "7", "2")
	require.NoError(t, err)
	assert.Equal(t, "الثاني", got.LineRaw)

	_, err = repo.FindVerseByKey(ctx, "7", "3")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetPoemVerses_NumericRowOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Insert out of order, with a two-digit row that would sort wrong
	// lexicographically
	_, err := repo.AddVerses(ctx,
		&core.Verse{PoemID: "7", RowID: "10", LineRaw: "العاشر"},
		&core.Verse{PoemID: "7", RowID: "2", LineRaw: "الثاني"},
		&core.Verse{PoemID: "7", RowID: "1", LineRaw: "الأول"},
		&core.Verse{PoemID: "8", RowID: "1", LineRaw: "قصيدة أخرى"},
	)
	require.NoError(t, err)

	got, err := repo.GetPoemVerses(ctx, "7")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "1", got[0].RowID)
	assert.Equal(t, "2", got[1].RowID)
	assert.Equal(t, "10", got[2].RowID)
}

func TestGetPoemVerses_Empty(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.GetPoemVerses(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAllVerses(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddVerses(ctx,
		&core.Verse{PoemID: "1", RowID: "1", LineRaw: "a"},
		&core.Verse{PoemID: "2", RowID: "1", LineRaw: "b"},
		&core.Verse{PoemID: "3", RowID: "1", LineRaw: "c"},
	)
	require.NoError(t, err)

	all, err := repo.AllVerses(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCheckpointRepository_RoundTrip(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	ctx := context.Background()
	checkpoints := NewCheckpointRepository(backend)

	// No checkpoint yet
	loaded, err := checkpoints.LoadCheckpoint(ctx, "reembed")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	err = checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{
		ProcessorType:   "reembed",
		LastProcessedId: core.ID(42),
	})
	require.NoError(t, err)

	loaded, err = checkpoints.LoadCheckpoint(ctx, "reembed")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, core.ID(42), loaded.LastProcessedId)
	assert.False(t, loaded.UpdatedAt.IsZero())
}
