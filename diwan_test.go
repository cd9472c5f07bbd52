package diwan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/diwan/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLibrary(t *testing.T) {
	t.Run("create new library", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		lib, err := NewLibrary(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, lib)
		defer lib.Close()

		// Verify components are initialized
		assert.NotNil(t, lib.VerseRepository())
		assert.NotNil(t, lib.CheckpointRepository())
		assert.NotNil(t, lib.Engine())
		assert.NotNil(t, lib.backend)
		assert.NotNil(t, lib.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to create a library at a file path instead of directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		lib, err := NewLibrary(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, lib)
	})
}

func TestLibrary_Close(t *testing.T) {
	tmpDir := t.TempDir()
	lib, err := NewLibrary(tmpDir)
	require.NoError(t, err)
	require.NotNil(t, lib)

	// Close the library
	err = lib.Close()
	assert.NoError(t, err)
}

func TestLibrary_RebuildIndex(t *testing.T) {
	tmpDir := t.TempDir()
	lib, err := NewLibrary(tmpDir)
	require.NoError(t, err)
	defer lib.Close()

	ctx := context.Background()

	_, err = lib.VerseRepository().AddVerses(ctx,
		&core.Verse{PoemID: "7", RowID: "1", TitleRaw: "أراك عصي الدمع", LineRaw: "أَراكَ عَصِيَّ الدَمعِ شيمَتُكَ الصَبرُ"},
		&core.Verse{PoemID: "7", RowID: "2", LineRaw: "أَما لِلهَوى نَهيٌ عَلَيكَ وَلا أَمرُ"},
	)
	require.NoError(t, err)

	// Index is empty until rebuilt
	assert.Empty(t, lib.Engine().Search("الدمع"))

	err = lib.RebuildIndex(ctx)
	require.NoError(t, err)

	hits := lib.Engine().Search("الدمع")
	require.NotEmpty(t, hits)
	assert.Equal(t, "1", hits[0].RowID)
}

func TestLibrary_FactoryMethods(t *testing.T) {
	tmpDir := t.TempDir()
	lib, err := NewLibrary(tmpDir)
	require.NoError(t, err)
	require.NotNil(t, lib)
	defer lib.Close()

	t.Run("can create ingest pipeline", func(t *testing.T) {
		pipeline, err := lib.NewIngestPipeline()
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		pipeline.Release()
	})

	t.Run("can create searcher", func(t *testing.T) {
		searcher, err := lib.NewSearcher()
		require.NoError(t, err)
		require.NotNil(t, searcher)
	})
}
