package search

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/poiesic/diwan/arabic"
	"github.com/poiesic/diwan/core"
	"github.com/poiesic/diwan/translit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verse(poemID, rowID, title, line string) *core.Verse {
	return &core.Verse{
		PoemID:   poemID,
		RowID:    rowID,
		TitleRaw: title,
		LineRaw:  line,
	}
}

func TestNewEngine(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		e, err := NewEngine()
		require.NoError(t, err)
		assert.NotNil(t, e)
	})

	t.Run("with custom logger", func(t *testing.T) {
		e, err := NewEngine(WithLogger(slog.Default()))
		require.NoError(t, err)
		assert.NotNil(t, e)
	})

	t.Run("nil options fall back to defaults", func(t *testing.T) {
		e, err := NewEngine(WithLogger(nil), WithMapper(nil), WithCorrector(nil))
		require.NoError(t, err)
		assert.NotNil(t, e)
	})
}

func TestSearch_EmptyQuery(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)
	e.Rebuild([]*core.Verse{verse("1", "1", "ليل", "بيت")})

	assert.Empty(t, e.Search(""))
	assert.Empty(t, e.Search("   "))
}

func TestSearch_BeforeRebuild(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	assert.Empty(t, e.Search("ليل"))
	assert.Empty(t, e.Verses())
}

func TestSearch_EndToEnd(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)
	e.Rebuild([]*core.Verse{
		verse("1", "1", "ليل وحنين", "يا ليلُ طُل"),
	})

	results := e.Search("ليل")
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].PoemID)
	assert.Equal(t, "يا ليلُ طُل", results[0].LineRaw)
}

func TestSearch_ScoringOrder(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)
	e.Rebuild([]*core.Verse{
		verse("substr", "1", "قمرية الوادي", ""), // title substring only: 60
		verse("exact", "1", "قمر", ""),           // exact title token: 120 + 60
	})

	results := e.Search("قمر")
	require.Len(t, results, 2)
	assert.Equal(t, "exact", results[0].PoemID)
	assert.Equal(t, "substr", results[1].PoemID)
}

func TestSearch_ScoreAdditivity(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)
	e.Rebuild([]*core.Verse{
		verse("both", "1", "قمر", "قمر في السما"), // 120+60 + 80+30
		verse("title", "1", "قمر", ""),            // 120+60
	})

	results := e.Search("قمر")
	require.Len(t, results, 2)
	assert.Equal(t, "both", results[0].PoemID)
}

func TestSearch_TiesKeepCandidateOrder(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)
	e.Rebuild([]*core.Verse{
		verse("a", "1", "قمر", ""),
		verse("b", "1", "قمر", ""),
		verse("c", "1", "قمر", ""),
	})

	results := e.Search("قمر")
	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].PoemID)
	assert.Equal(t, "b", results[1].PoemID)
	assert.Equal(t, "c", results[2].PoemID)
}

func TestSearch_ResultCap(t *testing.T) {
	verses := make([]*core.Verse, 80)
	for i := range verses {
		verses[i] = verse(fmt.Sprintf("%d", i), "1", "قمر", "")
	}
	e, err := NewEngine()
	require.NoError(t, err)
	e.Rebuild(verses)

	assert.Len(t, e.Search("قمر"), 50)
}

func TestSearch_Transliteration(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)
	e.Rebuild([]*core.Verse{
		verse("1", "1", "ليل وحنين", "يا ليلُ طُل"),
	})

	results := e.Search("layl")
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].PoemID)
}

func TestSearch_FuzzyCorrection(t *testing.T) {
	e, err := NewEngine(
		WithCorrector(arabic.NewCorrector([]string{"حنين"})),
	)
	require.NoError(t, err)
	e.Rebuild([]*core.Verse{
		verse("1", "1", "حنين الليل", ""),
	})

	// One deletion away from the boosted word.
	results := e.Search("حنن")
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].PoemID)
}

func TestSearch_DiacriticQueryMatches(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)
	e.Rebuild([]*core.Verse{
		verse("1", "1", "ليل وحنين", "يا ليلُ طُل"),
	})

	// A vocalized query normalizes to the same form as the index.
	withDiacritics := e.Search("لَيْل")
	plain := e.Search("ليل")
	require.Equal(t, len(plain), len(withDiacritics))
	assert.Equal(t, plain[0].PoemID, withDiacritics[0].PoemID)
}

func TestRebuild_ReplacesIndexWholesale(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	e.Rebuild([]*core.Verse{verse("old", "1", "قمر", "")})
	require.Len(t, e.Search("قمر"), 1)

	e.Rebuild([]*core.Verse{verse("new", "1", "نجم", "")})
	assert.Empty(t, e.Search("قمر"), "old corpus must be gone after rebuild")

	results := e.Search("نجم")
	require.Len(t, results, 1)
	assert.Equal(t, "new", results[0].PoemID)
}

func TestPoemVerses(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)
	e.Rebuild([]*core.Verse{
		verse("1", "1", "قصيدة", "البيت الاول"),
		verse("2", "1", "اخرى", "بيت آخر"),
		verse("1", "2", "قصيدة", "البيت الثاني"),
	})

	lines := e.PoemVerses("1")
	require.Len(t, lines, 2)
	assert.Equal(t, "1", lines[0].RowID)
	assert.Equal(t, "2", lines[1].RowID)

	assert.Empty(t, e.PoemVerses("99"))
	assert.Empty(t, e.PoemVerses(""))
}

type recordingMonitor struct {
	started    bool
	mapped     string
	norm       string
	candidates int
	finished   int
}

var _ Monitor = (*recordingMonitor)(nil)

func (m *recordingMonitor) Start(_ string)                 { m.started = true }
func (m *recordingMonitor) AfterTransliteration(s string)  { m.mapped = s }
func (m *recordingMonitor) AfterCorrection(n string, _ []string) { m.norm = n }
func (m *recordingMonitor) AfterCandidateRetrieval(p []int) { m.candidates = len(p) }
func (m *recordingMonitor) Finish(r []*core.Verse)          { m.finished = len(r) }

func TestSearchWithMonitor(t *testing.T) {
	e, err := NewEngine(WithMapper(translit.NewMapper(map[string]string{"layl": "ليل"})))
	require.NoError(t, err)
	e.Rebuild([]*core.Verse{
		verse("1", "1", "ليل وحنين", ""),
	})

	m := &recordingMonitor{}
	results := e.SearchWithMonitor("layl", m)

	require.Len(t, results, 1)
	assert.True(t, m.started)
	assert.Equal(t, "ليل", m.mapped)
	assert.Equal(t, "ليل", m.norm)
	assert.Equal(t, 1, m.candidates)
	assert.Equal(t, 1, m.finished)
}
