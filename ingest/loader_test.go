package ingest

import (
	"strings"
	"testing"

	"github.com/poiesic/diwan/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const corpusHeader = "poem_id,row_id,title_raw,poem_line_raw,summary,title_cleaned,poem_line_cleaned,qafiya,bahr,wasl,haraka,naw3,shaks,sentiments,amakin,ahdath,mawadi3,tasnif,confidence,status\n"

func TestLoader_Load(t *testing.T) {
	csv := corpusHeader +
		`7,1,قصيدة الليل,يا ليل الصب متى غده,بيت في الشوق,قصيده الليل,يا ليل الصب متي غده,د,المتدارك,,ُ,غزل,,"[""شوق""]",,,,تراثي,0.9,approved` + "\n" +
		`7,2,قصيدة الليل,أقيامُ الساعة موعدُه,,قصيده الليل,اقيام الساعه موعده,د,المتدارك,,,,,,,,,,,` + "\n"

	loader := NewLoader(nil)
	verses, err := loader.Load(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, verses, 2)

	first := verses[0]
	assert.Equal(t, "7", first.PoemID)
	assert.Equal(t, "1", first.RowID)
	assert.Equal(t, "قصيدة الليل", first.TitleRaw)
	assert.Equal(t, "يا ليل الصب متى غده", first.LineRaw)
	assert.Equal(t, "بيت في الشوق", first.Summary)
	assert.Equal(t, "قصيده الليل", first.TitleClean)
	assert.Equal(t, "د", first.Meta[core.MetaQafiya])
	assert.Equal(t, "المتدارك", first.Meta[core.MetaBahr])
	assert.Equal(t, `["شوق"]`, first.Meta[core.MetaSentiments])
	assert.Equal(t, "approved", first.Meta[core.MetaStatus])

	// Empty metadata columns are omitted
	_, hasWasl := first.Meta[core.MetaWasl]
	assert.False(t, hasWasl)
}

func TestLoader_Load_StripsBOM(t *testing.T) {
	csv := "\uFEFF" + corpusHeader +
		"7,1,عنوان,بيت شعري,,,عنوان,بيت شعري\n"

	loader := NewLoader(nil)
	verses, err := loader.Load(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, verses, 1)
	assert.Equal(t, "7", verses[0].PoemID)
}

func TestLoader_Load_SkipsShortRows(t *testing.T) {
	csv := corpusHeader +
		"7,1,عنوان\n" + // too few fields
		"7,2,عنوان,بيت كامل,,عنوان,بيت كامل\n"

	loader := NewLoader(nil)
	verses, err := loader.Load(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, verses, 1)
	assert.Equal(t, "2", verses[0].RowID)
}

func TestLoader_Load_SkipsInvalidRows(t *testing.T) {
	csv := corpusHeader +
		",1,عنوان,بيت,summary,عنوان,بيت\n" + // missing poem_id
		"7,,عنوان,بيت,summary,عنوان,بيت\n" + // missing row_id
		"7,1,عنوان,,summary,عنوان,\n" + // missing line
		"7,2,عنوان,بيت صالح,,عنوان,بيت صالح\n"

	loader := NewLoader(nil)
	verses, err := loader.Load(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, verses, 1)
	assert.Equal(t, "بيت صالح", verses[0].LineRaw)
}

func TestLoader_Load_QuotedNewlines(t *testing.T) {
	csv := corpusHeader +
		"7,1,عنوان,\"بيت\nعلى سطرين\",,عنوان,بيت\n"

	loader := NewLoader(nil)
	verses, err := loader.Load(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, verses, 1)
	assert.Equal(t, "بيت\nعلى سطرين", verses[0].LineRaw)
}

func TestLoader_Load_EmptyFile(t *testing.T) {
	loader := NewLoader(nil)
	_, err := loader.Load(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMissingHeader)
}

func TestLoader_Load_HeaderOnly(t *testing.T) {
	loader := NewLoader(nil)
	verses, err := loader.Load(strings.NewReader(corpusHeader))
	require.NoError(t, err)
	assert.Empty(t, verses)
}
