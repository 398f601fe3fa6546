package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripExtension(t *testing.T) {
	assert.Equal(t, "phoneA", StripExtension("phoneA.jpg"))
	assert.Equal(t, "phoneA", StripExtension("phoneA"))
	assert.Equal(t, "phoneA", StripExtension(" images/phoneA.webp "))
	assert.Equal(t, "phone.front", StripExtension("phone.front.png"))
}

func TestCollectImageRefs(t *testing.T) {
	rows := []ParsedRow{
		{RowNum: 1, Fields: []string{"A", "", "10", "", "", "", "", "", "phoneA", "caseA, caseB", ""}},
		{RowNum: 2, Fields: []string{"B", "", "20", "", "", "", "", "", "phoneA", "caseB", ""}},
		{RowNum: 3, Fields: []string{"C", "", "30"}},
	}

	refs := CollectImageRefs(rows)
	assert.Equal(t, []string{"phoneA", "caseA", "caseB"}, refs)
}

func TestMatchImages(t *testing.T) {
	result, err := MatchImages(
		[]string{"phoneA", "phoneB"},
		[]string{"phoneA.jpg"},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"phoneB"}, result.Missing)
	assert.Empty(t, result.Unused)
	assert.Equal(t, []string{"phoneA.jpg"}, result.Upload)
	assert.False(t, result.Clean())
}

func TestMatchImagesClean(t *testing.T) {
	result, err := MatchImages(
		[]string{"phoneA", "caseA"},
		[]string{"phoneA.jpg", "caseA.png"},
	)
	require.NoError(t, err)

	assert.True(t, result.Clean())
	assert.Equal(t, []string{"caseA.png", "phoneA.jpg"}, result.Upload)
}

func TestMatchImagesUnusedFile(t *testing.T) {
	result, err := MatchImages(
		[]string{"phoneA"},
		[]string{"phoneA.jpg", "stray.png"},
	)
	require.NoError(t, err)

	assert.Empty(t, result.Missing)
	assert.Equal(t, []string{"stray.png"}, result.Unused)
	assert.False(t, result.Clean())
}

func TestMatchImagesRejectsRefWithExtension(t *testing.T) {
	_, err := MatchImages([]string{"phoneA.jpg"}, []string{"phoneA.jpg"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `image reference "phoneA.jpg" includes a file extension`)
	assert.Contains(t, err.Error(), `"phoneA"`)
}

func TestMatchImagesEmptyInputs(t *testing.T) {
	result, err := MatchImages(nil, nil)
	require.NoError(t, err)
	assert.True(t, result.Clean())
}
