package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{
			name:     "simple fields",
			line:     "iPhone 15,Latest model,999.99",
			expected: []string{"iPhone 15", "Latest model", "999.99"},
		},
		{
			name:     "quoted field with comma",
			line:     `"Sony WH-1000XM5, black",headphones,349`,
			expected: []string{"Sony WH-1000XM5, black", "headphones", "349"},
		},
		{
			name:     "escaped quote inside quoted field",
			line:     `"Say ""hi""",5`,
			expected: []string{`Say "hi"`, "5"},
		},
		{
			name:     "fields are trimmed",
			line:     "  spaced out  , tabbed\t,plain",
			expected: []string{"spaced out", "tabbed", "plain"},
		},
		{
			name:     "empty fields preserved",
			line:     "name,,9.99,",
			expected: []string{"name", "", "9.99", ""},
		},
		{
			name:     "unbalanced quote keeps accumulated text",
			line:     `"unterminated, still one field`,
			expected: []string{"unterminated, still one field"},
		},
		{
			name:     "empty line yields one empty field",
			line:     "",
			expected: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLine(tt.line))
		})
	}
}

func TestReadRows(t *testing.T) {
	csv := "name,description,price\n" +
		"Pixel 9,Google phone,799\n" +
		"\n" +
		"MacBook Air,M3 laptop,1099\n"

	rows, err := ReadRows(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].RowNum)
	assert.Equal(t, []string{"Pixel 9", "Google phone", "799"}, rows[0].Fields)
	// The blank line does not consume a row number.
	assert.Equal(t, 2, rows[1].RowNum)
	assert.Equal(t, "MacBook Air", rows[1].Fields[0])
}

func TestReadRowsHandlesCRLF(t *testing.T) {
	rows, err := ReadRows(strings.NewReader("name,desc,price\r\nKindle,E-reader,119\r\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Kindle", "E-reader", "119"}, rows[0].Fields)
}

func TestReadRowsEmptyFile(t *testing.T) {
	_, err := ReadRows(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file is empty")
}

func TestReadRowsHeaderOnly(t *testing.T) {
	_, err := ReadRows(strings.NewReader("name,description,price\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}
