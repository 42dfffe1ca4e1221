package transcript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func TestParse_NestsLinesWordsCharacters(t *testing.T) {
	doc := Parse("ab  cd\r\n\nΔe\n")
	require.Len(t, doc, 2)
	assert.Equal(t, Line{Word{"a", "b"}, Word{"c", "d"}}, doc[0])
	assert.Equal(t, Line{Word{"Δ", "e"}}, doc[1])
	assert.Equal(t, 6, doc.CharCount())
}

func TestDocument_Format(t *testing.T) {
	doc := Document{
		{Word{"h", "i"}, Word{"x"}},
		{Word{"y", "o"}},
	}
	assert.Equal(t, "hi x\nyo", doc.Format())
	assert.Equal(t, doc, Parse(doc.Format()))
}

func TestReadFile_UTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.txt")
	require.NoError(t, os.WriteFile(path, []byte("\xef\xbb\xbfab c\n"), 0644))

	doc, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ab c", doc.Format())
}

func TestReadFile_UTF16Fallback(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	data, err := enc.Bytes([]byte("μη ab\nc\n"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "t16.txt")
	require.NoError(t, os.WriteFile(path, data, 0644))

	doc, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "μη ab\nc", doc.Format())
}

func TestDocument_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	doc := Parse("a b\nc")
	require.NoError(t, doc.WriteFile(path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a b\nc\n", string(got))
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
