package docparse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmptyPath(t *testing.T) {
	_, err := Parse("")
	assert.ErrorContains(t, err, "no resume file provided")
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "absent.pdf"))
	assert.ErrorContains(t, err, "resume file")
}

func TestParseTxt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jane Doe\nBackend Engineer"), 0o600))

	got, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nBackend Engineer", got)
}

func TestParseUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.docx")
	require.NoError(t, os.WriteFile(path, []byte("binary"), 0o600))

	_, err := Parse(path)
	assert.ErrorContains(t, err, "must be PDF or TXT")
}

func TestParseCaseInsensitiveExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "RESUME.TXT")
	require.NoError(t, os.WriteFile(path, []byte("text"), 0o600))

	got, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "text", got)
}
