package cvpdf

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCV = `**PROFESSIONAL SUMMARY**
Backend engineer with eight years of experience.

**EXPERIENCE**
- Led migration of billing services to Go
- Cut p99 latency by 40%
• Mentored four junior engineers

**EDUCATION**
BSc Computer Science, Expected 2026`

func TestRenderWritesPDF(t *testing.T) {
	fs := afero.NewMemMapFs()
	r, err := NewRenderer(fs, "out/cvs")
	require.NoError(t, err)

	path, err := r.Render("t-1", sampleCV)
	require.NoError(t, err)
	assert.Contains(t, path, "out/cvs")
	assert.Contains(t, path, "cv_t-1_")

	b, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	require.Greater(t, len(b), 4)
	assert.Equal(t, "%PDF", string(b[:4]))
}

func TestRenderEmptyContentStillProducesDocument(t *testing.T) {
	fs := afero.NewMemMapFs()
	r, err := NewRenderer(fs, "out")
	require.NoError(t, err)

	path, err := r.Render("t-2", "")
	require.NoError(t, err)

	exists, err := afero.Exists(fs, path)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestIsHeader(t *testing.T) {
	assert.True(t, isHeader("**SUMMARY**"))
	assert.False(t, isHeader("**"))
	assert.False(t, isHeader("plain line"))
	assert.False(t, isHeader("**unterminated"))
}
