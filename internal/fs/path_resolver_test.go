package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardPathResolver_CanonicalPath(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "cube.city.json")
	require.NoError(t, os.WriteFile(f, []byte("{}"), 0o600))

	r := NewPathResolver()
	got, err := r.CanonicalPath(f)
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestStandardPathResolver_Abs(t *testing.T) {
	r := NewPathResolver()
	got, err := r.Abs("cube.city.json")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestCanonicalPath_PackageLevel(t *testing.T) {
	dir := t.TempDir()
	got, err := CanonicalPath(dir)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}
