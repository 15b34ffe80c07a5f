package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validExtensionJSON = `{
  "type": "Extension",
  "name": "Noise",
  "description": "Noise properties",
  "url": "https://example.org/noise.ext.json",
  "version": "1.0",
  "versionCityJSON": "2.0",
  "extraCityObjects": {},
  "extraRootProperties": {}
}`

func TestNewValidateExtCmd_Valid(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "noise.ext.json")
	require.NoError(t, os.WriteFile(path, []byte(validExtensionJSON), 0o600))

	cmd := NewValidateExtCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "well-formed")
}

func TestNewValidateExtCmd_Invalid(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.ext.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"NotAnExtension"}`), 0o600))

	cmd := NewValidateExtCmd()
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{path})
	require.Error(t, cmd.Execute())
}
