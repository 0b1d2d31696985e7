package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(path, []byte("  s3cret\n"), 0o600))

	got, err := Load(Source{Name: "api key", File: path})
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
}

func TestLoadFilePrecedesValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(path, []byte("from-file"), 0o600))

	got, err := Load(Source{Name: "api key", Value: "inline", File: path})
	require.NoError(t, err)
	assert.Equal(t, "from-file", got)
}

func TestLoadInlineValue(t *testing.T) {
	got, err := Load(Source{Name: "smtp password", Value: " hunter2 "})
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(Source{Name: "api key"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key is not configured")

	empty := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0o600))
	_, err = Load(Source{Name: "api key", File: empty})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")

	_, err = Load(Source{Name: "api key", File: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
}
