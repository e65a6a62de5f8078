package rcfile

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".azkabanrc")
	require.NoError(t, os.WriteFile(path, []byte(`
[prod]
url        = https://example.com:8443
user       = etl
session_id = abc123

[nourl]
user = etl
`), 0o600))

	store := NewStore(path)

	entry, err := store.Lookup("prod")
	require.NoError(t, err)
	assert.Equal(t, Entry{URL: "https://example.com:8443", User: "etl", SessionID: "abc123"}, entry)

	_, err = store.Lookup("staging")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing alias "staging"`)

	_, err = store.Lookup("nourl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing url for alias "nourl"`)
}

func TestLookupMissingFile(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), ".azkabanrc"))
	_, err := store.Lookup("prod")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing alias "prod"`)
}

func TestSaveSessionRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".azkabanrc")
	require.NoError(t, os.WriteFile(path, []byte(`
[prod]
url  = https://example.com:8443
user = etl
`), 0o600))

	store := NewStore(path)
	require.NoError(t, store.SaveSession("prod", "tok-1"))

	entry, err := store.Lookup("prod")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", entry.SessionID)
	// URL and user survive the rewrite.
	assert.Equal(t, "https://example.com:8443", entry.URL)
	assert.Equal(t, "etl", entry.User)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestSaveSessionCreatesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".azkabanrc")
	store := NewStore(path)
	require.NoError(t, store.SaveSession("prod", "tok-1"))

	// The section now exists but has no url, so lookup still complains.
	_, err := store.Lookup("prod")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing url")
}
