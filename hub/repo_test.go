package hub

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveVocabularyFile_DownloadsAndCaches(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte("hello\nworld\n"))
	}))
	defer srv.Close()

	cacheDir := t.TempDir()
	repo := NewRepo("test-model", cacheDir)

	path, err := repo.ResolveVocabularyFile(srv.URL, WordPieceVocabFile)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cacheDir, "test-model", WordPieceVocabFile), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", string(content))
	assert.Equal(t, 1, requests)

	// Second resolve hits the cache, not the server.
	_, err = repo.ResolveVocabularyFile(srv.URL, WordPieceVocabFile)
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
}

func TestResolveFile_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	repo := NewRepo("missing-model", t.TempDir())
	_, err := repo.ResolveFile(srv.URL + "/vocab.txt")
	require.Error(t, err)
}
