package fileutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadUsesContentDispositionName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="castle.txt"`)
		_, _ = w.Write([]byte("A castle on a hill."))
	}))
	defer srv.Close()

	dir := t.TempDir()
	name, err := Download(context.Background(), srv.Client(), srv.URL+"/articles/castle", dir)
	require.NoError(t, err)
	assert.Equal(t, "castle.txt", name)

	content, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "A castle on a hill.", string(content))
}

func TestDownloadDerivesNameFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("body"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	name, err := Download(context.Background(), srv.Client(), srv.URL+"/wiki/Some_Page", dir)
	require.NoError(t, err)

	// Scheme stripped, path separators flattened to dashes.
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, "://")
	assert.Contains(t, name, "wiki-Some_Page")

	content, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "body", string(content))
}

func TestDownloadRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dir := t.TempDir()
	_, err := Download(context.Background(), srv.Client(), srv.URL+"/missing", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDownloadedFileIndexesLikeLocalOnes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="page.html"`)
		_, _ = w.Write([]byte("<html><body><h1>Title</h1><p>One sentence.</p></body></html>"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	name, err := Download(context.Background(), srv.Client(), srv.URL+"/page", dir)
	require.NoError(t, err)

	docs, err := ReadDocuments(dir, ".html")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, name, docs[0].Source)
	assert.Equal(t, "Title One sentence.", docs[0].Content)
}

func TestFilenameFromDisposition(t *testing.T) {
	assert.Equal(t, "", filenameFromDisposition(""))
	assert.Equal(t, "", filenameFromDisposition("attachment"))
	assert.Equal(t, "report.txt", filenameFromDisposition(`attachment; filename="report.txt"`))
	// Path components in a server-supplied name are dropped.
	assert.Equal(t, "evil.txt", filenameFromDisposition(`attachment; filename="../../evil.txt"`))
}
