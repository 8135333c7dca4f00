package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_Success(t *testing.T) {
	content := []byte("fake appimage content")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "app.AppImage")
	c := NewClient()

	err := c.Fetch(context.Background(), Options{URL: srv.URL, DestPath: dest})
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestFetch_ReportsProgress(t *testing.T) {
	content := make([]byte, 4096)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer srv.Close()

	var lastDownloaded, lastTotal int64
	dest := filepath.Join(t.TempDir(), "file.bin")
	c := NewClient()

	err := c.Fetch(context.Background(), Options{
		URL:      srv.URL,
		DestPath: dest,
		OnProgress: func(downloaded, total int64) {
			lastDownloaded = downloaded
			lastTotal = total
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4096), lastDownloaded)
	assert.Equal(t, int64(4096), lastTotal)
}

func TestFetch_ChecksumVerified(t *testing.T) {
	content := []byte("verified payload")
	sum := sha256.Sum256(content)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "file.bin")
	c := NewClient()

	err := c.Fetch(context.Background(), Options{
		URL:      srv.URL,
		DestPath: dest,
		SHA256:   hex.EncodeToString(sum[:]),
	})
	require.NoError(t, err)
}

func TestFetch_ChecksumMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tampered payload"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "file.bin")
	c := NewClient()

	err := c.Fetch(context.Background(), Options{
		URL:      srv.URL,
		DestPath: dest,
		SHA256:   "deadbeef",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")

	// Neither the destination nor the partial file may remain.
	_, err = os.Stat(dest)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(dest + ".partial")
	assert.True(t, os.IsNotExist(err))
}

func TestFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "file.bin")
	c := NewClient()

	err := c.Fetch(context.Background(), Options{URL: srv.URL, DestPath: dest})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")

	_, err = os.Stat(dest)
	assert.True(t, os.IsNotExist(err))
}

func TestFetch_EmptyURL(t *testing.T) {
	c := NewClient()
	err := c.Fetch(context.Background(), Options{DestPath: filepath.Join(t.TempDir(), "x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty download URL")
}

func TestFileSHA256(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	sum, err := FileSHA256(path)
	require.NoError(t, err)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", sum)
}
