// Package download fetches release artifacts over HTTPS with retries,
// progress reporting, and checksum verification. Files are written to a
// temporary path and renamed into place only when complete, so an aborted
// download never leaves a partial artifact at the destination.
package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

// ProgressCallback is called with download progress updates.
type ProgressCallback func(downloaded, total int64)

// Client downloads files and resolves release metadata.
type Client struct {
	http *retryablehttp.Client
}

// NewClient creates a download client with sane retry defaults.
func NewClient() *Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 3
	c.Logger = nil // diagnostics go through our own logger
	return &Client{http: c}
}

// Options configures a single download.
type Options struct {
	URL        string
	DestPath   string
	SHA256     string // Expected checksum (optional)
	OnProgress ProgressCallback
}

// Fetch downloads a file to opts.DestPath.
func (c *Client) Fetch(ctx context.Context, opts Options) error {
	if opts.URL == "" {
		return fmt.Errorf("empty download URL")
	}

	destDir := filepath.Dir(opts.DestPath)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	tmpPath := opts.DestPath + ".partial"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	renamed := false
	defer func() {
		out.Close()
		if !renamed {
			os.Remove(tmpPath)
		}
	}()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: HTTP %d for %s", resp.StatusCode, opts.URL)
	}

	reader := &progressReader{
		reader:     resp.Body,
		total:      resp.ContentLength,
		onProgress: opts.OnProgress,
	}

	if _, err := io.Copy(out, reader); err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if opts.SHA256 != "" {
		hash, err := FileSHA256(tmpPath)
		if err != nil {
			return fmt.Errorf("failed to calculate checksum: %w", err)
		}
		if !strings.EqualFold(hash, opts.SHA256) {
			return fmt.Errorf("checksum mismatch: expected %s, got %s", opts.SHA256, hash)
		}
	}

	if err := os.Rename(tmpPath, opts.DestPath); err != nil {
		return fmt.Errorf("failed to move file: %w", err)
	}
	renamed = true

	return nil
}

// FetchString retrieves a small response body as a string. Used for
// checksum files and API endpoints that are not JSON.
func (c *Client) FetchString(ctx context.Context, url string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("request failed: HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(body), nil
}

// FileSHA256 computes the hex SHA256 of a file.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// progressReader wraps a reader and reports progress.
type progressReader struct {
	reader     io.Reader
	total      int64
	downloaded int64
	onProgress ProgressCallback
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.downloaded += int64(n)
	if r.onProgress != nil {
		r.onProgress(r.downloaded, r.total)
	}
	return n, err
}
