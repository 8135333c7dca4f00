package download

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/jaspreet-dot-casa/deskctl/pkg/logx"
)

// API endpoints. Variables so tests can point them at a local server.
var (
	GitHubAPIBase       = "https://api.github.com"
	JetBrainsReleaseAPI = "https://data.services.jetbrains.com/products/releases"
	CursorDownloadAPI   = "https://cursor.com/api/download"
)

// Release describes a resolved downloadable artifact.
type Release struct {
	Version  string
	URL      string
	Filename string
	SHA256   string // empty when the vendor publishes no checksum
	Size     int64
}

// fetchJSON retrieves a URL and decodes the JSON response into v.
func (c *Client) fetchJSON(ctx context.Context, url string, v any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed: HTTP %d for %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}

// githubRelease mirrors the fields we use from the GitHub releases API.
type githubRelease struct {
	TagName string `json:"tag_name"`
	Assets  []struct {
		Name               string `json:"name"`
		Size               int64  `json:"size"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// LatestGitHubAsset resolves the newest release asset of repo ("owner/name")
// whose filename satisfies match.
func (c *Client) LatestGitHubAsset(ctx context.Context, repo string, match func(name string) bool) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", GitHubAPIBase, repo)

	var rel githubRelease
	if err := c.fetchJSON(ctx, url, &rel); err != nil {
		return nil, fmt.Errorf("failed to query %s releases: %w", repo, err)
	}

	for _, asset := range rel.Assets {
		if match(asset.Name) {
			logx.Log.Debug().Str("repo", repo).Str("asset", asset.Name).Str("tag", rel.TagName).Msg("resolved github asset")
			return &Release{
				Version:  strings.TrimPrefix(rel.TagName, "v"),
				URL:      asset.BrowserDownloadURL,
				Filename: asset.Name,
				Size:     asset.Size,
			}, nil
		}
	}

	return nil, fmt.Errorf("no matching asset in %s release %s", repo, rel.TagName)
}

// jetbrainsDownload mirrors one download entry in the JetBrains data
// services response.
type jetbrainsDownload struct {
	Link         string `json:"link"`
	Size         int64  `json:"size"`
	ChecksumLink string `json:"checksumLink"`
}

type jetbrainsRelease struct {
	Version   string                       `json:"version"`
	Downloads map[string]jetbrainsDownload `json:"downloads"`
}

// LatestJetBrainsRelease resolves the newest release of a JetBrains product
// (code "RM" for RubyMine) for the given deb architecture. The published
// checksum file is fetched as well so the download can be verified.
func (c *Client) LatestJetBrainsRelease(ctx context.Context, productCode, arch string) (*Release, error) {
	query := url.Values{}
	query.Set("code", productCode)
	query.Set("latest", "true")
	query.Set("type", "release")

	var releases map[string][]jetbrainsRelease
	if err := c.fetchJSON(ctx, JetBrainsReleaseAPI+"?"+query.Encode(), &releases); err != nil {
		return nil, fmt.Errorf("failed to query JetBrains releases: %w", err)
	}

	product := releases[productCode]
	if len(product) == 0 {
		return nil, fmt.Errorf("no releases for product %s", productCode)
	}
	latest := product[0]

	// The API keys Linux downloads "linux" for amd64 and "linuxARM64".
	key := "linux"
	if arch == "arm64" {
		key = "linuxARM64"
	}
	dl, ok := latest.Downloads[key]
	if !ok {
		return nil, fmt.Errorf("no %s download for %s %s", key, productCode, latest.Version)
	}

	rel := &Release{
		Version:  latest.Version,
		URL:      dl.Link,
		Filename: path.Base(dl.Link),
		Size:     dl.Size,
	}

	if dl.ChecksumLink != "" {
		sum, err := c.FetchString(ctx, dl.ChecksumLink)
		if err != nil {
			// A missing checksum file downgrades to an unverified
			// download rather than failing the install.
			logx.Log.Warn().Err(err).Str("product", productCode).Msg("checksum fetch failed")
		} else {
			rel.SHA256 = firstField(sum)
		}
	}

	return rel, nil
}

// cursorDownload mirrors the Cursor download API response.
type cursorDownload struct {
	DownloadURL string `json:"downloadUrl"`
	Version     string `json:"version"`
}

// LatestCursorDownload resolves the current stable Cursor AppImage for the
// given deb architecture.
func (c *Client) LatestCursorDownload(ctx context.Context, arch string) (*Release, error) {
	platform := "linux-x64"
	if arch == "arm64" {
		platform = "linux-arm64"
	}

	query := url.Values{}
	query.Set("platform", platform)
	query.Set("releaseTrack", "stable")

	var dl cursorDownload
	if err := c.fetchJSON(ctx, CursorDownloadAPI+"?"+query.Encode(), &dl); err != nil {
		return nil, fmt.Errorf("failed to query Cursor download API: %w", err)
	}
	if dl.DownloadURL == "" {
		return nil, fmt.Errorf("Cursor download API returned no URL for %s", platform)
	}

	filename := path.Base(dl.DownloadURL)
	if idx := strings.IndexAny(filename, "?#"); idx != -1 {
		filename = filename[:idx]
	}

	return &Release{
		Version:  dl.Version,
		URL:      dl.DownloadURL,
		Filename: filename,
	}, nil
}

// firstField returns the first whitespace-separated token of s. Checksum
// files are "<hash>  <filename>" lines.
func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
