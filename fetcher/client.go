package fetcher

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"games-launcher/config"
	"games-launcher/library"

	"go.uber.org/zap"
)

const (
	defaultNewsTimeout     = 20 * time.Second
	defaultDownloadTimeout = 10 * time.Minute
)

// Client performs all network fetches for the launcher: news text and
// update archives. URLs are treated as opaque; query parameters pass
// through untouched and redirects follow the default policy.
type Client struct {
	UserAgent string
	NewsLimit int64

	newsClient     *http.Client
	downloadClient *http.Client
}

// NewClient builds a client from the configuration. News requests use a
// short timeout; archive downloads get a generous one since the whole
// transfer has to fit inside it.
func NewClient(cfg config.Config) *Client {
	newsTimeout := defaultNewsTimeout
	if cfg.HTTPTimeoutSeconds > 0 {
		newsTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	}
	downloadTimeout := defaultDownloadTimeout
	if cfg.DownloadTimeoutSeconds > 0 {
		downloadTimeout = time.Duration(cfg.DownloadTimeoutSeconds) * time.Second
	}

	return &Client{
		UserAgent:      cfg.UserAgent,
		NewsLimit:      int64(cfg.NewsLimit),
		newsClient:     &http.Client{Timeout: newsTimeout},
		downloadClient: &http.Client{Timeout: downloadTimeout},
	}
}

func (c *Client) newRequest(url string) (*http.Request, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "*/*")
	return req, nil
}

// FetchNews downloads the news text for a record, truncated to the
// configured limit. Failures are informational only; the caller degrades
// to an inline notice rather than surfacing an error dialog.
func (c *Client) FetchNews(url string) (string, error) {
	req, err := c.newRequest(url)
	if err != nil {
		return "", fmt.Errorf("failed to create news request: %w", err)
	}

	resp, err := c.newsClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("news request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("news request failed: status %d", resp.StatusCode)
	}

	limit := c.NewsLimit
	if limit <= 0 {
		limit = config.DefaultNewsLimit
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return "", fmt.Errorf("failed to read news body: %w", err)
	}
	return string(body), nil
}

// ApplyResult reports what an update produced on disk.
type ApplyResult struct {
	Archive   string
	Extracted []string
}

// FetchAndApply downloads the archive described by the spec and unpacks it
// into the target directory. Each step fails with its own error kind:
// *DownloadError for the transfer, *CorruptArchiveError for an unreadable
// archive, *ExtractError for a write failure or an unsafe entry path.
// Only the filesystem changes; the library document is never touched.
func (c *Client) FetchAndApply(log *zap.SugaredLogger, spec library.UpdateSpec) (*ApplyResult, error) {
	if err := c.download(log, spec.URL, spec.Dest); err != nil {
		return nil, err
	}

	if spec.ExtractTo == "" {
		// No extraction target: the download itself is the update.
		return &ApplyResult{Archive: spec.Dest}, nil
	}

	extracted, err := extractArchive(spec.Dest, spec.ExtractTo)
	if err != nil {
		return nil, err
	}

	log.Infow("Update applied",
		zap.String("archive", spec.Dest),
		zap.String("extract_to", spec.ExtractTo),
		zap.Int("files", len(extracted)),
	)
	return &ApplyResult{Archive: spec.Dest, Extracted: extracted}, nil
}

// download streams the resource at url into dest, overwriting any previous
// download. A failed transfer removes the partial file so a retry starts
// from scratch.
func (c *Client) download(log *zap.SugaredLogger, url, dest string) error {
	req, err := c.newRequest(url)
	if err != nil {
		return &DownloadError{URL: url, Err: err}
	}

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return &DownloadError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &DownloadError{URL: url, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return &DownloadError{URL: url, Err: err}
	}

	outFile, err := os.Create(dest)
	if err != nil {
		return &DownloadError{URL: url, Err: err}
	}

	written, err := io.Copy(outFile, resp.Body)
	if closeErr := outFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dest)
		return &DownloadError{URL: url, Err: err}
	}

	log.Infow("Downloaded archive",
		zap.String("url", url),
		zap.String("dest", dest),
		zap.Int64("bytes", written),
	)
	return nil
}

// IsSevenZip reports whether a destination path selects the 7z reader
// instead of the default ZIP reader.
func IsSevenZip(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".7z")
}
