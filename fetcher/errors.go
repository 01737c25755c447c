package fetcher

import "fmt"

// DownloadError reports a failed transfer: network failure or a
// non-success HTTP status.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// CorruptArchiveError reports a downloaded file that is not a readable
// archive.
type CorruptArchiveError struct {
	Path string
	Err  error
}

func (e *CorruptArchiveError) Error() string {
	return fmt.Sprintf("archive %s is not readable: %v", e.Path, e.Err)
}

func (e *CorruptArchiveError) Unwrap() error { return e.Err }

// ExtractError reports a failed or rejected archive entry. Entries whose
// paths resolve outside the target directory are rejected, not written.
type ExtractError struct {
	Entry string
	Err   error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract entry %q: %v", e.Entry, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }
