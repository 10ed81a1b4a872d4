// Package source fetches transcript text blobs for ingestion.
package source

import "context"

// FetchResult is the typed outcome of a download attempt. Exactly one of
// the two cases holds: the body was fetched, or the source is unavailable
// with a reason. "Could not fetch" is an ordinary outcome the caller must
// handle, not an error.
type FetchResult struct {
	Body        []byte
	Unavailable bool
	Reason      string // set when Unavailable
}

// Fetched builds the success case.
func Fetched(body []byte) FetchResult {
	return FetchResult{Body: body}
}

// NotAvailable builds the unavailable case.
func NotAvailable(reason string) FetchResult {
	return FetchResult{Unavailable: true, Reason: reason}
}

// Fetcher downloads a source document. The error return is reserved for
// caller mistakes and context cancellation; a source that cannot be
// obtained comes back as an Unavailable result.
type Fetcher interface {
	Download(ctx context.Context, uri string) (FetchResult, error)
}

// MockFetcher is a configurable mock for tests.
type MockFetcher struct {
	// DownloadFunc is called when Download is invoked. If nil, returns an
	// unavailable result.
	DownloadFunc func(ctx context.Context, uri string) (FetchResult, error)

	DownloadCalls int
}

// Download implements Fetcher.
func (m *MockFetcher) Download(ctx context.Context, uri string) (FetchResult, error) {
	m.DownloadCalls++
	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, uri)
	}
	return NotAvailable("mock: no download configured"), nil
}

var (
	_ Fetcher = (*HTTPFetcher)(nil)
	_ Fetcher = (*MockFetcher)(nil)
)
