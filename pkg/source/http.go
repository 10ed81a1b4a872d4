package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/gikai-lab/minutes-engine/pkg/retry"
)

// maxBodyBytes caps transcript downloads at 64 MiB.
const maxBodyBytes = 64 << 20

// HTTPFetcher downloads sources over http/https with backoff on transient
// failures. Other URI schemes come back unavailable.
type HTTPFetcher struct {
	client *http.Client
	retry  *retry.Config
	logger *zap.Logger
}

// NewHTTPFetcher creates an HTTP fetcher. A zero timeout defaults to 30s;
// retryCfg nil uses retry.DefaultConfig.
func NewHTTPFetcher(timeout time.Duration, retryCfg *retry.Config, logger *zap.Logger) *HTTPFetcher {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if retryCfg == nil {
		retryCfg = retry.DefaultConfig()
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
		retry:  retryCfg,
		logger: logger.Named("fetcher"),
	}
}

// Download implements Fetcher.
func (f *HTTPFetcher) Download(ctx context.Context, uri string) (FetchResult, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return NotAvailable(fmt.Sprintf("invalid uri: %v", err)), nil
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return NotAvailable(fmt.Sprintf("unsupported scheme %q", parsed.Scheme)), nil
	}

	var body []byte
	var permanent string // non-empty: stop retrying, source is unavailable

	err = retry.Do(ctx, f.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			permanent = fmt.Sprintf("build request: %v", err)
			return nil
		}

		resp, err := f.client.Do(req)
		if err != nil {
			f.logger.Warn("Download attempt failed", zap.String("uri", uri), zap.Error(err))
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			if err != nil {
				return err
			}
			body = data
			return nil
		case resp.StatusCode >= 500:
			// Server-side hiccup, worth another attempt.
			return fmt.Errorf("status %d", resp.StatusCode)
		default:
			permanent = fmt.Sprintf("status %d", resp.StatusCode)
			return nil
		}
	})

	if ctx.Err() != nil {
		return FetchResult{}, ctx.Err()
	}
	if permanent != "" {
		return NotAvailable(permanent), nil
	}
	if err != nil {
		// Transient failures exhausted retries: the source could not be
		// obtained right now. Callers count this as skipped, not failed.
		return NotAvailable(fmt.Sprintf("transient: %v", err)), nil
	}

	f.logger.Debug("Downloaded source", zap.String("uri", uri), zap.Int("bytes", len(body)))
	return Fetched(body), nil
}
