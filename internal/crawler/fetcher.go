package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Fetcher retrieves the raw markup of a page.
type Fetcher interface {
	Fetch(ctx context.Context, targetURL string) ([]byte, error)
}

// FetchError is returned once every attempt for a URL has failed.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// HTTPFetcher performs a single GET with a fixed timeout and user agent.
type HTTPFetcher struct {
	UserAgent string
	Client    *http.Client
}

func NewHTTPFetcher(userAgent string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		UserAgent: userAgent,
		Client:    &http.Client{Timeout: timeout},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// RetryFetcher wraps a Fetcher with a bounded number of immediate retries.
type RetryFetcher struct {
	Next    Fetcher
	Retries int
	Logger  *log.Logger
}

func NewRetryFetcher(next Fetcher, retries int, logger *log.Logger) *RetryFetcher {
	return &RetryFetcher{Next: next, Retries: retries, Logger: logger}
}

// Fetch tries Retries+1 times with no delay between attempts.
func (f *RetryFetcher) Fetch(ctx context.Context, targetURL string) ([]byte, error) {
	attempts := f.Retries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			f.Logger.Warn(fmt.Sprintf("Retrying... (%d)", attempt-1), "url", targetURL, "err", lastErr)
		}
		f.Logger.Info("fetching", "url", targetURL, "attempt", attempt)

		body, err := f.Next.Fetch(ctx, targetURL)
		if err == nil {
			f.Logger.Info("Fetched data successfully", "url", targetURL, "attempt", attempt, "bytes", len(body))
			return body, nil
		}
		lastErr = err
	}

	return nil, &FetchError{URL: targetURL, Attempts: attempts, Err: lastErr}
}
