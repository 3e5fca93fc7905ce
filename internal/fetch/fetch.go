// Package fetch retrieves raw web page content for the detection pipeline.
// Each fetch is a single HTTP GET with a scoped connection lifetime; retry
// behavior is governed by an explicit policy so that tightening it later is a
// configuration change rather than a rewrite.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; Skillcast/1.0)"

// RetryPolicy controls how many times a fetch is attempted and how long to
// wait between attempts.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultPolicy is the baseline policy: one attempt, no backoff. A slow or
// failing origin server causes the URL to be skipped by the caller.
func DefaultPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 1, Backoff: 0}
}

// Result holds the raw content from a URL fetch.
type Result struct {
	URL         string
	Body        string
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	UserAgent string
	Headers   map[string]string
	Policy    RetryPolicy
}

// DefaultOptions returns the baseline fetch configuration.
func DefaultOptions() *Options {
	return &Options{
		UserAgent: DefaultUserAgent,
		Policy:    DefaultPolicy(),
	}
}

// URL retrieves the raw content of a URL. No timeout is enforced; a stalled
// origin stalls this call until the context is canceled. The response body is
// closed regardless of outcome. Non-2xx responses return both the Result and
// an *Error so the caller can log the status.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	policy := opts.Policy
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{
			URL:     urlStr,
			Message: "invalid URL",
			Cause:   err,
		}
	}

	var result *Result
	var lastErr error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if attempt > 0 && policy.Backoff > 0 {
			select {
			case <-ctx.Done():
				return nil, &Error{URL: urlStr, Message: "canceled", Cause: ctx.Err()}
			case <-time.After(policy.Backoff):
			}
		}

		result, lastErr = fetchOnce(ctx, urlStr, opts)
		if lastErr == nil {
			return result, nil
		}
	}

	return result, lastErr
}

func fetchOnce(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	// Redirects follow the client library's defaults.
	client := &http.Client{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	req.Header.Set("User-Agent", opts.UserAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to read response body",
			Cause:   err,
		}
	}

	result := &Result{
		URL:         urlStr,
		Body:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &Error{
			URL:     urlStr,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	return result, nil
}
