package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/V1K1NGM4N/file-converter-buddy/app/config"
)

// ErrAllAttemptsFailed is the terminal fetch error: every direct attempt
// and every proxy in the chain has been exhausted. It is not retried; the
// caller should supply the feed content directly instead of a URL.
var ErrAllAttemptsFailed = errors.New("unable to fetch the feed URL; paste the feed content directly instead")

// DefaultUserAgent mimics a desktop browser. Many product-feed hosts refuse
// requests that do not look like one.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Cache is an optional store of previously fetched bodies, consulted before
// the network and written after a successful fetch.
type Cache interface {
	Get(url string) ([]byte, bool, error)
	Put(url string, body []byte) error
}

// Fetcher retrieves remote feeds despite cross-origin restrictions and
// transient failures. Attempts are strictly sequential: direct requests
// with exponential backoff first, then each configured proxy relay in
// order, returning on the first success with no further calls issued.
type Fetcher struct {
	client    *http.Client
	profile   *config.FetchProfile
	cache     Cache
	userAgent string
}

func New(profile *config.FetchProfile, userAgent string, cache Cache) *Fetcher {
	if profile == nil {
		profile = config.DefaultProfile()
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Fetcher{
		client:    &http.Client{},
		profile:   profile,
		cache:     cache,
		userAgent: userAgent,
	}
}

// Fetch runs the full attempt state machine for one URL.
func (f *Fetcher) Fetch(ctx context.Context, target string) ([]byte, error) {
	if _, err := url.ParseRequestURI(target); err != nil {
		return nil, fmt.Errorf("invalid feed URL: %w", err)
	}

	if f.cache != nil {
		if body, ok, err := f.cache.Get(target); err != nil {
			slog.Warn("Fetch cache read failed", "url", target, "error", err)
		} else if ok {
			slog.Debug("Fetch cache hit", "url", target, "bytes", len(body))
			return body, nil
		}
	}

	body, err := f.fetchWithRetries(ctx, target)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if err := f.cache.Put(target, body); err != nil {
			slog.Warn("Fetch cache write failed", "url", target, "error", err)
		}
	}

	return body, nil
}

func (f *Fetcher) fetchWithRetries(ctx context.Context, target string) ([]byte, error) {
	directTimeout := time.Duration(f.profile.DirectTimeout) * time.Second

	var lastErr error

	for attempt := 0; attempt < f.profile.MaxRetries; attempt++ {
		body, err := f.attempt(ctx, target, directTimeout)
		if err == nil {
			return body, nil
		}
		lastErr = err
		slog.Debug("Direct fetch attempt failed", "url", target, "attempt", attempt+1, "error", err)

		if attempt+1 < f.profile.MaxRetries {
			if err := f.backoff(ctx, attempt); err != nil {
				return nil, err
			}
		}
	}

	proxyTimeout := time.Duration(f.profile.ProxyTimeout) * time.Second

	for p, proxyBase := range f.profile.Proxies {
		proxied := proxyBase + url.QueryEscape(target)

		for attempt := 0; attempt < f.profile.MaxRetries; attempt++ {
			body, err := f.attempt(ctx, proxied, proxyTimeout)
			if err == nil {
				slog.Debug("Proxy fetch succeeded", "url", target, "proxy", p)
				return body, nil
			}
			lastErr = err
			slog.Debug("Proxy fetch attempt failed", "url", target, "proxy", p, "attempt", attempt+1, "error", err)

			if attempt+1 < f.profile.MaxRetries {
				if err := f.backoff(ctx, attempt); err != nil {
					return nil, err
				}
			}
		}
	}

	return nil, fmt.Errorf("%w (last error: %v)", ErrAllAttemptsFailed, lastErr)
}

// attempt issues a single GET with the spoofed browser headers.
func (f *Fetcher) attempt(ctx context.Context, target string, timeout time.Duration) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/xml, application/json, text/csv, text/html, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

// backoff waits 2^attempt times the base delay, honoring cancellation.
func (f *Fetcher) backoff(ctx context.Context, attempt int) error {
	delay := time.Duration(f.profile.BackoffBase<<uint(attempt)) * time.Second
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
