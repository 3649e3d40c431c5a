package crawler

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// Default fetcher settings.
const (
	// DefaultUserAgent identifies OfferScan so site operators can recognize
	// and, if they wish, block the traffic.
	DefaultUserAgent = "OfferScan/1.0 (+https://github.com/nao1215/offerscan)"

	// DefaultMaxBodySize bounds how much of a response body is read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// FetchResult is the outcome of one page fetch.
// A failed fetch has an empty Body and a non-nil Err; it is data, not an
// error return, so one unreachable page never aborts a crawl.
type FetchResult struct {
	// URL is the requested URL.
	URL string

	// FinalURL is the URL that produced the response after redirects.
	// Empty when no response was received.
	FinalURL string

	// StatusCode is the HTTP status, 0 if no response was received.
	StatusCode int

	// ContentType is the media type of the response without parameters.
	ContentType string

	// Body is the response body, empty on failure.
	Body string

	// Err describes why the fetch produced no content.
	Err error
}

// OK reports whether the fetch produced content.
func (r FetchResult) OK() bool {
	return r.Err == nil
}

// Fetcher retrieves raw page content.
// Implementations must never panic or block past ctx for network failures;
// every failure is reported through FetchResult.Err.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) FetchResult
}

// HTTPFetcher fetches pages over HTTP using a preconfigured client.
// The client's Timeout bounds each request.
type HTTPFetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the maximum number of body bytes read per response.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// NewHTTPFetcher creates an HTTPFetcher around client.
//
// Design decision: We require an external client so that timeout, proxy
// and site headers are configured in one place by the transport package,
// and tests can hand in httptest clients.
func NewHTTPFetcher(client *http.Client, opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:      client,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch performs a GET request. Timeouts, DNS and TLS failures, refused
// connections, non-2xx statuses and non-text content all yield an empty
// body with Err set.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) FetchResult {
	result := FetchResult{URL: pageURL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		result.Err = err
		return result
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		result.Err = err
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	if resp.Request != nil && resp.Request.URL != nil {
		result.FinalURL = resp.Request.URL.String()
	}
	result.ContentType = mediaType(resp.Header.Get("Content-Type"))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		result.Err = fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		return result
	}
	if !isTextual(result.ContentType) {
		result.Err = fmt.Errorf("%w: %s", ErrUnsupportedContentType, result.ContentType)
		return result
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		result.Err = err
		return result
	}

	result.Body = string(body)
	return result
}

// mediaType strips parameters such as charset from a Content-Type value.
func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	return mt
}

// isTextual reports whether a media type can carry analyzable text.
// A missing Content-Type is treated as HTML.
func isTextual(mt string) bool {
	switch mt {
	case "", "text/html", "application/xhtml+xml", "text/plain":
		return true
	default:
		return false
	}
}
