package transport

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/proxy"

	"github.com/nao1215/offerscan/internal/crawler"
)

// maxRedirects bounds redirect chains so a looping site cannot stall a crawl.
const maxRedirects = 10

// Options configures NewClient.
type Options struct {
	// Timeout bounds each request including reading the body.
	Timeout time.Duration

	// ProxyURL optionally routes traffic through a proxy.
	// Supported schemes: socks5, socks5h, http, https. Empty means direct.
	ProxyURL string

	// Host is the site the Cookie and Headers belong to. They are only
	// sent to requests whose host has the same key, so a redirect to
	// another host does not receive them. Empty sends them everywhere.
	Host string

	// Cookie is a raw Cookie header value sent to Host.
	Cookie string

	// Headers are extra request headers sent to Host.
	Headers map[string]string
}

// NewClient creates an HTTP client for crawling.
//
// Design decision: We inject site headers in a RoundTripper rather than
// on each request so redirects within the site carry them too.
func NewClient(opts Options) (*http.Client, error) {
	if opts.Timeout <= 0 {
		return nil, ErrInvalidTimeout
	}

	base := &http.Transport{
		Proxy:               nil,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: opts.Timeout,
	}

	if opts.ProxyURL != "" {
		if err := configureProxy(base, opts.ProxyURL); err != nil {
			return nil, err
		}
	}

	// cookiejar.New only fails with invalid options
	jar, _ := cookiejar.New(nil) //nolint:errcheck

	return &http.Client{
		Transport: &headerInjectingTransport{
			base:    base,
			hostKey: crawler.HostKey(opts.Host),
			cookie:  opts.Cookie,
			headers: opts.Headers,
		},
		Timeout: opts.Timeout,
		Jar:     jar,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// configureProxy points the transport at the given proxy.
func configureProxy(t *http.Transport, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidProxyURL, rawURL)
	}

	switch u.Scheme {
	case "http", "https":
		t.Proxy = http.ProxyURL(u)
		return nil
	case "socks5", "socks5h":
		dialer, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidProxyURL, err)
		}
		t.DialContext = contextDialer(dialer)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidProxyURL, rawURL)
	}
}

// contextDialer adapts a proxy.Dialer to the DialContext signature,
// using the dialer's own context support when it has one.
func contextDialer(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		type dialResult struct {
			conn net.Conn
			err  error
		}
		resultCh := make(chan dialResult, 1)
		go func() {
			conn, err := d.Dial(network, addr)
			resultCh <- dialResult{conn, err}
		}()
		select {
		case r := <-resultCh:
			return r.conn, r.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// headerInjectingTransport wraps an http.RoundTripper to inject
// custom headers and cookies into requests for one site.
type headerInjectingTransport struct {
	base    http.RoundTripper
	hostKey string
	cookie  string
	headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.hostKey != "" && crawler.HostKey(req.URL.Hostname()) != t.hostKey {
		return t.base.RoundTrip(req)
	}

	clone := req.Clone(req.Context())

	if t.cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+t.cookie)
		} else {
			clone.Header.Set("Cookie", t.cookie)
		}
	}

	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}
