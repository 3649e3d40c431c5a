// Package transport builds the outbound HTTP client used for crawling.
//
// The client carries the per-request timeout, an optional egress proxy
// (SOCKS5 via golang.org/x/net/proxy, or HTTP/HTTPS via the standard
// transport), and a RoundTripper that injects site-specific headers and
// cookies into every request, redirects included. The client identity
// header is set by the crawler's fetcher.
package transport
