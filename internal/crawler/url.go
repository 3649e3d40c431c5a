package crawler

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
)

// nonHierarchicalScheme matches inputs such as "mailto:x" or "javascript:x"
// that carry a scheme but no authority. A colon followed by a digit is a
// port ("localhost:8080"), not a scheme.
var nonHierarchicalScheme = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:[^0-9]`)

// ParseSeed validates a seed URL and returns it normalized.
// Inputs without a scheme get https:// prepended. Anything that is not an
// absolute http(s) URL with a host is rejected with ErrInvalidURL.
func ParseSeed(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}

	if !strings.Contains(raw, "://") {
		if nonHierarchicalScheme.MatchString(raw) {
			return nil, fmt.Errorf("%w: %q is not an http(s) URL", ErrInvalidURL, raw)
		}
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host in %q", ErrInvalidURL, raw)
	}

	normalized, err := url.Parse(NormalizeURL(u))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	return normalized, nil
}

// NormalizeURL returns the canonical string form of u used for
// deduplication: lowercase scheme and host, default port removed,
// fragment dropped and an empty path turned into "/".
func NormalizeURL(u *url.URL) string {
	c := *u
	c.Fragment = ""
	c.RawFragment = ""
	c.Scheme = strings.ToLower(c.Scheme)
	c.Host = canonicalHost(c.Scheme, c.Host)
	if c.Path == "" {
		c.Path = "/"
		c.RawPath = ""
	}
	return c.String()
}

// Origin returns scheme://host of u in canonical form.
func Origin(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	return scheme + "://" + canonicalHost(scheme, u.Host)
}

// HostKey returns the site identity of a host: lowercase, without the
// "www." prefix. It keeps any port it is given.
func HostKey(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// SameSite reports whether a and b belong to one site: equal host keys
// once default ports are dropped. Scheme is ignored so an http to https
// upgrade stays on the site.
func SameSite(a, b *url.URL) bool {
	return HostKey(siteHost(a)) == HostKey(siteHost(b))
}

// siteHost is u's host with the scheme's default port removed.
func siteHost(u *url.URL) string {
	return canonicalHost(strings.ToLower(u.Scheme), u.Host)
}

// canonicalHost lowercases host and strips the scheme's default port.
func canonicalHost(scheme, host string) string {
	host = strings.ToLower(host)
	h, port, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		if strings.Contains(h, ":") {
			return "[" + h + "]"
		}
		return h
	}
	return host
}
