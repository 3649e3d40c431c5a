package crawler

import (
	"context"
	"net/url"
	"strings"

	"github.com/temoto/robotstxt"
)

// robotsPolicy answers whether a path may be crawled under robots.txt.
// A nil policy allows everything.
type robotsPolicy struct {
	group *robotstxt.Group
}

// loadRobots fetches robots.txt for origin. Unreachable or missing files
// allow everything; server errors disallow everything, following
// robotstxt.FromStatusAndBytes.
func loadRobots(ctx context.Context, fetcher Fetcher, origin, agent string) *robotsPolicy {
	res := fetcher.Fetch(ctx, origin+"/robots.txt")
	if res.StatusCode == 0 {
		return nil
	}

	data, err := robotstxt.FromStatusAndBytes(res.StatusCode, []byte(res.Body))
	if err != nil {
		return nil
	}
	return &robotsPolicy{group: data.FindGroup(agent)}
}

// allowed reports whether pageURL may be fetched.
func (p *robotsPolicy) allowed(pageURL string) bool {
	if p == nil || p.group == nil {
		return true
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	target := u.EscapedPath()
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	return p.group.Test(target)
}

// robotsAgent derives the robots.txt product token from a User-Agent,
// e.g. "OfferScan/1.0 (+https://...)" becomes "OfferScan".
func robotsAgent(userAgent string) string {
	token, _, _ := strings.Cut(userAgent, "/")
	token, _, _ = strings.Cut(token, " ")
	if token == "" {
		return "*"
	}
	return token
}
