package crawler

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// DefaultDenySegments are path keywords for pages that never advertise
// financing but burn crawl budget.
var DefaultDenySegments = []string{
	"blog", "news", "about", "privacy", "terms", "career",
	"admin", "login", "signin", "account", "press", "legal",
	"cookie", "sitemap",
}

// assetExtensions are file extensions of binary or media resources.
var assetExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".svg": true, ".ico": true, ".bmp": true, ".tif": true, ".tiff": true,
	".avif": true, ".pdf": true, ".zip": true, ".rar": true, ".gz": true,
	".tgz": true, ".tar": true, ".7z": true, ".bz2": true, ".xz": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true, ".wmv": true,
	".webm": true, ".wav": true, ".ogg": true, ".doc": true, ".docx": true,
	".xls": true, ".xlsx": true, ".ppt": true, ".pptx": true, ".exe": true,
	".dmg": true, ".css": true, ".js": true, ".json": true, ".xml": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
}

// LinkExtractor discovers same-origin crawl candidates in page markup.
// It is immutable after construction and safe for concurrent use.
type LinkExtractor struct {
	denySegments []string
}

// LinkOption configures a LinkExtractor.
type LinkOption func(*LinkExtractor)

// WithDenySegments replaces the default path deny-list.
// Keywords are compared case-insensitively against path tokens.
func WithDenySegments(segments []string) LinkOption {
	return func(e *LinkExtractor) {
		e.denySegments = make([]string, 0, len(segments))
		for _, s := range segments {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				e.denySegments = append(e.denySegments, s)
			}
		}
	}
}

// NewLinkExtractor creates a LinkExtractor with the default deny-list.
func NewLinkExtractor(opts ...LinkOption) *LinkExtractor {
	e := &LinkExtractor{denySegments: DefaultDenySegments}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the normalized absolute URLs linked from markup that
// share origin with the crawl, in order of first appearance.
// Relative references resolve against pageURL. Asset links and links whose
// path hits the deny-list are dropped. Unparsable input yields no links.
func (e *LinkExtractor) Extract(markup, pageURL, origin string) []string {
	links := make([]string, 0)

	base, err := url.Parse(pageURL)
	if err != nil || markup == "" {
		return links
	}

	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return links
	}

	seen := make(map[string]bool)
	goquery.NewDocumentFromNode(root).Find("a[href], area[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		resolved := resolveURL(base, href)
		if resolved == nil {
			return
		}
		if Origin(resolved) != origin {
			return
		}
		if isAsset(resolved.Path) || e.isDenied(resolved.Path) {
			return
		}
		link := NormalizeURL(resolved)
		if seen[link] {
			return
		}
		seen[link] = true
		links = append(links, link)
	})

	return links
}

// resolveURL resolves href against base, returning nil for references
// that cannot lead to a crawlable page.
func resolveURL(base *url.URL, href string) *url.URL {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return nil
	}

	lower := strings.ToLower(href)
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:", "sms:"} {
		if strings.HasPrefix(lower, prefix) {
			return nil
		}
	}

	u, err := url.Parse(href)
	if err != nil {
		return nil
	}

	resolved := base.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return nil
	}
	return resolved
}

// isAsset reports whether p ends in a binary or media file extension.
func isAsset(p string) bool {
	return assetExtensions[strings.ToLower(path.Ext(p))]
}

// isDenied reports whether any path token equals a deny keyword or its
// plural. Tokens are split on "/", "-", "_" and ".", so "/about-us"
// matches "about" and "/careers" matches "career".
func (e *LinkExtractor) isDenied(p string) bool {
	if len(e.denySegments) == 0 {
		return false
	}
	tokens := strings.FieldsFunc(strings.ToLower(p), func(r rune) bool {
		return r == '/' || r == '-' || r == '_' || r == '.'
	})
	for _, tok := range tokens {
		for _, kw := range e.denySegments {
			if tok == kw || tok == kw+"s" {
				return true
			}
		}
	}
	return false
}
