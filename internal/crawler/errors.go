package crawler

import "errors"

var (
	// ErrInvalidURL is returned by Analyze when the seed URL is malformed.
	// No network activity happens before this check.
	ErrInvalidURL = errors.New("invalid seed URL")

	// ErrUnexpectedStatus is recorded on a FetchResult for non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrCrossSiteRedirect is recorded on a page whose redirects ended on
	// another site. Its content is not analyzed.
	ErrCrossSiteRedirect = errors.New("redirected to another site")

	// ErrUnsupportedContentType is recorded on a FetchResult when the
	// response is not textual markup.
	ErrUnsupportedContentType = errors.New("unsupported content type")
)
