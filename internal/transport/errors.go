package transport

import "errors"

var (
	// ErrInvalidProxyURL is returned when the proxy URL cannot be parsed
	// or uses an unsupported scheme.
	ErrInvalidProxyURL = errors.New("invalid proxy URL: expected socks5://, http:// or https://")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")
)
