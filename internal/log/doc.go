// Package log builds the slog loggers used by OfferScan.
//
// Site entries in the config file may carry cookies and authorization
// headers, and crawled URLs may carry tokens in their query strings.
// SecureHandler wraps any slog.Handler and masks such values before they
// reach the output:
//   - attributes whose key names a credential (cookie, authorization, token, ...)
//   - values shaped like credentials (bearer and basic auth, JWTs, long keys)
//   - credential query parameters and userinfo passwords inside URLs
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Debug("fetch", "url", "https://shop.example/?token=abc")
//	// url=https://shop.example/?token=***REDACTED***
package log
