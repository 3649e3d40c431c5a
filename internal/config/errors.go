package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoTarget is returned when no seed URL or list file is specified.
	ErrNoTarget = errors.New("no target specified: provide a URL or use --list")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxPages is returned when the page budget is not positive.
	// A budget of zero would never fetch the seed.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidThreshold is returned when the distinct-match threshold is below one.
	ErrInvalidThreshold = errors.New("invalid threshold: must be at least 1")

	// ErrInvalidPolicy is returned for an unknown classification policy name.
	ErrInvalidPolicy = errors.New("invalid policy: must be immediate or threshold")

	// ErrInvalidMatchMode is returned for an unknown match mode name.
	ErrInvalidMatchMode = errors.New("invalid match mode: must be substring or word")

	// ErrInvalidWeight is returned when a keyword weight lies outside [0, 1].
	ErrInvalidWeight = errors.New("invalid weight: must be between 0 and 1")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidTextLimit is returned when the text preview limit is negative.
	ErrInvalidTextLimit = errors.New("invalid text limit: must be non-negative")
)
