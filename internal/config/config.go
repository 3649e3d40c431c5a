package config

import (
	"math"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/offerscan/internal/crawler"
	"github.com/nao1215/offerscan/internal/keyword"
)

// Default configuration values.
const (
	// DefaultTimeout bounds each page fetch. Ten seconds keeps one slow
	// page from stalling an analysis for long.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxPages is the page budget per analysis.
	DefaultMaxPages = crawler.DefaultMaxPages

	// DefaultCrawlDelay is the politeness delay between fetches of one site.
	DefaultCrawlDelay = crawler.DefaultDelay

	// DefaultUserAgent identifies OfferScan in HTTP requests.
	DefaultUserAgent = crawler.DefaultUserAgent

	// DefaultMaxBodySize limits the response body size to read.
	DefaultMaxBodySize = crawler.DefaultMaxBodySize

	// DefaultThreshold is the distinct-match count for the threshold policy.
	DefaultThreshold = keyword.DefaultThreshold

	// DefaultPolicy ends a crawl on the first page with any match.
	DefaultPolicy = "immediate"

	// DefaultMatchMode counts plain substrings.
	DefaultMatchMode = "substring"

	// DefaultBatchSize is the number of sites analyzed concurrently.
	// Each analysis is already rate limited, so a small pool is enough.
	DefaultBatchSize = 4

	// DefaultTextLimit is the number of runes of page text shown with --show-text.
	DefaultTextLimit = 2000

	// AppName is the application name used for XDG directory paths.
	AppName = "offerscan"
)

// Config holds all configuration options for OfferScan.
// This struct is populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ScoreConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Timeout is the per-request timeout.
	Timeout time.Duration

	// MaxPages is the page budget per analysis, seed included.
	MaxPages int

	// CrawlDelay is the delay between HTTP requests of one analysis.
	CrawlDelay time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// ProxyURL routes traffic through an http(s) or socks5 proxy when set.
	ProxyURL string

	// RespectRobots enables robots.txt checks.
	RespectRobots bool

	// DenySegments replaces the default link deny-list when non-empty.
	DenySegments []string

	// Policy is the classification policy name: "immediate" or "threshold".
	Policy string

	// Threshold is the distinct-match count that makes a site Proactive
	// under the threshold policy.
	Threshold int

	// MatchMode is "substring" or "word".
	MatchMode string

	// HighWeight is the per-occurrence score of a high-confidence keyword.
	HighWeight float64

	// StandardWeight is the per-occurrence score of a standard keyword.
	StandardWeight float64

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of concurrent analyses when processing
	// multiple targets.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the config file.
	SiteConfigs *File

	// JSONReport enables JSON report output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// ShowText includes the normalized page text in the report.
	ShowText bool

	// TextLimit truncates the text shown with ShowText, 0 for no limit.
	TextLimit int

	// Targets is the list of seed URLs to analyze.
	Targets []string

	// MaxPagesFromFlag reports whether MaxPages was set on the command line,
	// in which case it wins over the config file.
	MaxPagesFromFlag bool

	// DenySegmentsFromFlag reports whether DenySegments was set on the
	// command line, in which case it wins over the config file.
	DenySegmentsFromFlag bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, weights).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:        DefaultTimeout,
		MaxPages:       DefaultMaxPages,
		CrawlDelay:     DefaultCrawlDelay,
		UserAgent:      DefaultUserAgent,
		MaxBodySize:    DefaultMaxBodySize,
		Policy:         DefaultPolicy,
		Threshold:      DefaultThreshold,
		MatchMode:      DefaultMatchMode,
		HighWeight:     keyword.DefaultHighWeight,
		StandardWeight: keyword.DefaultStandardWeight,
		BatchSize:      DefaultBatchSize,
		TextLimit:      DefaultTextLimit,
	}
}

// XDGConfigDir returns the XDG config directory for OfferScan.
// On Linux: ~/.config/offerscan
// On macOS: ~/Library/Application Support/offerscan
// On Windows: %APPDATA%\offerscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// We return the first error found because fixing one error often makes
// others irrelevant.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}

	if c.Threshold < 1 {
		return ErrInvalidThreshold
	}

	if _, err := keyword.ParsePolicy(c.Policy); err != nil {
		return ErrInvalidPolicy
	}

	if _, err := keyword.ParseMatchMode(c.MatchMode); err != nil {
		return ErrInvalidMatchMode
	}

	if !validWeight(c.HighWeight) || !validWeight(c.StandardWeight) {
		return ErrInvalidWeight
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.TextLimit < 0 {
		return ErrInvalidTextLimit
	}

	return nil
}

// ScorerOptions converts the scoring settings into keyword.Scorer options.
// Call Validate first; unknown names fall back to the scorer defaults.
func (c *Config) ScorerOptions() []keyword.Option {
	opts := []keyword.Option{
		keyword.WithWeights(c.HighWeight, c.StandardWeight),
		keyword.WithThreshold(c.Threshold),
	}
	if p, err := keyword.ParsePolicy(c.Policy); err == nil {
		opts = append(opts, keyword.WithPolicy(p))
	}
	if m, err := keyword.ParseMatchMode(c.MatchMode); err == nil {
		opts = append(opts, keyword.WithMatchMode(m))
	}
	return opts
}

// SiteSettings returns the effective per-site settings for host.
// Config file defaults and the host's entry are layered in that order;
// MaxPages and DenySegments given on the command line win over both.
func (c *Config) SiteSettings(host string) SiteConfig {
	site := SiteConfig{}
	if c.SiteConfigs != nil {
		site = c.SiteConfigs.GetSiteConfig(host)
	}

	if c.MaxPagesFromFlag || site.MaxPages <= 0 {
		site.MaxPages = c.MaxPages
	}
	if c.DenySegmentsFromFlag || (len(site.DenySegments) == 0 && len(c.DenySegments) > 0) {
		site.DenySegments = c.DenySegments
	}
	return site
}

// validWeight reports whether w is a finite value in [0, 1].
func validWeight(w float64) bool {
	return !math.IsNaN(w) && w >= 0 && w <= 1
}

// HostKey returns the lookup key of a host in the sites map:
// lowercase, without the "www." prefix.
func HostKey(host string) string {
	return crawler.HostKey(host)
}
