package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/nao1215/offerscan/internal/keyword"
	"github.com/nao1215/offerscan/internal/model"
	"github.com/nao1215/offerscan/internal/textnorm"
)

// Default spider settings.
const (
	// DefaultMaxPages bounds worst-case latency and outbound requests per analysis.
	DefaultMaxPages = 5

	// DefaultDelay is the politeness gap between consecutive page fetches.
	DefaultDelay = 100 * time.Millisecond
)

// Spider runs a bounded breadth-first crawl of one site and classifies it.
//
// Design decision: All crawl state lives in a model.CrawlState created per
// Analyze call, so a Spider holds only read-only configuration and one
// Spider may serve concurrent analyses of different sites.
type Spider struct {
	// fetcher retrieves raw page content; failures come back as values.
	fetcher Fetcher

	// scorer matches keywords and applies the classification policy.
	scorer *keyword.Scorer

	// links discovers same-origin crawl candidates.
	links *LinkExtractor

	// maxPages limits the number of pages visited per analysis.
	maxPages int

	// delay is the minimum gap between consecutive fetches of one analysis.
	delay time.Duration

	// respectRobots enables robots.txt checks before enqueueing URLs.
	respectRobots bool

	// robotsAgent is the product token matched against robots.txt groups.
	robotsAgent string

	logger *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxPages sets the page budget. Non-positive values are ignored.
func WithMaxPages(maxPages int) SpiderOption {
	return func(s *Spider) {
		if maxPages > 0 {
			s.maxPages = maxPages
		}
	}
}

// WithDelay sets the delay between requests. Zero disables it.
func WithDelay(d time.Duration) SpiderOption {
	return func(s *Spider) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithScorer sets the keyword scorer.
func WithScorer(scorer *keyword.Scorer) SpiderOption {
	return func(s *Spider) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithLinkExtractor sets the link extractor.
func WithLinkExtractor(e *LinkExtractor) SpiderOption {
	return func(s *Spider) {
		if e != nil {
			s.links = e
		}
	}
}

// WithRespectRobots enables robots.txt compliance for the given User-Agent.
func WithRespectRobots(userAgent string) SpiderOption {
	return func(s *Spider) {
		s.respectRobots = true
		s.robotsAgent = robotsAgent(userAgent)
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a Spider using fetcher.
//
// Without WithScorer the spider classifies with keyword.PolicyImmediate:
// the first page with any match ends the crawl.
func NewSpider(fetcher Fetcher, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher:  fetcher,
		scorer:   keyword.NewScorer(keyword.WithPolicy(keyword.PolicyImmediate)),
		links:    NewLinkExtractor(),
		maxPages: DefaultMaxPages,
		delay:    DefaultDelay,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Analyze crawls the site at rawURL and returns its classification.
//
// The only errors are ErrInvalidURL, returned before any request is made,
// and context errors when ctx ends between page visits; in the latter case
// the partial NonUser result built so far is returned alongside.
//
// Evidence accumulates across pages: match counts are merged per keyword
// and the scorer's policy is applied to the merged set after every page.
// The first positive verdict ends the crawl with no further fetches.
func (s *Spider) Analyze(ctx context.Context, rawURL string) (*model.AnalysisResult, error) {
	seed, err := ParseSeed(rawURL)
	if err != nil {
		return nil, err
	}

	seedURL := seed.String()
	origin := Origin(seed)
	state := model.NewCrawlState(seedURL, s.maxPages)
	limiter := s.newLimiter()
	pages := make([]model.PageResult, 0, s.maxPages)
	evidence := make([]model.MatchRecord, 0)

	var robots *robotsPolicy
	if s.respectRobots {
		robots = loadRobots(ctx, s.fetcher, origin, s.robotsAgent)
		if !robots.allowed(seedURL) {
			s.logger.Info("seed disallowed by robots.txt", "url", seedURL)
			return exhausted(seedURL, state, pages), nil
		}
	}

	for state.HasNext() {
		if err := ctx.Err(); err != nil {
			return exhausted(seedURL, state, pages), err
		}

		if err := limiter.Wait(ctx); err != nil {
			return exhausted(seedURL, state, pages), err
		}

		pageURL, ok := state.Next()
		if !ok {
			break
		}

		page, markup := s.visit(ctx, pageURL)
		pages = append(pages, page)
		evidence = keyword.Merge(evidence, page.Matches)

		if s.scorer.Classify(evidence) == model.Proactive {
			s.logger.Info("financing evidence found",
				"seed", seedURL,
				"url", pageURL,
				"pages", state.VisitedCount(),
				"keywords", len(evidence),
			)
			return s.found(seedURL, pageURL, state, pages, evidence), nil
		}

		for _, link := range s.links.Extract(markup, pageURL, origin) {
			if robots.allowed(link) {
				state.Enqueue(link)
			}
		}
	}

	s.logger.Info("crawl exhausted without evidence",
		"seed", seedURL,
		"pages", state.VisitedCount(),
	)
	return exhausted(seedURL, state, pages), nil
}

// visit fetches, normalizes and scores one page.
// It returns the diagnostics and the raw markup for link extraction.
func (s *Spider) visit(ctx context.Context, pageURL string) (model.PageResult, string) {
	res := s.fetcher.Fetch(ctx, pageURL)
	if res.OK() && !redirectedOnSite(pageURL, res.FinalURL) {
		res.Err = fmt.Errorf("%w: %s", ErrCrossSiteRedirect, res.FinalURL)
		res.Body = ""
	}

	page := model.PageResult{
		URL:        pageURL,
		StatusCode: res.StatusCode,
	}
	if !res.OK() {
		page.FetchError = res.Err.Error()
		s.logger.Debug("fetch failed, treating page as empty",
			"url", pageURL,
			"status", res.StatusCode,
			"error", res.Err,
		)
	}

	text := textnorm.Normalize(res.Body)
	ev := s.scorer.Evaluate(text)

	page.NormalizedText = text
	page.Matches = ev.Matches
	page.ConfidenceContribution = ev.Confidence

	s.logger.Debug("page analyzed",
		"url", pageURL,
		"status", res.StatusCode,
		"matches", len(ev.Matches),
		"confidence", ev.Confidence,
	)

	return page, res.Body
}

// redirectedOnSite reports whether finalURL, where the fetch of pageURL
// ended, is on pageURL's site. An empty finalURL means no redirect
// information and counts as on site.
func redirectedOnSite(pageURL, finalURL string) bool {
	if finalURL == "" || finalURL == pageURL {
		return true
	}
	from, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	to, err := url.Parse(finalURL)
	if err != nil {
		return false
	}
	return SameSite(from, to)
}

// newLimiter returns a limiter spacing fetches of one analysis by s.delay.
// The first fetch proceeds immediately.
func (s *Spider) newLimiter() *rate.Limiter {
	if s.delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(s.delay), 1)
}

// found builds the Proactive result.
func (s *Spider) found(seedURL, triggeredURL string, state *model.CrawlState, pages []model.PageResult, evidence []model.MatchRecord) *model.AnalysisResult {
	triggered := triggeredURL
	return &model.AnalysisResult{
		SeedURL:         seedURL,
		Classification:  model.Proactive,
		Confidence:      s.scorer.Confidence(evidence),
		MatchedKeywords: evidence,
		CrawledPages:    state.Visited(),
		TriggeredURL:    &triggered,
		FullText:        fullText(pages),
		Outcome:         model.OutcomeFound,
		Pages:           pages,
	}
}

// exhausted builds the NonUser result. Sub-threshold evidence is dropped:
// a NonUser verdict never carries matches.
func exhausted(seedURL string, state *model.CrawlState, pages []model.PageResult) *model.AnalysisResult {
	return &model.AnalysisResult{
		SeedURL:         seedURL,
		Classification:  model.NonUser,
		Confidence:      0,
		MatchedKeywords: make([]model.MatchRecord, 0),
		CrawledPages:    state.Visited(),
		TriggeredURL:    nil,
		FullText:        fullText(pages),
		Outcome:         model.OutcomeExhausted,
		Pages:           pages,
	}
}

// fullText joins the normalized text of crawled pages, nil when none.
func fullText(pages []model.PageResult) *string {
	if len(pages) == 0 {
		return nil
	}
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.NormalizedText
	}
	joined := strings.Join(texts, "\n")
	return &joined
}
