package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/offerscan/internal/config"
	"github.com/nao1215/offerscan/internal/crawler"
	"github.com/nao1215/offerscan/internal/keyword"
	applog "github.com/nao1215/offerscan/internal/log"
	"github.com/nao1215/offerscan/internal/model"
	"github.com/nao1215/offerscan/internal/pipeline"
	"github.com/nao1215/offerscan/internal/report"
	"github.com/nao1215/offerscan/internal/transport"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [url...]",
		Short: "Classify websites by their financing and quote offers",
		Long: `Analyze crawls each website breadth-first from the given URL and reports
whether it proactively advertises financing or quotes.

The crawl stays on the seed's origin and visits at most --max-pages pages.
It stops at the first page that makes the evidence sufficient.

Examples:
  # Analyze a single site
  offerscan analyze https://shop.example.com

  # URLs without a scheme default to https
  offerscan analyze shop.example.com

  # Analyze several sites, four at a time
  offerscan analyze --batch 4 site1.example site2.example site3.example

  # Read targets from a file, one URL per line
  offerscan analyze --list sites.txt --json -o report.json

  # Require two distinct keywords across the crawl
  offerscan analyze --policy threshold --threshold 2 shop.example.com

Configuration file (.offerscan) example:
  defaults:
    maxPages: 8
  sites:
    shop.example.com:
      cookie: "session_id=abc123"
      headers:
        Accept-Language: "en-US"
      denySegments: ["blog", "careers"]`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyzeCmd,
	}

	// Crawl behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to crawl per site, seed included")
	cmd.Flags().Duration("delay", config.DefaultCrawlDelay,
		"Delay between requests to the same site")
	cmd.Flags().StringP("user-agent", "A", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().StringP("proxy", "x", "",
		"Proxy URL (http, https, socks5 or socks5h)")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes")
	cmd.Flags().StringSlice("deny", nil,
		"Path keywords of links not to follow (replaces the default list)")
	cmd.Flags().Bool("respect-robots", false,
		"Skip pages disallowed by robots.txt")

	// Classification flags
	cmd.Flags().StringP("policy", "P", config.DefaultPolicy,
		"Classification policy: immediate or threshold")
	cmd.Flags().IntP("threshold", "n", config.DefaultThreshold,
		"Distinct keywords required by the threshold policy")
	cmd.Flags().StringP("match-mode", "M", config.DefaultMatchMode,
		"Keyword matching: substring or word")
	cmd.Flags().Float64("high-weight", keyword.DefaultHighWeight,
		"Score per occurrence of a high-confidence keyword")
	cmd.Flags().Float64("standard-weight", keyword.DefaultStandardWeight,
		"Score per occurrence of a standard keyword")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent analyses")
	cmd.Flags().StringP("list", "l", "",
		"File with one target URL per line (# starts a comment)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .offerscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("show-text", false,
		"Include the normalized page text in the report")
	cmd.Flags().Int("text-limit", config.DefaultTextLimit,
		"Maximum number of characters of page text shown, 0 for no limit")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg.Verbose)

	// Cancel the crawl on interrupt; the spider stops between page visits.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runAnalyze(ctx, cmd, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the secure structured logger writing to stderr.
func setupLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	jsonLogs, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		jsonLogs = false
	}
	if jsonLogs {
		return applog.NewSecureJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return applog.NewSecureLogger(cmd.ErrOrStderr(), verbose)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error

	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
		return nil, err
	}
	cfg.MaxPagesFromFlag = flags.Changed("max-pages")
	if cfg.CrawlDelay, err = flags.GetDuration("delay"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.ProxyURL, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
		return nil, err
	}
	if cfg.DenySegments, err = flags.GetStringSlice("deny"); err != nil {
		return nil, err
	}
	cfg.DenySegmentsFromFlag = flags.Changed("deny")
	if cfg.RespectRobots, err = flags.GetBool("respect-robots"); err != nil {
		return nil, err
	}

	if cfg.Policy, err = flags.GetString("policy"); err != nil {
		return nil, err
	}
	if cfg.Threshold, err = flags.GetInt("threshold"); err != nil {
		return nil, err
	}
	if cfg.MatchMode, err = flags.GetString("match-mode"); err != nil {
		return nil, err
	}
	if cfg.HighWeight, err = flags.GetFloat64("high-weight"); err != nil {
		return nil, err
	}
	if cfg.StandardWeight, err = flags.GetFloat64("standard-weight"); err != nil {
		return nil, err
	}

	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}

	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}

	// If the user named a config file, it must exist. Otherwise an
	// absent file just means no site-specific settings.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.ShowText, err = flags.GetBool("show-text"); err != nil {
		return nil, err
	}
	if cfg.TextLimit, err = flags.GetInt("text-limit"); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	listPath, err := flags.GetString("list")
	if err != nil {
		return nil, err
	}
	cfg.Targets = append(cfg.Targets, args...)
	if listPath != "" {
		listed, err := readTargets(listPath)
		if err != nil {
			return nil, err
		}
		cfg.Targets = append(cfg.Targets, listed...)
	}

	return cfg, nil
}

// readTargets reads one target per line from path.
// Blank lines and lines starting with # are skipped.
func readTargets(path string) ([]string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open target list: %w", err)
	}
	defer f.Close()

	var targets []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read target list: %w", err)
	}
	return targets, nil
}

// runAnalyze analyzes every target and writes the report.
func runAnalyze(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	// Reject malformed targets before any request is made.
	for _, target := range cfg.Targets {
		if _, err := crawler.ParseSeed(target); err != nil {
			return fmt.Errorf("invalid target %q: %w", target, err)
		}
	}

	logger.Info("starting analysis",
		"targets", len(cfg.Targets),
		"batchSize", cfg.BatchSize,
		"policy", cfg.Policy,
		"maxPages", cfg.MaxPages,
	)

	progress := cmd.ErrOrStderr()
	if len(cfg.Targets) > 1 {
		fmt.Fprintf(progress, "Analyzing %d sites (concurrency: %d)...\n", len(cfg.Targets), cfg.BatchSize)
	} else {
		fmt.Fprintf(progress, "Analyzing %s...\n", cfg.Targets[0])
	}
	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		newAnalyzeFunc(cfg, logger),
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)
	outcomes, batchErr := bp.ProcessBatch(ctx, cfg.Targets)

	results := make([]*model.AnalysisResult, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err != nil && !errors.Is(o.Err, context.Canceled) && !errors.Is(o.Err, context.DeadlineExceeded) {
			fmt.Fprintf(progress, "Analysis error for %s: %v\n", o.Target, o.Err)
		}
		if o.Result != nil {
			results = append(results, o.Result)
		}
	}

	fmt.Fprintf(progress, "Analysis completed in %s\n\n", time.Since(startTime).Round(time.Millisecond))

	if len(results) > 0 {
		if err := outputReport(cmd, cfg, results); err != nil {
			return fmt.Errorf("report failed: %w", err)
		}
	}

	if batchErr != nil {
		return fmt.Errorf("analysis interrupted: %w", batchErr)
	}
	return nil
}

// newAnalyzeFunc returns the per-target analysis used by the batch
// processor. Each target gets its own HTTP client and spider so that
// site-specific cookies, headers, page budget and deny-list apply.
func newAnalyzeFunc(cfg *config.Config, logger *slog.Logger) pipeline.AnalyzeFunc {
	scorer := keyword.NewScorer(cfg.ScorerOptions()...)

	return func(ctx context.Context, target string) (*model.AnalysisResult, error) {
		spider, err := newSpider(cfg, scorer, target, logger)
		if err != nil {
			return nil, err
		}
		return spider.Analyze(ctx, target)
	}
}

// newSpider creates a spider configured for the site of target.
func newSpider(cfg *config.Config, scorer *keyword.Scorer, target string, logger *slog.Logger) (*crawler.Spider, error) {
	seed, err := crawler.ParseSeed(target)
	if err != nil {
		return nil, err
	}
	site := cfg.SiteSettings(seed.Hostname())

	client, err := transport.NewClient(transport.Options{
		Timeout:  cfg.Timeout,
		Host:     seed.Hostname(),
		ProxyURL: cfg.ProxyURL,
		Cookie:   site.Cookie,
		Headers:  site.Headers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	fetcher := crawler.NewHTTPFetcher(client,
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
	)

	var linkOpts []crawler.LinkOption
	if len(site.DenySegments) > 0 {
		linkOpts = append(linkOpts, crawler.WithDenySegments(site.DenySegments))
	}

	opts := []crawler.SpiderOption{
		crawler.WithMaxPages(site.MaxPages),
		crawler.WithDelay(cfg.CrawlDelay),
		crawler.WithScorer(scorer),
		crawler.WithLinkExtractor(crawler.NewLinkExtractor(linkOpts...)),
		crawler.WithLogger(logger.With("site", seed.Host)),
	}
	if cfg.RespectRobots {
		opts = append(opts, crawler.WithRespectRobots(cfg.UserAgent))
	}

	return crawler.NewSpider(fetcher, opts...), nil
}

// outputReport writes the results in the requested format.
// A single target gets a single report; several get a batch report.
func outputReport(cmd *cobra.Command, cfg *config.Config, results []*model.AnalysisResult) error {
	output := cmd.OutOrStdout()
	if cfg.ReportFile != "" {
		f, err := createReportFile(cfg.ReportFile)
		if err != nil {
			return err
		}
		defer f.Close()
		output = f
	}

	writer := newReportWriter(cfg, output)
	if len(cfg.Targets) == 1 {
		_, err := writer.Write(results[0])
		return err
	}
	_, err := writer.WriteAll(results)
	return err
}

// createReportFile creates or truncates path, creating parent directories.
func createReportFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports may carry page text fetched with site cookies.
	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// newReportWriter selects the report format from cfg.
func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	opts := []report.Option{
		report.WithVerbose(cfg.Verbose),
		report.WithVersion(getVersion()),
		report.WithTimestamp(time.Now()),
	}
	if cfg.ShowText {
		opts = append(opts, report.WithPageText(cfg.TextLimit))
	}

	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, append(opts, report.WithPrettyPrint())...)
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output, opts...)
	default:
		return report.NewSimpleWriter(output, opts...)
	}
}
