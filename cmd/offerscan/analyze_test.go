package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/nao1215/offerscan/internal/config"
	"github.com/nao1215/offerscan/internal/crawler"
	"github.com/nao1215/offerscan/internal/report"
)

const (
	financingPage = `<html><body><h1>Sofa Shop</h1><p>Financing available on every sofa.</p></body></html>`
	galleryPage   = `<html><body><h1>Pottery Gallery</h1><p>Visit our studio downtown.</p></body></html>`
)

// newSiteServer starts a test site that serves markup at "/".
func newSiteServer(t *testing.T, markup string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, markup)
	}))
	t.Cleanup(server.Close)
	return server
}

// runRoot executes the root command with args and returns stdout and stderr.
func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// TestNewAnalyzeCmd tests the analyze command creation.
func TestNewAnalyzeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewAnalyzeCmd()

	if cmd.Use != "analyze [url...]" {
		t.Errorf("expected use 'analyze [url...]', got %q", cmd.Use)
	}
	if cmd.Long == "" {
		t.Error("expected non-empty long description")
	}

	flags := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"timeout", "t", config.DefaultTimeout.String()},
		{"max-pages", "p", fmt.Sprint(config.DefaultMaxPages)},
		{"delay", "", config.DefaultCrawlDelay.String()},
		{"user-agent", "A", config.DefaultUserAgent},
		{"proxy", "x", ""},
		{"max-body-size", "", fmt.Sprint(config.DefaultMaxBodySize)},
		{"deny", "", "[]"},
		{"respect-robots", "", "false"},
		{"policy", "P", config.DefaultPolicy},
		{"threshold", "n", fmt.Sprint(config.DefaultThreshold)},
		{"match-mode", "M", config.DefaultMatchMode},
		{"batch", "b", fmt.Sprint(config.DefaultBatchSize)},
		{"list", "l", ""},
		{"config", "c", ""},
		{"json", "j", "false"},
		{"markdown", "m", "false"},
		{"output", "o", ""},
		{"show-text", "", "false"},
		{"text-limit", "", fmt.Sprint(config.DefaultTextLimit)},
	}

	for _, tt := range flags {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("expected shorthand %q, got %q", tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("expected default %q, got %q", tt.defValue, flag.DefValue)
			}
		})
	}
}

// TestBuildConfig tests flag and config file handling.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	parse := func(t *testing.T, args ...string) (*config.Config, error) {
		t.Helper()
		cmd := NewAnalyzeCmd()
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}
		return buildConfig(cmd, cmd.Flags().Args())
	}

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := parse(t, "https://shop.example")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.MaxPages != config.DefaultMaxPages || cfg.MaxPagesFromFlag {
			t.Errorf("expected default max pages not from flag, got %d/%v", cfg.MaxPages, cfg.MaxPagesFromFlag)
		}
		if cfg.Policy != config.DefaultPolicy || cfg.MatchMode != config.DefaultMatchMode {
			t.Errorf("unexpected policy/match mode %q/%q", cfg.Policy, cfg.MatchMode)
		}
		if len(cfg.Targets) != 1 || cfg.Targets[0] != "https://shop.example" {
			t.Errorf("unexpected targets %v", cfg.Targets)
		}
		if cfg.SiteConfigs == nil {
			t.Error("expected empty site configs")
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := parse(t,
			"-p", "9",
			"--delay", "0s",
			"--policy", "threshold",
			"-n", "3",
			"--match-mode", "word",
			"--deny", "blog,forum",
			"--respect-robots",
			"--show-text",
			"--text-limit", "50",
			"shop.example",
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.MaxPages != 9 || !cfg.MaxPagesFromFlag {
			t.Errorf("expected max pages 9 from flag, got %d/%v", cfg.MaxPages, cfg.MaxPagesFromFlag)
		}
		if cfg.CrawlDelay != 0 {
			t.Errorf("expected zero delay, got %v", cfg.CrawlDelay)
		}
		if cfg.Policy != "threshold" || cfg.Threshold != 3 || cfg.MatchMode != "word" {
			t.Errorf("unexpected scoring settings %q/%d/%q", cfg.Policy, cfg.Threshold, cfg.MatchMode)
		}
		if !cfg.DenySegmentsFromFlag || len(cfg.DenySegments) != 2 || cfg.DenySegments[1] != "forum" {
			t.Errorf("unexpected deny segments %v/%v", cfg.DenySegments, cfg.DenySegmentsFromFlag)
		}
		if !cfg.RespectRobots || !cfg.ShowText || cfg.TextLimit != 50 {
			t.Error("expected robots, show-text and text-limit to be set")
		}
	})

	t.Run("reads target list", func(t *testing.T) {
		t.Parallel()

		listPath := filepath.Join(t.TempDir(), "sites.txt")
		content := "# furniture\nshop.example\n\n  gallery.example  \n"
		if err := os.WriteFile(listPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write list: %v", err)
		}

		cfg, err := parse(t, "-l", listPath, "first.example")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"first.example", "shop.example", "gallery.example"}
		if strings.Join(cfg.Targets, ",") != strings.Join(want, ",") {
			t.Errorf("targets = %v, want %v", cfg.Targets, want)
		}
	})

	t.Run("missing target list", func(t *testing.T) {
		t.Parallel()

		if _, err := parse(t, "-l", filepath.Join(t.TempDir(), "missing.txt")); err == nil {
			t.Error("expected error for missing target list")
		}
	})

	t.Run("loads explicit config file", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "offerscan.yaml")
		content := "defaults:\n  maxPages: 7\nsites:\n  shop.example:\n    cookie: \"member=1\"\n"
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cfg, err := parse(t, "-c", configPath, "shop.example")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		site := cfg.SiteSettings("www.shop.example")
		if site.Cookie != "member=1" || site.MaxPages != 7 {
			t.Errorf("unexpected site settings %+v", site)
		}
	})

	t.Run("explicit config file must exist", func(t *testing.T) {
		t.Parallel()

		_, err := parse(t, "-c", filepath.Join(t.TempDir(), "missing.yaml"), "shop.example")
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

// TestReadTargets tests target list parsing.
func TestReadTargets(t *testing.T) {
	t.Parallel()

	listPath := filepath.Join(t.TempDir(), "targets.txt")
	if err := os.WriteFile(listPath, []byte("a.example\r\n#b.example\n\nc.example"), 0600); err != nil {
		t.Fatalf("failed to write list: %v", err)
	}

	targets, err := readTargets(listPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(targets) != 2 || targets[0] != "a.example" || targets[1] != "c.example" {
		t.Errorf("unexpected targets %v", targets)
	}
}

// TestRunAnalyze tests the analyze command end to end against local sites.
func TestRunAnalyze(t *testing.T) {
	t.Parallel()

	t.Run("single site json report", func(t *testing.T) {
		t.Parallel()

		server := newSiteServer(t, financingPage)
		stdout, stderr, err := runRoot(t, "analyze", "--delay", "0s", "--json", server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v (stderr: %s)", err, stderr)
		}

		var decoded map[string]any
		if err := json.Unmarshal([]byte(stdout), &decoded); err != nil {
			t.Fatalf("stdout is not a JSON report: %v\n%s", err, stdout)
		}
		if decoded["classification"] != "proactive" {
			t.Errorf("expected proactive, got %v", decoded["classification"])
		}
		if decoded["triggered_url"] != server.URL+"/" {
			t.Errorf("unexpected triggered_url %v", decoded["triggered_url"])
		}
		if !strings.Contains(stderr, "Analyzing") {
			t.Errorf("expected progress on stderr, got %q", stderr)
		}
	})

	t.Run("single site text report", func(t *testing.T) {
		t.Parallel()

		server := newSiteServer(t, galleryPage)
		stdout, _, err := runRoot(t, "analyze", "--delay", "0s", server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "NON-USER") {
			t.Errorf("expected non-user verdict, got:\n%s", stdout)
		}
	})

	t.Run("batch report keeps input order", func(t *testing.T) {
		t.Parallel()

		gallery := newSiteServer(t, galleryPage)
		shop := newSiteServer(t, financingPage)
		stdout, stderr, err := runRoot(t, "analyze", "--delay", "0s", "--json", "-b", "2", gallery.URL, shop.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v (stderr: %s)", err, stderr)
		}

		var decoded report.BatchReport
		if err := json.Unmarshal([]byte(stdout), &decoded); err != nil {
			t.Fatalf("stdout is not a batch report: %v\n%s", err, stdout)
		}
		if decoded.Summary.Total != 2 || decoded.Summary.Proactive != 1 {
			t.Errorf("unexpected summary %+v", decoded.Summary)
		}
		if len(decoded.Results) != 2 ||
			decoded.Results[0].SeedURL != gallery.URL+"/" ||
			decoded.Results[1].SeedURL != shop.URL+"/" {
			t.Errorf("expected results in input order, got %+v", decoded.Results)
		}
	})

	t.Run("site cookie from config file", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			if strings.Contains(r.Header.Get("Cookie"), "member=1") {
				fmt.Fprint(w, financingPage)
				return
			}
			fmt.Fprint(w, galleryPage)
		}))
		t.Cleanup(server.Close)

		seed, err := crawler.ParseSeed(server.URL)
		if err != nil {
			t.Fatalf("failed to parse server URL: %v", err)
		}
		configPath := filepath.Join(t.TempDir(), "offerscan.yaml")
		content := fmt.Sprintf("sites:\n  %q:\n    cookie: \"member=1\"\n", seed.Hostname())
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		stdout, _, err := runRoot(t, "analyze", "--delay", "0s", "--json", "-c", configPath, server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, `"classification": "proactive"`) {
			t.Errorf("expected cookie to unlock financing page, got:\n%s", stdout)
		}
	})

	t.Run("markdown report to file", func(t *testing.T) {
		t.Parallel()

		server := newSiteServer(t, financingPage)
		outputPath := filepath.Join(t.TempDir(), "reports", "shop.md")
		stdout, _, err := runRoot(t, "analyze", "--delay", "0s", "--markdown", "-o", outputPath, server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "" {
			t.Errorf("expected nothing on stdout, got %q", stdout)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "# OfferScan Report") {
			t.Errorf("expected markdown report, got:\n%s", content)
		}

		if runtime.GOOS != "windows" {
			info, err := os.Stat(outputPath)
			if err != nil {
				t.Fatalf("failed to stat report: %v", err)
			}
			if perm := info.Mode().Perm(); perm != 0600 {
				t.Errorf("expected permissions 0600, got %o", perm)
			}
		}
	})

	t.Run("show text", func(t *testing.T) {
		t.Parallel()

		server := newSiteServer(t, financingPage)
		stdout, _, err := runRoot(t, "analyze", "--delay", "0s", "--show-text", server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "PAGE TEXT") || !strings.Contains(stdout, "financing available on every sofa") {
			t.Errorf("expected normalized page text, got:\n%s", stdout)
		}
	})

	t.Run("invalid target", func(t *testing.T) {
		t.Parallel()

		_, _, err := runRoot(t, "analyze", "mailto:owner@shop.example")
		if !errors.Is(err, crawler.ErrInvalidURL) {
			t.Errorf("expected ErrInvalidURL, got %v", err)
		}
	})

	t.Run("no targets", func(t *testing.T) {
		t.Parallel()

		_, _, err := runRoot(t, "analyze")
		if !errors.Is(err, config.ErrNoTarget) {
			t.Errorf("expected ErrNoTarget, got %v", err)
		}
	})

	t.Run("conflicting report formats", func(t *testing.T) {
		t.Parallel()

		_, _, err := runRoot(t, "analyze", "--json", "--markdown", "shop.example")
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("invalid policy", func(t *testing.T) {
		t.Parallel()

		_, _, err := runRoot(t, "analyze", "--policy", "sometimes", "shop.example")
		if !errors.Is(err, config.ErrInvalidPolicy) {
			t.Errorf("expected ErrInvalidPolicy, got %v", err)
		}
	})
}
