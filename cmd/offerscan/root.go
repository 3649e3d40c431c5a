package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for OfferScan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "offerscan",
		Short: "Detect websites that advertise financing or quotes",
		Long: `OfferScan visits a few pages of a website and classifies it as
proactive when the pages advertise financing, payment plans or free quotes.

The crawl stays on the seed's origin, skips pages such as blogs or legal
notices, and stops as soon as the evidence is sufficient.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON to stderr")

	// Add subcommands
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewKeywordsCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
