package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/offerscan/internal/keyword"
)

// NewKeywordsCmd creates the keywords command.
func NewKeywordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "List the keyword taxonomy",
		Long: `Keywords prints the phrases OfferScan searches for, with their weight.

High-confidence phrases imply financing or quotes on their own.
Standard phrases only hint at it.

Examples:
  # Plain list
  offerscan keywords

  # Machine-readable list
  offerscan keywords --json`,
		Args: cobra.NoArgs,
		RunE: runKeywordsCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output as a Markdown table (mutually exclusive with --json)")

	return cmd
}

// runKeywordsCmd executes the keywords command.
func runKeywordsCmd(cmd *cobra.Command, _ []string) error {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	asMarkdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if asJSON && asMarkdown {
		return errors.New("--json and --markdown are mutually exclusive")
	}

	out := cmd.OutOrStdout()
	entries := keyword.DefaultTaxonomy()

	switch {
	case asJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case asMarkdown:
		rows := make([][]string, len(entries))
		for i, e := range entries {
			rows[i] = []string{strconv.Itoa(i + 1), e.Phrase, e.Weight.String()}
		}
		md := markdown.NewMarkdown(out)
		md.H1("OfferScan Keywords")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"#", "Phrase", "Weight"},
			Rows:   rows,
		})
		return md.Build()
	default:
		high := 0
		for _, e := range entries {
			fmt.Fprintf(out, "%-8s  %s\n", e.Weight, e.Phrase)
			if e.IsHighConfidence() {
				high++
			}
		}
		fmt.Fprintf(out, "\n%d keywords (%d high-confidence)\n", len(entries), high)
		return nil
	}
}
