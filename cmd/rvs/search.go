package main

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-vault/internal/config"
	"github.com/jonathan/resume-vault/internal/search"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search highlights and projects by keyword",
	Long: `Searches experience highlights and projects for comma-separated terms. Each term scores
10 for an exact tag, 5 for a role or project name match and 1 for a body text match.
Results are ordered by score, then ID.`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

var (
	searchQuery string
	searchJSON  bool
)

func init() {
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "Comma-separated search terms (required)")
	searchCmd.Flags().IntP("limit", "n", config.DefaultSearchLimit, "Maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print results as JSON")

	if err := searchCmd.MarkFlagRequired("query"); err != nil {
		panic("failed to mark query flag as required: " + err.Error())
	}

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	if len(search.ParseTerms(searchQuery)) == 0 {
		return &exitError{code: exitInternal, err: fmt.Errorf("query %q contains no search terms", searchQuery)}
	}
	layout, err := settings.Layout()
	if err != nil {
		printer.PrintInternalError(err)
		return &exitError{code: exitInternal}
	}

	ix, err := search.BuildIndex(layout, logger)
	if err != nil {
		printer.PrintInternalError(err)
		return &exitError{code: exitInternal}
	}
	defer func() { _ = ix.Close() }()

	for _, file := range ix.Skipped() {
		printer.PrintWarning(fmt.Sprintf("skipped %s: file failed to load (run rvs validate)", file))
	}

	hits, err := ix.Search(searchQuery, settings.SearchLimit)
	if err != nil {
		printer.PrintInternalError(err)
		return &exitError{code: exitInternal}
	}

	if searchJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}
	printer.PrintSearchResults(searchQuery, hits)
	return nil
}
