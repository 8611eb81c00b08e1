// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-hunter/internal/harvest"
	"github.com/pdiddy/paper-hunter/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Harvest and list matching papers without archiving",
	Long: `Search runs the harvesting stage only: it queries arXiv with the configured
keywords, categories, and date window, then lists the matching papers.
Nothing is downloaded or classified.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringSlice("keywords", nil, "override keyword list (comma-separated)")
	searchCmd.Flags().StringSlice("categories", nil, "arXiv subject categories to include")
	searchCmd.Flags().Bool("no-category-filter", false, "disable category filtering")
	searchCmd.Flags().Int("last-n-days", 0, "look back n days (default 1)")
	searchCmd.Flags().Int("max-results", 0, "maximum number of papers to fetch")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := loadPipelineConfig()
	applySearchFlags(cmd, &cfg)

	client := &http.Client{Timeout: cfg.Search.Timeout}
	h := harvest.New(client, cfg.Search, slog.Default())

	papers, err := h.Search(cmd.Context())
	if err != nil {
		return err
	}
	if len(papers) == 0 {
		fmt.Println("No papers found.")
		return nil
	}

	fmt.Println(renderPapersTable(papers))
	fmt.Printf("%d papers\n", len(papers))
	return nil
}

// renderPapersTable lists harvested papers in a terminal table.
func renderPapersTable(papers []types.Paper) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Published", "Title", "First Author", "Categories"})

	for i, p := range papers {
		day, _, _ := strings.Cut(p.Published, "T")
		tw.AppendRow(table.Row{
			i + 1,
			day,
			truncate(p.Title, 70),
			truncate(p.FirstAuthor(), 24),
			truncate(strings.Join(p.Categories, ","), 24),
		})
	}
	return tw.Render()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
