// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-hunter/internal/analyst"
	"github.com/pdiddy/paper-hunter/internal/archive"
	"github.com/pdiddy/paper-hunter/internal/assets"
	"github.com/pdiddy/paper-hunter/internal/gatekeeper"
	"github.com/pdiddy/paper-hunter/internal/harvest"
	"github.com/pdiddy/paper-hunter/internal/notify"
	"github.com/pdiddy/paper-hunter/internal/pipeline"
	"github.com/pdiddy/paper-hunter/pkg/types"
)

var huntCmd = &cobra.Command{
	Use:   "hunt",
	Short: "Run the full acquisition pipeline",
	Long: `Hunt harvests recent arXiv submissions matching the configured keywords and
categories, classifies each paper against the industry whitelist, downloads
accepted PDFs into the archive tree, and runs the optional enrichment and
delivery stages. Individual paper failures never abort the run; only a
harvesting failure does.`,
	RunE: runHunt,
}

func init() {
	huntCmd.Flags().StringSlice("keywords", nil, "override keyword list (comma-separated)")
	huntCmd.Flags().StringSlice("categories", nil, "arXiv subject categories to include (e.g. cs.IR,cs.LG)")
	huntCmd.Flags().Bool("no-category-filter", false, "disable category filtering (search across all categories)")
	huntCmd.Flags().Int("last-n-days", 0, "look back n days (default 1, i.e. yesterday)")
	huntCmd.Flags().Int("max-results", 0, "maximum number of papers to fetch (default 500)")
	huntCmd.Flags().Int("limit", 0, "stop after N accepted papers")
	huntCmd.Flags().Bool("no-summary", false, "skip LLM summarization (still downloads PDFs)")
	huntCmd.Flags().Bool("translate-abstracts", false, "translate each abstract EN->ZH via LLM and print")
	huntCmd.Flags().Bool("telegram", false, "push translation output to Telegram (requires bot token and chat id)")
	huntCmd.Flags().Bool("use-llm-filter", false, "enable LLM vote as fallback industry detection")
	huntCmd.Flags().Bool("skip-gatekeeper", false, "bypass company filtering; accept all harvested papers")
	huntCmd.Flags().Bool("require-keyword-match", false, "drop papers whose title/abstract contain no keyword (post-filter)")

	rootCmd.AddCommand(huntCmd)
}

func runHunt(cmd *cobra.Command, args []string) error {
	cfg := loadPipelineConfig()
	applySearchFlags(cmd, &cfg)

	opts := pipeline.Options{}
	opts.Limit, _ = cmd.Flags().GetInt("limit")
	opts.NoSummary, _ = cmd.Flags().GetBool("no-summary")
	opts.TranslateAbstracts, _ = cmd.Flags().GetBool("translate-abstracts")
	opts.SkipGatekeeper, _ = cmd.Flags().GetBool("skip-gatekeeper")
	opts.RequireKeywordMatch, _ = cmd.Flags().GetBool("require-keyword-match")
	useLLMFilter, _ := cmd.Flags().GetBool("use-llm-filter")
	useTelegram, _ := cmd.Flags().GetBool("telegram")

	log := slog.Default()

	searchClient := &http.Client{Timeout: cfg.Search.Timeout}
	archiveClient := &http.Client{Timeout: cfg.Archive.Timeout}
	llm := analyst.New(&http.Client{Timeout: 120 * time.Second}, cfg.Analyst, log)

	var side gatekeeper.SideChannel
	if cfg.Gatekeeper.ScrapeContacts {
		side = &gatekeeper.ContactScraper{Client: searchClient, UserAgent: cfg.Search.UserAgent}
	}
	var voter gatekeeper.Voter
	if useLLMFilter {
		voter = llm
	}

	var notifier notify.Notifier
	if useTelegram {
		if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == "" {
			log.Error("Telegram requested but bot token or chat id missing; skipping push")
		} else {
			notifier = notify.New(cfg.Telegram, archiveClient)
		}
	}

	orch := &pipeline.Orchestrator{
		Harvester:  harvest.New(searchClient, cfg.Search, log),
		Gatekeeper: gatekeeper.New(cfg.Gatekeeper, side, voter, log),
		Archivist:  archive.New(archiveClient, cfg.Archive, log),
		Analyst:    llm,
		Assets:     assets.NewExtractor(log),
		Notifier:   notifier,
		Config:     cfg,
		Opts:       opts,
		Log:        log,
		Out:        os.Stdout,
	}

	report, err := orch.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Accepted %d papers.\n", report.Accepted)
	return nil
}

// applySearchFlags overlays the hunt flags onto the merged configuration.
func applySearchFlags(cmd *cobra.Command, cfg *types.PipelineConfig) {
	if kws, _ := cmd.Flags().GetStringSlice("keywords"); len(kws) > 0 {
		cfg.Search.Keywords = kws
	}
	if cats, _ := cmd.Flags().GetStringSlice("categories"); len(cats) > 0 {
		cfg.Search.Categories = cats
	}
	if noCat, _ := cmd.Flags().GetBool("no-category-filter"); noCat {
		cfg.Search.Categories = nil
	}
	if days, _ := cmd.Flags().GetInt("last-n-days"); days > 0 {
		cfg.Search.LastNDays = days
	}
	if max, _ := cmd.Flags().GetInt("max-results"); max > 0 {
		cfg.Search.MaxResults = max
	}

	cleaned := cfg.Search.Categories[:0]
	for _, c := range cfg.Search.Categories {
		if c = strings.TrimSpace(c); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	cfg.Search.Categories = cleaned
}
