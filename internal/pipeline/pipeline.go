// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the end-to-end run: harvest, classify, archive,
// enrich, deliver. Papers are processed strictly in harvest order and every
// per-paper failure is contained to that paper; only a harvesting failure
// aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pdiddy/paper-hunter/internal/notify"
	"github.com/pdiddy/paper-hunter/pkg/types"
)

// Harvester enumerates candidate papers.
type Harvester interface {
	Search(ctx context.Context) ([]types.Paper, error)
}

// Classifier decides whether a paper is industry-relevant.
type Classifier interface {
	Classify(ctx context.Context, paper types.Paper) types.FilterOutcome
}

// Archiver persists PDFs and enrichment text.
type Archiver interface {
	Download(ctx context.Context, paper types.Paper, company string) (string, error)
	WriteEnrichment(pdfPath, text, header string) (string, error)
	WriteMetadata(archived types.ArchivedPaper) error
}

// Enricher produces LLM-derived content for archived papers.
type Enricher interface {
	Enabled() bool
	SummarizePDF(ctx context.Context, pdfPath string) (string, error)
	TranslateAbstract(ctx context.Context, paper types.Paper) (string, error)
}

// CoverExtractor renders optional first-page images.
type CoverExtractor interface {
	ExtractCover(ctx context.Context, pdfPath, outputDir string) string
}

// PaperStatus is the terminal state of one paper within a run.
type PaperStatus string

const (
	// StatusEnriched: downloaded and enrichment recorded.
	StatusEnriched PaperStatus = "downloaded-and-enriched"
	// StatusArchived: downloaded; enrichment not attempted or disabled.
	StatusArchived PaperStatus = "downloaded-only"
	// StatusSkippedFilter: rejected by the gatekeeper cascade.
	StatusSkippedFilter PaperStatus = "skipped-by-filter"
	// StatusSkippedKeyword: dropped by the keyword post-filter.
	StatusSkippedKeyword PaperStatus = "skipped-by-keyword"
	// StatusFailedDownload: PDF download failed; excluded from later stages.
	StatusFailedDownload PaperStatus = "failed-download"
	// StatusFailedEnrichment: downloaded, but enrichment failed. The PDF is kept.
	StatusFailedEnrichment PaperStatus = "failed-enrichment"
)

// PaperResult records one paper's journey through the run.
type PaperResult struct {
	Paper   types.Paper
	Status  PaperStatus
	Outcome types.FilterOutcome
	PDFPath string
	Assets  types.PDFAssets
	Err     error
}

// RunReport summarizes a completed run.
type RunReport struct {
	// Accepted is the number of papers that passed filtering and downloaded.
	Accepted int

	// Results holds one entry per harvested paper that reached a terminal state.
	Results []PaperResult
}

// Options are the per-run switches, mirroring the CLI flags.
type Options struct {
	// RequireKeywordMatch drops papers whose title+summary contain none of
	// the configured keywords.
	RequireKeywordMatch bool

	// SkipGatekeeper bypasses classification and accepts every paper.
	SkipGatekeeper bool

	// Limit stops the run after N accepted papers. Zero means unlimited.
	Limit int

	// NoSummary skips the summarization stage.
	NoSummary bool

	// TranslateAbstracts enables the translation and delivery stage.
	TranslateAbstracts bool
}

// Orchestrator owns the run-level state: the accepted counter and the
// accumulated archive list. It is not safe for concurrent use; a run is
// strictly sequential.
type Orchestrator struct {
	Harvester  Harvester
	Gatekeeper Classifier
	Archivist  Archiver
	Analyst    Enricher
	Assets     CoverExtractor
	Notifier   notify.Notifier
	Config     types.PipelineConfig
	Opts       Options
	Log        *slog.Logger
	Out        io.Writer
}

// Run drives the pipeline and returns the run report. The returned error is
// non-nil only for a harvesting failure; per-paper failures are recorded in
// the report and logged.
func (o *Orchestrator) Run(ctx context.Context) (RunReport, error) {
	log := o.Log
	if log == nil {
		log = slog.Default()
	}
	out := o.Out
	if out == nil {
		out = io.Discard
	}

	papers, err := o.Harvester.Search(ctx)
	if err != nil {
		return RunReport{}, fmt.Errorf("harvesting papers: %w", err)
	}

	var report RunReport
	var archived []types.ArchivedPaper

	for _, paper := range papers {
		if o.Opts.RequireKeywordMatch && !keywordHit(paper, o.Config.Search.Keywords) {
			log.Debug("skip (keyword miss)", "title", paper.Title)
			report.Results = append(report.Results, PaperResult{Paper: paper, Status: StatusSkippedKeyword})
			continue
		}

		var outcome types.FilterOutcome
		if o.Opts.SkipGatekeeper {
			outcome = types.FilterOutcome{Accepted: true, Level: types.LevelSkipped}
		} else {
			outcome = o.Gatekeeper.Classify(ctx, paper)
		}
		if !outcome.Accepted {
			report.Results = append(report.Results, PaperResult{Paper: paper, Status: StatusSkippedFilter, Outcome: outcome})
			continue
		}

		pdfPath, err := o.Archivist.Download(ctx, paper, outcome.Company)
		if err != nil {
			log.Error("failed to download", "title", paper.Title, "error", err)
			report.Results = append(report.Results, PaperResult{Paper: paper, Status: StatusFailedDownload, Outcome: outcome, Err: err})
			continue
		}

		var paperAssets types.PDFAssets
		if o.Assets != nil {
			imagesDir := filepath.Join(filepath.Dir(pdfPath), "images")
			paperAssets.CoverImage = o.Assets.ExtractCover(ctx, pdfPath, imagesDir)
		}

		record := types.ArchivedPaper{Paper: paper, Outcome: outcome, PDFPath: pdfPath, Assets: paperAssets}
		if err := o.Archivist.WriteMetadata(record); err != nil {
			log.Warn("could not write metadata sidecar", "title", paper.Title, "error", err)
		}
		archived = append(archived, record)
		report.Results = append(report.Results, PaperResult{
			Paper: paper, Status: StatusArchived, Outcome: outcome, PDFPath: pdfPath, Assets: paperAssets,
		})

		report.Accepted++
		if o.Opts.Limit > 0 && report.Accepted >= o.Opts.Limit {
			break
		}
	}

	o.summarize(ctx, archived, &report, log)
	o.translateAndDeliver(ctx, archived, &report, log, out)

	log.Info("finished", "accepted", report.Accepted)
	return report, nil
}

// summarize runs the bulk summarization stage over the archived set. Each
// paper's failure is isolated; a failed summary leaves its PDF in place.
func (o *Orchestrator) summarize(ctx context.Context, archived []types.ArchivedPaper, report *RunReport, log *slog.Logger) {
	if o.Opts.NoSummary {
		log.Info("summary stage skipped")
		return
	}
	if o.Analyst == nil || !o.Analyst.Enabled() {
		log.Warn("no analyst credentials; skipping summaries")
		return
	}

	for _, rec := range archived {
		summary, err := o.Analyst.SummarizePDF(ctx, rec.PDFPath)
		if err != nil {
			log.Error("failed to summarize", "title", rec.Paper.Title, "error", err)
			report.setStatus(rec.Paper.ID, StatusFailedEnrichment, err)
			continue
		}

		header := fmt.Sprintf("%s (%s)", rec.Paper.Title, rec.Paper.ID)
		if _, err := o.Archivist.WriteEnrichment(rec.PDFPath, summary, header); err != nil {
			log.Error("failed to record enrichment", "title", rec.Paper.Title, "error", err)
			report.setStatus(rec.Paper.ID, StatusFailedEnrichment, err)
			continue
		}

		log.Info("summarized", "title", rec.Paper.Title)
		report.setStatus(rec.Paper.ID, StatusEnriched, nil)
	}
}

// translateAndDeliver translates each archived abstract and pushes the
// result to the messaging sink. Translation and delivery failures are
// isolated per paper; a delivery failure does not downgrade the paper.
func (o *Orchestrator) translateAndDeliver(ctx context.Context, archived []types.ArchivedPaper, report *RunReport, log *slog.Logger, out io.Writer) {
	if !o.Opts.TranslateAbstracts {
		return
	}
	if o.Analyst == nil || !o.Analyst.Enabled() {
		log.Warn("no analyst credentials; skipping abstract translation")
		return
	}

	for _, rec := range archived {
		zh, err := o.Analyst.TranslateAbstract(ctx, rec.Paper)
		if err != nil {
			log.Error("failed to translate", "title", rec.Paper.Title, "error", err)
			report.setStatus(rec.Paper.ID, StatusFailedEnrichment, err)
			continue
		}

		msg := formatDelivery(rec, zh)
		fmt.Fprintf(out, "\n=== Abstract Translation ===\n%s\n===========================\n\n", msg)

		if o.Notifier == nil {
			continue
		}
		if err := o.Notifier.SendMessage(ctx, msg); err != nil {
			log.Error("failed to push message", "title", rec.Paper.Title, "error", err)
			continue
		}
		if rec.Assets.CoverImage != "" {
			if err := o.Notifier.SendPhoto(ctx, rec.Assets.CoverImage, rec.Paper.Title); err != nil {
				log.Error("failed to push cover", "title", rec.Paper.Title, "error", err)
			}
		}
	}
}

// setStatus updates the recorded terminal state for the paper with the given id.
func (r *RunReport) setStatus(paperID string, status PaperStatus, err error) {
	for i := range r.Results {
		if r.Results[i].Paper.ID == paperID {
			r.Results[i].Status = status
			if err != nil {
				r.Results[i].Err = err
			}
			return
		}
	}
}

// keywordHit reports whether the title or summary contains any keyword,
// case-insensitively.
func keywordHit(paper types.Paper, keywords []string) bool {
	text := strings.ToLower(paper.Title + " " + paper.Summary)
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// formatDelivery renders the per-paper delivery message: metadata block plus
// the translated abstract and cover pointer.
func formatDelivery(rec types.ArchivedPaper, zh string) string {
	paper := rec.Paper

	authors := make([]string, 0, len(paper.Authors))
	var affiliations []string
	seen := make(map[string]bool)
	for _, a := range paper.Authors {
		if a.Affiliation != "" {
			authors = append(authors, fmt.Sprintf("%s (%s)", a.Name, a.Affiliation))
			if !seen[a.Affiliation] {
				seen[a.Affiliation] = true
				affiliations = append(affiliations, a.Affiliation)
			}
		} else {
			authors = append(authors, a.Name)
		}
	}

	cover := rec.Assets.CoverImage
	if cover == "" {
		cover = "N/A"
	}

	return fmt.Sprintf(
		"Title: %s\narXiv: %s\nPublished: %s\nUpdated: %s\nAuthors: %s\nAffiliations: %s\nKeywords/Categories: %s\nChinese translation:\n%s\nCover Image: %s",
		paper.Title,
		paper.ID,
		orNA(paper.Published),
		orNA(paper.Updated),
		orNA(strings.Join(authors, "; ")),
		orNA(strings.Join(affiliations, "; ")),
		orNA(strings.Join(paper.Categories, ", ")),
		zh,
		cover,
	)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
