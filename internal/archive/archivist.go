// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive derives deterministic filesystem paths for papers,
// downloads their PDFs, and records enrichment text alongside them.
package archive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-hunter/pkg/types"
)

const (
	// slugMaxLen bounds each filename token.
	slugMaxLen = 80

	// downloadChunkSize is the copy buffer used when streaming PDFs.
	downloadChunkSize = 8192

	// dailySummaryFile aggregates all enrichment blocks for one day.
	dailySummaryFile = "Summary.md"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases text, collapses non-alphanumeric runs to single
// underscores, trims leading/trailing underscores, and truncates to 80
// characters without a trailing underscore. Empty input yields "paper".
func Slugify(text string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(text), "_")
	s = strings.Trim(s, "_")
	if len(s) > slugMaxLen {
		s = strings.TrimRight(s[:slugMaxLen], "_")
	}
	if s == "" {
		return "paper"
	}
	return s
}

// ExtractDate returns the paper's day in YYYY-MM-DD form: the published
// date, else the updated date, else today.
func ExtractDate(paper types.Paper) string {
	for _, field := range []string{paper.Published, paper.Updated} {
		if field != "" {
			day, _, _ := strings.Cut(field, "T")
			return day
		}
	}
	return time.Now().Format("2006-01-02")
}

// Archivist manages the per-day archive tree under BaseDir.
type Archivist struct {
	Client *http.Client
	Config types.ArchiveConfig
	Log    *slog.Logger
}

// New returns an Archivist rooted at cfg.BaseDir.
func New(client *http.Client, cfg types.ArchiveConfig, log *slog.Logger) *Archivist {
	if log == nil {
		log = slog.Default()
	}
	return &Archivist{Client: client, Config: cfg, Log: log}
}

// PDFPath derives the deterministic archive path for a paper:
// {baseDir}/{day}/{day}_{companySlug}_{firstAuthorSlug}_{titleSlug}.pdf.
// The company slug is "unknown" when no company was identified.
func (a *Archivist) PDFPath(paper types.Paper, company string) string {
	day := ExtractDate(paper)
	companyToken := "unknown"
	if company != "" {
		companyToken = Slugify(company)
	}
	filename := fmt.Sprintf("%s_%s_%s_%s.pdf",
		day, companyToken, Slugify(paper.FirstAuthor()), Slugify(paper.Title))
	return filepath.Join(a.Config.BaseDir, day, filename)
}

// Download streams the paper's PDF to its derived archive path, creating the
// day folder if absent. The body is written to a temporary file in chunks
// and renamed into place on success, so an interrupted download never leaves
// a partial PDF at the final path.
func (a *Archivist) Download(ctx context.Context, paper types.Paper, company string) (string, error) {
	if paper.PDFURL == "" {
		return "", fmt.Errorf("no PDF URL for paper %s", paper.ID)
	}

	destPath := a.PDFPath(paper, company)
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", fmt.Errorf("creating day folder: %w", err)
	}

	a.Log.Info("downloading PDF", "url", paper.PDFURL, "path", destPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, paper.PDFURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.Config.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := a.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, paper.PDFURL)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.CopyBuffer(tmpFile, resp.Body, make([]byte, downloadChunkSize))
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return destPath, nil
}

// WriteEnrichment writes a per-paper Markdown file (same stem as the PDF)
// holding the header and enrichment text, and appends the same block to the
// day's aggregate summary file. The aggregate is append-only: it grows
// across runs and is never truncated.
func (a *Archivist) WriteEnrichment(pdfPath, text, header string) (string, error) {
	mdPath := strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".md"
	content := fmt.Sprintf("# %s\n\n%s\n", header, text)
	if err := os.WriteFile(mdPath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing enrichment file: %w", err)
	}

	if err := a.appendDailySummary(filepath.Dir(pdfPath), header, text); err != nil {
		return "", err
	}
	return mdPath, nil
}

func (a *Archivist) appendDailySummary(dayDir, header, text string) error {
	summaryPath := filepath.Join(dayDir, dailySummaryFile)
	f, err := os.OpenFile(summaryPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening daily summary: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "## %s\n\n%s\n\n---\n\n", header, text); err != nil {
		return fmt.Errorf("appending to daily summary: %w", err)
	}
	return nil
}

// WriteMetadata writes a YAML record of the archived paper next to its PDF.
func (a *Archivist) WriteMetadata(archived types.ArchivedPaper) error {
	data, err := yaml.Marshal(archived)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	metaPath := strings.TrimSuffix(archived.PDFPath, filepath.Ext(archived.PDFPath)) + ".yaml"
	return os.WriteFile(metaPath, data, 0o644)
}
