// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/paper-hunter/pkg/types"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Wide And Deep", "wide_and_deep"},
		{"collapses runs", "a -- b!!c", "a_b_c"},
		{"trims edges", "  !hello!  ", "hello"},
		{"unicode punctuation", "détente: a naïve test", "d_tente_a_na_ve_test"},
		{"empty input", "", "paper"},
		{"punctuation only", "!!!", "paper"},
		{"digits kept", "GPT-4 at 99%", "gpt_4_at_99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlugifyTruncation(t *testing.T) {
	long := strings.Repeat("word ", 40) // slugs to well over 80 chars
	got := Slugify(long)
	if len(got) > 80 {
		t.Errorf("len = %d, want <= 80", len(got))
	}
	if strings.HasSuffix(got, "_") {
		t.Errorf("truncated slug ends in underscore: %q", got)
	}
}

func TestExtractDate(t *testing.T) {
	p := types.Paper{Published: "2026-08-27T09:30:00Z", Updated: "2026-08-28T10:00:00Z"}
	if got := ExtractDate(p); got != "2026-08-27" {
		t.Errorf("ExtractDate = %q, want published day", got)
	}

	p = types.Paper{Updated: "2026-08-28T10:00:00Z"}
	if got := ExtractDate(p); got != "2026-08-28" {
		t.Errorf("ExtractDate = %q, want updated day", got)
	}

	p = types.Paper{}
	today := time.Now().Format("2006-01-02")
	if got := ExtractDate(p); got != today {
		t.Errorf("ExtractDate = %q, want today %q", got, today)
	}
}

func TestPDFPath(t *testing.T) {
	a := New(nil, types.ArchiveConfig{BaseDir: "/archive"}, nil)
	paper := types.Paper{
		Title:     "Scaling Ranking Models!",
		Published: "2026-08-27T09:30:00Z",
		Authors:   []types.Author{{Name: "Ada Lovelace"}},
	}

	got := a.PDFPath(paper, "Google Research")
	want := filepath.Join("/archive", "2026-08-27",
		"2026-08-27_google_research_ada_lovelace_scaling_ranking_models.pdf")
	if got != want {
		t.Errorf("PDFPath = %q, want %q", got, want)
	}

	// Same inputs, same path.
	if again := a.PDFPath(paper, "Google Research"); again != got {
		t.Errorf("PDFPath not deterministic: %q vs %q", again, got)
	}

	// No company, no authors.
	bare := types.Paper{Title: "Untitled?", Published: "2026-08-27T09:30:00Z"}
	got = a.PDFPath(bare, "")
	want = filepath.Join("/archive", "2026-08-27", "2026-08-27_unknown_unknown_untitled.pdf")
	if got != want {
		t.Errorf("PDFPath = %q, want %q", got, want)
	}
}

func TestDownload(t *testing.T) {
	const pdfBody = "%PDF-1.7 fake body"
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/pdf" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		w.Write([]byte(pdfBody))
	}))
	defer ts.Close()

	dir := t.TempDir()
	a := New(ts.Client(), types.ArchiveConfig{BaseDir: dir}, nil)
	paper := types.Paper{
		ID:        "http://arxiv.org/abs/2608.00042",
		Title:     "A Paper",
		Published: "2026-08-27T09:30:00Z",
		Authors:   []types.Author{{Name: "Ada"}},
		PDFURL:    ts.URL,
	}

	path, err := a.Download(context.Background(), paper, "google")
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(data) != pdfBody {
		t.Errorf("file content = %q", data)
	}

	// No temp files left behind in the day folder.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".download-") {
			t.Errorf("stray temp file %q", e.Name())
		}
	}
}

func TestDownloadNoPDFURL(t *testing.T) {
	a := New(http.DefaultClient, types.ArchiveConfig{BaseDir: t.TempDir()}, nil)
	paper := types.Paper{ID: "http://arxiv.org/abs/2608.00042", Title: "No Link"}

	if _, err := a.Download(context.Background(), paper, ""); err == nil {
		t.Fatal("expected error for paper without PDF URL")
	}
}

func TestDownloadHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	dir := t.TempDir()
	a := New(ts.Client(), types.ArchiveConfig{BaseDir: dir}, nil)
	paper := types.Paper{
		ID:        "http://arxiv.org/abs/2608.00042",
		Title:     "Gone",
		Published: "2026-08-27T09:30:00Z",
		PDFURL:    ts.URL,
	}

	path := a.PDFPath(paper, "")
	if _, err := a.Download(context.Background(), paper, ""); err == nil {
		t.Fatal("expected error on HTTP 404")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should exist at the final path after a failed download")
	}
}

func TestWriteEnrichment(t *testing.T) {
	dir := t.TempDir()
	dayDir := filepath.Join(dir, "2026-08-27")
	if err := os.MkdirAll(dayDir, 0o755); err != nil {
		t.Fatal(err)
	}
	a := New(nil, types.ArchiveConfig{BaseDir: dir}, nil)

	pdfPath := filepath.Join(dayDir, "2026-08-27_google_ada_a_paper.pdf")
	mdPath, err := a.WriteEnrichment(pdfPath, "First summary body.", "A Paper (2608.00042)")
	if err != nil {
		t.Fatalf("WriteEnrichment() error = %v", err)
	}
	if mdPath != strings.TrimSuffix(pdfPath, ".pdf")+".md" {
		t.Errorf("mdPath = %q", mdPath)
	}

	md, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(md) != "# A Paper (2608.00042)\n\nFirst summary body.\n" {
		t.Errorf("per-paper file = %q", md)
	}

	// A second enrichment the same day appends; the aggregate never truncates.
	otherPDF := filepath.Join(dayDir, "2026-08-27_meta_bob_second.pdf")
	if _, err := a.WriteEnrichment(otherPDF, "Second summary body.", "Second (2608.00043)"); err != nil {
		t.Fatalf("WriteEnrichment() error = %v", err)
	}

	summary, err := os.ReadFile(filepath.Join(dayDir, "Summary.md"))
	if err != nil {
		t.Fatal(err)
	}
	got := string(summary)
	first := strings.Index(got, "## A Paper (2608.00042)")
	second := strings.Index(got, "## Second (2608.00043)")
	if first < 0 || second < 0 || second < first {
		t.Fatalf("aggregate missing or misordered blocks:\n%s", got)
	}
	if strings.Count(got, "\n---\n") != 2 {
		t.Errorf("want a separator after each block:\n%s", got)
	}
}

func TestWriteMetadata(t *testing.T) {
	dir := t.TempDir()
	a := New(nil, types.ArchiveConfig{BaseDir: dir}, nil)

	pdfPath := filepath.Join(dir, "2026-08-27_google_ada_a_paper.pdf")
	archived := types.ArchivedPaper{
		Paper: types.Paper{
			ID:    "http://arxiv.org/abs/2608.00042",
			Title: "A Paper",
		},
		Outcome: types.FilterOutcome{Accepted: true, Level: types.LevelMetadata, Company: "google"},
		PDFPath: pdfPath,
	}

	if err := a.WriteMetadata(archived); err != nil {
		t.Fatalf("WriteMetadata() error = %v", err)
	}

	data, err := os.ReadFile(strings.TrimSuffix(pdfPath, ".pdf") + ".yaml")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"A Paper", "metadata", "google"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metadata file missing %q:\n%s", want, data)
		}
	}
}
