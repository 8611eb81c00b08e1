// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-hunter pipeline.
package types

// Author identifies a paper author as reported by the source feed.
type Author struct {
	// Name is the author's display name.
	Name string `json:"name" yaml:"name"`

	// Affiliation is the author's institutional affiliation. Empty when the
	// feed carries no affiliation for this author.
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
}

// Paper holds one record parsed from the arXiv Atom feed.
type Paper struct {
	// ID is the arXiv identifier URL from the entry's <id> element.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title, whitespace-normalized.
	Title string `json:"title" yaml:"title"`

	// Summary is the paper abstract, whitespace-normalized.
	Summary string `json:"summary" yaml:"summary"`

	// Published is the submission timestamp as reported by the feed (RFC 3339).
	Published string `json:"published" yaml:"published"`

	// Updated is the last-revision timestamp. May be empty.
	Updated string `json:"updated,omitempty" yaml:"updated,omitempty"`

	// Authors lists the paper authors in source-feed order.
	Authors []Author `json:"authors" yaml:"authors"`

	// PDFURL is the href of the first feed link typed application/pdf.
	// Empty when the entry carries no PDF link.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// Categories lists the arXiv subject tags, in feed order.
	Categories []string `json:"categories" yaml:"categories"`
}

// FirstAuthor returns the name of the first listed author, or "unknown"
// for a paper with no authors.
func (p Paper) FirstAuthor() string {
	if len(p.Authors) == 0 {
		return "unknown"
	}
	return p.Authors[0].Name
}

// FilterLevel identifies which gatekeeper tier produced a decision.
type FilterLevel string

const (
	LevelNone     FilterLevel = ""
	LevelMetadata FilterLevel = "metadata"
	LevelEmail    FilterLevel = "email"
	LevelLLM      FilterLevel = "llm"
	LevelSkipped  FilterLevel = "skipped"
)

// FilterOutcome is the gatekeeper's decision for a single paper.
type FilterOutcome struct {
	// Accepted reports whether the paper passed the cascade.
	Accepted bool `json:"accepted" yaml:"accepted"`

	// Level names the tier that matched: metadata, email, llm, or skipped
	// when filtering was bypassed. Empty when rejected.
	Level FilterLevel `json:"level,omitempty" yaml:"level,omitempty"`

	// Company is the whitelist substring that matched. Empty for LLM votes
	// and rejections.
	Company string `json:"company,omitempty" yaml:"company,omitempty"`

	// Evidence is the full text of the field that matched.
	Evidence string `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// PDFAssets holds optional artifacts extracted from an archived PDF.
type PDFAssets struct {
	// CoverImage is the rendered first-page image path. Empty when cover
	// extraction was unavailable or failed.
	CoverImage string `json:"cover_image,omitempty" yaml:"cover_image,omitempty"`

	// Figures lists extracted figure image paths.
	Figures []string `json:"figures,omitempty" yaml:"figures,omitempty"`
}

// ArchivedPaper ties a harvested paper to its archived PDF and the filter
// decision that admitted it. Accumulated by the orchestrator during a run
// and discarded at process end.
type ArchivedPaper struct {
	Paper   Paper         `json:"paper" yaml:"paper"`
	Outcome FilterOutcome `json:"outcome" yaml:"outcome"`

	// PDFPath is the local filesystem path of the downloaded PDF.
	PDFPath string `json:"pdf_path" yaml:"pdf_path"`

	// Assets holds optional extracted artifacts (cover image, figures).
	Assets PDFAssets `json:"assets" yaml:"assets"`
}
