// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harvest queries the arXiv API and parses result pages into Paper
// records.
package harvest

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/paper-hunter/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// Harvester pages through arXiv search results for a fixed set of criteria.
type Harvester struct {
	Client *http.Client
	Config types.SearchConfig
	Log    *slog.Logger
}

// New returns a Harvester for the given criteria.
func New(client *http.Client, cfg types.SearchConfig, log *slog.Logger) *Harvester {
	if log == nil {
		log = slog.Default()
	}
	return &Harvester{Client: client, Config: cfg, Log: log}
}

// Search fetches pages of results until the result cap is reached or the
// upstream set is exhausted. A short page is taken as the end of the result
// set; a transient short page therefore ends the run early. That heuristic
// matches the upstream API's observed behavior and is deliberate.
//
// Any transport or parse failure aborts the whole search: the pipeline
// cannot proceed without its paper set.
func (h *Harvester) Search(ctx context.Context) ([]types.Paper, error) {
	cfg := h.Config
	query := BuildQuery(cfg.Keywords, cfg.Since(), cfg.Until(), cfg.Categories)
	h.Log.Info("searching arXiv",
		"keywords", cfg.Keywords,
		"categories", cfg.Categories,
		"since", cfg.Since().Format("2006-01-02"),
		"until", cfg.Until().Format("2006-01-02"))

	var papers []types.Paper
	for offset := 0; offset < cfg.MaxResults; offset += cfg.PageSize {
		pageSize := cfg.PageSize
		if remaining := cfg.MaxResults - offset; remaining < pageSize {
			pageSize = remaining
		}

		page, err := h.fetchPage(ctx, query, offset, pageSize)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		papers = append(papers, page...)
		if len(page) < pageSize {
			break
		}
	}

	h.Log.Info("harvest complete", "papers", len(papers))
	return papers, nil
}

// fetchPage requests one page of results, sorted by submission date descending.
func (h *Harvester) fetchPage(ctx context.Context, query string, offset, pageSize int) ([]types.Paper, error) {
	params := url.Values{}
	params.Set("search_query", query)
	params.Set("start", strconv.Itoa(offset))
	params.Set("max_results", strconv.Itoa(pageSize))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", h.Config.UserAgent)

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	return parseEntries(feed.Entries), nil
}

// arXiv Atom feed XML structures. The affiliation element lives in the
// arXiv extension namespace, not the Atom one.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string          `xml:"id"`
	Title      string          `xml:"title"`
	Summary    string          `xml:"summary"`
	Published  string          `xml:"published"`
	Updated    string          `xml:"updated"`
	Authors    []arxivAuthor   `xml:"author"`
	Links      []arxivLink     `xml:"link"`
	Categories []arxivCategory `xml:"category"`
}

type arxivAuthor struct {
	Name        string `xml:"name"`
	Affiliation string `xml:"http://arxiv.org/schemas/atom affiliation"`
}

type arxivLink struct {
	Href string `xml:"href,attr"`
	Type string `xml:"type,attr"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

// parseEntries converts feed entries into Paper records. Entries without an
// identifier are dropped.
func parseEntries(entries []arxivEntry) []types.Paper {
	papers := make([]types.Paper, 0, len(entries))
	for _, entry := range entries {
		if entry.ID == "" {
			continue
		}

		p := types.Paper{
			ID:        entry.ID,
			Title:     cleanText(entry.Title),
			Summary:   cleanText(entry.Summary),
			Published: entry.Published,
			Updated:   entry.Updated,
		}

		for _, a := range entry.Authors {
			p.Authors = append(p.Authors, types.Author{
				Name:        cleanText(a.Name),
				Affiliation: cleanText(a.Affiliation),
			})
		}

		for _, link := range entry.Links {
			if link.Type == "application/pdf" {
				p.PDFURL = link.Href
				break
			}
		}

		for _, cat := range entry.Categories {
			if cat.Term != "" {
				p.Categories = append(p.Categories, cat.Term)
			}
		}

		papers = append(papers, p)
	}
	return papers
}

// cleanText collapses all whitespace runs, including embedded newlines from
// the feed's wrapped text, into single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
