// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gatekeeper

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/paper-hunter/pkg/types"
)

// ContactScraper fetches a paper's abstract page and extracts the visible
// author and metadata text as side-channel evidence for the email tier. The
// entry <id> of an arXiv feed record is the abs page URL, so no URL
// derivation is needed.
type ContactScraper struct {
	Client    *http.Client
	UserAgent string
}

// ContactText returns the author/metadata block text of the paper's abs
// page, whitespace-collapsed. An empty string means the page carried no
// recognizable block.
func (s *ContactScraper) ContactText(ctx context.Context, paper types.Paper) (string, error) {
	if paper.ID == "" {
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, paper.ID, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching abs page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("abs page returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing abs page: %w", err)
	}

	var parts []string
	doc.Find("div.authors, div.metatable, td.tablecell").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " "), nil
}
