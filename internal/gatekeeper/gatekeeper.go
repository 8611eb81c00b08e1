// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gatekeeper decides whether a harvested paper originates from a
// whitelisted industry organization. Classification is a cascade of tiers
// evaluated in a fixed order, first match wins: author metadata, then an
// optional side-channel contact scan, then an optional LLM vote. The
// ordering reflects confidence and cost; the LLM tier only runs when the
// free tiers found nothing.
package gatekeeper

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/pdiddy/paper-hunter/pkg/types"
)

// Voter is the optional LLM collaborator for the last tier.
type Voter interface {
	// VoteIndustry reports whether the paper appears to come from one of the
	// whitelisted organizations.
	VoteIndustry(ctx context.Context, paper types.Paper, whitelist []string) (bool, error)
}

// SideChannel supplies associated contact text for a paper, such as the
// visible author/contact block of its abstract page.
type SideChannel interface {
	ContactText(ctx context.Context, paper types.Paper) (string, error)
}

// CompilePattern builds a single case-insensitive alternation over the
// whitelist, each name literal-escaped. Matching is plain substring with no
// word-boundary anchoring: "meta" legitimately also matches "metadata".
// That precision trade-off is inherited behavior and must not be tightened.
// Returns nil for an empty whitelist.
func CompilePattern(companies []string) *regexp.Regexp {
	escaped := make([]string, 0, len(companies))
	for _, c := range companies {
		if c = strings.TrimSpace(c); c != "" {
			escaped = append(escaped, regexp.QuoteMeta(strings.ToLower(c)))
		}
	}
	if len(escaped) == 0 {
		return nil
	}
	return regexp.MustCompile("(?i)" + strings.Join(escaped, "|"))
}

// tier is one classification strategy in the cascade.
type tier interface {
	name() string
	tryMatch(ctx context.Context, paper types.Paper) (types.FilterOutcome, bool)
}

// Gatekeeper runs the classification cascade.
type Gatekeeper struct {
	cfg   types.GatekeeperConfig
	tiers []tier
	log   *slog.Logger
}

// New builds a Gatekeeper. The side channel and voter are optional; a nil
// collaborator removes its tier from the cascade.
func New(cfg types.GatekeeperConfig, side SideChannel, voter Voter, log *slog.Logger) *Gatekeeper {
	if log == nil {
		log = slog.Default()
	}
	pattern := CompilePattern(cfg.CompanyWhitelist)

	tiers := []tier{metadataTier{pattern: pattern}}
	if side != nil {
		tiers = append(tiers, sideChannelTier{pattern: pattern, side: side, log: log})
	}
	if voter != nil {
		tiers = append(tiers, llmTier{voter: voter, whitelist: cfg.CompanyWhitelist, log: log})
	}

	return &Gatekeeper{cfg: cfg, tiers: tiers, log: log}
}

// Classify evaluates the tiers in order and returns the first match. When no
// tier matches, the outcome is a rejection with all evidence fields empty.
func (g *Gatekeeper) Classify(ctx context.Context, paper types.Paper) types.FilterOutcome {
	for _, t := range g.tiers {
		if outcome, ok := t.tryMatch(ctx, paper); ok {
			g.log.Debug("gatekeeper match", "tier", t.name(), "company", outcome.Company, "paper", paper.Title)
			return outcome
		}
	}
	return types.FilterOutcome{Accepted: false}
}

// metadataTier scans, in order: each author's affiliation, the concatenated
// author names, the title, and the summary. The first field that matches
// supplies the evidence.
type metadataTier struct {
	pattern *regexp.Regexp
}

func (t metadataTier) name() string { return "metadata" }

func (t metadataTier) tryMatch(_ context.Context, paper types.Paper) (types.FilterOutcome, bool) {
	if t.pattern == nil {
		return types.FilterOutcome{}, false
	}

	var fields []string
	for _, a := range paper.Authors {
		if a.Affiliation != "" {
			fields = append(fields, a.Affiliation)
		}
	}
	names := make([]string, len(paper.Authors))
	for i, a := range paper.Authors {
		names[i] = a.Name
	}
	fields = append(fields, strings.Join(names, " "), paper.Title, paper.Summary)

	for _, field := range fields {
		if match := t.pattern.FindString(field); match != "" {
			return types.FilterOutcome{
				Accepted: true,
				Level:    types.LevelMetadata,
				Company:  match,
				Evidence: field,
			}, true
		}
	}
	return types.FilterOutcome{}, false
}

// sideChannelTier scans contact text associated with the paper. A scrape
// failure degrades the tier to no match.
type sideChannelTier struct {
	pattern *regexp.Regexp
	side    SideChannel
	log     *slog.Logger
}

func (t sideChannelTier) name() string { return "email" }

func (t sideChannelTier) tryMatch(ctx context.Context, paper types.Paper) (types.FilterOutcome, bool) {
	if t.pattern == nil {
		return types.FilterOutcome{}, false
	}

	text, err := t.side.ContactText(ctx, paper)
	if err != nil {
		t.log.Warn("side-channel fetch failed", "paper", paper.ID, "error", err)
		return types.FilterOutcome{}, false
	}
	if text == "" {
		return types.FilterOutcome{}, false
	}

	if match := t.pattern.FindString(text); match != "" {
		return types.FilterOutcome{
			Accepted: true,
			Level:    types.LevelEmail,
			Company:  match,
			Evidence: text,
		}, true
	}
	return types.FilterOutcome{}, false
}

// llmTier asks the external classifier for a vote. A classifier failure is
// logged and counted as a negative vote; it never aborts the paper.
type llmTier struct {
	voter     Voter
	whitelist []string
	log       *slog.Logger
}

func (t llmTier) name() string { return "llm" }

func (t llmTier) tryMatch(ctx context.Context, paper types.Paper) (types.FilterOutcome, bool) {
	yes, err := t.voter.VoteIndustry(ctx, paper, t.whitelist)
	if err != nil {
		t.log.Warn("LLM vote failed", "paper", paper.ID, "error", err)
		return types.FilterOutcome{}, false
	}
	if !yes {
		return types.FilterOutcome{}, false
	}
	return types.FilterOutcome{
		Accepted: true,
		Level:    types.LevelLLM,
		Evidence: "LLM vote",
	}, true
}
