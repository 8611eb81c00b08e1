// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-hunter/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds the harvesting criteria. Constructed once per run and
// never mutated afterwards.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Keywords are full-text phrases combined with OR in the query.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Categories restricts results to arXiv subject categories
	// (e.g. cs.IR, cs.LG). Empty means unfiltered.
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// LastNDays sets the inclusive date window: [today-N, today].
	LastNDays int `json:"last_n_days" yaml:"last_n_days"`

	// MaxResults caps the total number of records fetched across pages.
	MaxResults int `json:"max_results" yaml:"max_results"`

	// PageSize is the number of records requested per API page.
	PageSize int `json:"page_size" yaml:"page_size"`
}

// Since returns the inclusive start of the date window.
func (c SearchConfig) Since() time.Time {
	return time.Now().AddDate(0, 0, -c.LastNDays)
}

// Until returns the inclusive end of the date window. Today, so late uploads
// in other time zones are not missed.
func (c SearchConfig) Until() time.Time {
	return time.Now()
}

// GatekeeperConfig holds the industry-filter settings.
type GatekeeperConfig struct {
	// CompanyWhitelist lists the organization names to match. Matching is
	// case-insensitive substring: "meta" also matches "metadata".
	CompanyWhitelist []string `json:"company_whitelist" yaml:"company_whitelist"`

	// ScrapeContacts enables the side-channel tier: fetch each paper's abs
	// page and scan the visible contact text against the whitelist.
	ScrapeContacts bool `json:"scrape_contacts" yaml:"scrape_contacts"`
}

// ArchiveConfig holds settings for the archiving stage.
type ArchiveConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseDir is the root of the per-day archive tree (default "downloads").
	BaseDir string `json:"base_dir" yaml:"base_dir"`
}

// AnalystConfig holds settings for the LLM enrichment stage.
type AnalystConfig struct {
	// APIKeyEnvVar names the environment variable holding the chat API key.
	APIKeyEnvVar string `json:"api_key_env_var" yaml:"api_key_env_var"`

	// APIKey is the resolved key. Populated at startup from APIKeyEnvVar or
	// the secrets directory; empty disables enrichment with a warning.
	APIKey string `json:"-" yaml:"-"`

	// Model is the chat model identifier (e.g. "deepseek-chat").
	Model string `json:"model" yaml:"model"`

	// BaseURL is the chat-completions endpoint.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// MaxTokens bounds each completion (default 2048).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// MaxRetries is the number of retry attempts on rate-limited calls.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// TelegramConfig holds the delivery-sink credentials. Either field empty
// degrades delivery to a no-op.
type TelegramConfig struct {
	BotToken string `json:"bot_token,omitempty" yaml:"bot_token,omitempty"`
	ChatID   string `json:"chat_id,omitempty" yaml:"chat_id,omitempty"`
}

// PipelineConfig groups all stage configurations for a run.
type PipelineConfig struct {
	Search     SearchConfig     `json:"search" yaml:"search"`
	Gatekeeper GatekeeperConfig `json:"gatekeeper" yaml:"gatekeeper"`
	Archive    ArchiveConfig    `json:"archive" yaml:"archive"`
	Analyst    AnalystConfig    `json:"analyst" yaml:"analyst"`
	Telegram   TelegramConfig   `json:"telegram" yaml:"telegram"`
}

// DefaultKeywords is the stock recommender-systems keyword list.
func DefaultKeywords() []string {
	return []string{
		"recommendation system",
		"recommender system",
		"CTR prediction",
		"LLM for rec",
	}
}

// DefaultCategories lists the recsys/IR/ML/LLM-adjacent arXiv categories.
func DefaultCategories() []string {
	return []string{"cs.IR", "cs.LG", "cs.AI", "stat.ML", "cs.CL"}
}

// DefaultCompanyWhitelist lists the stock industry organizations, lowercase
// to keep the pattern simple.
func DefaultCompanyWhitelist() []string {
	return []string{
		"google", "deepmind",
		"meta", "facebook", "instagram",
		"bytedance", "tiktok", "douyin", "toutiao",
		"tencent", "wechat",
		"alibaba", "taobao", "tmall",
		"kuaishou", "xiaohongshu", "bilibili", "baidu",
		"microsoft", "apple", "amazon", "netflix",
	}
}

// DefaultPipelineConfig returns the stock configuration the CLI starts from
// before applying the config file, environment, and flags.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{Timeout: 30 * time.Second, UserAgent: "paper-hunter/0.1"},
			Keywords:   DefaultKeywords(),
			Categories: DefaultCategories(),
			LastNDays:  1,
			MaxResults: 500,
			PageSize:   100,
		},
		Gatekeeper: GatekeeperConfig{
			CompanyWhitelist: DefaultCompanyWhitelist(),
		},
		Archive: ArchiveConfig{
			HTTPConfig: HTTPConfig{Timeout: 60 * time.Second, UserAgent: "paper-hunter/0.1"},
			BaseDir:    "downloads",
		},
		Analyst: AnalystConfig{
			APIKeyEnvVar: "DEEPSEEK_API_KEY",
			Model:        "deepseek-chat",
			BaseURL:      "https://api.deepseek.com/v1/chat/completions",
			MaxTokens:    2048,
			MaxRetries:   3,
		},
	}
}
