// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-hunter CLI, an arXiv
// industry paper tracker: it harvests recent papers matching keyword and
// category criteria, filters them down to industry-authored work, archives
// the PDFs, and optionally summarizes, translates, and delivers the results.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-hunter/internal/secrets"
	"github.com/pdiddy/paper-hunter/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the paper-hunter CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-hunter",
	Short: "Track industry papers on arXiv",
	Long: `paper-hunter discovers recently submitted arXiv papers matching keyword and
category criteria, keeps the ones authored by whitelisted industry
organizations, archives the PDFs into a per-day folder tree, and optionally
produces LLM summaries and abstract translations with Telegram delivery.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional developer convenience; absence is not an error.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s

		level, _ := cmd.Flags().GetString("log-level")
		setupLogging(level)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-hunter.yaml or ~/.config/paper-hunter/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "logging level (debug, info, warn, error)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-hunter")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-hunter"))
		}
	}

	viper.SetEnvPrefix("PAPER_HUNTER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// loadPipelineConfig merges the stock defaults with the config file and
// resolves credentials from the environment and the secrets directory.
func loadPipelineConfig() types.PipelineConfig {
	cfg := types.DefaultPipelineConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "warning: ignoring malformed config: %v\n", err)
	}

	cfg.Analyst.APIKey = os.Getenv(cfg.Analyst.APIKeyEnvVar)
	if cfg.Analyst.APIKey == "" {
		cfg.Analyst.APIKey = loadedSecrets["deepseek-api-key"]
	}

	if cfg.Telegram.BotToken == "" {
		cfg.Telegram.BotToken = firstNonEmpty(os.Getenv("TELEGRAM_BOT_TOKEN"), loadedSecrets["telegram-bot-token"])
	}
	if cfg.Telegram.ChatID == "" {
		cfg.Telegram.ChatID = firstNonEmpty(os.Getenv("TELEGRAM_CHAT_ID"), loadedSecrets["telegram-chat-id"])
	}

	return cfg
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
