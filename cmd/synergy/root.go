package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/amishk599/synergy/internal/ai"
	"github.com/amishk599/synergy/internal/batch"
	"github.com/amishk599/synergy/internal/config"
	"github.com/amishk599/synergy/internal/filter"
	"github.com/amishk599/synergy/internal/model"
	"github.com/amishk599/synergy/internal/notifier"
	"github.com/amishk599/synergy/internal/ratelimit"
	"github.com/amishk599/synergy/internal/retry"
	"github.com/amishk599/synergy/internal/session"
	"github.com/amishk599/synergy/internal/store"
)

const defaultConfigPath = "config.yaml"

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "synergy",
	Short: "Personalized VC outreach paragraphs",
	Long: "Synergy reads a table of companies and a description of your firm and writes one\n" +
		"AI-generated synergy paragraph per company, ready to export as a spreadsheet.",
	// With no subcommand, open the interactive form.
	RunE:          runUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: SYNERGY_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig loads .env, then resolves the config path and parses it.
// Priority: explicit path arg > SYNERGY_CONFIG env var > "./config.yaml".
// A missing ./config.yaml falls back to built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if path == "" {
		if env := os.Getenv("SYNERGY_CONFIG"); env != "" {
			path = env
		} else {
			path = defaultConfigPath
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				return config.Default(), nil
			}
		}
	}
	return config.Load(path)
}

// Logs go to stderr so stdout carries only command output.
func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// setupCompleter builds the configured provider and wraps it with throttling
// and retry. Retry is outermost so every attempt is throttled.
func setupCompleter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (model.Completer, error) {
	httpClient := &http.Client{Timeout: cfg.AI.Timeout}

	var c model.Completer
	switch cfg.AI.Provider {
	case "openai":
		c = ai.NewOpenAIProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, httpClient)
	case "gemini":
		g, err := ai.NewGeminiProvider(ctx, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL, httpClient)
		if err != nil {
			return nil, err
		}
		c = g
	case "echo":
		c = ai.NewEchoProvider()
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.AI.Provider)
	}
	logger.Debug("completion provider configured", "provider", cfg.AI.Provider, "model", cfg.AI.Model)

	if cfg.AI.MinDelay > 0 {
		c = ratelimit.NewRateLimitedCompleter(c, ratelimit.NewLimiter(cfg.AI.MinDelay), cfg.AI.Provider)
	}
	if cfg.AI.MaxRetries > 0 {
		c = retry.NewRetryCompleter(c, cfg.AI.MaxRetries, cfg.AI.RetryDelay, logger)
	}
	return c, nil
}

func newProcessor(cfg *config.Config, c model.Completer, n model.Notifier, logger *slog.Logger) *batch.Processor {
	return batch.NewProcessor(
		c,
		filter.NewWordLimitFilter(cfg.Limits.MaxDescriptionWords),
		n,
		batch.Options{MaxRows: cfg.Limits.MaxRows, KeepPartial: cfg.Batch.KeepPartial},
		logger,
	)
}

func promptFromConfig(cfg *config.Config) model.PromptConfig {
	return model.PromptConfig{RoleLabel: cfg.Prompt.Role, Template: cfg.Prompt.Template}
}

// openStore returns the SQLite store when session.db_path is set and a
// NopStore otherwise. The returned close func is always non-nil.
func openStore(cfg *config.Config) (model.SessionStore, func() error, error) {
	if cfg.Session.DBPath == "" {
		return store.NewNopStore(), func() error { return nil }, nil
	}
	s, err := openSQLite(cfg)
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}

func openSQLite(cfg *config.Config) (*store.SQLiteStore, error) {
	if cfg.Session.DBPath == "" {
		return nil, errors.New("session.db_path is not configured")
	}
	return store.NewSQLiteStore(cfg.Session.DBPath)
}

// openSession resumes id, or starts a new session when id is empty.
func openSession(st model.SessionStore, id string) (*session.Session, error) {
	if id == "" {
		return session.Start(st)
	}
	return session.Resume(st, id)
}
