package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/skillcast/internal/bot"
	"github.com/jonathan/skillcast/internal/classify"
	"github.com/jonathan/skillcast/internal/config"
	"github.com/jonathan/skillcast/internal/fetch"
	"github.com/jonathan/skillcast/internal/match"
	"github.com/jonathan/skillcast/internal/pipeline"
	"github.com/jonathan/skillcast/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bot",
	Long:  `Connect to the database and the chat gateway and start watching messages for shared resources.`,
	RunE:  runBot,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runBot(cmd *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Profile store
	st, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.InitSchema(ctx); err != nil {
		return err
	}

	// Classifier client lifecycle is owned here; the classifier only borrows
	// the handle.
	client, err := classify.NewClient(ctx, classify.ConfigForProvider(classify.Provider(cfg.LLMProvider)), cfg.APIKey())
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	tier := classify.TierLite
	if cfg.LLMTier == "standard" {
		tier = classify.TierStandard
	}

	mode := match.ModeSubstring
	if cfg.MatchMode == config.MatchModeToken {
		mode = match.ModeToken
	}

	b, err := bot.New(bot.Config{
		Token: cfg.DiscordToken,
		Store: st,
		Fetcher: &pipeline.WebFetcher{
			Options:    fetch.DefaultOptions(),
			UseBrowser: cfg.UseBrowser,
		},
		Classifier:   classify.New(client).WithTier(tier),
		Mode:         mode,
		DefaultTheme: cfg.DefaultTheme,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	if err := b.Open(); err != nil {
		return err
	}
	logger.Info("bot started", "provider", cfg.LLMProvider, "match_mode", string(cfg.MatchMode))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		return b.Close()
	})

	return g.Wait()
}

func newLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.Kitchen,
	}))
}
