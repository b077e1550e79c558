package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jfmyers9/brainzbot/internal/bot"
	"github.com/jfmyers9/brainzbot/internal/config"
	"github.com/jfmyers9/brainzbot/internal/discord"
	"github.com/jfmyers9/brainzbot/internal/store"
	"github.com/jfmyers9/brainzbot/internal/web"
	"github.com/jfmyers9/brainzbot/pkg/listenbrainz"
)

var runLogLevel string

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bot",
	Long: `Run the bot in the foreground.

The bot will:
- Connect to the Discord gateway and register the /login and /nowplaying commands
- Verify submitted tokens against the ListenBrainz API
- Store validated account links in a local SQLite database
- Serve the auxiliary HTTP endpoint
- Handle graceful shutdown on SIGINT/SIGTERM

Configuration is read from ~/.config/brainzbot/config.yaml and
BRAINZBOT_* environment variables; BRAINZBOT_DISCORD_TOKEN is required.`,
	RunE: runBot,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runLogLevel, "log-level", "", "Log level (debug, info, warn, error), overrides config")
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.DiscordToken == "" {
		return fmt.Errorf("discord token not configured, set BRAINZBOT_DISCORD_TOKEN")
	}

	level := cfg.LogLevel
	if runLogLevel != "" {
		level = runLogLevel
	}
	logger := setupLogger(level)

	logger.Info().Str("version", version).Msg("Starting brainzbot")

	links, err := store.Open(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("failed to open link store: %w", err)
	}
	defer func() { _ = links.Close() }()

	client := listenbrainz.NewClient(listenbrainz.Config{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		BaseURL:    cfg.APIBaseURL,
		Logger:     debugLogger{logger},
	})
	flow := bot.NewLinkFlow(client, links, logger)
	nowPlaying := bot.NewNowPlaying(client, links, logger)

	gateway, err := discord.New(discord.Config{
		Token:     cfg.DiscordToken,
		GuildID:   cfg.GuildID,
		ModalWait: time.Duration(cfg.ModalWait) * time.Second,
	}, flow, nowPlaying, logger)
	if err != nil {
		return fmt.Errorf("failed to create gateway: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle first signal gracefully, second signal forces exit
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info().Msg("Shutdown signal received, initiating graceful shutdown")
		cancel()

		<-sigChan
		logger.Warn().Msg("Second shutdown signal received, forcing exit")
		os.Exit(1)
	}()

	if err := gateway.Start(ctx); err != nil {
		return fmt.Errorf("failed to start gateway: %w", err)
	}

	server := web.New(cfg.ListenAddr, logger)
	serverErr := make(chan error, 1)
	go func() { serverErr <- server.Run(ctx) }()

	select {
	case err := <-serverErr:
		cancel()
		if stopErr := gateway.Stop(); stopErr != nil {
			logger.Error().Err(stopErr).Msg("Error closing gateway")
		}
		return err
	case <-ctx.Done():
	}

	if err := gateway.Stop(); err != nil {
		logger.Error().Err(err).Msg("Error closing gateway")
	}
	if err := <-serverErr; err != nil {
		logger.Error().Err(err).Msg("Error stopping HTTP server")
	}

	logger.Info().Msg("Bot stopped")
	return nil
}

// setupLogger creates a logger with the specified configuration
func setupLogger(logLevel string) zerolog.Logger {
	level := zerolog.InfoLevel
	switch logLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	return zerolog.New(os.Stderr).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// debugLogger adapts zerolog to the listenbrainz.Logger interface.
type debugLogger struct {
	logger zerolog.Logger
}

func (l debugLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}
