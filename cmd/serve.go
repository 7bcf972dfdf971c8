package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"matchboard/bot"
	"matchboard/handlers"
	"matchboard/middleware"
	"matchboard/repository"
	"matchboard/services"
	"matchboard/utils"
	"matchboard/workers"
)

var skipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server, the Discord bot and the notification dispatcher",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not migrate the schema on startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase()
	if err != nil {
		return err
	}
	if !skipMigrate {
		if err := repository.Migrate(db); err != nil {
			return err
		}
	}
	store := repository.NewGormStore(db)

	var avatars services.AvatarStore
	if cfg.R2.Enabled() {
		uploader, err := utils.NewR2Uploader(ctx, cfg.R2)
		if err != nil {
			return err
		}
		avatars = uploader
	} else {
		slog.Warn("main: R2 is not configured, avatar uploads are disabled")
	}

	var (
		identities services.IdentityFetcher
		discord    *handlers.DiscordOAuth
	)
	if cfg.DiscordOAuthEnabled() {
		identities = bot.OAuthIdentityFetcher{}
		discord = &handlers.DiscordOAuth{ClientID: cfg.DiscordClientID, RedirectURL: cfg.DiscordRedirectURL}
	}

	board := services.NewBoardService(store)
	app := handlers.NewApp(handlers.Deps{
		DB:             store,
		Sessions:       middleware.NewSessions(cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure),
		Board:          board,
		Matches:        services.NewMatchService(store),
		Notifications:  services.NewNotificationService(store),
		Users:          services.NewUserService(store, avatars, identities),
		AllowedOrigins: cfg.AllowedOrigins,
		BotAPIToken:    cfg.BotAPIToken,
		Discord:        discord,
		RequestLog:     true,
	})

	if cfg.DiscordBotToken != "" {
		b, err := bot.New(cfg.DiscordBotToken, board)
		if err != nil {
			return err
		}
		if err := b.Start(); err != nil {
			slog.Error("main: Failed to start bot", "error", err)
			return err
		}
		defer b.Stop()

		dispatcher := workers.NewNotificationDispatcher(store, b.Messenger(), cfg.DispatchInterval)
		if err := dispatcher.Start(ctx); err != nil {
			return err
		}
		defer dispatcher.Stop()
	} else {
		slog.Warn("main: DISCORD_BOT_TOKEN is not set, bot and DM notifications are disabled")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.ListenAddr)
	}()
	slog.Info("main: Server running", "addr", cfg.ListenAddr)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("main: Server error", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("main: Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
