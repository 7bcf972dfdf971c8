package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"matchboard/config"
	"matchboard/repository"
)

var cfg *config.Config

// logOutput receives the process log.
var logOutput io.Writer = os.Stdout

var rootCmd = &cobra.Command{
	Use:   "matchboard",
	Short: "Tabletop matchmaking board",
	Long: `Matchboard lets players post open game requests, send and answer
match requests, and get notified in the browser or through Discord.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		slog.SetDefault(newLogger(logOutput, cfg.SlogLevel()))
		return nil
	},
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// openDatabase connects with SQL logging only at debug level.
func openDatabase() (*gorm.DB, error) {
	level := logger.Warn
	if cfg.SlogLevel() <= slog.LevelDebug {
		level = logger.Info
	}
	db, err := repository.Open(cfg.DatabaseURL, level)
	if err != nil {
		slog.Error("main: Failed to initialize storage", "error", err)
		return nil, err
	}
	return db, nil
}
