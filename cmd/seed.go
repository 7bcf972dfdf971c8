package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"matchboard/repository"
	"matchboard/services"
)

var seedPassword string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo players and board entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		if err := repository.Migrate(db); err != nil {
			return err
		}
		store := repository.NewGormStore(db)
		return seed(cmd.Context(), store, seedPassword)
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedPassword, "password", "password123", "Password for every demo account")
}

type seedPlayer struct {
	first, last, email, faction string
	entry                       services.EntryInput
}

func seedPlayers(now time.Time) []seedPlayer {
	saturday := now.AddDate(0, 0, (int(time.Saturday)-int(now.Weekday())+7)%7)
	y, m, d := saturday.Date()
	evening := time.Date(y, m, d, 18, 0, 0, 0, now.Location())

	return []seedPlayer{
		{
			first: "Anna", last: "Gruber", email: "anna@example.com", faction: "NECRONS",
			entry: services.EntryInput{
				Title:      "Looking for a 2k game",
				Body:       "Bring any list, casual pace",
				GameSystem: "WARHAMMER_40K",
				Location:   "Vienna",
				Date:       evening,
			},
		},
		{
			first: "Ben", last: "Huber", email: "ben@example.com", faction: "ORKS",
			entry: services.EntryInput{
				Title:      "Age of Sigmar escalation league",
				Body:       "Starting at 1000 points, weekly games",
				GameSystem: "AGE_OF_SIGMAR",
				Location:   "Graz",
				Date:       evening.AddDate(0, 0, 1),
			},
		},
	}
}

func seed(ctx context.Context, store repository.Store, password string) error {
	users := services.NewUserService(store, nil, nil)
	board := services.NewBoardService(store)

	for _, p := range seedPlayers(time.Now()) {
		user, err := users.Register(ctx, services.RegisterInput{
			Email:     p.email,
			Password:  password,
			FirstName: p.first,
			LastName:  p.last,
		})
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			slog.Info("seed: Skipping existing player", "email", p.email)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to seed %s: %w", p.email, err)
		}

		if _, err := users.CompleteOnboarding(ctx, user.ID, services.OnboardingInput{Faction: p.faction}); err != nil {
			return fmt.Errorf("failed to onboard %s: %w", p.email, err)
		}
		if _, err := board.CreateEntry(ctx, user.ID, p.entry); err != nil {
			return fmt.Errorf("failed to post entry for %s: %w", p.email, err)
		}
		slog.Info("seed: Created player", "email", p.email)
	}
	return nil
}
