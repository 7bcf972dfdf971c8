package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchboard/services"
	"matchboard/testutil"
)

func TestRootCmd_Help(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--help"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	for _, name := range []string{"serve", "migrate", "seed"} {
		assert.Contains(t, buf.String(), name)
	}
}

func TestNewLogger(t *testing.T) {
	assert.Equal(t, os.Stdout, logOutput)

	buf := new(bytes.Buffer)
	log := newLogger(buf, slog.LevelInfo)
	log.Debug("dispatcher: Skipped")
	log.Info("dispatcher: Delivered notifications", "count", 2)

	assert.NotContains(t, buf.String(), "Skipped")
	assert.Contains(t, buf.String(), "msg=\"dispatcher: Delivered notifications\" count=2")
}

func TestSeedPlayers_NextSaturdayEvening(t *testing.T) {
	thursday := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	players := seedPlayers(thursday)
	require.NotEmpty(t, players)
	assert.Equal(t, time.Date(2026, 10, 17, 18, 0, 0, 0, time.UTC), players[0].entry.Date)
}

func TestSeed_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)

	require.NoError(t, seed(ctx, store, "password123"))
	require.NoError(t, seed(ctx, store, "password123"))

	entries, err := services.NewBoardService(store).ListEntries(ctx, services.EntryFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
