// Package bot runs the Discord side of the board: the /lfg slash command,
// direct messages for notifications, and identity lookups for sign-in.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"matchboard/models"
	"matchboard/services"
	"matchboard/utils"
)

// EntryPoster posts a board entry on behalf of a Discord user.
type EntryPoster interface {
	CreateEntryForExternalUser(ctx context.Context, in services.ExternalEntryInput) (*models.BoardEntry, error)
}

// Bot represents the Discord bot instance
type Bot struct {
	session  *discordgo.Session
	board    EntryPoster
	commands []*discordgo.ApplicationCommand
}

// New creates a new Bot instance. Nothing connects until Start.
func New(token string, board EntryPoster) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsDirectMessages
	session.Client = utils.HTTPClient

	b := &Bot{session: session, board: board}
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("bot: Ready", "guilds", len(r.Guilds))
	})
	return b, nil
}

// Messenger returns a DM sender sharing the bot's session.
func (b *Bot) Messenger() *DMSender {
	return &DMSender{session: b.session}
}

// Start opens the gateway connection and registers slash commands.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	slog.Info("bot: Connected to Discord", "user", b.session.State.User.Username)

	for _, cmd := range commandDefinitions() {
		registered, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
		b.commands = append(b.commands, registered)
	}
	slog.Info("bot: Slash commands registered", "count", len(b.commands))
	return nil
}

// Stop closes the gateway connection. Commands stay registered.
func (b *Bot) Stop() error {
	if b.session == nil {
		return nil
	}
	return b.session.Close()
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	slog.Debug("bot: Received command", "command", data.Name, "guild", i.GuildID)

	switch data.Name {
	case lfgCommand:
		b.handleLFG(s, i)
	default:
		slog.Warn("bot: Unknown command", "command", data.Name)
	}
}

// interactionUser returns the invoking user in guilds and in DMs.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
