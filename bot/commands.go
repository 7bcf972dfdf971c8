package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"matchboard/models"
	"matchboard/services"
)

const lfgCommand = "lfg"

func gameSystemChoices() []*discordgo.ApplicationCommandOptionChoice {
	keys := make([]string, 0, len(models.GameSystems))
	for k := range models.GameSystems {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(keys))
	for i, k := range keys {
		choices[i] = &discordgo.ApplicationCommandOptionChoice{Name: models.GameSystems[k], Value: k}
	}
	return choices
}

func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        lfgCommand,
			Description: "Post a looking-for-game entry on the board",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "title",
					Description: "Short headline, at least 8 characters",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "body",
					Description: "Details, at least 10 characters",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "game_system",
					Description: "Game system (defaults to Warhammer 40k)",
					Choices:     gameSystemChoices(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "location",
					Description: "Where to play",
				},
			},
		},
	}
}

// lfgInput reads the /lfg options by name so optional ones may be missing.
func lfgInput(discordID string, options []*discordgo.ApplicationCommandInteractionDataOption) services.ExternalEntryInput {
	in := services.ExternalEntryInput{DiscordID: discordID}
	for _, opt := range options {
		if opt.Type != discordgo.ApplicationCommandOptionString {
			continue
		}
		switch opt.Name {
		case "title":
			in.Title = opt.StringValue()
		case "body":
			in.Body = opt.StringValue()
		case "game_system":
			in.GameSystem = opt.StringValue()
		case "location":
			in.Location = opt.StringValue()
		}
	}
	return in
}

// lfgReply turns the outcome of posting into the ephemeral reply text.
func lfgReply(entry *models.BoardEntry, err error) string {
	if err == nil {
		return fmt.Sprintf("Posted **%s** to the board (%s, %s).",
			entry.Title, models.GameSystems[entry.GameSystem], entry.Location)
	}

	var (
		ve *services.ValidationError
		nf *services.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		keys := make([]string, 0, len(ve.Fields))
		for k := range ve.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, len(keys))
		for i, k := range keys {
			lines[i] = "- " + ve.Fields[k]
		}
		return "Could not post your entry:\n" + strings.Join(lines, "\n")
	case errors.As(err, &nf):
		return "Your Discord account is not linked to the board yet. Sign in once with Discord on the website."
	default:
		return "Something went wrong while posting. Please try again later."
	}
}

func (b *Bot) handleLFG(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if user == nil {
		return
	}

	// Respond immediately to avoid timeout
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		slog.Error("bot: Failed to defer response", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entry, err := b.board.CreateEntryForExternalUser(ctx, lfgInput(user.ID, i.ApplicationCommandData().Options))
	if err != nil {
		slog.Info("bot: lfg rejected", "error", err, "discord_id", user.ID)
	}

	content := lfgReply(entry, err)
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
		slog.Error("bot: Failed to edit response", "error", err)
	}
}
