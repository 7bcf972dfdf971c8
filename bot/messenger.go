package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DMSender sends direct messages through a bot session.
type DMSender struct {
	session *discordgo.Session
}

func (d *DMSender) SendDirectMessage(ctx context.Context, discordUserID, content string) error {
	channel, err := d.session.UserChannelCreate(discordUserID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}
	if _, err := d.session.ChannelMessageSend(channel.ID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send DM: %w", err)
	}
	return nil
}
