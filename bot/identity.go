package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"matchboard/services"
	"matchboard/utils"
)

// OAuthIdentityFetcher resolves a user's OAuth bearer token to their Discord account.
type OAuthIdentityFetcher struct{}

func (OAuthIdentityFetcher) FetchIdentity(ctx context.Context, accessToken string) (*services.DiscordIdentity, error) {
	session, err := discordgo.New("Bearer " + accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Client = utils.HTTPClient

	u, err := session.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Discord user: %w", err)
	}
	return identityFromUser(u), nil
}

func identityFromUser(u *discordgo.User) *services.DiscordIdentity {
	name := u.GlobalName
	if name == "" {
		name = u.Username
	}
	id := &services.DiscordIdentity{
		ID:       u.ID,
		Username: name,
		Email:    u.Email,
		Verified: u.Verified,
	}
	if u.Avatar != "" {
		id.AvatarURL = u.AvatarURL("256")
	}
	return id
}
