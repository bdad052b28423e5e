package twitchapi

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// ChatScopes are the minimum scopes the bot's user token needs for IRC.
var ChatScopes = []string{"chat:read", "chat:edit", "whispers:read"}

// ChatTokenSource wraps the oauth2 refresh-token flow for the IRC user token.
// Built from a long-lived refresh token; access tokens are refreshed
// automatically as they expire.
type ChatTokenSource struct {
	src oauth2.TokenSource
}

// NewChatTokenSource returns a source that mints user access tokens from the
// stored refresh token.
func NewChatTokenSource(ctx context.Context, clientID, clientSecret, refreshToken string) *ChatTokenSource {
	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     endpoints.Twitch,
		Scopes:       ChatScopes,
	}
	seed := &oauth2.Token{RefreshToken: refreshToken}
	return &ChatTokenSource{src: cfg.TokenSource(ctx, seed)}
}

// StaticChatToken wraps an already-issued access token (no refresh). Used when
// only TWITCH_OAUTH is configured.
func StaticChatToken(accessToken string) *ChatTokenSource {
	return &ChatTokenSource{src: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})}
}

// IRCToken returns the current access token in the "oauth:..." form the IRC
// server expects.
func (c *ChatTokenSource) IRCToken() (string, error) {
	tok, err := c.src.Token()
	if err != nil {
		return "", fmt.Errorf("refresh chat token: %w", err)
	}
	access := strings.TrimPrefix(tok.AccessToken, "oauth:")
	if access == "" {
		return "", fmt.Errorf("empty chat access token")
	}
	return "oauth:" + access, nil
}
