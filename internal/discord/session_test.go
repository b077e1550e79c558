package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/jfmyers9/brainzbot/internal/bot"
)

func TestRenderEmbed(t *testing.T) {
	embed := renderEmbed(bot.Message{
		Title:       "Success",
		Description: "You have successfully logged into ListenBrainz",
		Footer:      "Username: alice",
	})

	if embed.Title != "Success" {
		t.Errorf("unexpected title: %q", embed.Title)
	}
	if embed.Footer == nil || embed.Footer.Text != "Username: alice" {
		t.Errorf("unexpected footer: %+v", embed.Footer)
	}

	plain := renderEmbed(bot.Message{Description: "no footer"})
	if plain.Footer != nil {
		t.Error("expected nil footer when message has none")
	}
}

func TestRenderComponentsScopesCustomID(t *testing.T) {
	session := &interactionSession{scope: "session-1"}

	components := session.renderComponents(bot.Message{
		Button: &bot.Button{ID: bot.TokenButtonID, Label: "Login with Access Token"},
	})

	if len(components) != 1 {
		t.Fatalf("expected one row, got %d", len(components))
	}
	row, ok := components[0].(discordgo.ActionsRow)
	if !ok {
		t.Fatalf("expected actions row, got %T", components[0])
	}
	button, ok := row.Components[0].(discordgo.Button)
	if !ok {
		t.Fatalf("expected button, got %T", row.Components[0])
	}
	if button.CustomID != bot.TokenButtonID+":session-1" {
		t.Errorf("unexpected custom id: %q", button.CustomID)
	}

	if got := session.renderComponents(bot.Message{}); len(got) != 0 {
		t.Errorf("expected no components without a button, got %d", len(got))
	}
}

func TestResponseFlags(t *testing.T) {
	if got := responseFlags(bot.Message{Ephemeral: true}); got != discordgo.MessageFlagsEphemeral {
		t.Errorf("expected ephemeral flag, got %d", got)
	}
	if got := responseFlags(bot.Message{}); got != 0 {
		t.Errorf("expected no flags for a public message, got %d", got)
	}
}

func TestTargetUserID(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Name: "nowplaying",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{
				Name:  "user",
				Type:  discordgo.ApplicationCommandOptionUser,
				Value: "987654321",
			},
		},
	}

	if got := targetUserID(data); got != "987654321" {
		t.Errorf("unexpected target: %q", got)
	}

	if got := targetUserID(discordgo.ApplicationCommandInteractionData{Name: "nowplaying"}); got != "" {
		t.Errorf("expected empty target without the option, got %q", got)
	}
}

func TestTokenFromModal(t *testing.T) {
	data := discordgo.ModalSubmitInteractionData{
		CustomID: "token_modal:abc",
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					&discordgo.TextInput{
						CustomID: modalTokenField,
						Value:    "11111111-1111-1111-1111-111111111111",
					},
				},
			},
		},
	}

	if got := tokenFromModal(data); got != "11111111-1111-1111-1111-111111111111" {
		t.Errorf("unexpected token: %q", got)
	}

	if got := tokenFromModal(discordgo.ModalSubmitInteractionData{}); got != "" {
		t.Errorf("expected empty token for empty payload, got %q", got)
	}
}
