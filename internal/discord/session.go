package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jfmyers9/brainzbot/internal/bot"
)

const modalTokenField = "token"

// interactionSession implements bot.Session on top of one command
// interaction's editable response.
type interactionSession struct {
	gateway     *Gateway
	interaction *discordgo.Interaction
	scope       string
}

func newInteractionSession(g *Gateway, i *discordgo.InteractionCreate) *interactionSession {
	return &interactionSession{gateway: g, interaction: i.Interaction, scope: i.ID}
}

// scopedID namespaces a custom id to this session so concurrent
// sessions never steal each other's events.
func (s *interactionSession) scopedID(id string) string {
	return id + ":" + s.scope
}

func (s *interactionSession) UserID() string {
	if s.interaction.Member != nil {
		return s.interaction.Member.User.ID
	}
	return s.interaction.User.ID
}

func (s *interactionSession) Respond(ctx context.Context, m bot.Message) error {
	return s.gateway.session.InteractionRespond(s.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{renderEmbed(m)},
			Components: s.renderComponents(m),
			Flags:      responseFlags(m),
		},
	}, discordgo.WithContext(ctx))
}

// responseFlags maps a message's visibility onto Discord's flag bits.
// Edits inherit the initial response's visibility, so only Respond
// consults this.
func responseFlags(m bot.Message) discordgo.MessageFlags {
	if m.Ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

func (s *interactionSession) Edit(ctx context.Context, m bot.Message) error {
	embeds := []*discordgo.MessageEmbed{renderEmbed(m)}
	components := s.renderComponents(m)
	_, err := s.gateway.session.InteractionResponseEdit(s.interaction, &discordgo.WebhookEdit{
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	return err
}

func (s *interactionSession) Delete(ctx context.Context) error {
	return s.gateway.session.InteractionResponseDelete(s.interaction, discordgo.WithContext(ctx))
}

func renderEmbed(m bot.Message) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       m.Title,
		Description: m.Description,
	}
	if m.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: m.Footer}
	}
	return embed
}

func (s *interactionSession) renderComponents(m bot.Message) []discordgo.MessageComponent {
	if m.Button == nil {
		return []discordgo.MessageComponent{}
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    m.Button.Label,
					Style:    discordgo.PrimaryButton,
					CustomID: s.scopedID(m.Button.ID),
				},
			},
		},
	}
}

// componentCollector implements bot.Collector over the routed stream of
// button clicks for one session.
type componentCollector struct {
	gateway *Gateway
	events  chan *discordgo.InteractionCreate
}

func (c *componentCollector) Next(ctx context.Context) (bot.Submission, bool) {
	select {
	case <-ctx.Done():
		return nil, false
	case click := <-c.events:
		return &modalSubmission{gateway: c.gateway, click: click}, true
	}
}

// modalSubmission implements bot.Submission for one button click: it
// presents the token modal and waits for the matching submit event.
type modalSubmission struct {
	gateway *Gateway
	click   *discordgo.InteractionCreate
}

func (m *modalSubmission) PromptToken(ctx context.Context) (string, bool, error) {
	modalID := "token_modal:" + m.click.ID
	events := m.gateway.subscribe(modalID)
	defer m.gateway.unsubscribe(modalID)

	err := m.gateway.session.InteractionRespond(m.click.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: modalID,
			Title:    "ListenBrainz Login",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:    modalTokenField,
							Label:       "User Token",
							Style:       discordgo.TextInputShort,
							Placeholder: "00000000-0000-0000-0000-000000000000",
							Required:    true,
							MinLength:   36,
							MaxLength:   36,
						},
					},
				},
			},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", false, err
	}

	// Discord sends no event when the user closes the modal, so a
	// dismissal and a slow user look the same: the wait just elapses.
	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case <-time.After(m.gateway.modalWait):
		return "", false, nil
	case submit := <-events:
		_ = m.gateway.session.InteractionRespond(submit.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		})
		return tokenFromModal(submit.ModalSubmitData()), true, nil
	}
}

// tokenFromModal digs the token field out of a modal submit payload.
func tokenFromModal(data discordgo.ModalSubmitInteractionData) string {
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, component := range actionsRow.Components {
			if input, ok := component.(*discordgo.TextInput); ok && input.CustomID == modalTokenField {
				return input.Value
			}
		}
	}
	return ""
}
