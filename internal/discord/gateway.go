// Package discord connects the bot commands to the Discord gateway.
// It contains no decision logic: it registers the slash commands and
// translates interactions into the surface internal/bot consumes.
package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/jfmyers9/brainzbot/internal/bot"
)

// sessionTTL bounds the outer interaction loop of one command
// invocation. Discord invalidates interaction tokens after 15 minutes;
// we stop listening well before that.
const sessionTTL = 5 * time.Minute

// Config holds gateway configuration.
type Config struct {
	Token     string        // Discord bot token
	GuildID   string        // Guild for slash command registration
	ModalWait time.Duration // Bounded wait for a modal submission
}

// Gateway owns the Discord session and routes interaction events to
// the command session they belong to.
type Gateway struct {
	session    *discordgo.Session
	flow       *bot.LinkFlow
	nowPlaying *bot.NowPlaying
	guildID    string
	modalWait  time.Duration
	logger     zerolog.Logger

	mu     sync.Mutex
	routes map[string]chan *discordgo.InteractionCreate

	wg sync.WaitGroup
}

// New creates a gateway for the given bot commands.
func New(cfg Config, flow *bot.LinkFlow, nowPlaying *bot.NowPlaying, logger zerolog.Logger) (*Gateway, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("discord token is required")
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	return &Gateway{
		session:    session,
		flow:       flow,
		nowPlaying: nowPlaying,
		guildID:    cfg.GuildID,
		modalWait:  cfg.ModalWait,
		logger:     logger.With().Str("component", "discord").Logger(),
		routes:     make(map[string]chan *discordgo.InteractionCreate),
	}, nil
}

// Start opens the gateway connection and registers the slash commands.
// Command sessions spawned afterwards are bounded by ctx.
func (g *Gateway) Start(ctx context.Context) error {
	g.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		g.logger.Info().Str("user", r.User.Username).Msg("Logged in")
	})
	g.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		g.onInteraction(ctx, i)
	})

	if err := g.session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}

	commands := []*discordgo.ApplicationCommand{
		{Name: "login", Description: "Link your ListenBrainz account"},
		{
			Name:        "nowplaying",
			Description: "Show what you are listening to on ListenBrainz",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Whose listening to show (defaults to you)",
					Required:    false,
				},
			},
		},
	}

	appID := g.session.State.User.ID
	for _, cmd := range commands {
		if _, err := g.session.ApplicationCommandCreate(appID, g.guildID, cmd); err != nil {
			return fmt.Errorf("failed to register /%s: %w", cmd.Name, err)
		}
	}

	return nil
}

// Stop waits for in-flight command sessions and closes the gateway.
func (g *Gateway) Stop() error {
	g.wg.Wait()
	return g.session.Close()
}

func (g *Gateway) onInteraction(ctx context.Context, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		switch name := i.ApplicationCommandData().Name; name {
		case "login":
			g.spawn(func() { g.runLogin(ctx, i) })
		case "nowplaying":
			g.spawn(func() { g.runNowPlaying(ctx, i) })
		default:
			g.logger.Warn().Str("command", name).Msg("Unknown command")
		}

	case discordgo.InteractionMessageComponent:
		if !g.route(i.MessageComponentData().CustomID, i) {
			// Click on a message whose session is gone; ack it so the
			// user doesn't see "interaction failed".
			_ = g.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseDeferredMessageUpdate,
			})
		}

	case discordgo.InteractionModalSubmit:
		if !g.route(i.ModalSubmitData().CustomID, i) {
			_ = g.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseDeferredMessageUpdate,
			})
		}
	}
}

func (g *Gateway) spawn(fn func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		fn()
	}()
}

func (g *Gateway) runLogin(ctx context.Context, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(ctx, sessionTTL)
	defer cancel()

	session := newInteractionSession(g, i)
	events := g.subscribe(session.scopedID(bot.TokenButtonID))
	defer g.unsubscribe(session.scopedID(bot.TokenButtonID))

	collector := &componentCollector{gateway: g, events: events}
	if err := g.flow.Run(ctx, session, collector); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		g.logger.Error().Err(err).Str("user_id", session.UserID()).Msg("Login session failed")
	}
}

func (g *Gateway) runNowPlaying(ctx context.Context, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(ctx, sessionTTL)
	defer cancel()

	session := newInteractionSession(g, i)
	target := targetUserID(i.ApplicationCommandData())
	if err := g.nowPlaying.Run(ctx, session, target); err != nil {
		g.logger.Error().Err(err).Str("user_id", session.UserID()).Msg("Now-playing query failed")
	}
}

// targetUserID extracts the optional user option of a command
// invocation. It returns "" when the invoker did not pick one.
func targetUserID(data discordgo.ApplicationCommandInteractionData) string {
	for _, opt := range data.Options {
		if opt.Name == "user" && opt.Type == discordgo.ApplicationCommandOptionUser {
			return opt.UserValue(nil).ID
		}
	}
	return ""
}

// subscribe registers a routing channel for a scoped custom id.
func (g *Gateway) subscribe(id string) chan *discordgo.InteractionCreate {
	ch := make(chan *discordgo.InteractionCreate, 1)
	g.mu.Lock()
	g.routes[id] = ch
	g.mu.Unlock()
	return ch
}

func (g *Gateway) unsubscribe(id string) {
	g.mu.Lock()
	delete(g.routes, id)
	g.mu.Unlock()
}

// route delivers an interaction to the session that owns its custom id.
// Events nobody is waiting for are dropped, which also sheds repeat
// clicks while a verification is still settling.
func (g *Gateway) route(id string, i *discordgo.InteractionCreate) bool {
	g.mu.Lock()
	ch, ok := g.routes[id]
	g.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case ch <- i:
		return true
	default:
		return false
	}
}
