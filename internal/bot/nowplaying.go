package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/jfmyers9/brainzbot/pkg/listenbrainz"
	"github.com/rs/zerolog"
)

// NowPlaying answers /nowplaying: it resolves a linked user's stored
// credentials and renders the track they are currently listening to.
type NowPlaying struct {
	api    API
	store  CredentialStore
	logger zerolog.Logger
}

// NewNowPlaying creates the now-playing query.
func NewNowPlaying(api API, credStore CredentialStore, logger zerolog.Logger) *NowPlaying {
	return &NowPlaying{
		api:    api,
		store:  credStore,
		logger: logger.With().Str("component", "nowplaying").Logger(),
	}
}

// Run resolves the target user's link and renders one response. The
// target defaults to the invoker when targetID is empty, so anyone can
// ask what another linked user is listening to. An unlinked user is an
// expected state, not an error; only store-level failures propagate.
func (n *NowPlaying) Run(ctx context.Context, session Session, targetID string) error {
	if targetID == "" {
		targetID = session.UserID()
	}

	link, err := n.store.Get(ctx, targetID)
	if err != nil {
		if rerr := session.Respond(ctx, Message{Description: "An error occurred"}); rerr != nil {
			return fmt.Errorf("failed to respond: %w", rerr)
		}
		return fmt.Errorf("failed to resolve link: %w", err)
	}
	if link == nil {
		if targetID != session.UserID() {
			return session.Respond(ctx, Message{
				Description: "That user hasn't linked a ListenBrainz account yet",
			})
		}
		return session.Respond(ctx, Message{
			Description: "You haven't linked a ListenBrainz account yet. Run `/login` first",
		})
	}

	track, err := n.api.PlayingNow(ctx, link.Token, link.Username)
	if err != nil {
		return session.Respond(ctx, n.renderFailure(err))
	}
	if track == nil {
		return session.Respond(ctx, Message{
			Description: fmt.Sprintf("%s isn't listening to any songs right now", link.Username),
		})
	}

	return session.Respond(ctx, renderTrack(link.Username, track))
}

// renderFailure maps a client error onto a user-facing message. The
// classification is the client's; nothing here inspects statuses.
func (n *NowPlaying) renderFailure(err error) Message {
	var rateLimited *listenbrainz.RateLimitError
	var connFailed *listenbrainz.ConnectionError

	switch {
	case errors.As(err, &rateLimited):
		return Message{Description: "Too fast! Please try again in a moment"}
	case errors.As(err, &connFailed):
		return Message{Description: fmt.Sprintf("Something is wrong with the connection: %s", connFailed.Error())}
	case errors.Is(err, listenbrainz.ErrInvalidToken):
		return Message{Description: "Your stored token is no longer valid. Run `/login` to relink"}
	default:
		n.logger.Warn().Err(err).Msg("Unexpected playing-now failure")
		return Message{Description: "An error occurred"}
	}
}

func renderTrack(username string, track *listenbrainz.PlayingTrack) Message {
	trackLine := track.Track
	if track.RecordingMBID != "" {
		trackLine = fmt.Sprintf("[%s](https://listenbrainz.org/track/%s)", track.Track, track.RecordingMBID)
	}

	artistLine := track.Artist
	if len(track.ArtistMBIDs) > 0 {
		artistLine = fmt.Sprintf("[%s](https://listenbrainz.org/artist/%s)", track.Artist, track.ArtistMBIDs[0])
	}

	return Message{
		Title:       fmt.Sprintf("%s is listening to", username),
		Description: trackLine + "\n" + artistLine,
	}
}
