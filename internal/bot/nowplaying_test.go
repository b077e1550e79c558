package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jfmyers9/brainzbot/internal/store"
	"github.com/jfmyers9/brainzbot/pkg/listenbrainz"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linkedStore(userID string) *fakeStore {
	return &fakeStore{links: map[string]*store.Link{
		userID: {UserID: userID, Token: testToken, Username: "alice"},
	}}
}

func TestNowPlayingNotLinked(t *testing.T) {
	session := &fakeSession{userID: "123456789"}
	query := NewNowPlaying(&fakeAPI{}, &fakeStore{}, zerolog.Nop())

	err := query.Run(context.Background(), session, "")
	require.NoError(t, err, "an unlinked user is an expected state")

	assert.Contains(t, session.last().Description, "/login")
}

func TestNowPlayingTargetsAnotherUser(t *testing.T) {
	credStore := &fakeStore{links: map[string]*store.Link{
		"987654321": {UserID: "987654321", Token: "bob-token", Username: "bob"},
	}}
	api := &fakeAPI{playing: func(ctx context.Context, token, username string) (*listenbrainz.PlayingTrack, error) {
		require.Equal(t, "bob-token", token, "queries run with the target's stored token")
		require.Equal(t, "bob", username)
		return &listenbrainz.PlayingTrack{Track: "Yesterday", Artist: "The Beatles"}, nil
	}}
	session := &fakeSession{userID: "123456789"}
	query := NewNowPlaying(api, credStore, zerolog.Nop())

	err := query.Run(context.Background(), session, "987654321")
	require.NoError(t, err)

	assert.Equal(t, "bob is listening to", session.last().Title)
}

func TestNowPlayingTargetNotLinked(t *testing.T) {
	session := &fakeSession{userID: "123456789"}
	query := NewNowPlaying(&fakeAPI{}, linkedStore("123456789"), zerolog.Nop())

	err := query.Run(context.Background(), session, "987654321")
	require.NoError(t, err)

	last := session.last()
	assert.Contains(t, last.Description, "That user hasn't linked")
	assert.NotContains(t, last.Description, "/login", "the invoker can't log in for someone else")
}

func TestNowPlayingNotListening(t *testing.T) {
	api := &fakeAPI{playing: func(ctx context.Context, token, username string) (*listenbrainz.PlayingTrack, error) {
		require.Equal(t, testToken, token)
		require.Equal(t, "alice", username)
		return nil, nil
	}}
	session := &fakeSession{userID: "123456789"}
	query := NewNowPlaying(api, linkedStore("123456789"), zerolog.Nop())

	err := query.Run(context.Background(), session, "")
	require.NoError(t, err)

	assert.Equal(t, "alice isn't listening to any songs right now", session.last().Description)
}

func TestNowPlayingRendersTrack(t *testing.T) {
	api := &fakeAPI{playing: func(ctx context.Context, token, username string) (*listenbrainz.PlayingTrack, error) {
		return &listenbrainz.PlayingTrack{
			Track:         "Yesterday",
			Artist:        "The Beatles",
			RecordingMBID: "rec-mbid",
			ArtistMBIDs:   []string{"artist-mbid"},
		}, nil
	}}
	session := &fakeSession{userID: "123456789"}
	query := NewNowPlaying(api, linkedStore("123456789"), zerolog.Nop())

	err := query.Run(context.Background(), session, "")
	require.NoError(t, err)

	last := session.last()
	assert.Equal(t, "alice is listening to", last.Title)
	assert.Contains(t, last.Description, "[Yesterday](https://listenbrainz.org/track/rec-mbid)")
	assert.Contains(t, last.Description, "[The Beatles](https://listenbrainz.org/artist/artist-mbid)")
	assert.False(t, last.Ephemeral, "now-playing responses are visible to the whole channel")
}

func TestNowPlayingRendersTrackWithoutMBIDs(t *testing.T) {
	api := &fakeAPI{playing: func(ctx context.Context, token, username string) (*listenbrainz.PlayingTrack, error) {
		return &listenbrainz.PlayingTrack{Track: "Yesterday", Artist: "The Beatles"}, nil
	}}
	session := &fakeSession{userID: "123456789"}
	query := NewNowPlaying(api, linkedStore("123456789"), zerolog.Nop())

	err := query.Run(context.Background(), session, "")
	require.NoError(t, err)

	assert.Equal(t, "Yesterday\nThe Beatles", session.last().Description)
}

func TestNowPlayingFailureRenders(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "rate limited",
			err:  &listenbrainz.RateLimitError{RetryAfter: 5 * time.Second},
			want: "Too fast",
		},
		{
			name: "connection",
			err:  &listenbrainz.ConnectionError{Err: errors.New("dial tcp: connection refused")},
			want: "connection",
		},
		{
			name: "stale token",
			err:  listenbrainz.ErrInvalidToken,
			want: "no longer valid",
		},
		{
			name: "malformed",
			err:  listenbrainz.ErrMalformedResponse,
			want: "An error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{playing: func(ctx context.Context, token, username string) (*listenbrainz.PlayingTrack, error) {
				return nil, tt.err
			}}
			session := &fakeSession{userID: "123456789"}
			query := NewNowPlaying(api, linkedStore("123456789"), zerolog.Nop())

			err := query.Run(context.Background(), session, "")
			require.NoError(t, err, "client failures are rendered, not propagated")

			assert.Contains(t, session.last().Description, tt.want)
			assert.NotContains(t, session.last().Description, testToken)
		})
	}
}

func TestNowPlayingStoreFailure(t *testing.T) {
	session := &fakeSession{userID: "123456789"}
	query := NewNowPlaying(&fakeAPI{}, &fakeStore{getErr: errors.New("db locked")}, zerolog.Nop())

	err := query.Run(context.Background(), session, "")
	require.Error(t, err, "store failures propagate for process-level logging")
	assert.Equal(t, "An error occurred", session.last().Description)
}
