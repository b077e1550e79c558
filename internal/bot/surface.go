// Package bot contains the interactive command logic: the token link
// flow and the now-playing query. The chat platform itself is consumed
// through the narrow surface defined here, so the decision logic stays
// independent of any gateway library.
package bot

import (
	"context"

	"github.com/jfmyers9/brainzbot/internal/store"
	"github.com/jfmyers9/brainzbot/pkg/listenbrainz"
)

// Message is the rendered text for one state of an interactive session.
type Message struct {
	Title       string
	Description string
	Footer      string
	Button      *Button // nil when the submission affordance should be removed
	Ephemeral   bool    // visible only to the invoker
}

// Button is the submission affordance shown under a message.
type Button struct {
	ID    string
	Label string
}

// Session is one command invocation's editable reply.
type Session interface {
	// UserID returns the platform id of the invoking user.
	UserID() string

	// Respond sends the initial message for the session.
	Respond(ctx context.Context, m Message) error

	// Edit rewrites the session message in place.
	Edit(ctx context.Context, m Message) error

	// Delete removes the session message.
	Delete(ctx context.Context) error
}

// Submission is one activation of the submission affordance.
type Submission interface {
	// PromptToken presents the token input and waits, bounded by the
	// surface's configured timeout. ok is false when the wait elapses
	// or the user dismisses the input without submitting.
	PromptToken(ctx context.Context) (token string, ok bool, err error)
}

// Collector yields submission-affordance activations for one session,
// one at a time. Next blocks until the affordance is activated, the
// collector is exhausted, or ctx is done; ok is false once no further
// activations will arrive. Handing out activations sequentially is what
// keeps verification attempts from overlapping within a session.
type Collector interface {
	Next(ctx context.Context) (sub Submission, ok bool)
}

// API is the slice of the ListenBrainz client the commands use.
type API interface {
	ValidateToken(ctx context.Context, token string) (string, error)
	PlayingNow(ctx context.Context, token, username string) (*listenbrainz.PlayingTrack, error)
}

// CredentialStore persists validated account links.
type CredentialStore interface {
	Get(ctx context.Context, userID string) (*store.Link, error)
	Put(ctx context.Context, userID, token, username string) error
}
