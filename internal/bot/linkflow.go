package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jfmyers9/brainzbot/pkg/listenbrainz"
	"github.com/rs/zerolog"
)

// LinkFlow drives one /login session: it shows the submission
// affordance, collects a token through the modal, verifies it against
// the API and persists the link on success.
//
// Each failure either hands control back to the user (the affordance
// stays armed) or ends the session; the flow never retries a
// verification on its own. A rate-limited verification is the one
// branch that ends the session: it renders a countdown, waits out the
// remote-indicated window and then tears the message down, so the user
// is not invited to hammer an already-limited endpoint.
type LinkFlow struct {
	api    API
	store  CredentialStore
	logger zerolog.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) bool
}

// NewLinkFlow creates a link flow over the given API client and store.
func NewLinkFlow(api API, credStore CredentialStore, logger zerolog.Logger) *LinkFlow {
	return &LinkFlow{
		api:    api,
		store:  credStore,
		logger: logger.With().Str("component", "linkflow").Logger(),
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// Run executes the session until terminal success, the rate-limit
// cooldown ends it, the collector is exhausted, or ctx is canceled.
// Verification attempts never overlap: the next affordance activation
// is only taken once the previous attempt settled.
func (f *LinkFlow) Run(ctx context.Context, session Session, collector Collector) error {
	if err := session.Respond(ctx, welcomeMessage()); err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	for {
		sub, ok := collector.Next(ctx)
		if !ok {
			// User stopped interacting or the session context closed.
			return ctx.Err()
		}

		token, ok, err := sub.PromptToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to collect token: %w", err)
		}
		if !ok || token == "" {
			if err := session.Edit(ctx, noTokenMessage()); err != nil {
				return fmt.Errorf("failed to edit session message: %w", err)
			}
			continue
		}

		if err := session.Edit(ctx, verifyingMessage()); err != nil {
			return fmt.Errorf("failed to edit session message: %w", err)
		}

		done, err := f.verify(ctx, session, token)
		if done || err != nil {
			return err
		}
	}
}

// verify runs one verification attempt and renders its outcome. done is
// true when the session is over.
func (f *LinkFlow) verify(ctx context.Context, session Session, token string) (done bool, err error) {
	username, verr := f.api.ValidateToken(ctx, token)

	// A canceled session must not persist anything, whatever the call
	// came back with.
	if ctx.Err() != nil {
		return true, ctx.Err()
	}

	if verr == nil {
		if perr := f.store.Put(ctx, session.UserID(), token, username); perr != nil {
			if err := session.Edit(ctx, storeFailedMessage()); err != nil {
				return true, fmt.Errorf("failed to edit session message: %w", err)
			}
			// The store failure propagates for process-level logging;
			// the user has already been told it failed.
			return true, fmt.Errorf("failed to save link: %w", perr)
		}
		f.logger.Info().Str("user_id", session.UserID()).Str("username", username).Msg("Account linked")
		return true, session.Edit(ctx, successMessage(username))
	}

	var rateLimited *listenbrainz.RateLimitError
	var connFailed *listenbrainz.ConnectionError

	switch {
	case errors.Is(verr, listenbrainz.ErrInvalidToken):
		if err := session.Edit(ctx, invalidTokenMessage()); err != nil {
			return true, fmt.Errorf("failed to edit session message: %w", err)
		}
		return false, nil

	case errors.As(verr, &rateLimited):
		resumeAt := f.now().Add(rateLimited.RetryAfter)
		if err := session.Edit(ctx, rateLimitedMessage(resumeAt)); err != nil {
			return true, fmt.Errorf("failed to edit session message: %w", err)
		}
		if !f.sleep(ctx, rateLimited.RetryAfter) {
			return true, ctx.Err()
		}
		_ = session.Delete(ctx)
		return true, nil

	case errors.As(verr, &connFailed):
		if err := session.Edit(ctx, connectionFailedMessage(connFailed.Error())); err != nil {
			return true, fmt.Errorf("failed to edit session message: %w", err)
		}
		return false, nil

	default:
		// Malformed responses and unclassified statuses are anomalous:
		// the remote broke its contract. Logged, then back to the user.
		f.logger.Warn().Err(verr).Msg("Unexpected verification failure")
		if err := session.Edit(ctx, unexpectedFailureMessage()); err != nil {
			return true, fmt.Errorf("failed to edit session message: %w", err)
		}
		return false, nil
	}
}

// sleepCtx waits for the specified duration or until ctx is canceled.
// Returns true if the wait completed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
