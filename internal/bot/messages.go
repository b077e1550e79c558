package bot

import (
	"fmt"
	"time"
)

// TokenButtonID identifies the submission affordance across the
// session's lifetime; the gateway scopes it per session.
const TokenButtonID = "open_token_modal"

const settingsURL = "https://listenbrainz.org/settings/"

func tokenButton() *Button {
	return &Button{ID: TokenButtonID, Label: "Login with Access Token"}
}

func welcomeMessage() Message {
	return Message{
		Title: "Welcome to Brainzbot",
		Description: "Here's how to link your account to Brainzbot!\n" +
			"Make sure you already logged into ListenBrainz, and visit the [User Settings](" + settingsURL + ")\n" +
			"From here, you can copy the user token and provide the token by clicking the button below",
		Button:    tokenButton(),
		Ephemeral: true,
	}
}

func noTokenMessage() Message {
	return Message{
		Title:       "Failed",
		Description: "No token was provided. Click the button below to try again",
		Button:      tokenButton(),
		Ephemeral:   true,
	}
}

func verifyingMessage() Message {
	return Message{
		Title:       "Verifying token",
		Description: "Please wait while we verify your token",
		Ephemeral:   true,
	}
}

func successMessage(username string) Message {
	return Message{
		Title:       "Success",
		Description: "You have successfully logged into ListenBrainz",
		Footer:      fmt.Sprintf("Username: %s", username),
		Ephemeral:   true,
	}
}

func invalidTokenMessage() Message {
	return Message{
		Title:       "Failed",
		Description: "Please make sure you entered the correct token and try again",
		Button:      tokenButton(),
		Ephemeral:   true,
	}
}

func rateLimitedMessage(resumeAt time.Time) Message {
	return Message{
		Title:       "Failed",
		Description: fmt.Sprintf("Too fast! Please try again <t:%d:R>", resumeAt.Unix()),
		Ephemeral:   true,
	}
}

func connectionFailedMessage(diag string) Message {
	return Message{
		Title:       "Failed",
		Description: fmt.Sprintf("Something is wrong with the connection: %s", diag),
		Button:      tokenButton(),
		Ephemeral:   true,
	}
}

func unexpectedFailureMessage() Message {
	return Message{
		Title:       "Failed",
		Description: "An unknown error occurred. Click the button below to try again",
		Button:      tokenButton(),
		Ephemeral:   true,
	}
}

func storeFailedMessage() Message {
	return Message{
		Title:       "Failed",
		Description: "Your token was verified but the link could not be saved. Please run `/login` again",
		Ephemeral:   true,
	}
}
