// Package listenbrainz provides a client for the ListenBrainz API v1.
//
// This package implements the small slice of the ListenBrainz API that
// brainzbot needs: token validation and the playing-now feed. It is
// designed to be used as a standalone SDK.
//
// Example usage:
//
//	import "github.com/jfmyers9/brainzbot/pkg/listenbrainz"
//
//	client := listenbrainz.NewClient(listenbrainz.Config{})
//
//	username, err := client.ValidateToken(ctx, token)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Linked as:", username)
package listenbrainz

import (
	"net/http"
)

// Config holds client configuration.
type Config struct {
	HTTPClient *http.Client // Optional: HTTP client (defaults to http.DefaultClient)
	BaseURL    string       // Optional: Base URL for API (defaults to the ListenBrainz API, used for testing)
	Logger     Logger       // Optional: Logger interface for debug logging
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Client is the main entry point for ListenBrainz API operations.
//
// A Client holds no per-user state; the user token is passed to each
// call. One Client is safe for concurrent use from any number of
// goroutines and should be constructed once and shared.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     Logger
}

const (
	// DefaultBaseURL is the default ListenBrainz API endpoint.
	DefaultBaseURL = "https://api.listenbrainz.org/1"
)

// NewClient creates a new ListenBrainz API client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     cfg.Logger,
	}
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
