package listenbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// rateLimitResetHeader carries the seconds remaining in the current
// rate-limit window on 429 responses.
const rateLimitResetHeader = "X-RateLimit-Reset-In"

// Get issues one authenticated GET to the given resource path and
// classifies the outcome:
//
//   - 200 returns the raw JSON body
//   - 404 returns (nil, nil): a legitimate "nothing matches" result
//   - 401 returns ErrInvalidToken
//   - 429 returns *RateLimitError decoded from X-RateLimit-Reset-In;
//     a 429 without a parseable header is ErrMalformedResponse
//   - transport failures return *ConnectionError
//   - any other status returns *StatusError
//
// No retries are performed: every call is single-shot. Retry timing is
// the caller's concern, not the transport's.
func (c *Client) Get(ctx context.Context, token, path string) (json.RawMessage, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	url := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+token)
	req.Header.Set("User-Agent", "brainzbot/1.0")

	c.logDebugf("listenbrainz: GET %s", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &ConnectionError{Err: err}
		}
		return body, nil

	case http.StatusNotFound:
		return nil, nil

	case http.StatusUnauthorized:
		return nil, ErrInvalidToken

	case http.StatusTooManyRequests:
		retryAfter, err := parseResetHeader(resp.Header.Get(rateLimitResetHeader))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return nil, &RateLimitError{RetryAfter: retryAfter}

	default:
		return nil, &StatusError{Code: resp.StatusCode}
	}
}

// parseResetHeader decodes the reset header as whole seconds. The header
// must be present and numeric on a 429; absence is an API contract
// violation, not a zero-second window.
func parseResetHeader(value string) (time.Duration, error) {
	if value == "" {
		return 0, fmt.Errorf("missing %s header", rateLimitResetHeader)
	}
	secs, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s header %q", rateLimitResetHeader, value)
	}
	return time.Duration(secs) * time.Second, nil
}
