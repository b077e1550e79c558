package listenbrainz

import (
	"context"
	"encoding/json"
	"fmt"
)

// ValidateToken exchanges a user token for the ListenBrainz username it
// belongs to via GET /validate-token.
//
// The response must carry an explicit `valid` flag; a body without it is
// ErrMalformedResponse rather than an invalid token. When the flag is
// false, ErrInvalidToken is returned. A username is only ever returned
// alongside valid=true.
func (c *Client) ValidateToken(ctx context.Context, token string) (string, error) {
	body, err := c.Get(ctx, token, "validate-token")
	if err != nil {
		return "", err
	}
	if body == nil {
		// validate-token never legitimately 404s.
		return "", fmt.Errorf("%w: empty validate-token response", ErrMalformedResponse)
	}

	var res struct {
		Valid    *bool   `json:"valid"`
		UserName *string `json:"user_name"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if res.Valid == nil {
		return "", fmt.Errorf("%w: missing valid flag", ErrMalformedResponse)
	}
	if !*res.Valid {
		return "", ErrInvalidToken
	}
	if res.UserName == nil || *res.UserName == "" {
		return "", fmt.Errorf("%w: missing user_name", ErrMalformedResponse)
	}
	return *res.UserName, nil
}
