package listenbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// PlayingTrack describes the track a user is currently listening to.
type PlayingTrack struct {
	Track         string   // Track name/title
	Artist        string   // Artist name
	RecordingMBID string   // MusicBrainz recording id, may be empty
	ArtistMBIDs   []string // MusicBrainz artist ids, may be empty
}

// PlayingNow fetches the track a user is listening to right now via
// GET /user/{username}/playing-now.
//
// A nil track with a nil error means the user is not listening to
// anything: both a 404 and an empty listens list map to that outcome.
// A 200 body whose required metadata fields are missing yields
// ErrMalformedResponse.
func (c *Client) PlayingNow(ctx context.Context, token, username string) (*PlayingTrack, error) {
	body, err := c.Get(ctx, token, "user/"+url.PathEscape(username)+"/playing-now")
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}

	var res struct {
		Payload *struct {
			Listens []struct {
				TrackMetadata *struct {
					TrackName     *string  `json:"track_name"`
					ArtistName    *string  `json:"artist_name"`
					RecordingMBID string   `json:"recording_mbid"`
					ArtistMBIDs   []string `json:"artist_mbids"`
				} `json:"track_metadata"`
			} `json:"listens"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if res.Payload == nil {
		return nil, fmt.Errorf("%w: missing payload", ErrMalformedResponse)
	}
	if len(res.Payload.Listens) == 0 {
		return nil, nil
	}

	meta := res.Payload.Listens[0].TrackMetadata
	if meta == nil || meta.TrackName == nil || meta.ArtistName == nil {
		return nil, fmt.Errorf("%w: missing track metadata", ErrMalformedResponse)
	}

	return &PlayingTrack{
		Track:         *meta.TrackName,
		Artist:        *meta.ArtistName,
		RecordingMBID: meta.RecordingMBID,
		ArtistMBIDs:   meta.ArtistMBIDs,
	}, nil
}
