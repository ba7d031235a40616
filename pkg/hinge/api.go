package hinge

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LikeProfile likes a profile, optionally with a comment, photo or prompt
// content block. A fresh rating id is generated per call.
func (c *Client) LikeProfile(opts LikeOptions) (json.RawMessage, error) {
	if opts.SubjectID == "" || opts.RatingToken == "" {
		return nil, &Error{
			Kind:     ErrorRequest,
			Endpoint: RateEndpoint,
			Message:  "subject id and rating token are required",
		}
	}
	if opts.InitiatedWith == "" {
		opts.InitiatedWith = "standard"
	}
	if opts.Origin == "" {
		opts.Origin = "compatibles"
	}

	payload := likePayload{
		RatingID:      uuid.NewString(),
		RatingToken:   opts.RatingToken,
		SubjectID:     opts.SubjectID,
		SessionID:     c.cfg.SessionID,
		Rating:        "note",
		Origin:        opts.Origin,
		HasPairing:    opts.HasPairing,
		Created:       time.Now().UTC().Format("2006-01-02T15:04:05.000000") + "Z",
		InitiatedWith: opts.InitiatedWith,
		Content:       opts.Content,
	}

	c.logger.InfoWithFields("liking profile", map[string]interface{}{
		"subject_id": opts.SubjectID,
		"origin":     opts.Origin,
	})

	var result json.RawMessage
	if err := c.postJSON(apiURL(c.cfg.BaseURL, RateEndpoint), payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// SendMessage sends a chat message to a user. A fresh dedup id is generated
// per call so the API can drop accidental duplicates.
func (c *Client) SendMessage(subjectID, message string, opts MessageOptions) (json.RawMessage, error) {
	if subjectID == "" {
		return nil, &Error{
			Kind:     ErrorRequest,
			Endpoint: MessageEndpoint,
			Message:  "subject id is required",
		}
	}
	if opts.Origin == "" {
		opts.Origin = "Native Chat"
	}
	if opts.MessageType == "" {
		opts.MessageType = "message"
	}
	ays := true
	if opts.AYS != nil {
		ays = *opts.AYS
	}

	payload := messagePayload{
		SubjectID:    subjectID,
		MatchMessage: opts.MatchMessage,
		Origin:       opts.Origin,
		DedupID:      uuid.NewString(),
		MessageData:  messageData{Message: message},
		MessageType:  opts.MessageType,
		AYS:          ays,
	}

	c.logger.InfoWithFields("sending message", map[string]interface{}{
		"subject_id": subjectID,
	})

	var result json.RawMessage
	if err := c.postJSON(apiURL(c.cfg.BaseURL, MessageEndpoint), payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Recommendations fetches the current recommendation feeds for the
// configured player.
func (c *Client) Recommendations(activeToday, newHere bool) (*RecommendationsResponse, error) {
	payload := map[string]interface{}{
		"playerId":    c.cfg.UserID,
		"activeToday": activeToday,
		"newHere":     newHere,
	}

	var resp RecommendationsResponse
	if err := c.postJSON(apiURL(c.cfg.BaseURL, RecommendationsEndpoint), payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Standouts fetches the free and paid standout profile lists.
func (c *Client) Standouts() (*StandoutsResponse, error) {
	var resp StandoutsResponse
	if err := c.getJSON(apiURL(c.cfg.BaseURL, StandoutsEndpoint), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PublicProfiles batch-fetches public profile data for a set of identities.
func (c *Client) PublicProfiles(ids []string) ([]PublicProfile, error) {
	var profiles []PublicProfile
	if err := c.getJSON(idsURL(c.cfg.BaseURL, PublicUsersEndpoint, ids), &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// PublicContent fetches public content for a set of content ids.
func (c *Client) PublicContent(ids []string) (json.RawMessage, error) {
	var result json.RawMessage
	if err := c.getJSON(idsURL(c.cfg.BaseURL, PublicContentEndpoint, ids), &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Settings fetches the user's content settings.
func (c *Client) Settings() (json.RawMessage, error) {
	return c.getRaw(settingsEndpoint)
}

// AuthSettings fetches the authentication settings.
func (c *Client) AuthSettings() (json.RawMessage, error) {
	return c.getRaw(authSettingsEndpoint)
}

// NotificationSettings fetches the notification settings.
func (c *Client) NotificationSettings() (json.RawMessage, error) {
	return c.getRaw(notificationSettingsEndpoint)
}

// LikeLimit fetches the remaining like allowance.
func (c *Client) LikeLimit() (json.RawMessage, error) {
	return c.getRaw(likeLimitEndpoint)
}

// Traits fetches the user's traits and preferences.
func (c *Client) Traits() (json.RawMessage, error) {
	return c.getRaw(traitsEndpoint)
}

// Account fetches account and subscription information.
func (c *Client) Account() (json.RawMessage, error) {
	return c.getRaw(accountEndpoint)
}

// ExportStatus fetches the status of a pending data export.
func (c *Client) ExportStatus() (json.RawMessage, error) {
	return c.getRaw(exportStatusEndpoint)
}

// getRaw performs a passthrough GET for endpoints whose responses the SDK
// does not model.
func (c *Client) getRaw(endpoint string) (json.RawMessage, error) {
	var result json.RawMessage
	if err := c.getJSON(apiURL(c.cfg.BaseURL, endpoint), &result); err != nil {
		return nil, err
	}
	return result, nil
}
