package hinge

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// BaseURL is the base URL for the Hinge production API.
	BaseURL = "https://prod-api.hingeaws.net"

	// MediaURL is the base URL for the Hinge media CDN.
	MediaURL = "https://media.hingenexus.com"

	// RateEndpoint initiates a like/rating against a profile.
	RateEndpoint = "/rate/v2/initiate"

	// MessageEndpoint sends a chat message.
	MessageEndpoint = "/message/send"

	// RecommendationsEndpoint returns the current recommendation feeds.
	RecommendationsEndpoint = "/rec/v2"

	// StandoutsEndpoint returns free and paid standout profiles.
	StandoutsEndpoint = "/standouts/v2"

	// PublicUsersEndpoint returns public profile data for a set of ids.
	PublicUsersEndpoint = "/user/v2/public"

	// PublicContentEndpoint returns public content for a set of ids.
	PublicContentEndpoint = "/content/v1/public"

	// SMSInitiateEndpoint starts the two-step SMS login.
	SMSInitiateEndpoint = "/auth/sms/v2/initiate"

	// SMSVerifyEndpoint completes the two-step SMS login.
	SMSVerifyEndpoint = "/auth/sms/v2"

	settingsEndpoint             = "/content/v1/settings"
	authSettingsEndpoint         = "/auth/settings"
	notificationSettingsEndpoint = "/notification/v1/settings"
	likeLimitEndpoint            = "/likelimit"
	traitsEndpoint               = "/user/v2/traits"
	accountEndpoint              = "/store/v2/account"
	exportStatusEndpoint         = "/user/export/status"
)

// apiURL joins an endpoint path onto the API base URL.
func apiURL(base, endpoint string) string {
	return base + endpoint
}

// idsURL builds an endpoint URL with a comma-joined ids query parameter,
// matching the wire format the API expects.
func idsURL(base, endpoint string, ids []string) string {
	params := url.Values{}
	params.Set("ids", strings.Join(ids, ","))
	return fmt.Sprintf("%s%s?%s", base, endpoint, params.Encode())
}

// mediaURL joins a media path onto the media base URL.
func mediaURL(base, path string) string {
	return fmt.Sprintf("%s/%s", base, strings.TrimPrefix(path, "/"))
}

// processedImagePath builds the CDN transform path for a cropped, resized
// image. The parameter order and formatting must match the CDN contract.
func processedImagePath(imageID string, t TransformOptions) string {
	return fmt.Sprintf("image/upload/x_%.2f,y_%.2f,w_%.2f,h_%.2f,c_crop/w_%d,q_%s/f_%s/%s",
		t.X, t.Y, t.Width, t.Height, t.OutputWidth, t.Quality, t.Format, imageID)
}
