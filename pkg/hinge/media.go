package hinge

import (
	"net/http"
	"net/url"

	"hingescraper/pkg/logger"
)

// TransformOptions describe a CDN-side crop and resize. Crop coordinates
// are fractions of the source image; the zero value of each field is
// replaced with the app's defaults by DefaultTransform.
type TransformOptions struct {
	X           float64
	Y           float64
	Width       float64
	Height      float64
	OutputWidth int
	Quality     string
	Format      string
}

// DefaultTransform returns the transform parameters the mobile app uses for
// full-size profile photos.
func DefaultTransform() TransformOptions {
	return TransformOptions{
		Width:       1.0,
		Height:      1.0,
		OutputWidth: 864,
		Quality:     "auto",
		Format:      "webp",
	}
}

// MediaClient fetches raw image bytes from the Hinge media CDN. Media
// requests carry their own minimal header set; no bearer token is required.
type MediaClient struct {
	client *Client
}

// NewMediaClient creates a media client sharing the given configuration.
func NewMediaClient(cfg Config, log logger.Logger) *MediaClient {
	c := NewClient(cfg, log)
	c.headers = http.Header{}
	c.headers.Set("User-Agent", "okhttp/4.12.0")
	c.headers.Set("Accept-Encoding", "gzip")
	return &MediaClient{client: c}
}

// GetImage fetches raw bytes for a media path such as
// "image/upload/<cdnId>.jpg". Optional query parameters are appended to the
// URL. The caller is responsible for persisting the bytes.
func (m *MediaClient) GetImage(imagePath string, params url.Values) ([]byte, error) {
	u := mediaURL(m.client.cfg.MediaBaseURL, imagePath)
	if len(params) > 0 {
		u = u + "?" + params.Encode()
	}
	return m.client.do(http.MethodGet, u, nil, nil)
}

// GetProcessedImage fetches an image through the CDN transform pipeline
// with the given crop and output parameters.
func (m *MediaClient) GetProcessedImage(imageID string, t TransformOptions) ([]byte, error) {
	return m.GetImage(processedImagePath(imageID, t), nil)
}
