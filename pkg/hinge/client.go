package hinge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"hingescraper/pkg/logger"
)

const (
	// DefaultTimeout is the HTTP client timeout applied when the config
	// does not specify one.
	DefaultTimeout = 30 * time.Second

	defaultAppVersion  = "9.105.0"
	defaultOSVersion   = "26.3"
	defaultDeviceModel = "iPhone17,3"
	defaultBuildNumber = "11668"
)

// Config carries the device identity and credentials a Client presents on
// every request. There is no ambient global state; construct a Config
// explicitly and pass it to NewClient.
type Config struct {
	AuthToken string
	SessionID string
	UserID    string
	DeviceID  string
	InstallID string

	AppVersion  string
	OSVersion   string
	DeviceModel string
	Platform    string // "ios" or "android"

	// BaseURL and MediaBaseURL override the production hosts, mainly for
	// tests against httptest servers.
	BaseURL      string
	MediaBaseURL string

	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.AppVersion == "" {
		c.AppVersion = defaultAppVersion
	}
	if c.OSVersion == "" {
		c.OSVersion = defaultOSVersion
	}
	if c.DeviceModel == "" {
		c.DeviceModel = defaultDeviceModel
	}
	if c.Platform == "" {
		c.Platform = "ios"
	}
	if c.BaseURL == "" {
		c.BaseURL = BaseURL
	}
	if c.MediaBaseURL == "" {
		c.MediaBaseURL = MediaURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Client is the transport layer for the Hinge API. It attaches the fixed
// device/auth header set to every request and converts failures into
// categorized *Error values. No retries are performed; every failure is
// surfaced immediately to the caller.
type Client struct {
	httpClient *http.Client
	cfg        Config
	headers    http.Header
	logger     logger.Logger
}

// NewClient creates a Hinge API client from the given configuration.
func NewClient(cfg Config, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	cfg = cfg.withDefaults()

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		logger:     log,
	}
	c.headers = c.defaultHeaders()
	return c
}

// defaultHeaders builds the fixed header set for the configured platform.
// The values mirror what the mobile app sends; the API rejects requests
// without a plausible device identity.
func (c *Client) defaultHeaders() http.Header {
	h := http.Header{}
	if c.cfg.Platform == "android" {
		h.Set("x-app-version", c.cfg.AppVersion)
		h.Set("x-os-version", c.cfg.OSVersion)
		h.Set("x-os-version-code", "34")
		h.Set("x-device-model", c.cfg.DeviceModel)
		h.Set("x-device-model-code", c.cfg.DeviceModel)
		h.Set("x-device-manufacturer", "Google")
		h.Set("x-build-number", "168200482")
		h.Set("x-device-platform", "android")
		h.Set("x-install-id", c.cfg.InstallID)
		h.Set("x-device-id", c.cfg.DeviceID)
		h.Set("accept-language", "en-US")
		h.Set("x-device-region", "US")
		h.Set("User-Agent", "okhttp/4.12.0")
	} else {
		h.Set("Accept", "*/*")
		h.Set("Accept-Language", "en")
		h.Set("Content-Type", "application/json")
		h.Set("User-Agent", "Hinge/11668 CFNetwork/3860.400.22 Darwin/25.3.0")
		h.Set("X-App-Identifier", "co.hinge.mobile.ios")
		h.Set("X-App-Version", c.cfg.AppVersion)
		h.Set("X-Build-Number", defaultBuildNumber)
		h.Set("X-Device-Id", c.cfg.DeviceID)
		h.Set("X-Device-Model", "unknown")
		h.Set("X-Device-Model-Code", c.cfg.DeviceModel)
		h.Set("X-Device-Platform", "iOS")
		h.Set("X-Device-Region", "US")
		h.Set("X-Install-Id", c.cfg.InstallID)
		h.Set("X-OS-Version", c.cfg.OSVersion)
	}
	if c.cfg.AuthToken != "" {
		h.Set("Authorization", "Bearer "+c.cfg.AuthToken)
	}
	if c.cfg.SessionID != "" {
		h.Set("X-Session-Id", c.cfg.SessionID)
	}
	return h
}

// SetHeader sets or overrides a default header on the client.
func (c *Client) SetHeader(key, value string) {
	c.headers.Set(key, value)
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// UserID returns the configured player id.
func (c *Client) UserID() string {
	return c.cfg.UserID
}

// SessionID returns the configured session id.
func (c *Client) SessionID() string {
	return c.cfg.SessionID
}

// do performs an HTTP request with the client's fixed header set plus any
// extra headers, and returns the raw response body on 2xx.
func (c *Client) do(method, url string, body []byte, extra http.Header) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return nil, &Error{
			Kind:     ErrorTransport,
			Endpoint: url,
			Message:  fmt.Sprintf("failed to create request: %v", err),
			Err:      err,
		}
	}

	for key, vs := range extra {
		for _, v := range vs {
			req.Header.Set(key, v)
		}
	}
	for key, vs := range c.headers {
		req.Header[key] = vs
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": method,
		"url":    url,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   method,
			"url":      url,
			"error":    err.Error(),
			"duration": time.Since(start),
		})
		return nil, &Error{
			Kind:     ErrorTransport,
			Endpoint: url,
			Message:  fmt.Sprintf("%s %s: %v", method, url, err),
			Err:      err,
		}
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(resp.Body)

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   method,
		"url":      url,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := ErrorRequest
		msg := fmt.Sprintf("unexpected status %d", resp.StatusCode)
		if resp.StatusCode == http.StatusUnauthorized {
			kind = ErrorAuth
			msg = "authentication failed"
			c.logger.WarnWithFields("authentication error", map[string]interface{}{
				"status": resp.StatusCode,
				"url":    url,
			})
		}
		return nil, &Error{
			Kind:       kind,
			StatusCode: resp.StatusCode,
			Endpoint:   url,
			Message:    msg,
			Headers:    sanitizeHeaders(req.Header),
			Body:       string(respBody),
		}
	}

	if readErr != nil {
		return nil, &Error{
			Kind:       ErrorTransport,
			StatusCode: resp.StatusCode,
			Endpoint:   url,
			Message:    fmt.Sprintf("failed to read response body: %v", readErr),
			Err:        readErr,
		}
	}

	return respBody, nil
}

// getJSON performs a GET and decodes the JSON response into target.
func (c *Client) getJSON(url string, target interface{}) error {
	body, err := c.do(http.MethodGet, url, nil, nil)
	if err != nil {
		return err
	}
	return c.decode(url, body, target)
}

// postJSON marshals payload, performs a POST, and decodes the response into
// target when target is non-nil. Empty response bodies are tolerated; some
// endpoints return 204 No Content.
func (c *Client) postJSON(url string, payload interface{}, target interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return &Error{
			Kind:     ErrorTransport,
			Endpoint: url,
			Message:  fmt.Sprintf("failed to encode payload: %v", err),
			Err:      err,
		}
	}

	extra := http.Header{}
	extra.Set("Content-Type", "application/json; charset=UTF-8")

	body, err := c.do(http.MethodPost, url, data, extra)
	if err != nil {
		return err
	}
	if target == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return c.decode(url, body, target)
}

func (c *Client) decode(url string, body []byte, target interface{}) error {
	if err := json.Unmarshal(body, target); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return &Error{
			Kind:     ErrorTransport,
			Endpoint: url,
			Message:  fmt.Sprintf("failed to parse response: %v", err),
			Err:      err,
		}
	}
	return nil
}

// InitiateSMSLogin requests an SMS one-time code for the given phone number.
// The endpoint returns no body on success.
func (c *Client) InitiateSMSLogin(phoneNumber string) error {
	payload := map[string]string{
		"phoneNumber": phoneNumber,
		"deviceId":    c.cfg.DeviceID,
	}

	c.logger.InfoWithFields("initiating SMS login", map[string]interface{}{
		"phone_number": phoneNumber,
	})

	return c.postJSON(apiURL(c.cfg.BaseURL, SMSInitiateEndpoint), payload, nil)
}

// VerifySMSLogin submits the received one-time code and returns the
// resulting session. When the API does not return a session id, a fresh one
// is generated locally, matching the mobile client's behavior.
func (c *Client) VerifySMSLogin(phoneNumber, otp string) (*Session, error) {
	payload := map[string]string{
		"deviceId":    c.cfg.DeviceID,
		"installId":   c.cfg.InstallID,
		"phoneNumber": phoneNumber,
		"otp":         otp,
	}

	url := apiURL(c.cfg.BaseURL, SMSVerifyEndpoint)
	var session Session
	if err := c.postJSON(url, payload, &session); err != nil {
		return nil, err
	}

	if session.Token == "" {
		return nil, &Error{
			Kind:     ErrorAuth,
			Endpoint: url,
			Message:  "verification response did not contain a token",
		}
	}
	if session.SessionID == "" {
		session.SessionID = uuid.NewString()
		c.logger.Debug("verification response had no session id, generated one")
	}

	c.logger.InfoWithFields("SMS login verified", map[string]interface{}{
		"player_id": session.PlayerID,
	})

	return &session, nil
}
