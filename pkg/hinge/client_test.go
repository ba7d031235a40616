package hinge

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"hingescraper/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRoundTripper allows us to intercept HTTP requests
type mockRoundTripper struct {
	handler func(req *http.Request) (*http.Response, error)
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.handler(req)
}

// Helper function to create a mock HTTP client
func newMockHTTPClient(handler func(req *http.Request) (*http.Response, error)) *http.Client {
	return &http.Client{
		Transport: &mockRoundTripper{handler: handler},
		Timeout:   30 * time.Second,
	}
}

// Helper function to create a response
func newResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func testConfig() Config {
	return Config{
		AuthToken: "test-token",
		SessionID: "test-session",
		UserID:    "test-player",
		DeviceID:  "test-device",
		InstallID: "test-install",
	}
}

// newTestClient creates a client whose transport is driven by handler.
func newTestClient(t *testing.T, handler func(req *http.Request) (*http.Response, error)) *Client {
	t.Helper()
	client := NewClient(testConfig(), logger.NewTestLogger())
	client.httpClient = newMockHTTPClient(handler)
	return client
}

func TestNewClient(t *testing.T) {
	log := logger.NewTestLogger()
	client := NewClient(testConfig(), log)

	assert.NotNil(t, client)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.headers)
	assert.Equal(t, BaseURL, client.cfg.BaseURL)
	assert.Equal(t, MediaURL, client.cfg.MediaBaseURL)
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
	assert.Equal(t, log, client.logger)
}

func TestNewClientDefaultsAndOverrides(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		client := NewClient(Config{}, logger.NewTestLogger())

		assert.Equal(t, "ios", client.cfg.Platform)
		assert.Equal(t, defaultAppVersion, client.cfg.AppVersion)
		assert.Equal(t, defaultDeviceModel, client.cfg.DeviceModel)
	})

	t.Run("overrides respected", func(t *testing.T) {
		cfg := Config{
			BaseURL: "http://localhost:9999",
			Timeout: 5 * time.Second,
		}
		client := NewClient(cfg, logger.NewTestLogger())

		assert.Equal(t, "http://localhost:9999", client.cfg.BaseURL)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})
}

func TestDefaultHeaders(t *testing.T) {
	t.Run("ios", func(t *testing.T) {
		client := NewClient(testConfig(), logger.NewTestLogger())

		assert.Equal(t, "Bearer test-token", client.headers.Get("Authorization"))
		assert.Equal(t, "test-session", client.headers.Get("X-Session-Id"))
		assert.Equal(t, "co.hinge.mobile.ios", client.headers.Get("X-App-Identifier"))
		assert.Equal(t, "11668", client.headers.Get("X-Build-Number"))
		assert.Contains(t, client.headers.Get("User-Agent"), "CFNetwork")
	})

	t.Run("android", func(t *testing.T) {
		cfg := testConfig()
		cfg.Platform = "android"
		client := NewClient(cfg, logger.NewTestLogger())

		assert.Equal(t, "okhttp/4.12.0", client.headers.Get("User-Agent"))
		assert.Equal(t, "android", client.headers.Get("x-device-platform"))
		assert.Equal(t, "Bearer test-token", client.headers.Get("Authorization"))
	})
}

func TestDoSendsDefaultHeaders(t *testing.T) {
	var captured http.Header
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req.Header.Clone()
		return newResponse(http.StatusOK, `{}`), nil
	})

	_, err := client.do(http.MethodGet, client.cfg.BaseURL+"/rec/v2", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", captured.Get("Authorization"))
	assert.Equal(t, "test-session", captured.Get("X-Session-Id"))
}

func TestDoDefaultHeadersOverrideExtras(t *testing.T) {
	// Per-call extras lose to the client's fixed header set, matching the
	// mobile app's behavior.
	var captured http.Header
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req.Header.Clone()
		return newResponse(http.StatusOK, `{}`), nil
	})

	extra := http.Header{}
	extra.Set("X-Session-Id", "spoofed")
	extra.Set("X-Extra", "kept")

	_, err := client.do(http.MethodGet, client.cfg.BaseURL+"/rec/v2", nil, extra)
	require.NoError(t, err)

	assert.Equal(t, "test-session", captured.Get("X-Session-Id"))
	assert.Equal(t, "kept", captured.Get("X-Extra"))
}

func TestDoErrorKinds(t *testing.T) {
	t.Run("401 is auth not request", func(t *testing.T) {
		client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			return newResponse(http.StatusUnauthorized, `{"error":"expired"}`), nil
		})

		_, err := client.do(http.MethodGet, client.cfg.BaseURL+"/rec/v2", nil, nil)
		require.Error(t, err)

		assert.True(t, IsAuth(err))
		assert.False(t, IsRequest(err))

		var he *Error
		require.True(t, errors.As(err, &he))
		assert.Equal(t, http.StatusUnauthorized, he.StatusCode)
		assert.Equal(t, `{"error":"expired"}`, he.Body)
	})

	t.Run("other non-2xx is request", func(t *testing.T) {
		client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			return newResponse(http.StatusTooManyRequests, ""), nil
		})

		_, err := client.do(http.MethodGet, client.cfg.BaseURL+"/rec/v2", nil, nil)
		require.Error(t, err)

		assert.True(t, IsRequest(err))
		assert.False(t, IsAuth(err))
	})

	t.Run("network failure is transport", func(t *testing.T) {
		netErr := errors.New("connection refused")
		client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			return nil, netErr
		})

		_, err := client.do(http.MethodGet, client.cfg.BaseURL+"/rec/v2", nil, nil)
		require.Error(t, err)

		assert.True(t, IsTransport(err))
	})
}

func TestDoSanitizesAuthorizationHeader(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return newResponse(http.StatusForbidden, ""), nil
	})

	_, err := client.do(http.MethodGet, client.cfg.BaseURL+"/rec/v2", nil, nil)
	require.Error(t, err)

	var he *Error
	require.True(t, errors.As(err, &he))
	assert.Equal(t, "REDACTED", he.Headers.Get("Authorization"))
	assert.NotContains(t, he.Error(), "test-token")
}

func TestPostJSONToleratesEmptyBody(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return newResponse(http.StatusNoContent, ""), nil
	})

	var target json.RawMessage
	err := client.postJSON(client.cfg.BaseURL+"/message/send", map[string]string{"a": "b"}, &target)
	assert.NoError(t, err)
	assert.Nil(t, target)
}

func TestDecodeFailureIsTransport(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return newResponse(http.StatusOK, "<html>not json</html>"), nil
	})

	var resp RecommendationsResponse
	err := client.getJSON(client.cfg.BaseURL+"/rec/v2", &resp)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

func TestVerifySMSLogin(t *testing.T) {
	t.Run("returns session", func(t *testing.T) {
		client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, SMSVerifyEndpoint, req.URL.Path)

			body, _ := io.ReadAll(req.Body)
			var payload map[string]string
			require.NoError(t, json.Unmarshal(body, &payload))
			assert.Equal(t, "+15551234567", payload["phoneNumber"])
			assert.Equal(t, "123456", payload["otp"])

			return newResponse(http.StatusOK, `{"token":"fresh-token","playerId":"p1","sessionId":"s1"}`), nil
		})

		session, err := client.VerifySMSLogin("+15551234567", "123456")
		require.NoError(t, err)
		assert.Equal(t, "fresh-token", session.Token)
		assert.Equal(t, "p1", session.PlayerID)
		assert.Equal(t, "s1", session.SessionID)
	})

	t.Run("missing token is auth error", func(t *testing.T) {
		client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			return newResponse(http.StatusOK, `{"playerId":"p1"}`), nil
		})

		_, err := client.VerifySMSLogin("+15551234567", "000000")
		require.Error(t, err)
		assert.True(t, IsAuth(err))
	})

	t.Run("missing session id is generated", func(t *testing.T) {
		client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			return newResponse(http.StatusOK, `{"token":"fresh-token"}`), nil
		})

		session, err := client.VerifySMSLogin("+15551234567", "123456")
		require.NoError(t, err)
		assert.NotEmpty(t, session.SessionID)
	})
}
