package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"hingescraper/pkg/config"
	"hingescraper/pkg/hinge"
	"hingescraper/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAPI struct {
	recs       *hinge.RecommendationsResponse
	recsErr    error
	standouts  *hinge.StandoutsResponse
	profiles   []hinge.PublicProfile
	profileErr error

	likeOpts *hinge.LikeOptions
	likeErr  error
}

func (m *mockAPI) Recommendations(activeToday, newHere bool) (*hinge.RecommendationsResponse, error) {
	if m.recsErr != nil {
		return nil, m.recsErr
	}
	if m.recs == nil {
		return &hinge.RecommendationsResponse{}, nil
	}
	return m.recs, nil
}

func (m *mockAPI) Standouts() (*hinge.StandoutsResponse, error) {
	if m.standouts == nil {
		return &hinge.StandoutsResponse{}, nil
	}
	return m.standouts, nil
}

func (m *mockAPI) PublicProfiles(ids []string) ([]hinge.PublicProfile, error) {
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	return m.profiles, nil
}

func (m *mockAPI) LikeProfile(opts hinge.LikeOptions) (json.RawMessage, error) {
	m.likeOpts = &opts
	if m.likeErr != nil {
		return nil, m.likeErr
	}
	return json.RawMessage(`{"status":"sent"}`), nil
}

func (m *mockAPI) Settings() (json.RawMessage, error)  { return json.RawMessage(`{"s":1}`), nil }
func (m *mockAPI) Traits() (json.RawMessage, error)    { return json.RawMessage(`{"t":1}`), nil }
func (m *mockAPI) Account() (json.RawMessage, error)   { return json.RawMessage(`{"a":1}`), nil }
func (m *mockAPI) LikeLimit() (json.RawMessage, error) { return json.RawMessage(`{"likes":8}`), nil }

func newTestServer(t *testing.T, api *mockAPI) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Hinge.UserID = "me-id"
	savedPath := filepath.Join(t.TempDir(), "saved_profiles.json")
	return New(cfg, api, savedPath, logger.NewTestLogger())
}

func doRequest(t *testing.T, s *Server, method, path string, body []byte) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var envelope map[string]json.RawMessage
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec, envelope
}

func TestRecommendationsEnriched(t *testing.T) {
	api := &mockAPI{
		recs: &hinge.RecommendationsResponse{
			Feeds: []hinge.Feed{{Subjects: []hinge.Subject{
				{SubjectID: "a", RatingToken: "ta"},
				{SubjectID: "b", RatingToken: "tb"},
			}}},
		},
		profiles: []hinge.PublicProfile{
			{IdentityID: "a", Profile: hinge.Profile{
				Attributes: map[string]json.RawMessage{"firstName": json.RawMessage(`"Sam"`)},
			}},
		},
	}
	s := newTestServer(t, api)

	rec, envelope := doRequest(t, s, http.MethodGet, "/api/recommendations", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `true`, string(envelope["success"]))
	assert.JSONEq(t, `2`, string(envelope["count"]))

	var subjects []struct {
		SubjectID   string          `json:"subjectId"`
		RatingToken string          `json:"ratingToken"`
		Profile     json.RawMessage `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(envelope["subjects"], &subjects))
	require.Len(t, subjects, 2)

	// "a" has profile data merged in; "b" stays bare.
	assert.Equal(t, "ta", subjects[0].RatingToken)
	assert.Contains(t, string(subjects[0].Profile), "Sam")
	assert.Empty(t, subjects[1].Profile)
}

func TestRecommendationsDegradesOnProfileFailure(t *testing.T) {
	api := &mockAPI{
		recs: &hinge.RecommendationsResponse{
			Feeds: []hinge.Feed{{Subjects: []hinge.Subject{{SubjectID: "a", RatingToken: "ta"}}}},
		},
		profileErr: errors.New("profile fetch down"),
	}
	s := newTestServer(t, api)

	rec, envelope := doRequest(t, s, http.MethodGet, "/api/recommendations", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `true`, string(envelope["success"]))
	assert.JSONEq(t, `1`, string(envelope["count"]))
}

func TestRecommendationsEmpty(t *testing.T) {
	s := newTestServer(t, &mockAPI{})

	rec, envelope := doRequest(t, s, http.MethodGet, "/api/recommendations", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `true`, string(envelope["success"]))
	assert.JSONEq(t, `0`, string(envelope["count"]))
	assert.JSONEq(t, `[]`, string(envelope["subjects"]))
}

func TestAuthErrorMapsTo401(t *testing.T) {
	api := &mockAPI{recsErr: &hinge.Error{Kind: hinge.ErrorAuth, StatusCode: 401, Message: "expired"}}
	s := newTestServer(t, api)

	rec, envelope := doRequest(t, s, http.MethodGet, "/api/recommendations", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `false`, string(envelope["success"]))
}

func TestProfileLookup(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		api := &mockAPI{profiles: []hinge.PublicProfile{{IdentityID: "id-1"}}}
		s := newTestServer(t, api)

		rec, envelope := doRequest(t, s, http.MethodGet, "/api/profile/id-1", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `true`, string(envelope["success"]))
	})

	t.Run("not found", func(t *testing.T) {
		s := newTestServer(t, &mockAPI{})

		rec, envelope := doRequest(t, s, http.MethodGet, "/api/profile/missing", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `false`, string(envelope["success"]))
		assert.JSONEq(t, `null`, string(envelope["profile"]))
	})
}

func TestLike(t *testing.T) {
	t.Run("prompt like", func(t *testing.T) {
		api := &mockAPI{}
		s := newTestServer(t, api)

		body := []byte(`{"subject_id":"s1","rating_token":"t1","question_id":"q1","comment":"same!"}`)
		rec, envelope := doRequest(t, s, http.MethodPost, "/api/like", body)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `true`, string(envelope["success"]))

		require.NotNil(t, api.likeOpts)
		assert.Equal(t, "s1", api.likeOpts.SubjectID)
		assert.Equal(t, "t1", api.likeOpts.RatingToken)

		content, err := json.Marshal(api.likeOpts.Content)
		require.NoError(t, err)
		assert.JSONEq(t, `{"prompt":{"questionId":"q1","response":"same!"}}`, string(content))
	})

	t.Run("photo like", func(t *testing.T) {
		api := &mockAPI{}
		s := newTestServer(t, api)

		body := []byte(`{"subject_id":"s1","rating_token":"t1","content_id":"c1"}`)
		rec, _ := doRequest(t, s, http.MethodPost, "/api/like", body)
		assert.Equal(t, http.StatusOK, rec.Code)

		content, err := json.Marshal(api.likeOpts.Content)
		require.NoError(t, err)
		assert.JSONEq(t, `{"photo":{"contentId":"c1","comment":""}}`, string(content))
	})

	t.Run("neither target given", func(t *testing.T) {
		s := newTestServer(t, &mockAPI{})

		body := []byte(`{"subject_id":"s1","rating_token":"t1","comment":"hi"}`)
		rec, envelope := doRequest(t, s, http.MethodPost, "/api/like", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `false`, string(envelope["success"]))
	})

	t.Run("both targets given", func(t *testing.T) {
		s := newTestServer(t, &mockAPI{})

		body := []byte(`{"subject_id":"s1","rating_token":"t1","content_id":"c1","question_id":"q1"}`)
		rec, _ := doRequest(t, s, http.MethodPost, "/api/like", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		s := newTestServer(t, &mockAPI{})

		rec, _ := doRequest(t, s, http.MethodPost, "/api/like", []byte("{not json"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSkip(t *testing.T) {
	s := newTestServer(t, &mockAPI{})

	body := []byte(`{"subject_id":"s1","rating_token":"t1"}`)
	rec, envelope := doRequest(t, s, http.MethodPost, "/api/skip", body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `true`, string(envelope["success"]))
	assert.JSONEq(t, `"Skipped locally"`, string(envelope["message"]))
}

func TestStandoutsReturnsFreeList(t *testing.T) {
	api := &mockAPI{standouts: &hinge.StandoutsResponse{
		Free: []hinge.Subject{{SubjectID: "f1", RatingToken: "tf1"}},
		Paid: []hinge.Subject{{SubjectID: "p1", RatingToken: "tp1"}},
	}}
	s := newTestServer(t, api)

	rec, envelope := doRequest(t, s, http.MethodGet, "/api/standouts", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var standouts []hinge.Subject
	require.NoError(t, json.Unmarshal(envelope["standouts"], &standouts))
	require.Len(t, standouts, 1)
	assert.Equal(t, "f1", standouts[0].SubjectID)
}

func TestPassthroughEndpoints(t *testing.T) {
	s := newTestServer(t, &mockAPI{})

	tests := []struct {
		path string
		key  string
		want string
	}{
		{"/api/account", "account", `{"a":1}`},
		{"/api/traits", "traits", `{"t":1}`},
		{"/api/settings", "settings", `{"s":1}`},
		{"/api/like-limit", "limit", `{"likes":8}`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec, envelope := doRequest(t, s, http.MethodGet, tt.path, nil)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `true`, string(envelope["success"]))
			assert.JSONEq(t, tt.want, string(envelope[tt.key]))
		})
	}
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		s := newTestServer(t, &mockAPI{})

		rec, envelope := doRequest(t, s, http.MethodGet, "/api/health", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `"healthy"`, string(envelope["status"]))
		assert.JSONEq(t, `true`, string(envelope["api_working"]))
		assert.JSONEq(t, `"me-id"`, string(envelope["user_id"]))
	})

	t.Run("unhealthy", func(t *testing.T) {
		s := newTestServer(t, &mockAPI{recsErr: errors.New("connection refused")})

		rec, envelope := doRequest(t, s, http.MethodGet, "/api/health", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `"unhealthy"`, string(envelope["status"]))
		assert.JSONEq(t, `false`, string(envelope["api_working"]))
	})
}

func TestSavedProfilesLifecycle(t *testing.T) {
	s := newTestServer(t, &mockAPI{})

	// Empty store.
	rec, envelope := doRequest(t, s, http.MethodGet, "/api/saved-profiles", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `0`, string(envelope["count"]))

	// Save two profiles.
	body := []byte(`[{"subjectId":"a","name":"Sam"},{"subjectId":"b"}]`)
	rec, envelope = doRequest(t, s, http.MethodPost, "/api/save-profiles", body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `2`, string(envelope["saved"]))
	assert.JSONEq(t, `2`, string(envelope["total"]))
	assert.JSONEq(t, `0`, string(envelope["skipped"]))

	// Saving an overlapping batch dedupes by subjectId.
	body = []byte(`[{"subjectId":"b"},{"subjectId":"c"}]`)
	rec, envelope = doRequest(t, s, http.MethodPost, "/api/save-profiles", body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `1`, string(envelope["saved"]))
	assert.JSONEq(t, `3`, string(envelope["total"]))
	assert.JSONEq(t, `1`, string(envelope["skipped"]))

	// List.
	rec, envelope = doRequest(t, s, http.MethodGet, "/api/saved-profiles", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `3`, string(envelope["count"]))

	var profiles []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(envelope["profiles"], &profiles))
	assert.Contains(t, string(profiles[0]["name"]), "Sam")

	// Clear.
	rec, envelope = doRequest(t, s, http.MethodDelete, "/api/saved-profiles", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `true`, string(envelope["success"]))

	rec, envelope = doRequest(t, s, http.MethodGet, "/api/saved-profiles", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `0`, string(envelope["count"]))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, &mockAPI{})

	req := httptest.NewRequest(http.MethodOptions, "/api/recommendations", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
