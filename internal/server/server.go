// Package server exposes the resource API layer as a small JSON HTTP
// service for a web frontend. Every response is wrapped in a
// {success, ...} envelope; CORS is wide open since the frontend runs on a
// different local port during development.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"hingescraper/pkg/config"
	"hingescraper/pkg/hinge"
	"hingescraper/pkg/logger"
)

// API is the subset of the Hinge client the server depends on.
type API interface {
	Recommendations(activeToday, newHere bool) (*hinge.RecommendationsResponse, error)
	Standouts() (*hinge.StandoutsResponse, error)
	PublicProfiles(ids []string) ([]hinge.PublicProfile, error)
	LikeProfile(opts hinge.LikeOptions) (json.RawMessage, error)
	Settings() (json.RawMessage, error)
	Traits() (json.RawMessage, error)
	Account() (json.RawMessage, error)
	LikeLimit() (json.RawMessage, error)
}

// Server is the HTTP front end.
type Server struct {
	api    API
	cfg    *config.Config
	logger logger.Logger
	saved  *savedProfiles

	httpServer *http.Server
}

// New creates a server around the given API client. Saved profiles are
// persisted to savedPath; an empty path uses saved_profiles.json in the
// working directory.
func New(cfg *config.Config, api API, savedPath string, log logger.Logger) *Server {
	if log == nil {
		log = logger.GetLogger()
	}
	if savedPath == "" {
		savedPath = "saved_profiles.json"
	}

	s := &Server{
		api:    api,
		cfg:    cfg,
		logger: log,
		saved:  newSavedProfiles(savedPath),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleRoot)
	mux.HandleFunc("GET /api/recommendations", s.handleRecommendations)
	mux.HandleFunc("GET /api/profile/{id}", s.handleProfile)
	mux.HandleFunc("GET /api/me", s.handleMe)
	mux.HandleFunc("GET /api/account", s.handleAccount)
	mux.HandleFunc("GET /api/traits", s.handleTraits)
	mux.HandleFunc("GET /api/settings", s.handleSettings)
	mux.HandleFunc("GET /api/standouts", s.handleStandouts)
	mux.HandleFunc("GET /api/like-limit", s.handleLikeLimit)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/like", s.handleLike)
	mux.HandleFunc("POST /api/skip", s.handleSkip)
	mux.HandleFunc("POST /api/save-profiles", s.handleSaveProfiles)
	mux.HandleFunc("GET /api/saved-profiles", s.handleSavedProfiles)
	mux.HandleFunc("DELETE /api/saved-profiles", s.handleClearSavedProfiles)

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.withCORS(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return s
}

// Handler returns the server's HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts serving and blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.logger.InfoWithFields("starting HTTP server", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// withCORS answers preflight requests and attaches permissive CORS headers
// to every response.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

// writeError maps client error kinds onto HTTP statuses: auth failures
// become 401 so the frontend can prompt for fresh credentials.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if hinge.IsAuth(err) {
		status = http.StatusUnauthorized
	}
	s.writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"message": "hingescraper API is running",
	})
}

// enrichedSubject is one recommendation subject merged with its public
// profile data.
type enrichedSubject struct {
	SubjectID   string         `json:"subjectId"`
	RatingToken string         `json:"ratingToken"`
	Profile     *hinge.Profile `json:"profile,omitempty"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := s.api.Recommendations(s.cfg.Scrape.ActiveToday, s.cfg.Scrape.NewHere)
	if err != nil {
		s.writeError(w, err)
		return
	}

	subjects := recs.Subjects()
	if len(subjects) == 0 {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"count":    0,
			"subjects": []enrichedSubject{},
		})
		return
	}

	enriched := make([]enrichedSubject, 0, len(subjects))
	for _, sub := range subjects {
		enriched = append(enriched, enrichedSubject{
			SubjectID:   sub.SubjectID,
			RatingToken: sub.RatingToken,
		})
	}

	ids := make([]string, 0, len(subjects))
	for _, sub := range subjects {
		ids = append(ids, sub.SubjectID)
	}

	// A profile fetch failure degrades to bare subjects rather than
	// failing the whole request.
	profiles, err := s.api.PublicProfiles(ids)
	if err != nil {
		s.logger.WithError(err).Warn("failed to fetch profiles, returning bare subjects")
	} else {
		byID := make(map[string]hinge.Profile, len(profiles))
		for _, p := range profiles {
			byID[p.IdentityID] = p.Profile
		}
		for i := range enriched {
			if profile, ok := byID[enriched[i].SubjectID]; ok {
				p := profile
				enriched[i].Profile = &p
			}
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"count":    len(enriched),
		"subjects": enriched,
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	subjectID := r.PathValue("id")

	profiles, err := s.api.PublicProfiles([]string{subjectID})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(profiles) == 0 {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"profile": nil,
		})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"profile": profiles[0],
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.api.PublicProfiles([]string{s.cfg.Hinge.UserID})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(profiles) == 0 {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"profile": nil,
		})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"profile": profiles[0],
	})
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	s.passthrough(w, "account", s.api.Account)
}

func (s *Server) handleTraits(w http.ResponseWriter, r *http.Request) {
	s.passthrough(w, "traits", s.api.Traits)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	s.passthrough(w, "settings", s.api.Settings)
}

func (s *Server) handleLikeLimit(w http.ResponseWriter, r *http.Request) {
	s.passthrough(w, "limit", s.api.LikeLimit)
}

// passthrough wraps a raw API call result under the given envelope key.
func (s *Server) passthrough(w http.ResponseWriter, key string, call func() (json.RawMessage, error)) {
	raw, err := call()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		key:       raw,
	})
}

func (s *Server) handleStandouts(w http.ResponseWriter, r *http.Request) {
	standouts, err := s.api.Standouts()
	if err != nil {
		s.writeError(w, err)
		return
	}
	free := standouts.Free
	if free == nil {
		free = []hinge.Subject{}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"standouts": free,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if _, err := s.api.Recommendations(false, false); err != nil {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":      "unhealthy",
			"error":       err.Error(),
			"api_working": false,
		})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"user_id":     s.cfg.Hinge.UserID,
		"api_working": true,
	})
}

// likeRequest is the body of POST /api/like. Exactly one of ContentID and
// QuestionID selects whether a photo or a prompt is being liked.
type likeRequest struct {
	SubjectID   string `json:"subject_id"`
	RatingToken string `json:"rating_token"`
	Comment     string `json:"comment"`
	ContentID   string `json:"content_id"`
	QuestionID  string `json:"question_id"`
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	var req likeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   fmt.Sprintf("invalid request body: %v", err),
		})
		return
	}

	if (req.ContentID == "") == (req.QuestionID == "") {
		s.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "need exactly one of content_id or question_id",
		})
		return
	}

	var content *hinge.LikeContent
	if req.QuestionID != "" {
		content = hinge.PromptContent(req.QuestionID, req.Comment)
	} else {
		content = hinge.PhotoContent(req.ContentID, req.Comment)
	}

	response, err := s.api.LikeProfile(hinge.LikeOptions{
		SubjectID:   req.SubjectID,
		RatingToken: req.RatingToken,
		Content:     content,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"response": response,
	})
}

// handleSkip is a local no-op. Skipping a profile just means not liking
// it, so there is nothing to tell the API.
func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	io.Copy(io.Discard, r.Body)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Skipped locally",
	})
}

func (s *Server) handleSaveProfiles(w http.ResponseWriter, r *http.Request) {
	var profiles []json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&profiles); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   fmt.Sprintf("invalid request body: %v", err),
		})
		return
	}

	saved, total, err := s.saved.Append(profiles)
	if err != nil {
		s.logger.WithError(err).Error("failed to save profiles")
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"saved":   saved,
		"total":   total,
		"skipped": len(profiles) - saved,
	})
}

func (s *Server) handleSavedProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.saved.All()
	if err != nil {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":  false,
			"error":    err.Error(),
			"profiles": []json.RawMessage{},
			"count":    0,
		})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"profiles": profiles,
		"count":    len(profiles),
	})
}

func (s *Server) handleClearSavedProfiles(w http.ResponseWriter, r *http.Request) {
	if err := s.saved.Clear(); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Cleared all saved profiles",
	})
}
