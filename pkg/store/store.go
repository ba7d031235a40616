package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// PromptEntry is one prompt/answer pair in a persisted profile. Voice
// answers carry the transcript in Response plus the media URL and waveform.
type PromptEntry struct {
	Question   string    `json:"question"`
	QuestionID string    `json:"question_id"`
	Type       string    `json:"type"`
	Response   string    `json:"response"`
	VoiceURL   string    `json:"voice_url,omitempty"`
	Waveform   []float64 `json:"waveform,omitempty"`
}

// ImageEntry is one profile image with its CDN identifiers.
type ImageEntry struct {
	URL       string `json:"url"`
	CdnID     string `json:"cdn_id"`
	ContentID string `json:"content_id"`
}

// InteractionData pairs a profile with the token required to act on it and
// the source it was fetched from. The token is only guaranteed valid for
// the fetch cycle that produced it.
type InteractionData struct {
	SubjectID   string `json:"subject_id"`
	RatingToken string `json:"rating_token"`
	Source      string `json:"source"`
}

// ProfileRecord is the persisted shape of one scraped profile.
type ProfileRecord struct {
	ProfileInfo map[string]json.RawMessage `json:"profile_info"`
	Prompts     []PromptEntry              `json:"prompts"`
	Images      []ImageEntry               `json:"images"`
	Interaction InteractionData            `json:"interaction_data"`
}

// Store accumulates profile records keyed by identity and persists them as
// a single JSON document. Records are append-only: an identity already
// present is never overwritten, and the only delete path is Clear.
type Store struct {
	path    string
	records map[string]ProfileRecord
	mu      sync.RWMutex
}

// New creates an empty store backed by the given file without loading any
// existing content. Saving replaces whatever the file held before.
func New(path string) *Store {
	return &Store{
		path:    path,
		records: make(map[string]ProfileRecord),
	}
}

// Open creates a store backed by the given file, loading any existing
// records. A missing file is an empty store; a malformed one is an error.
func Open(path string) (*Store, error) {
	s := New(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	if err := json.Unmarshal(data, &s.records); err != nil {
		return nil, fmt.Errorf("failed to parse store file %s: %w", path, err)
	}

	return s, nil
}

// Path returns the file backing this store.
func (s *Store) Path() string {
	return s.path
}

// Has reports whether an identity is already present.
func (s *Store) Has(identity string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[identity]
	return ok
}

// Add inserts a record and reports whether it was inserted. An identity
// already present is left untouched and Add returns false.
func (s *Store) Add(identity string, record ProfileRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[identity]; ok {
		return false
	}
	s.records[identity] = record
	return true
}

// Get returns the record for an identity.
func (s *Store) Get(identity string) (ProfileRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[identity]
	return rec, ok
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Identities returns all stored identities in sorted order.
func (s *Store) Identities() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.records))
	for id := range s.records {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Records returns a copy of the full identity-to-record mapping.
func (s *Store) Records() map[string]ProfileRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]ProfileRecord, len(s.records))
	for id, rec := range s.records {
		out[id] = rec
	}
	return out
}

// Save writes the full in-memory mapping to disk, replacing the prior file
// content. The write goes through a temp file, fsync and rename so a crash
// mid-write leaves the last complete document intact.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dir := filepath.Dir(s.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	tempPath := s.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary store file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.records); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode store: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync store file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close store file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace store file: %w", err)
	}

	return nil
}

// Clear removes all records and deletes the backing file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]ProfileRecord)
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove store file: %w", err)
	}
	return nil
}
