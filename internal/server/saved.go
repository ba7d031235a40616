package server

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// savedProfiles persists frontend-selected profiles as a JSON array,
// deduplicated by the subjectId field. Entries are kept verbatim; the file
// is rewritten in full on every append.
type savedProfiles struct {
	path string
	mu   sync.Mutex
}

func newSavedProfiles(path string) *savedProfiles {
	return &savedProfiles{path: path}
}

// Append adds profiles whose subjectId is not already present and reports
// how many were added plus the resulting total.
func (s *savedProfiles) Append(profiles []json.RawMessage) (saved, total int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return 0, 0, err
	}

	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		if id := subjectID(p); id != "" {
			seen[id] = true
		}
	}

	for _, p := range profiles {
		id := subjectID(p)
		if id != "" && seen[id] {
			continue
		}
		if id != "" {
			seen[id] = true
		}
		existing = append(existing, p)
		saved++
	}

	if err := s.write(existing); err != nil {
		return 0, 0, err
	}
	return saved, len(existing), nil
}

// All returns every saved profile.
func (s *savedProfiles) All() ([]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load()
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []json.RawMessage{}
	}
	return profiles, nil
}

// Clear deletes the backing file.
func (s *savedProfiles) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove saved profiles file: %w", err)
	}
	return nil
}

func (s *savedProfiles) load() ([]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read saved profiles file: %w", err)
	}

	var profiles []json.RawMessage
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse saved profiles file: %w", err)
	}
	return profiles, nil
}

func (s *savedProfiles) write(profiles []json.RawMessage) error {
	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode saved profiles: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write saved profiles file: %w", err)
	}
	return nil
}

// subjectID extracts the subjectId field from a raw profile entry.
func subjectID(raw json.RawMessage) string {
	var probe struct {
		SubjectID string `json:"subjectId"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	return probe.SubjectID
}
