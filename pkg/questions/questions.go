// Package questions loads the static mapping from prompt question ids to
// their display text. The mapping file ships with the app bundle and is
// loaded once per run; its absence is a fatal, reported error.
package questions

import (
	"encoding/json"
	"fmt"
	"os"
)

// UnknownQuestion is the display text used when a question id has no entry
// in the mapping.
const UnknownQuestion = "Unknown Question"

// Map resolves question ids to display text.
type Map map[string]string

// mappingFile is the on-disk shape of the prompts asset.
type mappingFile struct {
	Text struct {
		Prompts []struct {
			ID     string `json:"id"`
			Prompt string `json:"prompt"`
		} `json:"prompts"`
	} `json:"text"`
}

// Load reads the question mapping from the given JSON file.
func Load(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("question mapping file not found: %w", err)
	}

	var file mappingFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse question mapping file %s: %w", path, err)
	}

	m := make(Map, len(file.Text.Prompts))
	for _, p := range file.Text.Prompts {
		m[p.ID] = p.Prompt
	}
	return m, nil
}

// Lookup returns the display text for a question id, falling back to
// UnknownQuestion for ids the mapping does not cover.
func (m Map) Lookup(id string) string {
	if text, ok := m[id]; ok {
		return text
	}
	return UnknownQuestion
}
