package questions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMapping(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prompts.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeMapping(t, `{
		"text": {
			"prompts": [
				{"id": "q1", "prompt": "A life goal of mine"},
				{"id": "q2", "prompt": "My simple pleasures"}
			]
		}
	}`)

	m, err := Load(path)
	require.NoError(t, err)

	assert.Len(t, m, 2)
	assert.Equal(t, "A life goal of mine", m.Lookup("q1"))
	assert.Equal(t, "My simple pleasures", m.Lookup("q2"))
}

func TestLookupUnknownID(t *testing.T) {
	path := writeMapping(t, `{"text": {"prompts": [{"id": "q1", "prompt": "A life goal of mine"}]}}`)

	m, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, UnknownQuestion, m.Lookup("never-seen"))
	assert.Equal(t, UnknownQuestion, m.Lookup(""))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeMapping(t, `{"text": [`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEmptyMapping(t *testing.T) {
	path := writeMapping(t, `{"text": {"prompts": []}}`)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, m, 0)
	assert.Equal(t, UnknownQuestion, m.Lookup("q1"))
}
