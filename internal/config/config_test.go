package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/f3rmion/kana/internal/kana"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoad_MissingFileGivesDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
quiz:
  mode: session
  session_length: 5
  groups: [base, digraphs]
log:
  level: debug
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ModeSession, cfg.Quiz.Mode)
	assert.Equal(t, 5, cfg.Quiz.SessionLength)
	assert.Equal(t, []string{"base", "digraphs"}, cfg.Quiz.Groups)
	assert.Equal(t, FeedbackLive, cfg.Quiz.Feedback)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "quiz: [unclosed"},
		{"mode", "quiz: {mode: forever}"},
		{"length", "quiz: {mode: session, session_length: 0}"},
		{"script", "quiz: {scripts: [kanji]}"},
		{"feedback", "quiz: {feedback: loud}"},
		{"log_format", "log: {format: xml}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Quiz.Scripts = []kana.Script{kana.Katakana}
	cfg.Data.Words = []string{"/tmp/words.jsonl"}
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestStorePath(t *testing.T) {
	cfg := Default()
	cfg.Data.Store = "/var/kana.db"
	path, err := cfg.StorePath()
	require.NoError(t, err)
	assert.Equal(t, "/var/kana.db", path)

	t.Setenv("HOME", "/home/learner")
	path, err = Default().StorePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/learner", ".config", "kana", "kana.db"), path)
}
