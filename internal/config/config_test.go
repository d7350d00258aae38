package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8501", cfg.Address())
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, "http://localhost:11434/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "ollama", cfg.LLM.APIKey)
	assert.Equal(t, "qwen2:0.5b", cfg.LLM.Model)
	assert.Equal(t, 120*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Chat.Debounce)
	assert.Equal(t, "alfred_session", cfg.Session.CookieName)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alfred.yaml")
	yaml := "server:\n  port: 9000\nllm:\n  model: llama3\nchat:\n  debounce: 0s\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("ALFRED_LLM_BASE_URL", "http://ollama:11434/v1")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "llama3", cfg.LLM.Model)
	assert.Equal(t, "http://ollama:11434/v1", cfg.LLM.BaseURL)
	assert.Zero(t, cfg.Chat.Debounce)
}

func TestLoadRejectsBadPort(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alfred.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 70000\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
