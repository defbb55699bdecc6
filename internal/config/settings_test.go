package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings("")
	require.NoError(t, err)

	assert.Equal(t, ServerListenAddr, s.ListenAddr)
	assert.Equal(t, StoreBackendMemory, s.StoreBackend)
	assert.Equal(t, RetrievalModeKeyword, s.RetrievalMode)
	assert.Equal(t, TokenTTL, s.TokenTTL)
	assert.Equal(t, EmbedConcurrency, s.EmbedConcurrency)
}

func TestLoadSettings_EnvOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("RETRIEVAL_MODE", "semantic")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, http://example.com")

	s, err := LoadSettings("")
	require.NoError(t, err)

	assert.Equal(t, StoreBackendRedis, s.StoreBackend)
	assert.Equal(t, 15*time.Minute, s.TokenTTL)
	assert.Equal(t, RetrievalModeSemantic, s.RetrievalMode)
	assert.Equal(t, []string{"http://localhost:3000", "http://example.com"}, s.AllowedOrigins())
}

func TestLoadSettings_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("LISTEN_ADDR: \":9000\"\nLLM_PROVIDER: openai\n"), 0o600))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", s.ListenAddr)
	assert.Equal(t, LLMProviderOpenAI, s.LLMProvider)
}

func TestLoadSettings_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "cassandra")

	_, err := LoadSettings("")
	assert.Error(t, err)
}

func TestSettings_ValidateProviders(t *testing.T) {
	s := Settings{StoreBackend: StoreBackendMemory, RetrievalMode: RetrievalModeKeyword, LLMProvider: LLMProviderNone, EmbeddingProvider: LLMProviderNone}
	require.NoError(t, s.Validate())

	s.LLMProvider = "anthropic"
	assert.ErrorContains(t, s.Validate(), "LLM_PROVIDER")

	s.LLMProvider = LLMProviderOpenAI
	s.EmbeddingProvider = ""
	assert.ErrorContains(t, s.Validate(), "EMBEDDING_PROVIDER")
}
