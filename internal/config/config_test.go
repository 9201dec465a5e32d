package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvVariables(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := ParseEnvVariables()
		require.NoError(t, err)

		assert.Equal(t, "5000", cfg.Port)
		assert.Equal(t, "cl100k_base", cfg.DefaultEncoding)
		assert.Equal(t, "tiktoken", cfg.TokenizerBackend)
		assert.Equal(t, []string{"*"}, cfg.CorsAllowedOrigins)
		assert.Equal(t, int64(32<<20), cfg.MaxUploadSizeBytes)
		assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
		assert.False(t, cfg.OpenTelemetryEnabled)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("PORT", "8080")
		t.Setenv("DEFAULT_ENCODING", "p50k_base")
		t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,https://tokens.example.com")
		t.Setenv("TOKENIZER_BACKEND", "approximate")

		cfg, err := ParseEnvVariables()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "p50k_base", cfg.DefaultEncoding)
		assert.Equal(t, "approximate", cfg.TokenizerBackend)
		assert.Equal(t, []string{"http://localhost:3000", "https://tokens.example.com"}, cfg.CorsAllowedOrigins)
	})
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "settings.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
			"default_encoding": "r50k_base",
			"allowed_origins": ["http://localhost:3000"],
			"encoding_aliases": {"davinci": "r50k_base", "gpt-3.5-turbo": "cl100k_base"}
		}`), 0o600))

		s, err := LoadSettings(path)
		require.NoError(t, err)

		cfg := &Config{DefaultEncoding: "cl100k_base", CorsAllowedOrigins: []string{"*"}}
		cfg.Apply(s)

		assert.Equal(t, "r50k_base", cfg.DefaultEncoding)
		assert.Equal(t, []string{"http://localhost:3000"}, cfg.CorsAllowedOrigins)
		assert.Equal(t, map[string]string{"davinci": "r50k_base", "gpt-3.5-turbo": "cl100k_base"}, cfg.EncodingAliases)
	})

	t.Run("partial file keeps env values", func(t *testing.T) {
		path := filepath.Join(dir, "partial.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"encoding_aliases": {"codex": "p50k_base"}}`), 0o600))

		s, err := LoadSettings(path)
		require.NoError(t, err)

		cfg := &Config{DefaultEncoding: "cl100k_base", CorsAllowedOrigins: []string{"*"}}
		cfg.Apply(s)

		assert.Equal(t, "cl100k_base", cfg.DefaultEncoding)
		assert.Equal(t, []string{"*"}, cfg.CorsAllowedOrigins)
	})

	t.Run("empty alias target", func(t *testing.T) {
		path := filepath.Join(dir, "empty.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"encoding_aliases": {"codex": ""}}`), 0o600))

		_, err := LoadSettings(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSettings(filepath.Join(dir, "nope.json"))
		assert.Error(t, err)
	})
}
