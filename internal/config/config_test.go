package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ProviderGroq, cfg.Provider)
	assert.Equal(t, "https://api.groq.com/openai/v1/chat/completions", cfg.GroqAPIURL)
	assert.Equal(t, 300, cfg.MinDimension)
	assert.Equal(t, 100.0, cfg.BlurThreshold)
	assert.Equal(t, 85, cfg.JPEGQuality)
	assert.Equal(t, uint(1600), cfg.MaxDimension)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "test-key")
	t.Setenv("BLUR_THRESHOLD", "42.5")
	t.Setenv("JPEG_QUALITY", "70")
	t.Setenv("REQUEST_TIMEOUT", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 42.5, cfg.BlurThreshold)
	assert.Equal(t, 70, cfg.JPEGQuality)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoadMissingCredential(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "GROQ_API_KEY")
}

func TestLoadGeminiProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, cfg.Provider)
}

func TestLoadUnknownProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "llamafile")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadBadNumbers(t *testing.T) {
	for name, env := range map[string][2]string{
		"quality over 100":        {"JPEG_QUALITY", "120"},
		"negative blur threshold": {"BLUR_THRESHOLD", "-1"},
		"zero blur threshold":     {"BLUR_THRESHOLD", "0"},
		"negative min dimension":  {"MIN_DIMENSION", "-300"},
		"zero min dimension":      {"MIN_DIMENSION", "0"},
		"negative max dimension":  {"MAX_DIMENSION", "-1600"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv("GROQ_API_KEY", "test-key")
			t.Setenv(env[0], env[1])

			_, err := Load()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), env[0])
		})
	}
}
