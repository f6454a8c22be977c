package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider names accepted in LLM_PROVIDER.
const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// Config holds all runtime configuration, read once from the environment.
type Config struct {
	Port string

	Provider string

	GroqAPIKey      string
	GroqAPIURL      string
	GroqVisionModel string
	GroqTextModel   string

	GeminiAPIKey      string
	GeminiVisionModel string
	GeminiTextModel   string

	// Image preprocessing knobs. Defaults are starting points, not
	// calibrated constants; tune them per image source.
	MinDimension  int
	BlurThreshold float64
	JPEGQuality   int
	MaxDimension  uint

	RequestTimeout time.Duration
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return n, nil
}

func getEnvFloat(k string, def float64) (float64, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return f, nil
}

func getEnvDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return d, nil
}

// Load builds a Config from the environment and validates that the selected
// provider has its credential set.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		Provider: getEnv("LLM_PROVIDER", ProviderGroq),

		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		GroqAPIURL:      getEnv("GROQ_API_URL", "https://api.groq.com/openai/v1/chat/completions"),
		GroqVisionModel: getEnv("GROQ_VISION_MODEL", "llama-3.2-11b-vision-preview"),
		GroqTextModel:   getEnv("GROQ_TEXT_MODEL", "llama-3.2-11b-text-preview"),

		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiVisionModel: getEnv("GEMINI_VISION_MODEL", "gemini-1.5-flash"),
		GeminiTextModel:   getEnv("GEMINI_TEXT_MODEL", "gemini-1.5-flash"),
	}

	var err error
	if cfg.MinDimension, err = getEnvInt("MIN_DIMENSION", 300); err != nil {
		return nil, err
	}
	if cfg.BlurThreshold, err = getEnvFloat("BLUR_THRESHOLD", 100); err != nil {
		return nil, err
	}
	if cfg.JPEGQuality, err = getEnvInt("JPEG_QUALITY", 85); err != nil {
		return nil, err
	}
	maxDim, err := getEnvInt("MAX_DIMENSION", 1600)
	if err != nil {
		return nil, err
	}
	if maxDim < 0 {
		return nil, fmt.Errorf("MAX_DIMENSION must not be negative, got %d", maxDim)
	}
	cfg.MaxDimension = uint(maxDim)
	if cfg.RequestTimeout, err = getEnvDuration("REQUEST_TIMEOUT", 45*time.Second); err != nil {
		return nil, err
	}

	if cfg.JPEGQuality < 1 || cfg.JPEGQuality > 100 {
		return nil, fmt.Errorf("JPEG_QUALITY must be in 1..100, got %d", cfg.JPEGQuality)
	}
	if cfg.MinDimension < 1 {
		return nil, fmt.Errorf("MIN_DIMENSION must be positive, got %d", cfg.MinDimension)
	}
	if cfg.BlurThreshold <= 0 {
		return nil, fmt.Errorf("BLUR_THRESHOLD must be positive, got %g", cfg.BlurThreshold)
	}

	switch cfg.Provider {
	case ProviderGroq:
		if cfg.GroqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY must be set when LLM_PROVIDER=%s", ProviderGroq)
		}
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY must be set when LLM_PROVIDER=%s", ProviderGemini)
		}
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.Provider)
	}

	return cfg, nil
}
