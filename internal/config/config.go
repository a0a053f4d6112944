package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port     string
	LogLevel string

	DBPath    string
	UploadDir string

	OpenAIBaseURL string
	OpenAIModel   string
	SnippetLimit  int

	FetchTimeoutSeconds int

	// Optional YAML file overriding the built-in enumerations.
	TaxonomyPath string

	ClassifyRateRPS   float64
	ClassifyRateBurst int
}

func Load() Config {
	return Config{
		Port:     mustEnv("PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		DBPath:    mustEnv("DB_PATH", "./data/whitepapers.db"),
		UploadDir: mustEnv("UPLOAD_DIR", "./uploads"),

		OpenAIBaseURL: mustEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIModel:   mustEnv("OPENAI_MODEL", "gpt-4o-mini"),
		SnippetLimit:  mustEnvInt("SNIPPET_LIMIT", 8000),

		FetchTimeoutSeconds: mustEnvInt("FETCH_TIMEOUT_SECONDS", 60),

		TaxonomyPath: mustEnv("TAXONOMY_PATH", ""),

		ClassifyRateRPS:   mustEnvFloat("CLASSIFY_RATE_RPS", 1),
		ClassifyRateBurst: mustEnvInt("CLASSIFY_RATE_BURST", 3),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
