package config

import (
	"flag"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	APIKey      string
	DatabaseURL string
	LLM         LLMConfig
}

type LLMConfig struct {
	Provider string
	APIKey   string
	Model    string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8080", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:        *port,
		Env:         env,
		APIKey:      strings.TrimSpace(os.Getenv("API_KEY")),
		DatabaseURL: firstNonEmpty(strings.TrimSpace(os.Getenv("DATABASE_URL")), "sdlc.db"),
		LLM:         loadLLMConfig(env),
	}, nil
}

func loadLLMConfig(env string) LLMConfig {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if provider == "" {
		// Local runs without a key fall back to the canned client.
		if apiKey == "" && strings.EqualFold(env, "local") {
			provider = "fake"
		} else {
			provider = "gemini"
		}
	}
	return LLMConfig{
		Provider: provider,
		APIKey:   apiKey,
		Model:    firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_MODEL")), "gemini-2.0-flash"),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
