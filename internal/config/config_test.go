package config

import "testing"

func TestLoadLLMConfig_ExplicitProviderHonored(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "fake")
	t.Setenv("GEMINI_API_KEY", "k")
	cfg := loadLLMConfig("production")
	if cfg.Provider != "fake" {
		t.Fatalf("expected fake, got %q", cfg.Provider)
	}
}

func TestLoadLLMConfig_LocalWithoutKeyDefaultsToFake(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("GEMINI_API_KEY", "")
	cfg := loadLLMConfig("local")
	if cfg.Provider != "fake" {
		t.Fatalf("expected fake for keyless local run, got %q", cfg.Provider)
	}
}

func TestLoadLLMConfig_NonLocalWithoutKeyStaysGemini(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("GEMINI_API_KEY", "")
	cfg := loadLLMConfig("production")
	if cfg.Provider != "gemini" {
		t.Fatalf("expected gemini outside local, got %q", cfg.Provider)
	}
}

func TestLoadLLMConfig_KeyPresentDefaultsToGemini(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("GEMINI_MODEL", "")
	cfg := loadLLMConfig("local")
	if cfg.Provider != "gemini" {
		t.Fatalf("expected gemini when a key is set, got %q", cfg.Provider)
	}
	if cfg.Model == "" {
		t.Fatalf("expected a default model")
	}
}
