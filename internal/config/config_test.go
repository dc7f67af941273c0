package config

import (
	"testing"
	"time"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
		"ARK_API_KEY", "ARK_ACCESS_KEY", "ARK_SECRET_KEY", "MODEL",
		"GEN_MAX_TOKENS", "GEN_TEMPERATURE", "GEN_TIMEOUT_SECONDS", "GEN_STREAM",
		"AGENT_MAX_STEPS", "EMBED_MODEL", "INDEX_TOP_K", "INDEX_CHUNK_SIZE",
		"UPLOAD_MAX_BYTES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearProviderEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %q", cfg.Server.Addr)
	}
	if cfg.AI.Enabled() {
		t.Fatal("expected no provider enabled without credentials")
	}
	if cfg.AI.MaxTokens != 6000 || cfg.AI.Temperature != 0.7 {
		t.Fatalf("unexpected generation defaults: %+v", cfg.AI)
	}
	if cfg.AI.Timeout != 120*time.Second || !cfg.AI.StreamResponse {
		t.Fatalf("unexpected timeout/stream defaults: %+v", cfg.AI)
	}
	if cfg.Agent.MaxSteps != 10 {
		t.Fatalf("expected 10 agent steps, got %d", cfg.Agent.MaxSteps)
	}
	if cfg.Index.Enabled() {
		t.Fatal("expected index disabled without EMBED_MODEL")
	}
	if cfg.Index.TopK != 4 || cfg.Index.ChunkSize != 1200 {
		t.Fatalf("unexpected index defaults: %+v", cfg.Index)
	}
	if cfg.Upload.MaxFileBytes != 10<<20 {
		t.Fatalf("expected 10MiB upload ceiling, got %d", cfg.Upload.MaxFileBytes)
	}
}

func TestLoadOpenAIWinsOverArk(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("ARK_API_KEY", "ark-test")
	t.Setenv("MODEL", "doubao-pro")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if !cfg.AI.Enabled() {
		t.Fatal("expected provider enabled")
	}
	if cfg.AI.Model != "gpt-4o" {
		t.Fatalf("expected OpenAI model selected, got %q", cfg.AI.Model)
	}
}

func TestLoadArkProvider(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("ARK_API_KEY", "ark-test")
	t.Setenv("MODEL", "doubao-pro")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if !cfg.AI.Enabled() || cfg.AI.Model != "doubao-pro" {
		t.Fatalf("expected ark provider active, got %+v", cfg.AI)
	}
}

func TestLoadPortForms(t *testing.T) {
	clearProviderEnv(t)

	t.Setenv("PORT", "9000")
	cfg, err := Load()
	if err != nil || cfg.Server.Addr != ":9000" {
		t.Fatalf("expected :9000, got %q (%v)", cfg.Server.Addr, err)
	}

	t.Setenv("PORT", "127.0.0.1:9000")
	cfg, err = Load()
	if err != nil || cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("expected host:port preserved, got %q (%v)", cfg.Server.Addr, err)
	}

	t.Setenv("PORT", "bad value")
	if _, err = Load(); err == nil {
		t.Fatal("expected error for malformed PORT")
	}
}

func TestLoadRejectsBadNumericEnv(t *testing.T) {
	clearProviderEnv(t)

	t.Setenv("GEN_TEMPERATURE", "hot")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric GEN_TEMPERATURE")
	}

	t.Setenv("GEN_TEMPERATURE", "")
	t.Setenv("GEN_STREAM", "definitely")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-boolean GEN_STREAM")
	}
}

func TestLoadOverrides(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("GEN_MAX_TOKENS", "2048")
	t.Setenv("GEN_TIMEOUT_SECONDS", "30")
	t.Setenv("GEN_STREAM", "false")
	t.Setenv("EMBED_MODEL", "text-embedding-3-small")
	t.Setenv("INDEX_TOP_K", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.AI.MaxTokens != 2048 || cfg.AI.Timeout != 30*time.Second || cfg.AI.StreamResponse {
		t.Fatalf("unexpected overridden generation config: %+v", cfg.AI)
	}
	if !cfg.Index.Enabled() || cfg.Index.TopK != 8 {
		t.Fatalf("unexpected overridden index config: %+v", cfg.Index)
	}
}
