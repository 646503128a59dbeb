package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("provider = %s, want default openai", cfg.Provider)
	}
	if cfg.Port != 8480 {
		t.Errorf("port = %d, want default 8480", cfg.Port)
	}
	if cfg.Retrieval.MaxPasses != 3 {
		t.Errorf("max passes = %d, want default 3", cfg.Retrieval.MaxPasses)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".repowiki.yml")
	body := `provider: ollama
model: llama3
port: 9000
exclude:
  - "vendor/**"
retrieval:
  max_passes: 2
  session_node_cap: 100
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderOllama || cfg.Model != "llama3" || cfg.Port != 9000 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if len(cfg.Exclude) != 1 || cfg.Exclude[0] != "vendor/**" {
		t.Errorf("exclude = %v", cfg.Exclude)
	}
	if cfg.Retrieval.MaxPasses != 2 || cfg.Retrieval.SessionNodeCap != 100 {
		t.Errorf("retrieval overrides not applied: %+v", cfg.Retrieval)
	}
	// Untouched keys keep their defaults.
	if cfg.Retrieval.SearchLimit != 12 {
		t.Errorf("search limit = %d, want default 12", cfg.Retrieval.SearchLimit)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".repowiki.yml")
	if err := os.WriteFile(path, []byte("model: from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REPOWIKI_MODEL", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "from-env" {
		t.Errorf("model = %q, want env override", cfg.Model)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".repowiki.yml")

	cfg := DefaultConfig()
	cfg.Model = "gpt-4o"
	cfg.Exclude = []string{"vendor/**", "**/*.min.js"}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Model != "gpt-4o" {
		t.Errorf("model = %q", got.Model)
	}
	if len(got.Exclude) != 2 {
		t.Errorf("exclude = %v", got.Exclude)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"ollama", func(c *Config) { c.Provider = ProviderOllama }, true},
		{"empty provider", func(c *Config) { c.Provider = "" }, false},
		{"unknown provider", func(c *Config) { c.Provider = "anthropic" }, false},
		{"empty model", func(c *Config) { c.Model = "" }, false},
		{"bad embedding provider", func(c *Config) { c.EmbeddingProvider = "weird" }, false},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, false},
		{"port too high", func(c *Config) { c.Port = 70000 }, false},
		{"zero passes", func(c *Config) { c.Retrieval.MaxPasses = 0 }, false},
		{"negative confidence", func(c *Config) { c.Retrieval.MinConfidence = -0.1 }, false},
		{"confidence above one", func(c *Config) { c.Retrieval.MinConfidence = 1.1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
