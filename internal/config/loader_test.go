package config

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

const validYAML = `
server:
  listen_addr: ":8080"
  log_level: info
providers:
  llm:
    name: groq
    api_key: gsk-test
    model: llama-3.3-70b-versatile
  stt:
    name: groq-whisper
    api_key: gsk-test
research:
  lookup_timeout: 3s
  concurrency: 2
notes:
  postgres_dsn: postgres://localhost/voxnote
`

func TestLoadFromReaderValid(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(validYAML))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}

	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q", cfg.Server.ListenAddr)
	}
	if cfg.Server.LogLevel != LogInfo {
		t.Errorf("LogLevel = %q", cfg.Server.LogLevel)
	}
	if cfg.Providers.LLM.Name != "groq" || cfg.Providers.LLM.Model != "llama-3.3-70b-versatile" {
		t.Errorf("LLM entry = %+v", cfg.Providers.LLM)
	}
	if cfg.Research.LookupTimeout != 3*time.Second {
		t.Errorf("LookupTimeout = %v", cfg.Research.LookupTimeout)
	}
	if cfg.Research.Concurrency != 2 {
		t.Errorf("Concurrency = %d", cfg.Research.Concurrency)
	}
	if cfg.Notes.PostgresDSN != "postgres://localhost/voxnote" {
		t.Errorf("PostgresDSN = %q", cfg.Notes.PostgresDSN)
	}
}

func TestLoadFromReaderUnknownField(t *testing.T) {
	yaml := `
server:
  listen_addr: ":8080"
  log_levle: info
providers:
  llm:
    name: groq
    api_key: x
`
	if _, err := LoadFromReader(strings.NewReader(yaml)); err == nil {
		t.Fatal("expected error for misspelled field")
	}
}

func TestLoadFromReaderExpandsEnv(t *testing.T) {
	t.Setenv("VOXNOTE_TEST_KEY", "gsk-from-env")

	yaml := `
providers:
  llm:
    name: groq
    api_key: ${VOXNOTE_TEST_KEY}
`
	cfg, err := LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Providers.LLM.APIKey != "gsk-from-env" {
		t.Errorf("APIKey = %q, want value from environment", cfg.Providers.LLM.APIKey)
	}
}

func TestLoadFromReaderMissingEnvFailsKeyCheck(t *testing.T) {
	yaml := `
providers:
  llm:
    name: groq
    api_key: ${VOXNOTE_DEFINITELY_UNSET_KEY}
`
	_, err := LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected validation error for unset env var")
	}
	if !strings.Contains(err.Error(), "api_key is required") {
		t.Errorf("err = %v, want missing api_key error", err)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Providers: ProvidersConfig{
				LLM: ProviderEntry{Name: "groq", APIKey: "x"},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "minimal valid",
			mutate: func(*Config) {},
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Server.LogLevel = "verbose" },
			wantErr: "server.log_level",
		},
		{
			name:    "missing llm provider",
			mutate:  func(c *Config) { c.Providers.LLM = ProviderEntry{} },
			wantErr: "providers.llm.name is required",
		},
		{
			name:    "missing llm key",
			mutate:  func(c *Config) { c.Providers.LLM.APIKey = "" },
			wantErr: "providers.llm.api_key is required",
		},
		{
			name:   "ollama needs no key",
			mutate: func(c *Config) { c.Providers.LLM = ProviderEntry{Name: "ollama"} },
		},
		{
			name:    "stt without key",
			mutate:  func(c *Config) { c.Providers.STT = ProviderEntry{Name: "groq-whisper"} },
			wantErr: "providers.stt.api_key",
		},
		{
			name:    "negative lookup timeout",
			mutate:  func(c *Config) { c.Research.LookupTimeout = -time.Second },
			wantErr: "research.lookup_timeout",
		},
		{
			name:    "negative concurrency",
			mutate:  func(c *Config) { c.Research.Concurrency = -1 },
			wantErr: "research.concurrency",
		},
		{
			name:    "tls missing key file",
			mutate:  func(c *Config) { c.Server.TLS = &TLSConfig{CertFile: "cert.pem"} },
			wantErr: "server.tls",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateJoinsAllFailures(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{LogLevel: "verbose"},
		Research: ResearchConfig{
			LookupTimeout: -time.Second,
			Concurrency:   -1,
		},
	}
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"server.log_level", "providers.llm.name", "research.lookup_timeout", "research.concurrency"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("joined error missing %q: %v", want, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/voxnote.yaml")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want wrapped os.ErrNotExist", err)
	}
}
