package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

// ValidProviderNames lists known provider names per provider kind.
// Used by [Validate] to warn about unrecognised provider names.
var ValidProviderNames = map[string][]string{
	"llm":        {"groq", "openai", "anthropic", "gemini", "ollama", "deepseek", "mistral"},
	"stt":        {"groq-whisper"},
	"embeddings": {"openai"},
}

// envRef matches ${VAR} references in config values.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, expands ${VAR} environment
// references, and validates the result. Useful in tests where configs are
// constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	raw = expandEnv(raw)

	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// expandEnv substitutes ${VAR} references with the corresponding environment
// variable. Unset variables expand to the empty string, so a missing API key
// surfaces as a validation error rather than a literal "${GROQ_API_KEY}".
func expandEnv(raw []byte) []byte {
	return envRef.ReplaceAllFunc(raw, func(match []byte) []byte {
		name := envRef.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(name)))
	})
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.TLS != nil {
		if cfg.Server.TLS.CertFile == "" || cfg.Server.TLS.KeyFile == "" {
			errs = append(errs, errors.New("server.tls requires both cert_file and key_file"))
		}
	}

	// Provider name validation — warn for unknown provider names.
	validateProviderName("llm", cfg.Providers.LLM.Name)
	validateProviderName("stt", cfg.Providers.STT.Name)
	validateProviderName("embeddings", cfg.Providers.Embeddings.Name)

	// An LLM provider is mandatory: without one there is nothing to rewrite
	// with. Hosted providers fail on the first request without a key, so
	// catch the missing key here instead.
	if cfg.Providers.LLM.Name == "" {
		errs = append(errs, errors.New("providers.llm.name is required"))
	} else if cfg.Providers.LLM.APIKey == "" && cfg.Providers.LLM.Name != "ollama" {
		errs = append(errs, fmt.Errorf("providers.llm.api_key is required for provider %q", cfg.Providers.LLM.Name))
	}

	if cfg.Providers.STT.Name != "" && cfg.Providers.STT.APIKey == "" {
		errs = append(errs, fmt.Errorf("providers.stt.api_key is required for provider %q", cfg.Providers.STT.Name))
	}
	if cfg.Providers.STT.Name == "" {
		slog.Warn("no STT provider configured; audio endpoints will be unavailable")
	}

	if cfg.Providers.Embeddings.Name != "" && cfg.Providers.Embeddings.APIKey == "" {
		errs = append(errs, fmt.Errorf("providers.embeddings.api_key is required for provider %q", cfg.Providers.Embeddings.Name))
	}

	// Research
	if cfg.Research.LookupTimeout < 0 {
		errs = append(errs, fmt.Errorf("research.lookup_timeout %v must not be negative", cfg.Research.LookupTimeout))
	}
	if cfg.Research.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("research.concurrency %d must not be negative", cfg.Research.Concurrency))
	}

	// Notes
	if cfg.Notes.PostgresDSN == "" {
		slog.Warn("notes.postgres_dsn is empty; notes will be held in memory only")
	}
	if cfg.Notes.PostgresDSN != "" && cfg.Providers.Embeddings.Name == "" {
		slog.Warn("notes persistence is configured without an embeddings provider; search falls back to full-text")
	}

	return errors.Join(errs...)
}

// validateProviderName logs a warning if name is non-empty and not found in
// the [ValidProviderNames] list for the given kind.
func validateProviderName(kind, name string) {
	if name == "" {
		return
	}
	known, ok := ValidProviderNames[kind]
	if !ok {
		return
	}
	if slices.Contains(known, name) {
		return
	}
	slog.Warn("unknown provider name — may be a typo or third-party provider",
		"kind", kind,
		"name", name,
		"known", known,
	)
}
