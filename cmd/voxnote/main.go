// Command voxnote is the main entry point for the Voxnote enhancement server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	anyllmlib "github.com/mozilla-ai/any-llm-go"

	"github.com/fwehrmann/voxnote/internal/config"
	"github.com/fwehrmann/voxnote/internal/enhance"
	"github.com/fwehrmann/voxnote/internal/httpapi"
	"github.com/fwehrmann/voxnote/internal/notes"
	"github.com/fwehrmann/voxnote/internal/observe"
	"github.com/fwehrmann/voxnote/internal/research"
	"github.com/fwehrmann/voxnote/pkg/lookup/duckduckgo"
	"github.com/fwehrmann/voxnote/pkg/lookup/wikipedia"
	"github.com/fwehrmann/voxnote/pkg/provider/embeddings"
	oaembed "github.com/fwehrmann/voxnote/pkg/provider/embeddings/openai"
	"github.com/fwehrmann/voxnote/pkg/provider/llm"
	"github.com/fwehrmann/voxnote/pkg/provider/llm/anyllm"
	oaillm "github.com/fwehrmann/voxnote/pkg/provider/llm/openai"
	"github.com/fwehrmann/voxnote/pkg/provider/stt"
	"github.com/fwehrmann/voxnote/pkg/provider/stt/groqwhisper"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "voxnote: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "voxnote: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("voxnote starting",
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	shutdownMetrics, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    "voxnote",
		ServiceVersion: version,
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownMetrics(shutdownCtx); err != nil {
			slog.Warn("metrics shutdown error", "err", err)
		}
	}()
	metrics := observe.DefaultMetrics()

	// ── Provider registry ─────────────────────────────────────────────────────
	reg := config.NewRegistry()
	registerBuiltinProviders(reg)

	llmProvider, err := reg.CreateLLM(cfg.Providers.LLM)
	if err != nil {
		slog.Error("failed to create llm provider", "name", cfg.Providers.LLM.Name, "err", err)
		return 1
	}
	slog.Info("provider created", "kind", "llm", "name", cfg.Providers.LLM.Name)

	var sttProvider stt.Provider
	if name := cfg.Providers.STT.Name; name != "" {
		sttProvider, err = reg.CreateSTT(cfg.Providers.STT)
		if err != nil {
			slog.Error("failed to create stt provider", "name", name, "err", err)
			return 1
		}
		slog.Info("provider created", "kind", "stt", "name", name)
	}

	var embedder embeddings.Provider
	if name := cfg.Providers.Embeddings.Name; name != "" {
		embedder, err = reg.CreateEmbeddings(cfg.Providers.Embeddings)
		if err != nil {
			slog.Error("failed to create embeddings provider", "name", name, "err", err)
			return 1
		}
		slog.Info("provider created", "kind", "embeddings", "name", name)
	}

	// ── Research ──────────────────────────────────────────────────────────────
	pipelineOpts := []enhance.Option{
		enhance.WithLogger(logger),
		enhance.WithMetrics(metrics),
	}
	if sttProvider != nil {
		pipelineOpts = append(pipelineOpts, enhance.WithSTT(sttProvider))
	}
	if !cfg.Research.Disabled {
		var wikiOpts []wikipedia.Option
		if cfg.Research.UserAgent != "" {
			wikiOpts = append(wikiOpts, wikipedia.WithUserAgent(cfg.Research.UserAgent))
		}
		researchOpts := []research.Option{
			research.WithFallback(duckduckgo.New()),
			research.WithLogger(logger),
			research.WithMetrics(metrics),
		}
		if cfg.Research.LookupTimeout > 0 {
			researchOpts = append(researchOpts, research.WithTimeout(cfg.Research.LookupTimeout))
		}
		if cfg.Research.Concurrency > 0 {
			researchOpts = append(researchOpts, research.WithConcurrency(cfg.Research.Concurrency))
		}
		researcher := research.New(wikipedia.New(wikiOpts...), researchOpts...)
		pipelineOpts = append(pipelineOpts, enhance.WithResearcher(researcher))
		slog.Info("web research enabled", "primary", "wikipedia", "fallback", "duckduckgo")
	} else {
		slog.Info("web research disabled by config")
	}

	pipeline, err := enhance.New(llmProvider, pipelineOpts...)
	if err != nil {
		slog.Error("failed to build pipeline", "err", err)
		return 1
	}

	// ── Notes store ───────────────────────────────────────────────────────────
	var store notes.Store
	var readyChecks []httpapi.ReadyCheck
	if dsn := cfg.Notes.PostgresDSN; dsn != "" {
		pgStore, err := notes.NewPostgresStore(ctx, dsn, embedder)
		if err != nil {
			slog.Error("failed to connect notes store", "err", err)
			return 1
		}
		defer pgStore.Close()
		store = pgStore
		readyChecks = append(readyChecks, httpapi.ReadyCheck{Name: "database", Check: pgStore.Ping})
		slog.Info("notes store ready", "backend", "postgres", "semantic_search", embedder != nil)
	} else {
		var memOpts []notes.MemoryOption
		if embedder != nil {
			memOpts = append(memOpts, notes.WithEmbedder(embedder))
		}
		store = notes.NewMemoryStore(memOpts...)
		slog.Info("notes store ready", "backend", "memory", "semantic_search", embedder != nil)
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	serverOpts := []httpapi.Option{
		httpapi.WithNotes(store),
		httpapi.WithLogger(logger),
		httpapi.WithMetrics(metrics),
	}
	for _, check := range readyChecks {
		serverOpts = append(serverOpts, httpapi.WithReadyCheck(check))
	}
	server, err := httpapi.New(pipeline, serverOpts...)
	if err != nil {
		slog.Error("failed to build http server", "err", err)
		return 1
	}

	addr := cfg.Server.ListenAddr
	if addr == "" {
		addr = ":8080"
	}

	errCh := make(chan error, 1)
	go func() {
		if tls := cfg.Server.TLS; tls != nil {
			errCh <- server.StartTLS(addr, tls.CertFile, tls.KeyFile)
		} else {
			errCh <- server.Start(addr)
		}
	}()

	slog.Info("server ready — press Ctrl+C to shut down")

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			return 1
		}
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	slog.Info("shutdown signal received, stopping…")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

// ── Provider wiring ───────────────────────────────────────────────────────────

// registerBuiltinProviders wires all built-in provider factories into reg.
// Each factory receives a config.ProviderEntry and constructs the appropriate
// provider from the real implementation packages.
func registerBuiltinProviders(reg *config.Registry) {
	// ── LLM ───────────────────────────────────────────────────────────────────
	// Hosted chat providers share the same pattern: APIKey + optional BaseURL.
	for _, providerName := range []string{
		"groq", "anthropic", "gemini", "deepseek", "mistral",
	} {
		reg.RegisterLLM(providerName, func(entry config.ProviderEntry) (llm.Provider, error) {
			var opts []anyllmlib.Option
			if entry.APIKey != "" {
				opts = append(opts, anyllmlib.WithAPIKey(entry.APIKey))
			}
			if entry.BaseURL != "" {
				opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
			}
			return anyllm.New(providerName, entry.Model, opts...)
		})
	}

	// openai goes through the official SDK rather than the multi-provider shim.
	reg.RegisterLLM("openai", func(entry config.ProviderEntry) (llm.Provider, error) {
		var opts []oaillm.Option
		if entry.BaseURL != "" {
			opts = append(opts, oaillm.WithBaseURL(entry.BaseURL))
		}
		if org := optString(entry.Options, "organization"); org != "" {
			opts = append(opts, oaillm.WithOrganization(org))
		}
		return oaillm.New(entry.APIKey, entry.Model, opts...)
	})

	// ollama is a local server; it uses BaseURL for the address, not an API key.
	reg.RegisterLLM("ollama", func(entry config.ProviderEntry) (llm.Provider, error) {
		var opts []anyllmlib.Option
		if entry.BaseURL != "" {
			opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
		}
		return anyllm.NewOllama(entry.Model, opts...)
	})

	// ── STT ───────────────────────────────────────────────────────────────────

	reg.RegisterSTT("groq-whisper", func(entry config.ProviderEntry) (stt.Provider, error) {
		var opts []groqwhisper.Option
		if entry.Model != "" {
			opts = append(opts, groqwhisper.WithModel(entry.Model))
		}
		if entry.BaseURL != "" {
			opts = append(opts, groqwhisper.WithBaseURL(entry.BaseURL))
		}
		if lang := optString(entry.Options, "language"); lang != "" {
			opts = append(opts, groqwhisper.WithLanguage(lang))
		}
		return groqwhisper.New(entry.APIKey, opts...)
	})

	// ── Embeddings ────────────────────────────────────────────────────────────

	reg.RegisterEmbeddings("openai", func(entry config.ProviderEntry) (embeddings.Provider, error) {
		var opts []oaembed.Option
		if entry.BaseURL != "" {
			opts = append(opts, oaembed.WithBaseURL(entry.BaseURL))
		}
		return oaembed.New(entry.APIKey, entry.Model, opts...)
	})
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// optString extracts a string value from a provider Options map[string]any.
// Returns "" if the map is nil, the key is absent, or the value is not a string.
func optString(opts map[string]any, key string) string {
	if opts == nil {
		return ""
	}
	v, ok := opts[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
