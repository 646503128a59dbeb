package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"repowiki/internal/answer"
	"repowiki/internal/cgrag"
	"repowiki/internal/config"
	"repowiki/internal/db"
	"repowiki/internal/embeddings"
	"repowiki/internal/graph"
	"repowiki/internal/llm"
	"repowiki/internal/search"
	"repowiki/internal/session"
	"repowiki/internal/vectordb"
)

// core bundles everything the ask surfaces need.
type core struct {
	cfg       *config.Config
	database  *db.DB
	graph     *graph.Graph
	engine    *cgrag.Engine
	assembler *answer.Assembler
}

// buildCore wires the answering engine from configuration and the
// pipeline's persisted artifacts.
func buildCore(ctx context.Context, cfg *config.Config) (*core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	database, err := db.Open(filepath.Join(cfg.DataDir, "repowiki.db"))
	if err != nil {
		return nil, fmt.Errorf("opening metadata store: %w", err)
	}

	g, err := graph.LoadFromDB(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("loading call graph: %w", err)
	}

	embedder, err := createEmbedder(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	store, err := vectordb.NewChromemStore(embedder)
	if err != nil {
		return nil, fmt.Errorf("creating vector store: %w", err)
	}
	vectorDir := filepath.Join(cfg.DataDir, "vectordb")
	if err := store.Load(ctx, vectorDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load vector store from %s: %v\n", vectorDir, err)
	}

	provider, err := createLLMProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}

	r := cfg.Retrieval
	searcher := search.NewSearcher(store, database, search.Options{
		ChannelTimeout: time.Duration(r.ChannelTimeout) * time.Second,
		ResultTokenCap: r.ResultTokenCap,
		ContextBudget:  r.ContextBudget,
		Exclude:        cfg.Exclude,
	})

	sessions := session.NewStore(0, time.Duration(r.SessionTTL)*time.Minute, r.SessionNodeCap)

	engine := cgrag.NewEngine(g, searcher, sessions, cgrag.NewLLMReasoner(provider, cfg.Model), cgrag.Options{
		MaxPasses:        r.MaxPasses,
		SearchLimit:      r.SearchLimit,
		FollowUpLimit:    r.FollowUpLimit,
		ReasoningTimeout: time.Duration(r.ReasoningTimeout) * time.Second,
		MinConfidence:    r.MinConfidence,
	})

	return &core{
		cfg:       cfg,
		database:  database,
		graph:     g,
		engine:    engine,
		assembler: answer.NewAssembler(database, cfg.WikiBaseURL),
	}, nil
}

func createEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}
	switch provider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel)), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", provider)
	}
}

func createLLMProvider(cfg *config.Config) (llm.Provider, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		return llm.NewOpenAIProvider(apiKey, cfg.Model), nil
	case config.ProviderOllama:
		baseURL := os.Getenv("OLLAMA_BASE_URL")
		if baseURL == "" {
			baseURL = "http://localhost:11434/v1"
		}
		return llm.NewOllamaProvider(baseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}
