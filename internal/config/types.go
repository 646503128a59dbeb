package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level repowiki configuration, corresponding to .repowiki.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
	DataDir           string       `yaml:"data_dir" koanf:"data_dir"`
	WikiBaseURL       string       `yaml:"wiki_base_url" koanf:"wiki_base_url"`
	Exclude           []string     `yaml:"exclude" koanf:"exclude"`
	Port              int          `yaml:"port" koanf:"port"`
	Retrieval         Retrieval    `yaml:"retrieval" koanf:"retrieval"`
}

// Retrieval tunes the hybrid search and CGRAG loop.
type Retrieval struct {
	MaxPasses        int     `yaml:"max_passes" koanf:"max_passes"`
	SearchLimit      int     `yaml:"search_limit" koanf:"search_limit"`
	FollowUpLimit    int     `yaml:"follow_up_limit" koanf:"follow_up_limit"`
	ContextBudget    int     `yaml:"context_budget" koanf:"context_budget"`
	ResultTokenCap   int     `yaml:"result_token_cap" koanf:"result_token_cap"`
	ChannelTimeout   int     `yaml:"channel_timeout_seconds" koanf:"channel_timeout_seconds"`
	ReasoningTimeout int     `yaml:"reasoning_timeout_seconds" koanf:"reasoning_timeout_seconds"`
	SessionTTL       int     `yaml:"session_ttl_minutes" koanf:"session_ttl_minutes"`
	SessionNodeCap   int     `yaml:"session_node_cap" koanf:"session_node_cap"`
	MinConfidence    float64 `yaml:"min_confidence" koanf:"min_confidence"`
}
