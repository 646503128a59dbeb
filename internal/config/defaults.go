package config

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Model:             "gpt-4o-mini",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		DataDir:           ".repowiki",
		WikiBaseURL:       "/wiki",
		Port:              8480,
		Retrieval:         DefaultRetrieval(),
	}
}

// DefaultRetrieval returns the default retrieval tuning.
func DefaultRetrieval() Retrieval {
	return Retrieval{
		MaxPasses:        3,
		SearchLimit:      12,
		FollowUpLimit:    5,
		ContextBudget:    6000,
		ResultTokenCap:   700,
		ChannelTimeout:   10,
		ReasoningTimeout: 60,
		SessionTTL:       30,
		SessionNodeCap:   200,
		MinConfidence:    0.5,
	}
}
