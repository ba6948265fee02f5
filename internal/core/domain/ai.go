package domain

// AI provider identifiers.
const (
	AIProviderOllama = "ollama"
	AIProviderOpenAI = "openai"
)

// EmbeddingSettings configures the embedding backend.
type EmbeddingSettings struct {
	// Provider selects the backend ("ollama" or "openai").
	Provider string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// APIKey authenticates hosted providers. Unused for Ollama.
	APIKey string

	// Model is the embedding model name.
	Model string

	// Dimensions overrides the model's default vector size.
	Dimensions int
}

// IsConfigured reports whether a provider has been selected.
func (s EmbeddingSettings) IsConfigured() bool {
	return s.Provider != ""
}

// LLMSettings configures the answer-generating backend.
type LLMSettings struct {
	// Provider selects the backend ("ollama" or "openai").
	Provider string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// APIKey authenticates hosted providers. Unused for Ollama.
	APIKey string

	// Model is the generation model name.
	Model string
}

// IsConfigured reports whether a provider has been selected.
func (s LLMSettings) IsConfigured() bool {
	return s.Provider != ""
}
