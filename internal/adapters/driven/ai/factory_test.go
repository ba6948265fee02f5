package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-labs/deptchat/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	svc, err := CreateEmbeddingService(domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		Model:    "nomic-embed-text",
	})
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, "ollama", svc.Provider())
	assert.Equal(t, "nomic-embed-text", svc.ModelName())
	svc.Close()
}

func TestCreateEmbeddingServiceOpenAI(t *testing.T) {
	svc, err := CreateEmbeddingService(domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
		APIKey:   "sk-test",
	})
	require.NoError(t, err)
	assert.Equal(t, "openai", svc.Provider())
	assert.Equal(t, 1536, svc.Dimensions())
	svc.Close()
}

func TestCreateEmbeddingServiceUnconfigured(t *testing.T) {
	_, err := CreateEmbeddingService(domain.EmbeddingSettings{})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestCreateEmbeddingServiceUnknownProvider(t *testing.T) {
	_, err := CreateEmbeddingService(domain.EmbeddingSettings{Provider: "bedrock"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported embedding provider")
}

func TestCreateLLMService(t *testing.T) {
	svc, err := CreateLLMService(domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		Model:    "phi3",
	})
	require.NoError(t, err)
	assert.Equal(t, "phi3", svc.ModelName())
	svc.Close()
}

func TestCreateLLMServiceUnconfigured(t *testing.T) {
	_, err := CreateLLMService(domain.LLMSettings{})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestCreateLLMServiceMissingOpenAIKey(t *testing.T) {
	_, err := CreateLLMService(domain.LLMSettings{Provider: domain.AIProviderOpenAI})
	assert.Error(t, err)
}
