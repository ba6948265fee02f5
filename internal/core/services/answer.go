package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/campus-labs/deptchat/internal/core/domain"
	"github.com/campus-labs/deptchat/internal/core/ports/driven"
	"github.com/campus-labs/deptchat/internal/core/ports/driving"
	"github.com/campus-labs/deptchat/internal/logger"
)

// Ensure Answerer implements the interface.
var _ driving.AnswerService = (*Answerer)(nil)

// Default retrieval parameters.
const (
	DefaultTopK            = 10
	DefaultMaxContextChars = 6000
	DefaultTemperature     = 0.3
)

// answerPromptTemplate frames the retrieved context and the question.
// The exact wording is presentation configuration; the contract is that
// the model receives exactly the retrieved context plus the query.
const answerPromptTemplate = `You are a helpful assistant for a college department.
Answer the question briefly, using only the context below.
If the answer is not in the context, reply exactly: "I don't know."

Context:
%s

Question:
%s

Answer:`

// AnswererConfig tunes retrieval and generation.
type AnswererConfig struct {
	// TopK is how many chunks to retrieve (default 10).
	TopK int

	// MaxContextChars bounds the total context text forwarded to the
	// LLM (default 6000).
	MaxContextChars int

	// Temperature is passed to the LLM (default 0.3).
	Temperature float64
}

// Answerer answers questions by retrieving the most relevant chunks
// from the persisted index and forwarding them with the question to the
// LLM. It holds a read-only view of the index; the rebuild pipeline is
// the only writer.
type Answerer struct {
	indexes  driven.IndexStore
	embedder driven.EmbeddingService
	llm      driven.LLMService
	cfg      AnswererConfig
}

// NewAnswerer creates an answering service.
func NewAnswerer(
	indexes driven.IndexStore,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	cfg AnswererConfig,
) *Answerer {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.MaxContextChars <= 0 {
		cfg.MaxContextChars = DefaultMaxContextChars
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	return &Answerer{
		indexes:  indexes,
		embedder: embedder,
		llm:      llm,
		cfg:      cfg,
	}
}

// Answer runs one retrieval-augmented query.
func (a *Answerer) Answer(ctx context.Context, query string) (*domain.Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidInput
	}
	if a.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if a.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	index, err := a.indexes.Load(ctx)
	if err != nil {
		return nil, err
	}

	// The query must live in the same embedding space the index was
	// built in; provider drift silently degrades similarity search.
	manifest := index.Manifest()
	if !manifest.Matches(a.embedder.Provider(), a.embedder.ModelName(), a.embedder.Dimensions()) {
		return nil, fmt.Errorf(
			"index built with %s/%s (%dd), configured provider is %s/%s (%dd): %w",
			manifest.Provider, manifest.Model, manifest.Dimensions,
			a.embedder.Provider(), a.embedder.ModelName(), a.embedder.Dimensions(),
			domain.ErrEmbeddingMismatch,
		)
	}

	vector, err := a.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := index.Search(vector, a.cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	logger.Debug("Retrieved %d chunks for query", len(results))

	contextText, sources := a.buildContext(results)

	prompt := fmt.Sprintf(answerPromptTemplate, contextText, query)
	answer, err := a.llm.Generate(ctx, prompt, driven.GenerateOptions{
		Temperature: a.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{
		Text:    strings.TrimSpace(answer),
		Sources: sources,
	}, nil
}

// buildContext concatenates retrieved chunk texts up to the context
// budget and collects the locators of the chunks actually used,
// deduplicated in retrieval order.
func (a *Answerer) buildContext(results []domain.SearchResult) (string, []string) {
	var b strings.Builder
	var sources []string
	seen := make(map[string]struct{})

	for _, r := range results {
		if b.Len() > 0 && b.Len()+len(r.Chunk.Text) > a.cfg.MaxContextChars {
			break
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(r.Chunk.Text)

		if _, ok := seen[r.Chunk.Locator]; !ok {
			seen[r.Chunk.Locator] = struct{}{}
			sources = append(sources, r.Chunk.Locator)
		}
	}

	return b.String(), sources
}
