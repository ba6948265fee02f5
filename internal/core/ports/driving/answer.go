package driving

import (
	"context"

	"github.com/campus-labs/deptchat/internal/core/domain"
)

// AnswerService answers a question from the indexed corpus.
type AnswerService interface {
	// Answer retrieves the most relevant chunks for the query and
	// forwards them with the question to the LLM. Fails fast with
	// domain.ErrIndexNotFound when no index has been built, and with
	// domain.ErrEmbeddingMismatch when the configured embedding
	// provider differs from the one that built the index.
	Answer(ctx context.Context, query string) (*domain.Answer, error)
}
