package services

import (
	"context"

	"github.com/jalextowle/what-the-gov/internal/fedreg"
	"github.com/jalextowle/what-the-gov/internal/models"
	"github.com/jalextowle/what-the-gov/internal/openai"
)

// Interfaces are declared here, in the consuming package, rather than next to
// their implementations. Each one lists only the methods the services call.

// OrderRepository defines what the services need from order storage.
type OrderRepository interface {
	Create(ctx context.Context, order *models.ExecutiveOrder) error
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)
	ListAll(ctx context.Context) ([]*models.ExecutiveOrder, error)
	ListUnprocessed(ctx context.Context) ([]*models.ExecutiveOrder, error)
}

// ChunkRepository defines what the processor needs from chunk storage.
type ChunkRepository interface {
	StoreBatch(ctx context.Context, chunks []*models.DocumentChunk) error
}

// RegistryClient fetches listings and raw text from the document registry.
type RegistryClient interface {
	FetchListing(ctx context.Context, year int) (*fedreg.Listing, error)
	FetchPage(ctx context.Context, pageURL string) (string, error)
}

// EmbeddingClient turns a batch of texts into a batch of vectors.
type EmbeddingClient interface {
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// LanguageModelClient is the full AI surface the chat path needs: embedding
// the question and completing the composed prompt.
type LanguageModelClient interface {
	EmbeddingClient
	ChatCompletion(ctx context.Context, messages []openai.Message) (string, error)
}
