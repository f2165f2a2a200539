package services

import (
	"context"
	"fmt"
	"log"

	"github.com/jalextowle/what-the-gov/internal/middleware"
	"github.com/jalextowle/what-the-gov/internal/models"

	"github.com/pgvector/pgvector-go"
	"github.com/tmc/langchaingo/textsplitter"
	"go.opentelemetry.io/otel/attribute"
)

// ProcessorService splits stored orders into overlapping text windows and
// generates embeddings for them. It only ever looks at orders with zero
// chunks, so running it repeatedly is safe.
type ProcessorService struct {
	embedder EmbeddingClient
	orders   OrderRepository
	chunks   ChunkRepository
	splitter textsplitter.TextSplitter
}

// NewProcessorService creates a processor using a recursive character
// splitter: paragraph boundaries first, then lines, then words, then a hard
// cut. Sizes are measured in characters.
func NewProcessorService(
	embedder EmbeddingClient,
	orders OrderRepository,
	chunks ChunkRepository,
	chunkSize int,
	chunkOverlap int,
) *ProcessorService {
	return &ProcessorService{
		embedder: embedder,
		orders:   orders,
		chunks:   chunks,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
		),
	}
}

// ProcessAll chunks and embeds every order that has no chunks yet. A failure
// for one order is logged and does not affect orders already committed or
// still pending; the failed order keeps zero chunks and is retried on the
// next run.
func (s *ProcessorService) ProcessAll(ctx context.Context) error {
	ctx, span := middleware.StartSpan(ctx, "Processor.ProcessAll")
	defer span.End()

	unprocessed, err := s.orders.ListUnprocessed(ctx)
	if err != nil {
		middleware.AddSpanError(ctx, err)
		return fmt.Errorf("failed to list unprocessed orders: %w", err)
	}

	processed := 0
	for _, order := range unprocessed {
		if err := s.processOrder(ctx, order); err != nil {
			log.Printf("Failed to process EO %s: %v", order.OrderNumber, err)
			continue
		}
		processed++
	}

	middleware.AddSpanEvent(ctx, "process_all_completed",
		attribute.Int("unprocessed", len(unprocessed)),
		attribute.Int("processed", processed),
	)

	log.Printf("Processed %d of %d unprocessed executive orders", processed, len(unprocessed))
	return nil
}

// processOrder splits one order's full text, embeds all windows in a single
// batched call, and stores the chunk rows in one transaction.
func (s *ProcessorService) processOrder(ctx context.Context, order *models.ExecutiveOrder) error {
	windows, err := s.splitter.SplitText(order.FullText)
	if err != nil {
		return fmt.Errorf("failed to split text: %w", err)
	}
	if len(windows) == 0 {
		log.Printf("EO %s produced no text windows, skipping", order.OrderNumber)
		return nil
	}

	vectors, err := s.embedder.CreateEmbeddings(ctx, windows)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(vectors) != len(windows) {
		return fmt.Errorf("embedding count mismatch: %d windows, %d vectors", len(windows), len(vectors))
	}

	rows := make([]*models.DocumentChunk, len(windows))
	for i, window := range windows {
		rows[i] = &models.DocumentChunk{
			ExecutiveOrderID: order.ID,
			ChunkIndex:       i,
			Content:          window,
			Embedding:        pgvector.NewVector(vectors[i]),
		}
	}

	if err := s.chunks.StoreBatch(ctx, rows); err != nil {
		return err
	}

	log.Printf("Generated %d chunks for EO %s", len(rows), order.OrderNumber)
	return nil
}
