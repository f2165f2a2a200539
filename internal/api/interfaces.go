package api

import (
	"context"

	"github.com/jalextowle/what-the-gov/internal/models"
	"github.com/jalextowle/what-the-gov/internal/services"
)

// Service interfaces live here, in the consuming package. Handlers only
// declare the methods they call.

// Ingester runs the fetch → normalize → persist pipeline for one year.
type Ingester interface {
	IngestYear(ctx context.Context, year int) (int, error)
}

// Processor chunks and embeds every stored order that has no chunks yet.
type Processor interface {
	ProcessAll(ctx context.Context) error
}

// Answerer produces a grounded answer for a question plus optional history.
type Answerer interface {
	Answer(ctx context.Context, message string, history []services.ChatTurn) (string, error)
}

// OrderReader backs the read-only order listing endpoint.
type OrderReader interface {
	ListAll(ctx context.Context) ([]*models.ExecutiveOrder, error)
}
