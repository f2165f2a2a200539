package services

import (
	"context"
	"fmt"

	"github.com/jalextowle/what-the-gov/internal/fedreg"
	"github.com/jalextowle/what-the-gov/internal/models"
	"github.com/jalextowle/what-the-gov/internal/openai"
)

// In-memory doubles for the repositories and external clients. Shared across
// the service tests in this package.

type fakeOrderRepo struct {
	orders    []*models.ExecutiveOrder
	nextID    uint
	createErr error
	listErr   error
}

func (f *fakeOrderRepo) Create(_ context.Context, order *models.ExecutiveOrder) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.orders {
		if existing.OrderNumber == order.OrderNumber {
			return fmt.Errorf("duplicate key value violates unique constraint: %s", order.OrderNumber)
		}
	}
	f.nextID++
	order.ID = f.nextID
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeOrderRepo) ExistsByOrderNumber(_ context.Context, orderNumber string) (bool, error) {
	for _, existing := range f.orders {
		if existing.OrderNumber == orderNumber {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOrderRepo) ListAll(_ context.Context) ([]*models.ExecutiveOrder, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.orders, nil
}

func (f *fakeOrderRepo) ListUnprocessed(_ context.Context) ([]*models.ExecutiveOrder, error) {
	var unprocessed []*models.ExecutiveOrder
	for _, order := range f.orders {
		if !order.Processed() {
			unprocessed = append(unprocessed, order)
		}
	}
	return unprocessed, nil
}

type fakeChunkRepo struct {
	batches  [][]*models.DocumentChunk
	storeErr error
}

func (f *fakeChunkRepo) StoreBatch(_ context.Context, chunks []*models.DocumentChunk) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.batches = append(f.batches, chunks)
	return nil
}

type fakeRegistry struct {
	listings   map[int]*fedreg.Listing
	listingErr error
	pages      map[string]string
	pageErrs   map[string]error
}

func (f *fakeRegistry) FetchListing(_ context.Context, year int) (*fedreg.Listing, error) {
	if f.listingErr != nil {
		return nil, f.listingErr
	}
	listing, ok := f.listings[year]
	if !ok {
		return &fedreg.Listing{}, nil
	}
	return listing, nil
}

func (f *fakeRegistry) FetchPage(_ context.Context, pageURL string) (string, error) {
	if err, ok := f.pageErrs[pageURL]; ok {
		return "", err
	}
	return f.pages[pageURL], nil
}

// fakeEmbedder returns a deterministic unit-ish vector per text so retrieval
// tests can reason about similarity.
type fakeEmbedder struct {
	calls    [][]string
	embedErr error
	// short circuit: return this many vectors regardless of input length
	forceCount int
}

func (f *fakeEmbedder) CreateEmbeddings(_ context.Context, texts []string) ([][]float32, error) {
	f.calls = append(f.calls, texts)
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	count := len(texts)
	if f.forceCount > 0 {
		count = f.forceCount
	}
	vectors := make([][]float32, count)
	for i := range vectors {
		vectors[i] = []float32{float32(len(texts[i%len(texts)])), 1, 0}
	}
	return vectors, nil
}

// fakeAI implements LanguageModelClient for the chat tests.
type fakeAI struct {
	fakeEmbedder
	answer   string
	chatErr  error
	prompts  []string
	queryVec []float32
}

func (f *fakeAI) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if f.queryVec != nil {
		f.calls = append(f.calls, texts)
		vectors := make([][]float32, len(texts))
		for i := range vectors {
			vectors[i] = f.queryVec
		}
		return vectors, nil
	}
	return f.fakeEmbedder.CreateEmbeddings(ctx, texts)
}

func (f *fakeAI) ChatCompletion(_ context.Context, messages []openai.Message) (string, error) {
	if f.chatErr != nil {
		return "", f.chatErr
	}
	for _, msg := range messages {
		f.prompts = append(f.prompts, msg.Content)
	}
	return f.answer, nil
}
