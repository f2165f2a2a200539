package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jalextowle/what-the-gov/internal/services"
)

// Handler handles HTTP requests. Dependencies come in as interfaces defined
// in this package.
type Handler struct {
	ingester    Ingester
	processor   Processor
	answerer    Answerer
	orders      OrderReader
	ingestYears []int
	aiReady     func() bool
}

func NewHandler(
	ingester Ingester,
	processor Processor,
	answerer Answerer,
	orders OrderReader,
	ingestYears []int,
	aiReady func() bool,
) *Handler {
	return &Handler{
		ingester:    ingester,
		processor:   processor,
		answerer:    answerer,
		orders:      orders,
		ingestYears: ingestYears,
		aiReady:     aiReady,
	}
}

// IngestDocuments runs the full pipeline for the configured years: scrape and
// persist new orders, then chunk and embed everything still unprocessed.
func (h *Handler) IngestDocuments(w http.ResponseWriter, r *http.Request) {
	if !h.aiReady() {
		http.Error(w, "OpenAI API key not configured", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()

	totalAdded := 0
	for _, year := range h.ingestYears {
		added, err := h.ingester.IngestYear(ctx, year)
		if err != nil {
			// A failed year does not stop the remaining years
			log.Printf("Error ingesting executive orders for %d: %v", year, err)
			continue
		}
		totalAdded += added
	}

	if totalAdded == 0 {
		http.Error(w, "No executive orders were found", http.StatusInternalServerError)
		return
	}

	if err := h.processor.ProcessAll(ctx); err != nil {
		http.Error(w, fmt.Sprintf("Error processing documents: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Processed %d new executive orders", totalAdded),
	})
}

// ChatRequest is the /api/chat request body.
type ChatRequest struct {
	Message     string              `json:"message"`
	ChatHistory []services.ChatTurn `json:"chat_history"`
}

// Chat answers a question about the stored executive orders.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	if !h.aiReady() {
		http.Error(w, "OpenAI API key not configured", http.StatusInternalServerError)
		return
	}

	answer, err := h.answerer.Answer(r.Context(), req.Message, req.ChatHistory)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"answer": answer,
	})
}

// orderSummary is the read-only listing view: metadata plus chunk count, no
// full text.
type orderSummary struct {
	ID             uint      `json:"id"`
	OrderNumber    string    `json:"order_number"`
	Title          string    `json:"title"`
	DateSigned     time.Time `json:"date_signed"`
	President      string    `json:"president"`
	Administration string    `json:"administration"`
	URL            string    `json:"url"`
	ChunkCount     int       `json:"chunk_count"`
}

// ListOrders returns every stored order's metadata in signing-date order.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	summaries := make([]orderSummary, 0, len(orders))
	for _, order := range orders {
		summaries = append(summaries, orderSummary{
			ID:             order.ID,
			OrderNumber:    order.OrderNumber,
			Title:          order.Title,
			DateSigned:     order.DateSigned,
			President:      order.President,
			Administration: order.Administration,
			URL:            order.URL,
			ChunkCount:     len(order.Chunks),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"orders": summaries,
		"count":  len(summaries),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
