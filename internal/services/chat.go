package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jalextowle/what-the-gov/internal/middleware"
	"github.com/jalextowle/what-the-gov/internal/models"
	"github.com/jalextowle/what-the-gov/internal/openai"

	"go.opentelemetry.io/otel/attribute"
)

// Sentinel answers returned without calling the completion service.
const (
	AnswerNoOrders = "No Executive Orders have been ingested yet. Please run the /api/ingest endpoint first."
	AnswerNoChunks = "No chunks found in the database. Please run the /api/ingest endpoint to process the documents."
)

// ChatTurn is one prior human/assistant exchange. Only turns with both sides
// present are rendered into the prompt.
type ChatTurn struct {
	Human string `json:"human"`
	AI    string `json:"ai"`
}

// ChatService answers questions about stored executive orders. Each request
// rebuilds the retrieval index from every stored chunk, retrieves the top-k
// most similar chunks, and composes a grounded prompt for the language model.
type ChatService struct {
	ai     LanguageModelClient
	orders OrderRepository
	topK   int
}

// NewChatService creates a new chat service.
func NewChatService(ai LanguageModelClient, orders OrderRepository, topK int) *ChatService {
	if topK <= 0 {
		topK = 3
	}
	return &ChatService{
		ai:     ai,
		orders: orders,
		topK:   topK,
	}
}

// Answer runs the full query path for one question: load orders, build the
// index, retrieve context, compose the prompt, and return the model's raw
// response text.
func (s *ChatService) Answer(ctx context.Context, message string, history []ChatTurn) (string, error) {
	ctx, span := middleware.StartSpan(ctx, "Chat.Answer",
		attribute.Int("history_turns", len(history)),
	)
	defer span.End()

	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		middleware.AddSpanError(ctx, err)
		return "", fmt.Errorf("failed to load executive orders: %w", err)
	}
	if len(orders) == 0 {
		return AnswerNoOrders, nil
	}

	index := BuildIndex(orders)
	if index.Len() == 0 {
		return AnswerNoChunks, nil
	}

	queryVectors, err := s.ai.CreateEmbeddings(ctx, []string{message})
	if err != nil {
		middleware.AddSpanError(ctx, err)
		return "", fmt.Errorf("failed to embed question: %w", err)
	}

	retrieved := index.Query(queryVectors[0], s.topK)

	prompt := composePrompt(summarizeOrders(orders), formatHistory(history), retrieved, message)

	// Log the prompt for debugging
	log.Printf("Generated prompt:\n%s", prompt)

	answer, err := s.ai.ChatCompletion(ctx, []openai.Message{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		middleware.AddSpanError(ctx, err)
		return "", fmt.Errorf("failed to get completion: %w", err)
	}

	middleware.AddSpanEvent(ctx, "chat_completed",
		attribute.Int("indexed_chunks", index.Len()),
		attribute.Int("context_chunks", len(retrieved)),
		attribute.Int("answer_length", len(answer)),
	)

	return answer, nil
}

// summarizeOrders groups all orders by administration, then by signing year
// within the administration, listing order number and title per record.
// Administrations appear in first-seen order over the date-sorted input, not
// alphabetically; years within an administration are ascending.
func summarizeOrders(orders []*models.ExecutiveOrder) string {
	type yearGroup struct {
		year   int
		orders []*models.ExecutiveOrder
	}
	type adminGroup struct {
		name  string
		total int
		years []*yearGroup
	}

	var admins []*adminGroup
	adminByName := make(map[string]*adminGroup)

	for _, order := range orders {
		admin, ok := adminByName[order.Administration]
		if !ok {
			admin = &adminGroup{name: order.Administration}
			adminByName[order.Administration] = admin
			admins = append(admins, admin)
		}

		year := order.DateSigned.Year()
		var group *yearGroup
		for _, yg := range admin.years {
			if yg.year == year {
				group = yg
				break
			}
		}
		if group == nil {
			group = &yearGroup{year: year}
			// Insert keeping years ascending
			pos := len(admin.years)
			for i, yg := range admin.years {
				if year < yg.year {
					pos = i
					break
				}
			}
			admin.years = append(admin.years, nil)
			copy(admin.years[pos+1:], admin.years[pos:])
			admin.years[pos] = group
		}
		group.orders = append(group.orders, order)
		admin.total++
	}

	var b strings.Builder
	for _, admin := range admins {
		fmt.Fprintf(&b, "\n%s:\n", admin.name)
		fmt.Fprintf(&b, "Total Executive Orders: %d\n", admin.total)
		for _, yg := range admin.years {
			fmt.Fprintf(&b, "\n%d (%d orders):\n", yg.year, len(yg.orders))
			for _, order := range yg.orders {
				fmt.Fprintf(&b, "- EO %s: %s\n", order.OrderNumber, order.Title)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatHistory renders prior turns as alternating Human/Assistant lines.
// Turns missing either side are dropped.
func formatHistory(history []ChatTurn) string {
	var b strings.Builder
	for _, turn := range history {
		if strings.TrimSpace(turn.Human) == "" || strings.TrimSpace(turn.AI) == "" {
			continue
		}
		fmt.Fprintf(&b, "Human: %s\nAssistant: %s\n\n", turn.Human, turn.AI)
	}
	return b.String()
}

// composePrompt assembles the grounded prompt: instruction preamble, order
// summary, conversation history, the question, and the retrieved chunks, each
// cited with its source order number.
func composePrompt(summary, history string, retrieved []RetrievedChunk, question string) string {
	contextParts := make([]string, 0, len(retrieved))
	for _, chunk := range retrieved {
		contextParts = append(contextParts, fmt.Sprintf("%s\n\nSource: Executive Order %s", chunk.Content, chunk.OrderNumber))
	}
	context := strings.Join(contextParts, "\n\n")

	return fmt.Sprintf(`You are an AI assistant helping users understand Executive Orders. You have access to a database of real Executive Orders sourced directly from the Federal Register. Here is a summary of all available Executive Orders:

%s

Important notes:
1. The above data comes directly from the Federal Register, which is the official source for U.S. Executive Orders
2. Donald J. Trump became president on January 20, 2025, succeeding Joseph R. Biden
3. For questions about Executive Orders from other time periods, I will inform you about this limitation

When answering questions:
1. Use the above summary to answer questions about counts, dates, and titles
2. Be specific about which administration issued each order
3. If asked about an executive order not in our database, clearly state that it's not in our current dataset
4. If relevant, mention when orders were signed relative to key events or other orders
5. DO NOT include any source citations or references in your response

Current conversation:
%s

Question: %s

Additional context from the executive orders:
%s

Answer: `, summary, history, question, context)
}
