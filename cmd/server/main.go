package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jalextowle/what-the-gov/internal/api"
	"github.com/jalextowle/what-the-gov/internal/config"
	"github.com/jalextowle/what-the-gov/internal/db"
	"github.com/jalextowle/what-the-gov/internal/fedreg"
	"github.com/jalextowle/what-the-gov/internal/openai"
	"github.com/jalextowle/what-the-gov/internal/repository"
	"github.com/jalextowle/what-the-gov/internal/services"
	"github.com/jalextowle/what-the-gov/internal/telemetry"
)

func main() {
	log.Println("🚀 Starting what-the-gov...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Initialize Jaeger tracing before anything that creates spans
	jaegerShutdown, err := telemetry.InitJaeger("what-the-gov", cfg.JaegerEndpoint)
	if err != nil {
		log.Printf("⚠️  Failed to initialize Jaeger: %v (continuing without tracing)", err)
		jaegerShutdown = func(ctx context.Context) error { return nil }
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := jaegerShutdown(ctx); err != nil {
			log.Printf("⚠️  Failed to shutdown Jaeger: %v", err)
		}
	}()

	// Initialize GORM database
	database, err := db.NewGorm(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer database.Close()

	// External clients. A missing OpenAI key is not fatal here; the handlers
	// that need it report a configuration error per request.
	openaiClient := openai.NewClient(cfg.OpenAIAPIKey)
	registryClient := fedreg.NewClient(cfg.RegistryBaseURL)
	if openaiClient.Configured() {
		log.Println("✓ OpenAI client initialized")
	} else {
		log.Println("⚠️  OPENAI_API_KEY not set; ingest and chat will fail until it is")
	}

	// Repositories over the single store handle
	orderRepo := repository.NewOrderRepository(database.DB)
	chunkRepo := repository.NewChunkRepository(database.DB)

	// Pipeline services
	ingestService := services.NewIngestService(registryClient, orderRepo)
	processorService := services.NewProcessorService(openaiClient, orderRepo, chunkRepo, cfg.ChunkSize, cfg.ChunkOverlap)
	chatService := services.NewChatService(openaiClient, orderRepo, cfg.RetrievalTopK)

	// Handlers and routes
	handler := api.NewHandler(
		ingestService,
		processorService,
		chatService,
		orderRepo,
		cfg.IngestYears,
		openaiClient.Configured,
	)
	router := api.SetupRoutes(handler)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // ingest runs the whole pipeline inline
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server listening on http://%s", addr)
		log.Printf("📚 API Endpoints:")
		log.Printf("   POST   /api/ingest  - Fetch, store, and embed executive orders")
		log.Printf("   POST   /api/chat    - Ask a question about stored orders")
		log.Printf("   GET    /api/orders  - List stored orders")
		log.Printf("   GET    /api/health  - Liveness check")
		log.Println()

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}

	log.Println("✓ Server shutdown complete")
}
