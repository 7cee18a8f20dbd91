package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"docgraph/internal/audit"
	"docgraph/internal/config"
	"docgraph/internal/docs"
	"docgraph/internal/embedding"
	"docgraph/internal/graphstore"
	"docgraph/internal/http"
	"docgraph/internal/indexer"
	"docgraph/internal/search"
	"docgraph/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize the graph store
	graph, err := graphstore.New(cfg.GraphDBPath)
	if err != nil {
		log.Fatalf("Failed to open graph store: %v", err)
	}
	defer func() {
		_ = graph.Close()
	}()

	if err := graph.Migrate(); err != nil {
		log.Fatalf("Failed to run graph store migrations: %v", err)
	}
	slog.Info("Graph store initialized", "path", cfg.GraphDBPath)

	ctx := context.Background()

	// Initialize Qdrant vector store
	vectors, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.VectorSize)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	if err := vectors.EnsureCollection(ctx, cfg.QdrantCollection); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.VectorSize)

	// Validate embedding client vector size (fail-fast)
	embedder := embedding.NewClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.VectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.VectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.VectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.VectorSize)

	chunker, err := indexer.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		log.Fatalf("Invalid chunking configuration: %v", err)
	}

	pipeline := indexer.NewPipeline(graph, vectors, embedder, cfg.QdrantCollection, chunker, cfg.CallTimeout)

	engine := search.NewEngine(
		graph,
		vectors,
		embedder,
		cfg.QdrantCollection,
		cfg.OverfetchFactor,
		cfg.ExpansionWeight,
		cfg.ExpandDepth,
		cfg.CallTimeout,
	)
	slog.Info("Query engine initialized",
		"overfetch_factor", cfg.OverfetchFactor, "expansion_weight", cfg.ExpansionWeight, "expand_depth", cfg.ExpandDepth)

	auditor := audit.NewAuditor(graph, vectors, cfg.QdrantCollection)

	deps := &http.Deps{
		Engine:     engine,
		Pipeline:   pipeline,
		Auditor:    auditor,
		Graph:      graph,
		Vectors:    vectors,
		Collection: cfg.QdrantCollection,
	}
	router := http.NewRouter(deps)

	// Start indexing in background after the router is ready
	go func() {
		indexCtx := context.Background()
		slog.Info("Starting background indexing", "docs_path", cfg.DocsPath, "workers", cfg.IndexWorkers)
		scanner := docs.NewScanner(cfg.DocsPath)
		parser := docs.NewParser()
		if err := pipeline.IndexAll(indexCtx, scanner, parser, cfg.IndexWorkers); err != nil {
			slog.Error("Indexing completed with errors", "error", err)
		} else {
			slog.Info("Indexing completed successfully")
		}
	}()

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
