package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the service.
type Config struct {
	// Embedding service
	EmbeddingBaseURL   string
	EmbeddingAPIKey    string
	EmbeddingModelName string
	VectorSize         int

	// Qdrant
	QdrantURL        string
	QdrantCollection string

	// Graph store (SQLite)
	GraphDBPath string

	// Document source
	DocsPath string

	// Chunking
	ChunkSize    int
	ChunkOverlap int

	// Query engine
	OverfetchFactor int
	ExpansionWeight float64
	ExpandDepth     int
	CallTimeout     time.Duration

	// Indexing
	IndexWorkers int

	// Server
	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the current directory or an ancestor is loaded first;
// variables already set in the environment take precedence.
// Invalid combinations (overlap >= chunk size, vector size <= 0) are rejected
// here so they never reach chunking or indexing time.
func Load() (*Config, error) {
	_ = godotenv.Load()

	// Walk up a few levels looking for a project-root .env (where go.mod lives).
	if wd, err := os.Getwd(); err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingAPIKey:    getEnv("EMBEDDING_API_KEY", "dummy-key"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "all-MiniLM-L6-v2"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "document_chunks"),
		GraphDBPath:        getEnv("GRAPH_DB_PATH", "./data/docgraph.db"),
		DocsPath:           getEnv("DOCS_PATH", ""),
		APIPort:            getEnv("API_PORT", "9000"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	var err error

	// VECTOR_SIZE must match the embedding model's output dimension. If it
	// changes, the Qdrant collection must be recreated.
	if cfg.VectorSize, err = getEnvInt("VECTOR_SIZE", 384); err != nil {
		return nil, err
	}
	if cfg.VectorSize <= 0 {
		return nil, fmt.Errorf("VECTOR_SIZE must be greater than 0")
	}

	if cfg.ChunkSize, err = getEnvInt("CHUNK_SIZE", 1000); err != nil {
		return nil, err
	}
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("CHUNK_SIZE must be greater than 0")
	}
	if cfg.ChunkOverlap, err = getEnvInt("CHUNK_OVERLAP", 200); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE): got overlap %d, size %d", cfg.ChunkOverlap, cfg.ChunkSize)
	}

	if cfg.OverfetchFactor, err = getEnvInt("OVERFETCH_FACTOR", 2); err != nil {
		return nil, err
	}
	if cfg.OverfetchFactor < 1 {
		return nil, fmt.Errorf("OVERFETCH_FACTOR must be at least 1")
	}

	if cfg.ExpandDepth, err = getEnvInt("EXPAND_DEPTH", 1); err != nil {
		return nil, err
	}
	if cfg.ExpandDepth < 0 {
		return nil, fmt.Errorf("EXPAND_DEPTH must not be negative")
	}

	weightStr := getEnv("EXPANSION_WEIGHT", "0.1")
	cfg.ExpansionWeight, err = strconv.ParseFloat(weightStr, 64)
	if err != nil {
		return nil, fmt.Errorf("EXPANSION_WEIGHT must be a valid float: %w", err)
	}
	if cfg.ExpansionWeight < 0 {
		return nil, fmt.Errorf("EXPANSION_WEIGHT must not be negative")
	}

	timeoutSec, err := getEnvInt("CALL_TIMEOUT_SECONDS", 5)
	if err != nil {
		return nil, err
	}
	if timeoutSec <= 0 {
		return nil, fmt.Errorf("CALL_TIMEOUT_SECONDS must be greater than 0")
	}
	cfg.CallTimeout = time.Duration(timeoutSec) * time.Second

	if cfg.IndexWorkers, err = getEnvInt("INDEX_WORKERS", 4); err != nil {
		return nil, err
	}
	if cfg.IndexWorkers < 1 {
		return nil, fmt.Errorf("INDEX_WORKERS must be at least 1")
	}

	switch strings.ToLower(getEnv("LOG_LEVEL", "info")) {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "info":
		cfg.LogLevel = slog.LevelInfo
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}

	// Create the data directory for the graph DB file if needed.
	dataDir := filepath.Dir(cfg.GraphDBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}
