package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

// setEnv sets an environment variable, ignoring errors (for test setup)
func setEnv(key, value string) {
	_ = os.Setenv(key, value)
}

// unsetEnv unsets an environment variable, ignoring errors (for test cleanup)
func unsetEnv(key string) {
	_ = os.Unsetenv(key)
}

func TestLoad(t *testing.T) {
	// Save original env vars
	originalEnv := make(map[string]string)
	envVars := []string{
		"EMBEDDING_BASE_URL", "EMBEDDING_API_KEY", "EMBEDDING_MODEL_NAME",
		"VECTOR_SIZE", "QDRANT_URL", "QDRANT_COLLECTION", "GRAPH_DB_PATH",
		"DOCS_PATH", "CHUNK_SIZE", "CHUNK_OVERLAP", "OVERFETCH_FACTOR",
		"EXPANSION_WEIGHT", "EXPAND_DEPTH", "CALL_TIMEOUT_SECONDS",
		"INDEX_WORKERS", "API_PORT", "LOG_LEVEL", "LOG_FORMAT",
	}
	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
		unsetEnv(key)
	}
	defer func() {
		for key, value := range originalEnv {
			if value != "" {
				setEnv(key, value)
			} else {
				unsetEnv(key)
			}
		}
	}()

	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name: "defaults",
			setupEnv: func(t *testing.T) {
				setEnv("GRAPH_DB_PATH", t.TempDir()+"/docgraph.db")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.VectorSize == 384 &&
					cfg.ChunkSize == 1000 &&
					cfg.ChunkOverlap == 200 &&
					cfg.OverfetchFactor == 2 &&
					cfg.ExpansionWeight == 0.1 &&
					cfg.ExpandDepth == 1 &&
					cfg.CallTimeout == 5*time.Second &&
					cfg.LogLevel == slog.LevelInfo
			},
		},
		{
			name: "explicit values",
			setupEnv: func(t *testing.T) {
				setEnv("GRAPH_DB_PATH", t.TempDir()+"/docgraph.db")
				setEnv("VECTOR_SIZE", "768")
				setEnv("CHUNK_SIZE", "500")
				setEnv("CHUNK_OVERLAP", "50")
				setEnv("EXPANSION_WEIGHT", "0.25")
				setEnv("LOG_LEVEL", "debug")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.VectorSize == 768 &&
					cfg.ChunkSize == 500 &&
					cfg.ChunkOverlap == 50 &&
					cfg.ExpansionWeight == 0.25 &&
					cfg.LogLevel == slog.LevelDebug
			},
		},
		{
			name: "overlap equal to chunk size rejected",
			setupEnv: func(t *testing.T) {
				setEnv("GRAPH_DB_PATH", t.TempDir()+"/docgraph.db")
				setEnv("CHUNK_SIZE", "200")
				setEnv("CHUNK_OVERLAP", "200")
			},
			wantErr: true,
		},
		{
			name: "overlap greater than chunk size rejected",
			setupEnv: func(t *testing.T) {
				setEnv("GRAPH_DB_PATH", t.TempDir()+"/docgraph.db")
				setEnv("CHUNK_SIZE", "100")
				setEnv("CHUNK_OVERLAP", "300")
			},
			wantErr: true,
		},
		{
			name: "zero vector size rejected",
			setupEnv: func(t *testing.T) {
				setEnv("GRAPH_DB_PATH", t.TempDir()+"/docgraph.db")
				setEnv("VECTOR_SIZE", "0")
			},
			wantErr: true,
		},
		{
			name: "non-integer vector size rejected",
			setupEnv: func(t *testing.T) {
				setEnv("GRAPH_DB_PATH", t.TempDir()+"/docgraph.db")
				setEnv("VECTOR_SIZE", "abc")
			},
			wantErr: true,
		},
		{
			name: "overfetch factor below 1 rejected",
			setupEnv: func(t *testing.T) {
				setEnv("GRAPH_DB_PATH", t.TempDir()+"/docgraph.db")
				setEnv("OVERFETCH_FACTOR", "0")
			},
			wantErr: true,
		},
		{
			name: "unknown log level rejected",
			setupEnv: func(t *testing.T) {
				setEnv("GRAPH_DB_PATH", t.TempDir()+"/docgraph.db")
				setEnv("LOG_LEVEL", "verbose")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range envVars {
				unsetEnv(key)
			}
			tt.setupEnv(t)

			cfg, err := Load()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Load() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() config validation failed: %+v", cfg)
			}
		})
	}
}
