// Package config provides configuration loading for boardroomd.
//
// Configuration is loaded from an optional YAML file and overridden by
// environment variables. See Load for the precedence rules.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the complete boardroomd configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Auth      AuthConfig      `koanf:"auth"`
	Store     StoreConfig     `koanf:"store"`
	Vector    VectorConfig    `koanf:"vector"`
	LLM       LLMConfig       `koanf:"llm"`
	Chunking  ChunkingConfig  `koanf:"chunking"`
	Documents DocumentsConfig `koanf:"documents"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// AuthConfig holds user authentication configuration.
type AuthConfig struct {
	JWTSecret Secret   `koanf:"jwt_secret"`
	TokenTTL  Duration `koanf:"token_ttl"`
}

// StoreConfig holds SQLite persistence configuration.
type StoreConfig struct {
	Path string `koanf:"path"`
}

// VectorConfig holds vector store configuration.
type VectorConfig struct {
	// Backend selects the vector store implementation. Only "chromem" is
	// currently supported.
	Backend string `koanf:"backend"`
	Path    string `koanf:"path"`
}

// LLMConfig holds provider client configuration.
type LLMConfig struct {
	// DefaultProvider is used when a conversation does not name one.
	DefaultProvider string `koanf:"default_provider"`

	OpenAIKey      Secret `koanf:"openai_key"`
	OpenAIModel    string `koanf:"openai_model"`
	AnthropicKey   Secret `koanf:"anthropic_key"`
	AnthropicModel string `koanf:"anthropic_model"`

	// EmbeddingModel is the OpenAI embedding model used for document chunks.
	EmbeddingModel string `koanf:"embedding_model"`

	// RequestsPerMinute caps outbound provider calls across all workspaces.
	RequestsPerMinute int     `koanf:"requests_per_minute"`
	MaxTokens         int     `koanf:"max_tokens"`
	Temperature       float64 `koanf:"temperature"`
}

// ChunkingConfig holds token budgeting configuration.
type ChunkingConfig struct {
	// BatchBudget is the token budget for one summary batch.
	BatchBudget int `koanf:"batch_budget"`
	// ContextBudget is the token budget for assembled chat context.
	ContextBudget int `koanf:"context_budget"`
	// ChunkTokens is the target size of one document chunk.
	ChunkTokens int `koanf:"chunk_tokens"`
	// OverlapTokens is the overlap between adjacent document chunks.
	OverlapTokens int `koanf:"overlap_tokens"`
}

// DocumentsConfig holds document upload configuration.
type DocumentsConfig struct {
	MaxUploadKB int `koanf:"max_upload_kb"`
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns a Config with production-ready defaults. Secrets are left
// unset and must come from the environment.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Auth: AuthConfig{
			TokenTTL: Duration(24 * time.Hour),
		},
		Store: StoreConfig{
			Path: "~/.local/share/boardroomd/boardroom.db",
		},
		Vector: VectorConfig{
			Backend: "chromem",
			Path:    "~/.local/share/boardroomd/vectors",
		},
		LLM: LLMConfig{
			DefaultProvider:   "openai",
			OpenAIModel:       "gpt-4o-mini",
			AnthropicModel:    "claude-sonnet-4-5",
			EmbeddingModel:    "text-embedding-3-small",
			RequestsPerMinute: 60,
			MaxTokens:         4096,
			Temperature:       0.3,
		},
		Chunking: ChunkingConfig{
			BatchBudget:   8000,
			ContextBudget: 6000,
			ChunkTokens:   400,
			OverlapTokens: 50,
		},
		Documents: DocumentsConfig{
			MaxUploadKB: 2048,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	if !c.Auth.JWTSecret.IsSet() {
		return errors.New("auth jwt_secret is required")
	}
	if c.Auth.TokenTTL.Duration() <= 0 {
		return errors.New("auth token_ttl must be positive")
	}
	if c.Store.Path == "" {
		return errors.New("store path is required")
	}
	if c.Vector.Backend != "chromem" {
		return fmt.Errorf("unsupported vector backend: %q", c.Vector.Backend)
	}
	switch c.LLM.DefaultProvider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unsupported default provider: %q", c.LLM.DefaultProvider)
	}
	if c.LLM.RequestsPerMinute <= 0 {
		return errors.New("llm requests_per_minute must be positive")
	}
	if c.Chunking.BatchBudget <= 0 || c.Chunking.ContextBudget <= 0 {
		return errors.New("chunking budgets must be positive")
	}
	if c.Chunking.ChunkTokens <= 0 {
		return errors.New("chunking chunk_tokens must be positive")
	}
	if c.Chunking.OverlapTokens < 0 || c.Chunking.OverlapTokens >= c.Chunking.ChunkTokens {
		return errors.New("chunking overlap_tokens must be >= 0 and smaller than chunk_tokens")
	}
	if c.Documents.MaxUploadKB <= 0 {
		return errors.New("documents max_upload_kb must be positive")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging format must be 'json' or 'console', got %q", c.Logging.Format)
	}
	return nil
}
