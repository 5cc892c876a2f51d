// Boardroomd is the backend daemon for the boardroom canvas application.
//
// It serves the HTTP API for workspaces, the canvas, agent conversations,
// document retrieval, and strategic summaries.
//
// Configuration is loaded from an optional YAML file and overridden by
// BOARDROOM_* environment variables. See internal/config for details.
//
// Usage:
//
//	# Start with defaults
//	boardroomd
//
//	# Configure via file and environment
//	BOARDROOM_SERVER_PORT=9090 boardroomd -config /etc/boardroomd.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/boardroomlabs/boardroomd/internal/auth"
	"github.com/boardroomlabs/boardroomd/internal/chat"
	"github.com/boardroomlabs/boardroomd/internal/chunking"
	"github.com/boardroomlabs/boardroomd/internal/config"
	"github.com/boardroomlabs/boardroomd/internal/document"
	"github.com/boardroomlabs/boardroomd/internal/embeddings"
	httpserver "github.com/boardroomlabs/boardroomd/internal/http"
	"github.com/boardroomlabs/boardroomd/internal/llm"
	"github.com/boardroomlabs/boardroomd/internal/logging"
	"github.com/boardroomlabs/boardroomd/internal/store"
	"github.com/boardroomlabs/boardroomd/internal/strategy"
	"github.com/boardroomlabs/boardroomd/internal/telemetry"
	"github.com/boardroomlabs/boardroomd/internal/vectorstore"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if args := flag.Args(); len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  boardroomd           Start the boardroomd daemon\n")
			fmt.Fprintf(os.Stderr, "  boardroomd version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server shutdown complete")
}

func printVersion() {
	fmt.Printf("boardroomd by Boardroom Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run wires all services and blocks until the context is cancelled.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.NewLogger(&logging.Config{
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Format: cfg.Logging.Format,
		Caller: true,
		Fields: map[string]string{"service": "boardroomd"},
	})
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info(ctx, "starting boardroomd",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout.Duration()))

	// Install the meter provider so HTTP, LLM, and embedding instruments
	// surface on /metrics.
	telemetryShutdown, err := telemetry.Setup(prometheus.DefaultRegisterer, "boardroomd", version)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		_ = telemetryShutdown(context.Background())
	}()

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	vectors, err := vectorstore.NewChromemStore(vectorstore.ChromemConfig{
		Path: cfg.Vector.Path,
	}, embedder, logger.Underlying())
	if err != nil {
		return fmt.Errorf("creating vector store: %w", err)
	}

	logger.Info(ctx, "storage initialized",
		zap.String("store_path", cfg.Store.Path),
		zap.String("vector_path", cfg.Vector.Path),
		zap.Int("embedding_dimension", embedder.Dimension()))

	client := newLLMClient(cfg)

	estimator := chunking.NewEstimator()

	docs, err := document.NewService(document.Config{
		ChunkTokens:    cfg.Chunking.ChunkTokens,
		OverlapTokens:  cfg.Chunking.OverlapTokens,
		MaxUploadBytes: int64(cfg.Documents.MaxUploadKB) * 1024,
	}, st, vectors, estimator, logger)
	if err != nil {
		return fmt.Errorf("creating document service: %w", err)
	}

	chatSvc, err := chat.NewService(chat.Config{
		ContextBudget:   cfg.Chunking.ContextBudget,
		DefaultProvider: cfg.LLM.DefaultProvider,
		DefaultModel:    defaultModel(cfg),
	}, st, docs, client, estimator, logger)
	if err != nil {
		return fmt.Errorf("creating chat service: %w", err)
	}

	stratSvc, err := strategyService(cfg, st, client, estimator, logger)
	if err != nil {
		return fmt.Errorf("creating strategy service: %w", err)
	}

	tokens, err := auth.NewTokenManager([]byte(cfg.Auth.JWTSecret.Value()), cfg.Auth.TokenTTL.Duration())
	if err != nil {
		return fmt.Errorf("creating token manager: %w", err)
	}

	srv, err := httpserver.NewServer(&httpserver.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}, httpserver.Deps{
		Store:     st,
		Tokens:    tokens,
		Chat:      chatSvc,
		Documents: docs,
		Strategy:  stratSvc,
	}, logger)
	if err != nil {
		return fmt.Errorf("creating http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newEmbedder selects the embedding backend. Without an OpenAI key the
// hash embedder keeps document search functional offline.
func newEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	if cfg.LLM.OpenAIKey.IsSet() {
		return embeddings.NewEmbedder(embeddings.ProviderConfig{
			Provider: "openai",
			Model:    cfg.LLM.EmbeddingModel,
			APIKey:   cfg.LLM.OpenAIKey.Value(),
		})
	}
	return embeddings.NewEmbedder(embeddings.ProviderConfig{Provider: "hash"})
}

// newLLMClient assembles the provider-dispatching client with completion
// defaults and the outbound rate limit.
func newLLMClient(cfg *config.Config) llm.Client {
	multi := llm.NewMultiProviderClient(
		llm.NewOpenAIClient(cfg.LLM.OpenAIKey.Value()),
		llm.NewAnthropicClient(cfg.LLM.AnthropicKey.Value()),
	)
	withDefaults := llm.NewDefaultsClient(multi, cfg.LLM.MaxTokens, cfg.LLM.Temperature)
	return llm.NewRateLimitedClient(withDefaults, cfg.LLM.RequestsPerMinute)
}

func strategyService(cfg *config.Config, st *store.Store, client llm.Client, est chunking.Estimator, logger *logging.Logger) (*strategy.Service, error) {
	return strategy.NewService(strategy.Config{
		BatchBudget: cfg.Chunking.BatchBudget,
		Provider:    cfg.LLM.DefaultProvider,
		Model:       defaultModel(cfg),
	}, st, client, est, logger)
}

// defaultModel picks the configured model for the default provider.
func defaultModel(cfg *config.Config) string {
	if cfg.LLM.DefaultProvider == llm.ProviderAnthropic {
		return cfg.LLM.AnthropicModel
	}
	return cfg.LLM.OpenAIModel
}
