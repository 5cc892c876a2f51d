package strategy

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/boardroomlabs/boardroomd/internal/chunking"
	"github.com/boardroomlabs/boardroomd/internal/llm"
	"github.com/boardroomlabs/boardroomd/internal/logging"
	"github.com/boardroomlabs/boardroomd/internal/store"
)

var tracer = otel.Tracer("boardroomd.strategy")

// ErrEmptyCanvas indicates a summary request for a workspace with no nodes.
var ErrEmptyCanvas = errors.New("workspace canvas has no nodes")

const defaultConcurrency = 3

// Result is a generated summary plus the relationships the model suggested
// between canvas nodes. Relationships are suggestions; callers decide
// whether to turn them into edges.
type Result struct {
	Summary       *store.Summary          `json:"summary"`
	Relationships []chunking.Relationship `json:"relationships"`
}

// Service generates strategy summaries.
type Service struct {
	store       *store.Store
	client      llm.Client
	packer      *chunking.Packer
	provider    string
	model       string
	concurrency int
	logger      *logging.Logger
}

// Config holds summarization settings.
type Config struct {
	// BatchBudget is the token budget per analysis batch.
	BatchBudget int
	// Concurrency bounds how many batch analyses run at once.
	Concurrency int
	// Provider and Model select the LLM used for analysis and synthesis.
	Provider string
	Model    string
}

// NewService creates the strategy service.
func NewService(cfg Config, st *store.Store, client llm.Client, est chunking.Estimator, logger *logging.Logger) (*Service, error) {
	packer, err := chunking.NewPacker(est, cfg.BatchBudget)
	if err != nil {
		return nil, fmt.Errorf("creating packer: %w", err)
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		store:       st,
		client:      client,
		packer:      packer,
		provider:    cfg.Provider,
		model:       cfg.Model,
		concurrency: cfg.Concurrency,
		logger:      logger,
	}, nil
}

// Generate analyzes the workspace canvas and persists a new summary.
func (s *Service) Generate(ctx context.Context, workspaceID string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "strategy.Generate")
	defer span.End()
	span.SetAttributes(attribute.String("workspace_id", workspaceID))

	nodes, err := s.store.ListNodes(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("loading canvas nodes: %w", err)
	}
	if len(nodes) == 0 {
		return nil, ErrEmptyCanvas
	}

	knownIDs := make(map[string]bool, len(nodes))
	packNodes := make([]chunking.Node, len(nodes))
	for i, node := range nodes {
		knownIDs[node.ID] = true
		packNodes[i] = chunking.Node{
			ID:      node.ID,
			Title:   fmt.Sprintf("[%s] %s", node.Kind, node.Title),
			Content: node.Content,
		}
	}

	batches := s.packer.Pack(packNodes)
	span.SetAttributes(
		attribute.Int("node_count", len(nodes)),
		attribute.Int("batch_count", len(batches)),
	)
	s.logger.Info(ctx, "analyzing canvas",
		zap.String("workspace_id", workspaceID),
		zap.Int("nodes", len(nodes)),
		zap.String("batches", chunking.Describe(batches)),
	)

	analyses := make([]batchAnalysis, len(batches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, batch := range batches {
		g.Go(func() error {
			analysis, err := s.analyzeBatch(gctx, batch)
			if err != nil {
				return fmt.Errorf("analyzing batch %d of %d: %w", i+1, len(batches), err)
			}
			analyses[i] = analysis
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var themes []string
	batchRels := make([][]chunking.Relationship, len(analyses))
	for i, analysis := range analyses {
		themes = append(themes, analysis.Themes...)
		batchRels[i] = analysis.Relationships
	}
	relationships := chunking.ReconcileRelationships(batchRels, knownIDs)

	content, err := s.synthesize(ctx, themes)
	if err != nil {
		return nil, fmt.Errorf("synthesizing summary: %w", err)
	}

	summary, err := s.store.CreateSummary(ctx, workspaceID, content, s.model, len(nodes), len(batches))
	if err != nil {
		return nil, fmt.Errorf("persisting summary: %w", err)
	}

	s.logger.Info(ctx, "summary generated",
		zap.String("workspace_id", workspaceID),
		zap.String("summary_id", summary.ID),
		zap.Int("relationships", len(relationships)),
	)
	return &Result{Summary: summary, Relationships: relationships}, nil
}

// analyzeBatch runs one analysis call and parses its JSON response.
func (s *Service) analyzeBatch(ctx context.Context, batch chunking.Batch) (batchAnalysis, error) {
	resp, err := s.client.Complete(ctx, llm.Request{
		Provider: s.provider,
		Model:    s.model,
		System:   analysisSystemPrompt,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: buildAnalysisPrompt(batch)}},
	})
	if err != nil {
		return batchAnalysis{}, err
	}
	return parseAnalysis(resp.Text)
}

// synthesize turns the collected themes into the final summary text.
func (s *Service) synthesize(ctx context.Context, themes []string) (string, error) {
	if len(themes) == 0 {
		return "The canvas does not yet contain enough material for a summary.", nil
	}
	resp, err := s.client.Complete(ctx, llm.Request{
		Provider: s.provider,
		Model:    s.model,
		System:   synthesisSystemPrompt,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: buildSynthesisPrompt(themes)}},
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// List returns the workspace's summaries, newest first.
func (s *Service) List(ctx context.Context, workspaceID string) ([]store.Summary, error) {
	return s.store.ListSummaries(ctx, workspaceID)
}

// Get returns one summary.
func (s *Service) Get(ctx context.Context, workspaceID, id string) (*store.Summary, error) {
	return s.store.GetSummary(ctx, workspaceID, id)
}
