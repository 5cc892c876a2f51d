package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/boardroomlabs/boardroomd/internal/chunking"
	"github.com/boardroomlabs/boardroomd/internal/llm"
	"github.com/boardroomlabs/boardroomd/internal/logging"
	"github.com/boardroomlabs/boardroomd/internal/store"
	"github.com/boardroomlabs/boardroomd/internal/vectorstore"
)

var tracer = otel.Tracer("boardroomd.chat")

var (
	// ErrEmptyMessage indicates a send with no content.
	ErrEmptyMessage = errors.New("message content is empty")

	// ErrUnsupportedProvider indicates a conversation naming an unknown
	// LLM provider.
	ErrUnsupportedProvider = errors.New("unsupported LLM provider (supported: openai, anthropic)")
)

const (
	// retrievalK is how many document chunks are pulled into each turn.
	retrievalK = 4

	// maxOutlineNodes caps how many canvas nodes appear in the system
	// prompt outline.
	maxOutlineNodes = 40

	systemPrompt = "You are a strategy advisor embedded in a boardroom canvas application. " +
		"Ground your answers in the workspace outline and document excerpts below. " +
		"Be direct and concrete; when the material does not answer the question, say so."
)

// Retriever finds document chunks relevant to a query.
type Retriever interface {
	Search(ctx context.Context, workspaceID, query string, k int) ([]vectorstore.SearchResult, error)
}

// Service drives conversations.
type Service struct {
	store     *store.Store
	retriever Retriever
	client    llm.Client
	estimator chunking.Estimator

	contextBudget   int
	defaultProvider string
	defaultModel    string
	logger          *logging.Logger
}

// Config holds chat defaults and limits.
type Config struct {
	// ContextBudget is the token budget for assembled context
	// (history plus system prompt material).
	ContextBudget int
	// DefaultProvider is used when a conversation does not name one.
	DefaultProvider string
	// DefaultModel is used when a conversation does not name one.
	DefaultModel string
}

// NewService creates the chat service.
func NewService(cfg Config, st *store.Store, retriever Retriever, client llm.Client, est chunking.Estimator, logger *logging.Logger) (*Service, error) {
	if cfg.ContextBudget <= 0 {
		return nil, errors.New("context budget must be positive")
	}
	if est == nil {
		est = chunking.HeuristicEstimator{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		store:           st,
		retriever:       retriever,
		client:          client,
		estimator:       est,
		contextBudget:   cfg.ContextBudget,
		defaultProvider: cfg.DefaultProvider,
		defaultModel:    cfg.DefaultModel,
		logger:          logger,
	}, nil
}

// CreateConversation starts a new thread. Empty provider and model fall
// back to the configured defaults.
func (s *Service) CreateConversation(ctx context.Context, workspaceID, title, provider, model string) (*store.Conversation, error) {
	if provider == "" {
		provider = s.defaultProvider
	}
	if model == "" {
		model = s.defaultModel
	}
	if provider != llm.ProviderOpenAI && provider != llm.ProviderAnthropic {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
	if title == "" {
		title = "Untitled conversation"
	}
	return s.store.CreateConversation(ctx, workspaceID, title, provider, model)
}

// SendMessage runs one conversation turn and returns the assistant reply.
func (s *Service) SendMessage(ctx context.Context, workspaceID, conversationID, content string) (*store.Message, error) {
	ctx, span := tracer.Start(ctx, "chat.SendMessage")
	defer span.End()
	span.SetAttributes(
		attribute.String("workspace_id", workspaceID),
		attribute.String("conversation_id", conversationID),
	)

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	conv, err := s.store.GetConversation(ctx, workspaceID, conversationID)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.AppendMessage(ctx, conv.ID, string(llm.RoleUser), content, 0, 0); err != nil {
		return nil, fmt.Errorf("persisting user message: %w", err)
	}

	history, err := s.store.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	system, err := s.buildSystem(ctx, workspaceID, content)
	if err != nil {
		return nil, err
	}

	budget := s.contextBudget - s.estimator.Estimate(system)
	messages := s.trimHistory(history, budget)

	resp, err := s.client.Complete(ctx, llm.Request{
		Provider: conv.Provider,
		Model:    conv.Model,
		System:   system,
		Messages: messages,
	})
	if err != nil {
		return nil, fmt.Errorf("completing chat turn: %w", err)
	}

	reply, err := s.store.AppendMessage(ctx, conv.ID, string(llm.RoleAssistant), resp.Text,
		resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	if err != nil {
		return nil, fmt.Errorf("persisting assistant message: %w", err)
	}

	s.logger.Info(ctx, "chat turn completed",
		zap.String("conversation_id", conv.ID),
		zap.String("model", resp.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)
	return reply, nil
}

// buildSystem assembles the system prompt: advisor instructions, the canvas
// outline, and document excerpts relevant to the latest user message.
func (s *Service) buildSystem(ctx context.Context, workspaceID, query string) (string, error) {
	var b strings.Builder
	b.WriteString(systemPrompt)

	nodes, err := s.store.ListNodes(ctx, workspaceID)
	if err != nil {
		return "", fmt.Errorf("loading canvas nodes: %w", err)
	}
	if len(nodes) > 0 {
		b.WriteString("\n\nWorkspace canvas:\n")
		for i, node := range nodes {
			if i >= maxOutlineNodes {
				fmt.Fprintf(&b, "... and %d more nodes\n", len(nodes)-maxOutlineNodes)
				break
			}
			fmt.Fprintf(&b, "- [%s] %s\n", node.Kind, node.Title)
		}
	}

	if s.retriever != nil {
		chunks, err := s.retriever.Search(ctx, workspaceID, query, retrievalK)
		if err != nil {
			// Retrieval is best-effort; the turn still works without it.
			s.logger.Warn(ctx, "document retrieval failed", zap.Error(err))
		} else if len(chunks) > 0 {
			b.WriteString("\nRelevant document excerpts:\n")
			for _, chunk := range chunks {
				fmt.Fprintf(&b, "---\n%s\n", chunk.Content)
			}
		}
	}

	return b.String(), nil
}

// trimHistory converts stored messages for the LLM, dropping oldest turns
// until the total estimated tokens fit the budget. The latest message is
// always kept.
func (s *Service) trimHistory(history []store.Message, budget int) []llm.Message {
	total := 0
	start := len(history)
	for i := len(history) - 1; i >= 0; i-- {
		cost := s.estimator.Estimate(history[i].Content)
		if start < len(history) && total+cost > budget {
			break
		}
		total += cost
		start = i
	}

	out := make([]llm.Message, 0, len(history)-start)
	for _, m := range history[start:] {
		out = append(out, llm.Message{Role: llm.Role(m.Role), Content: m.Content})
	}
	return out
}
