package llm

import "context"

// Provider names accepted in Request.Provider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of conversation history.
type Message struct {
	Role    Role
	Content string
}

// Request describes a single completion call.
type Request struct {
	// Provider selects the backend ("openai" or "anthropic"). When empty the
	// dispatching client infers it from the model name.
	Provider string
	Model    string
	// System is the system prompt, sent the provider-appropriate way.
	System   string
	Messages []Message
	// MaxTokens caps the completion length. Zero means provider default.
	MaxTokens int
	// Temperature of 0 is omitted from the request.
	Temperature float64
}

// Usage reports token consumption for a completion.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Response is a completed LLM call.
type Response struct {
	Text       string
	Model      string
	StopReason string
	Usage      Usage
}

// Client is the completion interface the services depend on.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
