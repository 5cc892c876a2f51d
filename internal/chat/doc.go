// Package chat runs workspace conversations with an AI agent.
//
// Each turn persists the user message, assembles a context window from the
// conversation history, the workspace canvas outline, and the most relevant
// document chunks, calls the configured LLM provider, and persists the
// assistant reply with its token usage. History is trimmed oldest-first to
// keep the assembled context inside the configured token budget.
package chat
