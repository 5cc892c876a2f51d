// Package llm wraps the OpenAI and Anthropic APIs behind a single Client
// interface. Provider selection happens per request, errors are classified
// for retry decisions, and outbound calls share a rate limiter.
package llm
