// Package strategy generates AI-assisted strategic summaries of a
// workspace canvas.
//
// Generation packs the canvas nodes into token-budgeted batches, analyzes
// each batch with the configured LLM concurrently, reconciles the suggested
// relationships across batches, and synthesizes the per-batch findings into
// a single summary that is persisted alongside the workspace.
package strategy
