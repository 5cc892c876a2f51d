// Package chunking provides token budgeting for LLM calls.
//
// It estimates token counts (tiktoken when available, a character heuristic
// otherwise), packs canvas nodes into batches that fit a model's context
// budget, splits document text into overlapping chunks for embedding, and
// reconciles relationship suggestions returned by per-batch LLM calls into
// a single deduplicated, deterministically ordered list.
package chunking
