// Package embeddings provides embedding generation for document retrieval.
//
// Two providers are supported: "openai" calls the OpenAI embeddings API, and
// "hash" produces deterministic local vectors for tests and offline
// development. Both implement the Embedder interface consumed by the
// vector store.
package embeddings
